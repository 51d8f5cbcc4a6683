package amqp

import (
	"encoding/json"
	"time"

	"txquery/internal/report"
)

const ReportMessageType = "transaction.report"

// ReportMessage carries a full report so consumers need no access to the data.
type ReportMessage struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	Source      string        `json:"source,omitempty"`
	Report      report.Report `json:"report"`
}

func NewReportMessage(source string, r report.Report, at time.Time) *ReportMessage {
	return &ReportMessage{
		GeneratedAt: at.UTC(),
		Source:      source,
		Report:      r,
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportMessageFromJSON creates a message from JSON bytes
func ReportMessageFromJSON(data []byte) (*ReportMessage, error) {
	var msg ReportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
