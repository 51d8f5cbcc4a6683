package google

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"txquery/internal/core"
)

var (
	ErrNoHeader      = errors.New("missing header row")
	ErrUnknownColumn = errors.New("unknown column")
	ErrMissingColumn = errors.New("missing column")
)

type column int

const (
	colID column = iota
	colAmount
	colSender
	colSenderAge
	colBeneficiary
	colBeneficiaryAge
	colIssueID
	colIssueSolved
	colIssueMessage
	numColumns
)

var columnNames = map[string]column{
	"mtn":                 colID,
	"transactionid":       colID,
	"amount":              colAmount,
	"senderfullname":      colSender,
	"senderage":           colSenderAge,
	"beneficiaryfullname": colBeneficiary,
	"beneficiaryage":      colBeneficiaryAge,
	"issueid":             colIssueID,
	"issuesolved":         colIssueSolved,
	"issuemessage":        colIssueMessage,
}

// parseRows converts a value matrix into records. Header names match the JSON
// field names, case-insensitively. Blank rows are skipped.
func parseRows(values [][]interface{}) ([]core.TransactionRecord, error) {
	if len(values) == 0 {
		return nil, ErrNoHeader
	}
	layout, err := parseHeader(toStrings(values[0]))
	if err != nil {
		return nil, err
	}

	out := make([]core.TransactionRecord, 0, len(values)-1)
	for i, raw := range values[1:] {
		row := toStrings(raw)
		if isBlank(row) {
			continue
		}
		rec, err := parseRow(row, layout)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// parseHeader maps each known column to its cell index, -1 when absent.
func parseHeader(header []string) ([numColumns]int, error) {
	var layout [numColumns]int
	for i := range layout {
		layout[i] = -1
	}
	for i, name := range header {
		key := strings.ToLower(strings.ReplaceAll(name, " ", ""))
		if key == "" {
			continue
		}
		col, ok := columnNames[key]
		if !ok {
			return layout, fmt.Errorf("%w %q", ErrUnknownColumn, name)
		}
		if layout[col] >= 0 {
			return layout, fmt.Errorf("duplicate column %q", name)
		}
		layout[col] = i
	}
	for _, col := range []column{colID, colAmount, colSender, colBeneficiary} {
		if layout[col] < 0 {
			return layout, fmt.Errorf("%w for %s", ErrMissingColumn, col)
		}
	}
	return layout, nil
}

func parseRow(row []string, layout [numColumns]int) (core.TransactionRecord, error) {
	cell := func(c column) string {
		return safeGet(row, layout[c])
	}

	var rec core.TransactionRecord
	id := cell(colID)
	if id == "" {
		return rec, core.ErrMissingTransactionID
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return rec, fmt.Errorf("transaction id %q: %w", id, err)
	}
	rec.TransactionID = n

	amount := cell(colAmount)
	if amount == "" {
		return rec, core.ErrMissingAmount
	}
	if rec.Amount, err = core.ParseAmount(amount); err != nil {
		return rec, err
	}

	rec.SenderFullName = cell(colSender)
	rec.BeneficiaryFullName = cell(colBeneficiary)
	if rec.SenderAge, err = parseAge(cell(colSenderAge)); err != nil {
		return rec, err
	}
	if rec.BeneficiaryAge, err = parseAge(cell(colBeneficiaryAge)); err != nil {
		return rec, err
	}

	if v := cell(colIssueID); v != "" {
		issueID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return rec, fmt.Errorf("issue id %q: %w", v, err)
		}
		rec.IssueID = &issueID
	}
	if v := cell(colIssueSolved); v != "" {
		if rec.IssueSolved, err = strconv.ParseBool(strings.ToLower(v)); err != nil {
			return rec, fmt.Errorf("issue solved %q: %w", v, err)
		}
	}
	if v := cell(colIssueMessage); v != "" {
		rec.IssueMessage = &v
	}

	return rec, rec.Validate()
}

func parseAge(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidAge, s)
	}
	return n, nil
}

func (c column) String() string {
	switch c {
	case colID:
		return "mtn"
	case colAmount:
		return "amount"
	case colSender:
		return "senderFullName"
	case colBeneficiary:
		return "beneficiaryFullName"
	default:
		return "column " + strconv.Itoa(int(c))
	}
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch x := v.(type) {
		case float64:
			// unformatted numbers arrive as float64
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		case nil:
			out[i] = ""
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
