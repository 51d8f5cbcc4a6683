package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.openly.dev/pointy"
)

type (
	// TransactionRecord is one reported instance of a money transfer.
	// Several records may share a TransactionID when the same transfer was
	// reported more than once.
	TransactionRecord struct {
		TransactionID       int64
		Amount              decimal.Decimal
		SenderFullName      string
		SenderAge           int
		BeneficiaryFullName string
		BeneficiaryAge      int
		IssueID             *int64  // nil when the transfer has no compliance issue
		IssueSolved         bool    // meaningful only when IssueID is set
		IssueMessage        *string // optional
	}
)

var (
	ErrMissingTransactionID = errors.New("missing transaction id")
	ErrMissingAmount        = errors.New("missing amount")
	ErrNegativeAmount       = errors.New("negative amount")
	ErrEmptySender          = errors.New("empty sender name")
	ErrEmptyBeneficiary     = errors.New("empty beneficiary name")
	ErrInvalidAge           = errors.New("invalid age")
)

// HasIssue reports whether a compliance issue is attached to the transfer.
func (t TransactionRecord) HasIssue() bool {
	return t.IssueID != nil
}

// HasOpenIssue reports whether the attached compliance issue is still unsolved.
func (t TransactionRecord) HasOpenIssue() bool {
	return t.IssueID != nil && !t.IssueSolved
}

// HasSolvedIssue reports whether the attached compliance issue was solved.
func (t TransactionRecord) HasSolvedIssue() bool {
	return t.IssueID != nil && t.IssueSolved
}

// Involves reports whether name is the sender or the beneficiary.
func (t TransactionRecord) Involves(name string) bool {
	return t.SenderFullName == name || t.BeneficiaryFullName == name
}

// Message returns the issue message, or "" when there is none.
func (t TransactionRecord) Message() string {
	if t.IssueMessage == nil {
		return ""
	}
	return *t.IssueMessage
}

// Clone returns a copy that shares no pointers with t.
func (t TransactionRecord) Clone() TransactionRecord {
	c := t
	if t.IssueID != nil {
		c.IssueID = pointy.Int64(*t.IssueID)
	}
	if t.IssueMessage != nil {
		c.IssueMessage = pointy.String(*t.IssueMessage)
	}
	return c
}

func (t TransactionRecord) Validate() error {
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if strings.TrimSpace(t.SenderFullName) == "" {
		return ErrEmptySender
	}
	if strings.TrimSpace(t.BeneficiaryFullName) == "" {
		return ErrEmptyBeneficiary
	}
	if t.SenderAge < 0 || t.BeneficiaryAge < 0 {
		return ErrInvalidAge
	}
	return nil
}
