// Package jsonfile loads transaction records from JSON documents. Each
// document is an array of objects; the transaction id may be given as "mtn"
// or "transactionId" and the amount as a number or a quoted string.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"txquery/internal/core"
	applog "txquery/internal/log"
	"txquery/internal/sources"
)

var (
	ErrNoPaths      = errors.New("no json documents configured")
	ErrConflictedID = errors.New("mtn and transactionId disagree")
	ErrNullDocument = errors.New("document is null, expected an array")
)

type record struct {
	MTN                 *int64              `json:"mtn"`
	TransactionID       *int64              `json:"transactionId"`
	Amount              decimal.NullDecimal `json:"amount"`
	SenderFullName      string              `json:"senderFullName"`
	SenderAge           int                 `json:"senderAge"`
	BeneficiaryFullName string              `json:"beneficiaryFullName"`
	BeneficiaryAge      int                 `json:"beneficiaryAge"`
	IssueID             *int64              `json:"issueId"`
	IssueSolved         bool                `json:"issueSolved"`
	IssueMessage        *string             `json:"issueMessage"`
}

func (r record) toCore() (core.TransactionRecord, error) {
	id := r.MTN
	switch {
	case id == nil:
		id = r.TransactionID
	case r.TransactionID != nil && *r.TransactionID != *id:
		return core.TransactionRecord{}, ErrConflictedID
	}
	if id == nil {
		return core.TransactionRecord{}, core.ErrMissingTransactionID
	}
	if !r.Amount.Valid {
		return core.TransactionRecord{}, core.ErrMissingAmount
	}
	out := core.TransactionRecord{
		TransactionID:       *id,
		Amount:              r.Amount.Decimal,
		SenderFullName:      r.SenderFullName,
		SenderAge:           r.SenderAge,
		BeneficiaryFullName: r.BeneficiaryFullName,
		BeneficiaryAge:      r.BeneficiaryAge,
		IssueID:             r.IssueID,
		IssueSolved:         r.IssueSolved,
		IssueMessage:        r.IssueMessage,
	}
	if err := out.Validate(); err != nil {
		return core.TransactionRecord{}, err
	}
	return out, nil
}

// Decode reads one JSON document. Unknown fields and trailing data are errors.
func Decode(r io.Reader) ([]core.TransactionRecord, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var raw []record
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if dec.More() {
		return nil, errors.New("decode: unexpected data after array")
	}
	if raw == nil {
		return nil, fmt.Errorf("decode: %w", ErrNullDocument)
	}

	out := make([]core.TransactionRecord, 0, len(raw))
	for i, r := range raw {
		rec, err := r.toCore()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Source reads records from a fixed list of files.
type Source struct {
	paths []string
}

func NewSource(paths ...string) *Source {
	return &Source{paths: append([]string(nil), paths...)}
}

// Load decodes every file concurrently and concatenates the results in the
// order the paths were given.
func (s *Source) Load(ctx context.Context) ([]core.TransactionRecord, error) {
	if len(s.paths) == 0 {
		return nil, fmt.Errorf("%w: %w", sources.ErrLoad, ErrNoPaths)
	}

	parts := make([][]core.TransactionRecord, len(s.paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range s.paths {
		g.Go(func() error {
			recs, err := readFile(ctx, path)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", sources.ErrLoad, path, err)
			}
			parts[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]core.TransactionRecord, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	slog.DebugContext(ctx, "JSON documents decoded",
		applog.FieldComponent, applog.ComponentSource,
		"documents", len(s.paths),
		applog.FieldRecords, len(out))
	return out, nil
}

func readFile(ctx context.Context, path string) ([]core.TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data))
}
