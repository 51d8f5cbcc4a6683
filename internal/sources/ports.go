package sources

import (
	"context"
	"errors"

	"txquery/internal/core"
)

// ErrLoad marks every failure to produce a record snapshot.
var ErrLoad = errors.New("load transactions")

// Ports for inbound adapters.
type (
	// RecordSource produces the full list of records in source order.
	// Either all records are returned or an error wrapping ErrLoad.
	RecordSource interface {
		Load(ctx context.Context) ([]core.TransactionRecord, error)
	}

	// RecordImporter stores records so a later Load returns them in the same order.
	RecordImporter interface {
		ImportRecords(ctx context.Context, records []core.TransactionRecord) (int, error)
	}
)
