package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"txquery/internal/core"
	applog "txquery/internal/log"
	"txquery/internal/sources"

	_ "modernc.org/sqlite"
)

const (
	insertTransaction = `INSERT INTO transactions (
	transaction_id, amount, sender_full_name, sender_age,
	beneficiary_full_name, beneficiary_age, issue_id, issue_solved, issue_message
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectTransactions = `SELECT transaction_id, amount, sender_full_name, sender_age,
	beneficiary_full_name, beneficiary_age, issue_id, issue_solved, issue_message
FROM transactions ORDER BY row_id`

	countTransactions = `SELECT COUNT(*) FROM transactions`
)

var (
	_ sources.RecordSource   = (*SQLiteRepository)(nil)
	_ sources.RecordImporter = (*SQLiteRepository)(nil)
)

// SQLiteRepository keeps imported records in insertion order. Amounts are
// stored as decimal text so they read back exactly.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath, Migrations())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("SQLite schema ready",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldPath, dbPath,
		applog.FieldSchema, version)

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ImportRecords validates and inserts records in one transaction. Nothing is
// written if any record is rejected.
func (r *SQLiteRepository) ImportRecords(ctx context.Context, records []core.TransactionRecord) (int, error) {
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return 0, fmt.Errorf("record %d (transaction %d): %w", i, rec.TransactionID, err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertTransaction)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.TransactionID,
			rec.Amount.String(),
			rec.SenderFullName,
			rec.SenderAge,
			rec.BeneficiaryFullName,
			rec.BeneficiaryAge,
			nullInt64(rec.IssueID),
			rec.IssueSolved,
			nullString(rec.IssueMessage),
		); err != nil {
			return 0, fmt.Errorf("insert transaction %d: %w", rec.TransactionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Transactions imported to SQLite",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, applog.OpImport,
		applog.FieldRecords, len(records))
	return len(records), nil
}

// LoadRecords returns every stored record in insertion order.
func (r *SQLiteRepository) LoadRecords(ctx context.Context) ([]core.TransactionRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectTransactions)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.TransactionRecord
	for rows.Next() {
		var (
			rec     core.TransactionRecord
			amount  string
			issueID sql.NullInt64
			message sql.NullString
		)
		if err := rows.Scan(
			&rec.TransactionID,
			&amount,
			&rec.SenderFullName,
			&rec.SenderAge,
			&rec.BeneficiaryFullName,
			&rec.BeneficiaryAge,
			&issueID,
			&rec.IssueSolved,
			&message,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		rec.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: amount %q: %w", rec.TransactionID, amount, err)
		}
		if issueID.Valid {
			rec.IssueID = &issueID.Int64
		}
		if message.Valid {
			rec.IssueMessage = &message.String
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Load implements sources.RecordSource.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.TransactionRecord, error) {
	recs, err := r.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: sqlite: %w", sources.ErrLoad, err)
	}
	return recs, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countTransactions).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
