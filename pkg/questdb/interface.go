package questdb

import (
	"context"

	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=questdb_mock

// RowsInterface wraps pgx.Rows for mocking
type RowsInterface interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

// RowsWrapper wraps pgx.Rows to implement RowsInterface
type RowsWrapper struct {
	rows pgx.Rows
}

// NewRowsWrapper creates a new RowsWrapper.
func NewRowsWrapper(rows pgx.Rows) RowsInterface {
	return &RowsWrapper{rows: rows}
}

// Next returns true if there are more rows to read.
func (r *RowsWrapper) Next() bool {
	return r.rows.Next()
}

// Scan scans the current row into dest.
func (r *RowsWrapper) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

// Close closes the rows.
func (r *RowsWrapper) Close() {
	r.rows.Close()
}

// Err returns the error, if any, hit while iterating.
func (r *RowsWrapper) Err() error {
	return r.rows.Err()
}

// QuestDBClient defines the interface for QuestDB operations.
type QuestDBClient interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (RowsInterface, error)

	// Connection management
	Ping(ctx context.Context) error
	Close()
}
