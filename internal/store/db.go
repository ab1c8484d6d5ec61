package store

import (
	"context"
	"database/sql"
)

// DBTX is the set of query and exec operations common to *sql.DB and
// *sql.Tx. Store implementations are written against it, so the same code
// serves requests straight off the pool and, via WithTx, inside a
// transaction owned by the caller.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
