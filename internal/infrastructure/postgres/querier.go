package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier es el subconjunto de pgx que los repositorios necesitan. Lo
// satisfacen tanto *pgxpool.Pool como pgx.Tx, de modo que un mismo repo opera
// fuera o dentro de una transacción según con qué se construya.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
