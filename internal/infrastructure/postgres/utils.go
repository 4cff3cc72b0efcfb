package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Caja-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// mapCtxErr traduce la expiración del contexto (timeout transaccional) al
// error de dominio reintentable, preservando el original.
func mapCtxErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.ErrTxTimeout
	}
	return err
}
