package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// CashMovementRepository persistencia de movimientos manuales de caja
// (append-only).
type CashMovementRepository interface {
	Create(ctx context.Context, m *entity.CashMovement) error
	ListBySession(ctx context.Context, sessionID string) ([]*entity.CashMovement, error)

	// SumBySessionAndType suma los montos de un tipo (INCOME | EXPENSE) en la
	// sesión; cero si no hay movimientos.
	SumBySessionAndType(ctx context.Context, sessionID, movType string) (decimal.Decimal, error)
}
