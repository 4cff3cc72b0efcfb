package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.CashMovementRepository = (*CashMovementRepo)(nil)

// CashMovementRepo implementación de CashMovementRepository sobre PostgreSQL
// (usable con pool o tx).
type CashMovementRepo struct {
	q Querier
}

// NewCashMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashMovementRepository(q Querier) *CashMovementRepo {
	return &CashMovementRepo{q: q}
}

// Create persiste un movimiento manual de caja.
func (r *CashMovementRepo) Create(ctx context.Context, m *entity.CashMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO cash_movements (id, cash_session_id, type, amount, description, instrument, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CashSessionID, m.Type, m.Amount, m.Description, m.Instrument, m.CreatedByID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create cash movement: %w", err)
	}
	return nil
}

// ListBySession lista los movimientos de una sesión en orden de creación.
func (r *CashMovementRepo) ListBySession(ctx context.Context, sessionID string) ([]*entity.CashMovement, error) {
	query := `
		SELECT id, cash_session_id, type, amount, description, instrument, created_by, created_at
		FROM cash_movements WHERE cash_session_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.CashMovement
	for rows.Next() {
		var m entity.CashMovement
		if err := rows.Scan(
			&m.ID, &m.CashSessionID, &m.Type, &m.Amount,
			&m.Description, &m.Instrument, &m.CreatedByID, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// SumBySessionAndType suma los montos de un tipo en la sesión; cero si no hay
// movimientos.
func (r *CashMovementRepo) SumBySessionAndType(ctx context.Context, sessionID, movType string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM cash_movements WHERE cash_session_id = $1 AND type = $2`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, sessionID, movType).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum cash movements: %w", err)
	}
	return total, nil
}
