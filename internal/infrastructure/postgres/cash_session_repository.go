package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.CashSessionRepository = (*CashSessionRepo)(nil)

// CashSessionRepo implementación de CashSessionRepository sobre PostgreSQL
// (usable con pool o tx).
type CashSessionRepo struct {
	q Querier
}

// NewCashSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashSessionRepository(q Querier) *CashSessionRepo {
	return &CashSessionRepo{q: q}
}

const cashSessionColumns = `id, store_id, opened_by, closed_by, status, opening_amount, closing_amount, declared_amount, opened_at, closed_at`

// Create inserta la sesión en estado OPEN. La carrera entre aperturas
// concurrentes la resuelve el índice único parcial uq_cash_sessions_store_open:
// la violación se traduce al error de dominio.
func (r *CashSessionRepo) Create(ctx context.Context, s *entity.CashSession) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO cash_sessions (id, store_id, opened_by, status, opening_amount, opened_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.StoreID, s.OpenedByID, s.Status, s.OpeningAmount, s.OpenedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSessionAlreadyOpen
		}
		return fmt.Errorf("create cash session: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión por ID. Retorna (nil, nil) si no existe.
func (r *CashSessionRepo) GetByID(ctx context.Context, id string) (*entity.CashSession, error) {
	query := `SELECT ` + cashSessionColumns + ` FROM cash_sessions WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get cash session")
}

// GetForUpdate obtiene la sesión bloqueando la fila (SELECT FOR UPDATE).
// Serializa ventas y movimientos en vuelo contra un cierre concurrente.
func (r *CashSessionRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashSession, error) {
	query := `SELECT ` + cashSessionColumns + ` FROM cash_sessions WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get cash session for update")
}

// FindOpenByStore retorna la sesión OPEN de la tienda o (nil, nil).
func (r *CashSessionRepo) FindOpenByStore(ctx context.Context, storeID string) (*entity.CashSession, error) {
	query := `SELECT ` + cashSessionColumns + ` FROM cash_sessions WHERE store_id = $1 AND status = 'OPEN'`
	return r.scanOne(r.q.QueryRow(ctx, query, storeID), "find open cash session")
}

// Close ejecuta la transición OPEN→CLOSED como update condicional. Retorna
// false si la sesión ya no estaba OPEN (otra petición cerró primero).
func (r *CashSessionRepo) Close(ctx context.Context, id, closedByID string, closing, declared decimal.Decimal, closedAt time.Time) (bool, error) {
	query := `
		UPDATE cash_sessions
		SET status = 'CLOSED', closed_by = $2, closing_amount = $3, declared_amount = $4, closed_at = $5
		WHERE id = $1 AND status = 'OPEN'`
	tag, err := r.q.Exec(ctx, query, id, closedByID, closing, declared, closedAt)
	if err != nil {
		return false, fmt.Errorf("close cash session: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CashSessionRepo) scanOne(row pgx.Row, op string) (*entity.CashSession, error) {
	var s entity.CashSession
	err := row.Scan(
		&s.ID, &s.StoreID, &s.OpenedByID, &s.ClosedByID, &s.Status,
		&s.OpeningAmount, &s.ClosingAmount, &s.DeclaredAmount, &s.OpenedAt, &s.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}
