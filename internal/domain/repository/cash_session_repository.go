package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// CashSessionRepository persistencia de sesiones de caja.
type CashSessionRepository interface {
	// Create inserta una sesión OPEN. El índice único parcial por tienda
	// resuelve la carrera entre aperturas concurrentes: la violación se
	// traduce a domain.ErrSessionAlreadyOpen.
	Create(ctx context.Context, s *entity.CashSession) error

	// GetByID retorna (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.CashSession, error)

	// GetForUpdate obtiene la sesión bloqueando la fila (SELECT FOR UPDATE).
	// Serializa ventas y movimientos en vuelo contra un cierre concurrente.
	GetForUpdate(ctx context.Context, id string) (*entity.CashSession, error)

	// FindOpenByStore retorna la sesión OPEN de la tienda o (nil, nil).
	FindOpenByStore(ctx context.Context, storeID string) (*entity.CashSession, error)

	// Close ejecuta la transición OPEN→CLOSED como update condicional
	// ("WHERE status='OPEN'"). Retorna false si otra petición cerró primero.
	Close(ctx context.Context, id, closedByID string, closing, declared decimal.Decimal, closedAt time.Time) (bool, error)
}
