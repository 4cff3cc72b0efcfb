package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Caja-api/internal/application/movement"
	"github.com/jhoicas/Caja-api/internal/application/sale"
	"github.com/jhoicas/Caja-api/internal/application/session"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// Ensure TxRunner implementa los runners de los casos de uso.
var _ session.TxRunner = (*TxRunner)(nil)
var _ sale.TxRunner = (*TxRunner)(nil)
var _ movement.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con un
// timeout acotado: al excederlo el caller recibe domain.ErrTxTimeout en vez de
// quedar bloqueado en contención de locks.
type TxRunner struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewTxRunner construye el runner con el pool y el timeout transaccional.
func NewTxRunner(pool *pgxpool.Pool, timeout time.Duration) *TxRunner {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TxRunner{pool: pool, timeout: timeout}
}

// RunOpen transacción de apertura de sesión.
func (r *TxRunner) RunOpen(ctx context.Context, fn func(sessions repository.CashSessionRepository) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapCtxErr(ctx, fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewCashSessionRepository(tx)); err != nil {
		return mapCtxErr(ctx, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapCtxErr(ctx, fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RunClose transacción de cierre: sesión + agregaciones de conciliación sobre
// el mismo snapshot.
func (r *TxRunner) RunClose(ctx context.Context, fn func(
	sessions repository.CashSessionRepository,
	orders repository.OrderRepository,
	movements repository.CashMovementRepository,
) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapCtxErr(ctx, fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewCashSessionRepository(tx), NewOrderRepository(tx), NewCashMovementRepository(tx)); err != nil {
		return mapCtxErr(ctx, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapCtxErr(ctx, fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RunSale transacción de venta/anulación: sesión + órdenes + ledger de stock.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	sessions repository.CashSessionRepository,
	orders repository.OrderRepository,
	stock repository.StoreProductRepository,
) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapCtxErr(ctx, fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewCashSessionRepository(tx), NewOrderRepository(tx), NewStoreProductRepository(tx)); err != nil {
		return mapCtxErr(ctx, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapCtxErr(ctx, fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RunMovement transacción de movimiento manual: sesión + movimientos.
func (r *TxRunner) RunMovement(ctx context.Context, fn func(
	sessions repository.CashSessionRepository,
	movements repository.CashMovementRepository,
) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapCtxErr(ctx, fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewCashSessionRepository(tx), NewCashMovementRepository(tx)); err != nil {
		return mapCtxErr(ctx, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapCtxErr(ctx, fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
