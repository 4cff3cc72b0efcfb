package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.StoreProductRepository = (*StoreProductRepo)(nil)

// StoreProductRepo ledger de stock por tienda sobre PostgreSQL (usable con
// pool o tx). Los decrementos son condicionales: la base de datos decide la
// carrera entre ventas concurrentes, no el código de aplicación.
type StoreProductRepo struct {
	q Querier
}

// NewStoreProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStoreProductRepository(q Querier) *StoreProductRepo {
	return &StoreProductRepo{q: q}
}

// GetByID obtiene el registro con el nombre de catálogo. Retorna (nil, nil)
// si no existe.
func (r *StoreProductRepo) GetByID(ctx context.Context, id string) (*entity.StoreProduct, error) {
	query := `
		SELECT sp.id, sp.store_id, sp.product_id, p.name, sp.stock, sp.price, sp.stock_threshold, sp.updated_at
		FROM store_products sp
		JOIN products p ON p.id = sp.product_id
		WHERE sp.id = $1`
	var sp entity.StoreProduct
	err := r.q.QueryRow(ctx, query, id).Scan(
		&sp.ID, &sp.StoreID, &sp.ProductID, &sp.ProductName,
		&sp.Stock, &sp.Price, &sp.StockThreshold, &sp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store product: %w", err)
	}
	return &sp, nil
}

// DecrementStock descuenta stock solo si alcanza. Retorna false con cero
// filas afectadas: stock insuficiente.
func (r *StoreProductRepo) DecrementStock(ctx context.Context, id string, qty int64) (bool, error) {
	query := `
		UPDATE store_products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`
	tag, err := r.q.Exec(ctx, query, id, qty)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// RestoreStock devuelve stock al anular una venta.
func (r *StoreProductRepo) RestoreStock(ctx context.Context, id string, qty int64) error {
	query := `
		UPDATE store_products
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, qty)
	if err != nil {
		return fmt.Errorf("restore stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("restore stock: store product %s no existe", id)
	}
	return nil
}

// ListByStore lista stock y precios de una tienda con el nombre de catálogo.
func (r *StoreProductRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.StoreProduct, error) {
	query := `
		SELECT sp.id, sp.store_id, sp.product_id, p.name, sp.stock, sp.price, sp.stock_threshold, sp.updated_at
		FROM store_products sp
		JOIN products p ON p.id = sp.product_id
		WHERE sp.store_id = $1
		ORDER BY p.name`
	rows, err := r.q.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list store products: %w", err)
	}
	defer rows.Close()

	var out []*entity.StoreProduct
	for rows.Next() {
		var sp entity.StoreProduct
		if err := rows.Scan(
			&sp.ID, &sp.StoreID, &sp.ProductID, &sp.ProductName,
			&sp.Stock, &sp.Price, &sp.StockThreshold, &sp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan store product: %w", err)
		}
		out = append(out, &sp)
	}
	return out, rows.Err()
}
