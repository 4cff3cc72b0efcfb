package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo acceso de solo lectura al catálogo sobre PostgreSQL (usable con
// pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene una ficha de catálogo por ID. Retorna (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, tenant_id, sku, name, description, status, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.Description, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}
