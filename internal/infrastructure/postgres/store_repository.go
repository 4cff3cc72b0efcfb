package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)
var _ repository.TenantRepository = (*TenantRepo)(nil)

// StoreRepo implementación de StoreRepository sobre PostgreSQL (usable con
// pool o tx).
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

// GetByID obtiene una tienda por ID. Retorna (nil, nil) si no existe.
func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	query := `
		SELECT id, tenant_id, name, address, status, created_at
		FROM stores WHERE id = $1`
	var s entity.Store
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.TenantID, &s.Name, &s.Address, &s.Status, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return &s, nil
}

// IsMember informa si el usuario pertenece a la tienda (store_users).
func (r *StoreRepo) IsMember(ctx context.Context, storeID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM store_users WHERE store_id = $1 AND user_id = $2)`
	var ok bool
	if err := r.q.QueryRow(ctx, query, storeID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("check store membership: %w", err)
	}
	return ok, nil
}

// TenantRepo implementación de TenantRepository sobre PostgreSQL (usable con
// pool o tx).
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

// GetByID obtiene un tenant por ID. Retorna (nil, nil) si no existe.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	query := `SELECT id, name, status, created_at FROM tenants WHERE id = $1`
	var t entity.Tenant
	err := r.q.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Status, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &t, nil
}

// HasActiveModule informa si el tenant tiene el módulo activo. false sin error
// cuando no está contratado.
func (r *TenantRepo) HasActiveModule(ctx context.Context, tenantID, moduleName string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tenant_modules
			WHERE tenant_id = $1 AND module_name = $2 AND active
		)`
	var ok bool
	if err := r.q.QueryRow(ctx, query, tenantID, moduleName).Scan(&ok); err != nil {
		return false, fmt.Errorf("check tenant module: %w", err)
	}
	return ok, nil
}
