package repository

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// StoreRepository persistencia de tiendas y membresías.
type StoreRepository interface {
	// GetByID retorna (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Store, error)

	// IsMember informa si el usuario pertenece a la tienda (store_users).
	IsMember(ctx context.Context, storeID, userID string) (bool, error)
}

// TenantRepository persistencia de tenants y sus módulos contratados.
type TenantRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)

	// HasActiveModule informa si el tenant tiene el módulo activo. Retorna
	// false sin error cuando el módulo no está contratado; error solo ante
	// fallos de infraestructura.
	HasActiveModule(ctx context.Context, tenantID, moduleName string) (bool, error)
}
