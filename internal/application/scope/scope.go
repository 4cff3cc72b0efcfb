// Package scope implementa el predicado de autorización multi-tenant que
// todas las operaciones del núcleo comparten: la tienda debe pertenecer al
// tenant del token y el usuario debe ser miembro de la tienda (o admin del
// tenant). Se inyecta en cada caso de uso en lugar de duplicar la lógica.
package scope

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// StoreAccess decide si un usuario puede operar sobre una tienda.
// Una tienda de otro tenant se reporta como ErrNotFound, igual que una
// inexistente: el filtro nunca revela existencia entre tenants.
type StoreAccess interface {
	CanAccessStore(ctx context.Context, tenantID, storeID, userID, role string) error
}

var _ StoreAccess = (*MembershipScope)(nil)

// MembershipScope implementa StoreAccess sobre el repositorio de tiendas.
type MembershipScope struct {
	stores repository.StoreRepository
}

// NewMembershipScope construye el filtro.
func NewMembershipScope(stores repository.StoreRepository) *MembershipScope {
	return &MembershipScope{stores: stores}
}

// CanAccessStore valida pertenencia de la tienda al tenant y membresía del
// usuario. El rol admin accede a cualquier tienda de su tenant.
func (s *MembershipScope) CanAccessStore(ctx context.Context, tenantID, storeID, userID, role string) error {
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store == nil || store.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if role == entity.RoleAdmin {
		return nil
	}
	member, err := s.stores.IsMember(ctx, storeID, userID)
	if err != nil {
		return err
	}
	if !member {
		return domain.ErrForbidden
	}
	return nil
}
