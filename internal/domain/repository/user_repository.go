package repository

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// UserRepository persistencia de usuarios.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error

	// GetByID y GetByEmailAndTenant retornan (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmailAndTenant(ctx context.Context, email, tenantID string) (*entity.User, error)
}
