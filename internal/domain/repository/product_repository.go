package repository

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// ProductRepository acceso de solo lectura al catálogo. El núcleo lo usa para
// poblar snapshots de línea; el CRUD del catálogo es un colaborador externo.
type ProductRepository interface {
	// GetByID retorna (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
