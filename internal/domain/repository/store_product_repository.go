package repository

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// StoreProductRepository es el ledger de stock por tienda. Los decrementos son
// siempre condicionales dentro de la transacción de la venta que los origina;
// el stock nunca se decrementa fuera de una venta.
type StoreProductRepository interface {
	// GetByID retorna (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.StoreProduct, error)

	// DecrementStock ejecuta "stock = stock - qty WHERE stock >= qty" y decide
	// por filas afectadas: false = stock insuficiente. La base de datos, no el
	// código de aplicación, resuelve la carrera entre ventas concurrentes.
	DecrementStock(ctx context.Context, id string, qty int64) (bool, error)

	// RestoreStock es la compensación al anular una venta: incremento
	// incondicional bajo la misma disciplina transaccional.
	RestoreStock(ctx context.Context, id string, qty int64) error

	// ListByStore lista stock y precios de una tienda con el nombre de catálogo.
	ListByStore(ctx context.Context, storeID string) ([]*entity.StoreProduct, error)
}
