package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// OrderRepository persistencia de órdenes de venta y sus hijos.
// Las líneas y pagos son registros de auditoría: se insertan una vez y nunca
// se actualizan ni eliminan.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	AddProduct(ctx context.Context, line *entity.OrderProduct) error
	AddService(ctx context.Context, line *entity.Service) error
	AddPayment(ctx context.Context, p *entity.PaymentMethod) error

	// GetByID retorna (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListProducts(ctx context.Context, orderID string) ([]*entity.OrderProduct, error)
	ListServices(ctx context.Context, orderID string) ([]*entity.Service, error)
	ListPayments(ctx context.Context, orderID string) ([]*entity.PaymentMethod, error)

	// ListBySession lista las órdenes de una sesión en orden de creación.
	ListBySession(ctx context.Context, sessionID string) ([]*entity.Order, error)

	// SumPaymentsBySession suma los pagos de las órdenes no anuladas de la
	// sesión. Insumo del saldo esperado de la conciliación.
	SumPaymentsBySession(ctx context.Context, sessionID string) (decimal.Decimal, error)

	// MarkCancelled anula la orden como update condicional. Retorna false si
	// ya estaba CANCELLED, lo que hace la anulación repetida idempotente.
	MarkCancelled(ctx context.Context, id string) (bool, error)
}
