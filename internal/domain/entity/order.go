package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de venta.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// Estados de una línea de servicio dentro de la orden.
const (
	ServiceStatusInProgress = "IN_PROGRESS"
	ServiceStatusCompleted  = "COMPLETED"
	ServiceStatusDelivered  = "DELIVERED"
	ServiceStatusPaid       = "PAID"
	ServiceStatusAnnulled   = "ANNULLED"
)

// Tipos de instrumento de pago.
const (
	PaymentTypeCash     = "cash"
	PaymentTypeCard     = "card"
	PaymentTypeTransfer = "transfer"
	PaymentTypeOther    = "other"
)

// Order es el evento de liquidación de una venta, ligado a exactamente una
// sesión de caja. Inmutable una vez COMPLETED salvo la transición a CANCELLED,
// que revierte el stock de sus líneas de producto.
type Order struct {
	ID            string
	OrderNumber   string
	CashSessionID string
	UserID        string
	Status        string
	CreatedAt     time.Time
}

// OrderProduct es una línea de producto: la cantidad y el precio unitario
// copiado al momento de la venta. Cambios posteriores de precio en el catálogo
// no afectan órdenes históricas.
type OrderProduct struct {
	ID             string
	OrderID        string
	StoreProductID string
	ProductID      string
	ProductName    string // poblado por JOIN con el catálogo en lecturas
	Quantity       int64
	UnitPrice      decimal.Decimal
}

// Subtotal de la línea (cantidad × precio snapshot).
func (p *OrderProduct) Subtotal() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(p.Quantity))
}

// Service es una línea de servicio dentro de la orden.
type Service struct {
	ID      string
	OrderID string
	Name    string
	Price   decimal.Decimal
	Status  string
}

// PaymentMethod es un instrumento de pago aplicado a la orden. Registro de
// auditoría append-only: nunca se elimina, solo lo referencia la conciliación.
// La suma de pagos puede ser menor al total (anticipos parciales en servicios)
// pero un pago nunca es negativo.
type PaymentMethod struct {
	ID      string
	OrderID string
	Type    string
	Amount  decimal.Decimal
}
