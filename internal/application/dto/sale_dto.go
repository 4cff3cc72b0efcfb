package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleProductLine línea de producto solicitada en una venta.
type SaleProductLine struct {
	StoreProductID string `json:"store_product_id" validate:"required,uuid4"`
	Quantity       int64  `json:"quantity" validate:"required,gt=0"`
}

// SaleServiceLine línea de servicio solicitada en una venta. El precio lo
// define el operador al momento de la venta (no hay catálogo de servicios).
type SaleServiceLine struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

// SalePayment un instrumento de pago aplicado a la venta.
type SalePayment struct {
	Type   string          `json:"type" validate:"required,oneof=cash card transfer other"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateSaleRequest alta de venta contra una sesión de caja abierta.
// El total NO viaja en el request: se recalcula siempre en el servidor a
// partir de las líneas.
type CreateSaleRequest struct {
	CashSessionID string            `json:"cash_session_id" validate:"required,uuid4"`
	ProductLines  []SaleProductLine `json:"product_lines" validate:"omitempty,dive"`
	ServiceLines  []SaleServiceLine `json:"service_lines" validate:"omitempty,dive"`
	Payments      []SalePayment     `json:"payments" validate:"required,min=1,dive"`
}

// OrderProductResponse línea de producto con su snapshot de precio.
type OrderProductResponse struct {
	StoreProductID string          `json:"store_product_id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Quantity       int64           `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// OrderServiceResponse línea de servicio.
type OrderServiceResponse struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Status string          `json:"status"`
}

// OrderPaymentResponse instrumento de pago aplicado.
type OrderPaymentResponse struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// OrderResponse agregado completo de una orden.
type OrderResponse struct {
	ID            string                 `json:"id"`
	OrderNumber   string                 `json:"order_number"`
	CashSessionID string                 `json:"cash_session_id"`
	UserID        string                 `json:"user_id"`
	Status        string                 `json:"status"`
	Total         decimal.Decimal        `json:"total"`
	TotalPaid     decimal.Decimal        `json:"total_paid"`
	Products      []OrderProductResponse `json:"products"`
	Services      []OrderServiceResponse `json:"services"`
	Payments      []OrderPaymentResponse `json:"payments"`
	CreatedAt     time.Time              `json:"created_at"`
}
