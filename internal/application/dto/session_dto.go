package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenSessionRequest apertura de sesión de caja. Los montos viajan como
// strings decimales en el JSON (shopspring/decimal los serializa así).
type OpenSessionRequest struct {
	StoreID       string          `json:"store_id" validate:"required,uuid4"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

// CloseSessionRequest cierre de sesión con el efectivo contado físicamente.
type CloseSessionRequest struct {
	DeclaredAmount decimal.Decimal `json:"declared_amount"`
}

// SessionResponse estado de una sesión de caja.
type SessionResponse struct {
	ID             string           `json:"id"`
	StoreID        string           `json:"store_id"`
	OpenedByID     string           `json:"opened_by_id"`
	ClosedByID     *string          `json:"closed_by_id,omitempty"`
	Status         string           `json:"status"`
	OpeningAmount  decimal.Decimal  `json:"opening_amount"`
	ClosingAmount  *decimal.Decimal `json:"closing_amount,omitempty"`
	DeclaredAmount *decimal.Decimal `json:"declared_amount,omitempty"`
	OpenedAt       time.Time        `json:"opened_at"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
}

// InstrumentTotal total de pagos por instrumento, ordenado por tipo para que
// el reporte sea determinista.
type InstrumentTotal struct {
	Type  string          `json:"type"`
	Total decimal.Decimal `json:"total"`
}

// ReportProductLine línea de producto en el reporte de cierre.
type ReportProductLine struct {
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ReportServiceLine línea de servicio en el reporte de cierre.
type ReportServiceLine struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	StatusCode string          `json:"status_code"`
}

// ReportOrder orden resumida para el reporte de cierre. StatusCode es la
// abreviatura imprimible del estado (PEN/COM/CAN).
type ReportOrder struct {
	OrderNumber string              `json:"order_number"`
	StatusCode  string              `json:"status_code"`
	CreatedAt   time.Time           `json:"created_at"`
	Products    []ReportProductLine `json:"products"`
	Services    []ReportServiceLine `json:"services"`
	Payments    []InstrumentTotal   `json:"payments"`
	Total       decimal.Decimal     `json:"total"`
}

// ReportMovement movimiento manual en el reporte de cierre.
type ReportMovement struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Instrument  string          `json:"instrument"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ClosingReport es el reporte de conciliación de una sesión cerrada.
// Difference = DeclaredAmount − ClosingAmount: positivo es sobrante de
// efectivo, negativo faltante. Regenerarlo sobre la misma sesión cerrada es
// idempotente y determinista.
type ClosingReport struct {
	SessionID      string            `json:"session_id"`
	StoreID        string            `json:"store_id"`
	OpenedAt       time.Time         `json:"opened_at"`
	ClosedAt       *time.Time        `json:"closed_at,omitempty"`
	OpeningAmount  decimal.Decimal   `json:"opening_amount"`
	ClosingAmount  decimal.Decimal   `json:"closing_amount"`
	DeclaredAmount decimal.Decimal   `json:"declared_amount"`
	Difference     decimal.Decimal   `json:"difference"`
	TotalPayments  decimal.Decimal   `json:"total_payments"`
	TotalExpenses  decimal.Decimal   `json:"total_expenses"`
	TotalIncomes   decimal.Decimal   `json:"total_incomes"`
	PaymentsByType []InstrumentTotal `json:"payments_by_type"`
	Orders         []ReportOrder     `json:"orders"`
	Movements      []ReportMovement  `json:"movements"`
}
