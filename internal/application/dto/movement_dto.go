package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMovementRequest registra un ingreso o egreso manual de caja.
type CreateMovementRequest struct {
	Type        string          `json:"type" validate:"required,oneof=INCOME EXPENSE"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"required"`
	Instrument  string          `json:"instrument" validate:"omitempty,oneof=cash card transfer other"`
}

// MovementResponse un movimiento manual de caja.
type MovementResponse struct {
	ID            string          `json:"id"`
	CashSessionID string          `json:"cash_session_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Instrument    string          `json:"instrument"`
	CreatedByID   string          `json:"created_by_id"`
	CreatedAt     time.Time       `json:"created_at"`
}
