package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento manual de caja.
const (
	MovementTypeIncome  = "INCOME"
	MovementTypeExpense = "EXPENSE"
)

// CashMovement es un ajuste manual de efectivo ligado a una sesión de caja.
// Append-only: nunca se actualiza ni elimina; las correcciones se hacen con
// movimientos inversos para preservar la pista de auditoría.
type CashMovement struct {
	ID            string
	CashSessionID string
	Type          string
	Amount        decimal.Decimal
	Description   string
	Instrument    string // instrumento de pago (cash, card, transfer, ...)
	CreatedByID   string
	CreatedAt     time.Time
}
