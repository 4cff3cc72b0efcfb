package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de caja. La transición es OPEN → CLOSED, en un solo
// sentido; una sesión cerrada nunca se reabre.
const (
	SessionStatusOpen   = "OPEN"
	SessionStatusClosed = "CLOSED"
)

// CashSession representa un período de caja abierta de una tienda.
// Invariante: por tienda existe a lo sumo una sesión con status=OPEN
// (índice único parcial uq_cash_sessions_store_open).
type CashSession struct {
	ID            string
	StoreID       string
	OpenedByID    string
	ClosedByID    *string
	Status        string
	OpeningAmount decimal.Decimal
	// ClosingAmount es el saldo esperado calculado al cierre;
	// DeclaredAmount lo que el cajero contó físicamente. Ambos nulos hasta cerrar.
	ClosingAmount  *decimal.Decimal
	DeclaredAmount *decimal.Decimal
	OpenedAt       time.Time
	ClosedAt       *time.Time
}

// IsOpen informa si la sesión sigue operativa.
func (s *CashSession) IsOpen() bool {
	return s.Status == SessionStatusOpen
}
