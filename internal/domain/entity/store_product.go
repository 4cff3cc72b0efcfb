package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreProduct es el stock y precio de un producto del catálogo en una tienda.
// El stock solo se muta a través del ledger (decremento condicional en venta,
// restauración en anulación); nunca baja de cero.
type StoreProduct struct {
	ID             string
	StoreID        string
	ProductID      string
	ProductName    string // poblado por JOIN con el catálogo en lecturas
	Stock          int64
	Price          decimal.Decimal
	StockThreshold int64 // nivel de alerta de reposición
	UpdatedAt      time.Time
}

// LowStock informa si el stock está en o por debajo del umbral de alerta.
func (p *StoreProduct) LowStock() bool {
	return p.Stock <= p.StockThreshold
}
