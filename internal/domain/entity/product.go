package entity

import "time"

// Product es la ficha de catálogo de un tenant. El precio y el stock por
// tienda viven en StoreProduct; aquí solo los datos descriptivos que las
// líneas de venta copian como snapshot.
type Product struct {
	ID          string
	TenantID    string
	SKU         string
	Name        string
	Description string
	Status      string // "active" | "inactive"
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
