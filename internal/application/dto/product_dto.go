package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse ficha de catálogo de un producto.
type ProductResponse struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StoreProductResponse stock y precio de un producto en una tienda.
type StoreProductResponse struct {
	ID             string          `json:"id"`
	StoreID        string          `json:"store_id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Stock          int64           `json:"stock"`
	Price          decimal.Decimal `json:"price"`
	StockThreshold int64           `json:"stock_threshold"`
	LowStock       bool            `json:"low_stock"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
