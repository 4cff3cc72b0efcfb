package entity

import "time"

// Store es una tienda (punto de venta) de un tenant. Toda entidad del núcleo
// queda acotada a un tenant a través de su tienda.
type Store struct {
	ID        string
	TenantID  string
	Name      string
	Address   string
	Status    string // "active" | "inactive"
	CreatedAt time.Time
}

// Tenant es la frontera de aislamiento de un cliente del SaaS. Los módulos
// contratados (CASH, INVENTORY, ...) viven en tenant_modules.
type Tenant struct {
	ID        string
	Name      string
	Status    string
	CreatedAt time.Time
}

// Nombres de módulos contratables por tenant.
const (
	ModuleCash      = "CASH"
	ModuleInventory = "INVENTORY"
)
