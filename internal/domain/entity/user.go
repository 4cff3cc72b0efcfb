package entity

import "time"

// Roles de usuario dentro de un tenant. "admin" es rol privilegiado: puede
// cerrar sesiones de caja que no abrió y acceder a cualquier tienda del tenant.
const (
	RoleAdmin    = "admin"
	RoleCajero   = "cajero"
	RoleVendedor = "vendedor"
)

// User es un usuario del sistema, acotado a un tenant. La membresía a tiendas
// concretas vive en store_users.
type User struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // "active" | "inactive"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
