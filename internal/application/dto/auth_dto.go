package dto

import "time"

// RegisterRequest alta de usuario dentro de un tenant.
type RegisterRequest struct {
	TenantID string `json:"tenant_id" validate:"required,uuid4"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"`
	Role     string `json:"role" validate:"omitempty,oneof=admin cajero vendedor"`
}

// LoginRequest credenciales de acceso. El email solo es único dentro de un
// tenant, así que el login siempre va acotado al tenant.
type LoginRequest struct {
	TenantID string `json:"tenant_id" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token + usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse representación pública de un usuario.
type UserResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
