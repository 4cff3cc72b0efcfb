package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/pkg/jwt"
)

// Locals keys para la identidad resuelta en Fiber.
const (
	LocalUserID   = "user_id"
	LocalTenantID = "tenant_id"
	LocalRole     = "role"
)

// AuthMiddleware valida el Bearer Token JWT y extrae userID, tenantID y role
// a c.Locals. Toda ruta del núcleo asume que estos valores existen.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, tenantID, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalTenantID, tenantID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetTenantID devuelve el TenantID del contexto (después del middleware de auth).
func GetTenantID(c *fiber.Ctx) string {
	v := c.Locals(LocalTenantID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	v := c.Locals(LocalRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// RequireRole devuelve un middleware que solo deja pasar los roles listados.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "rol no encontrado en el token"})
		}
		if !allowed[role] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
		}
		return c.Next()
	}
}
