package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/auth"
	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/pkg/validator"
)

// AuthHandler maneja registro y login.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register registra un usuario dentro de un tenant.
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.Struct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Describe(errs)})
	}
	user, err := h.uc.RegisterUser(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado en este tenant"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TENANT_NOT_FOUND", Message: "el tenant no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login verifica credenciales y devuelve el token JWT.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.Struct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Describe(errs)})
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "cuenta inactiva o suspendida"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
