package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
)

// respondDomainError traduce un error de dominio a su respuesta HTTP. Los
// conflictos de concurrencia (sesión ya abierta/cerrada, stock insuficiente)
// van como 409 con un código estable que el cliente puede ramificar; el
// timeout transaccional como 503 reintentable.
func respondDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrSessionAlreadyOpen):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SESSION_ALREADY_OPEN", Message: "la tienda ya tiene una sesión de caja abierta"})
	case errors.Is(err, domain.ErrAlreadyClosed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_CLOSED", Message: "la sesión ya fue cerrada"})
	case errors.Is(err, domain.ErrSessionClosed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SESSION_CLOSED", Message: "la sesión de caja está cerrada"})
	case errors.Is(err, domain.ErrSessionOpen):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SESSION_OPEN", Message: "la sesión sigue abierta; ciérrela para generar el reporte"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrTxTimeout):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "TRANSACTION_TIMEOUT", Message: "la operación excedió el tiempo límite, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
