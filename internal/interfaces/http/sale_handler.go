package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/sale"
	"github.com/jhoicas/Caja-api/pkg/validator"
)

// SaleHandler maneja liquidación y anulación de ventas.
type SaleHandler struct {
	uc *sale.UseCase
}

// NewSaleHandler construye el handler de ventas.
func NewSaleHandler(uc *sale.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create liquida una venta contra una sesión de caja abierta.
// POST /api/sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.Struct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Describe(errs)})
	}
	out, err := h.uc.CreateSale(c.Context(), GetTenantID(c), GetUserID(c), GetRole(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Cancel anula una orden y restaura el stock de sus líneas.
// POST /api/sales/:id/cancel
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.Context(), GetTenantID(c), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Get obtiene el agregado completo de una orden.
// GET /api/sales/:id
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetOrder(c.Context(), GetTenantID(c), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
