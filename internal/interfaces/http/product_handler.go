package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
)

// ProductHandler lecturas del catálogo por tienda (stock y precios).
type ProductHandler struct {
	uc *usecase.CatalogUseCase
}

// NewProductHandler construye el handler de catálogo.
func NewProductHandler(uc *usecase.CatalogUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// ListByStore lista stock y precio de los productos de una tienda.
// GET /api/stores/:id/products
func (h *ProductHandler) ListByStore(c *fiber.Ctx) error {
	storeID := c.Params("id")
	if storeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de tienda requerido"})
	}
	out, err := h.uc.ListStoreProducts(c.Context(), GetTenantID(c), GetUserID(c), GetRole(c), storeID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// GetProduct obtiene la ficha de catálogo de un producto del tenant.
// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	out, err := h.uc.GetProduct(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
