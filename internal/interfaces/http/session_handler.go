package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/movement"
	"github.com/jhoicas/Caja-api/internal/application/session"
	"github.com/jhoicas/Caja-api/pkg/validator"
)

// reportPDFGenerator es el contrato mínimo del generador del resumen
// imprimible. Lo implementa pdf.ClosingReportPDFGenerator.
type reportPDFGenerator interface {
	Generate(ctx context.Context, report *dto.ClosingReport) ([]byte, error)
}

// SessionHandler maneja sesiones de caja y sus movimientos manuales.
type SessionHandler struct {
	sessions  *session.UseCase
	movements *movement.UseCase
	pdfGen    reportPDFGenerator
}

// NewSessionHandler construye el handler de sesiones.
func NewSessionHandler(sessions *session.UseCase, movements *movement.UseCase, pdfGen reportPDFGenerator) *SessionHandler {
	return &SessionHandler{sessions: sessions, movements: movements, pdfGen: pdfGen}
}

// Open abre una sesión de caja para una tienda.
// POST /api/cash-sessions
func (h *SessionHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.Struct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Describe(errs)})
	}
	out, err := h.sessions.Open(c.Context(), GetTenantID(c), GetUserID(c), GetRole(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get consulta el estado de una sesión.
// GET /api/cash-sessions/:id
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	out, err := h.sessions.Get(c.Context(), GetTenantID(c), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Close cierra la sesión con el monto declarado y devuelve el reporte de
// cierre completo.
// POST /api/cash-sessions/:id/close
func (h *SessionHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	report, err := h.sessions.Close(c.Context(), GetTenantID(c), GetUserID(c), GetRole(c), c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(report)
}

// Report regenera el reporte de cierre de una sesión cerrada.
// GET /api/cash-sessions/:id/report
func (h *SessionHandler) Report(c *fiber.Ctx) error {
	report, err := h.sessions.Report(c.Context(), GetTenantID(c), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(report)
}

// ReportPDF devuelve el resumen de cierre como PDF imprimible.
// GET /api/cash-sessions/:id/report/pdf
func (h *SessionHandler) ReportPDF(c *fiber.Ctx) error {
	report, err := h.sessions.Report(c.Context(), GetTenantID(c), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	data, err := h.pdfGen.Generate(c.Context(), report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_GENERATION", Message: "no se pudo generar el PDF"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="cierre-`+report.SessionID+`.pdf"`)
	return c.Send(data)
}

// RegisterMovement registra un ingreso o egreso manual contra la sesión.
// POST /api/cash-sessions/:id/movements
func (h *SessionHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.Struct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Describe(errs)})
	}
	out, err := h.movements.Register(c.Context(), GetTenantID(c), GetUserID(c), GetRole(c), c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements lista los movimientos manuales de la sesión.
// GET /api/cash-sessions/:id/movements
func (h *SessionHandler) ListMovements(c *fiber.Ctx) error {
	out, err := h.movements.List(c.Context(), GetTenantID(c), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
