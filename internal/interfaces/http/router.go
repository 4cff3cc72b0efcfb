package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/auth"
	"github.com/jhoicas/Caja-api/internal/application/movement"
	"github.com/jhoicas/Caja-api/internal/application/sale"
	"github.com/jhoicas/Caja-api/internal/application/session"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	SessionUC  *session.UseCase
	SaleUC     *sale.UseCase
	MovementUC *movement.UseCase
	CatalogUC  *usecase.CatalogUseCase
	Modules    *usecase.ModuleService
	PDFGen     reportPDFGenerator
	JWTSecret  string
}

// Router registra las rutas de la API. Las rutas del núcleo exigen token
// válido y módulo activo; anular ventas y cerrar caja exigen además rol de
// caja (cajero o admin).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	cashOnly := RequireModule(entity.ModuleCash, deps.Modules)
	cashierRole := RequireRole(entity.RoleAdmin, entity.RoleCajero)

	// Sesiones de caja (protegido, módulo CASH)
	sessions := protected.Group("/cash-sessions", cashOnly)
	sessionHandler := NewSessionHandler(deps.SessionUC, deps.MovementUC, deps.PDFGen)
	sessions.Post("/", cashierRole, sessionHandler.Open)
	sessions.Get("/:id", sessionHandler.Get)
	sessions.Post("/:id/close", cashierRole, sessionHandler.Close)
	sessions.Get("/:id/report", sessionHandler.Report)
	sessions.Get("/:id/report/pdf", sessionHandler.ReportPDF)
	sessions.Post("/:id/movements", cashierRole, sessionHandler.RegisterMovement)
	sessions.Get("/:id/movements", sessionHandler.ListMovements)

	// Ventas (protegido, módulo CASH)
	sales := protected.Group("/sales", cashOnly)
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/", saleHandler.Create)
	sales.Get("/:id", saleHandler.Get)
	sales.Post("/:id/cancel", cashierRole, saleHandler.Cancel)

	// Catálogo (protegido, módulo INVENTORY)
	inventoryOnly := RequireModule(entity.ModuleInventory, deps.Modules)
	productHandler := NewProductHandler(deps.CatalogUC)
	protected.Group("/stores", inventoryOnly).Get("/:id/products", productHandler.ListByStore)
	protected.Group("/products", inventoryOnly).Get("/:id", productHandler.GetProduct)
}
