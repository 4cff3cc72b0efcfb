package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Caja-api/internal/application/auth"
	"github.com/jhoicas/Caja-api/internal/application/movement"
	"github.com/jhoicas/Caja-api/internal/application/sale"
	"github.com/jhoicas/Caja-api/internal/application/scope"
	"github.com/jhoicas/Caja-api/internal/application/session"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Caja-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Caja-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Caja-api/internal/interfaces/http"
	"github.com/jhoicas/Caja-api/pkg/config"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	sessionRepo := postgres.NewCashSessionRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	stockRepo := postgres.NewStoreProductRepository(pool)
	movementRepo := postgres.NewCashMovementRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	tenantRepo := postgres.NewTenantRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Tx.Timeout())

	access := scope.NewMembershipScope(storeRepo)
	sessionUC := session.NewUseCase(txRunner, sessionRepo, orderRepo, movementRepo, access)
	saleUC := sale.NewUseCase(txRunner, sessionRepo, orderRepo, stockRepo, access)
	movementUC := movement.NewUseCase(txRunner, sessionRepo, movementRepo, access)
	catalogUC := usecase.NewCatalogUseCase(stockRepo, productRepo, access)
	moduleSvc := usecase.NewModuleService(tenantRepo)
	authUC := auth.NewAuthUseCase(userRepo, tenantRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		SessionUC:  sessionUC,
		SaleUC:     saleUC,
		MovementUC: movementUC,
		CatalogUC:  catalogUC,
		Modules:    moduleSvc,
		PDFGen:     infrapdf.NewClosingReportPDFGenerator(),
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
