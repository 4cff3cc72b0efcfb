// seed puebla la base de datos con un tenant demo, su tienda, un usuario
// admin y un catálogo mínimo con stock. Pensado para desarrollo local.
//
// Uso: go run ./cmd/seed
// Credenciales del admin: SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD
// (por defecto admin@demo.local / admin123, solo para entornos de desarrollo).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Caja-api/pkg/config"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"}).Component("seed")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tenantID := uuid.New().String()
	storeID := uuid.New().String()
	adminID := uuid.New().String()

	email := envOr("SEED_ADMIN_EMAIL", "admin@demo.local")
	password := envOr("SEED_ADMIN_PASSWORD", "admin123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" {
		log.Warn().Msg("usando password por defecto; defina SEED_ADMIN_PASSWORD para sobreescribir")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hashear password")
	}

	now := time.Now()

	_, err = pool.Exec(ctx, `INSERT INTO tenants (id, name, status, created_at) VALUES ($1, $2, 'active', $3)`,
		tenantID, "Tenant Demo", now)
	if err != nil {
		log.Fatal().Err(err).Msg("insertar tenant")
	}
	for _, mod := range []string{entity.ModuleCash, entity.ModuleInventory} {
		if _, err := pool.Exec(ctx, `INSERT INTO tenant_modules (tenant_id, module_name, active) VALUES ($1, $2, TRUE)`,
			tenantID, mod); err != nil {
			log.Fatal().Err(err).Str("module", mod).Msg("activar módulo")
		}
	}

	_, err = pool.Exec(ctx, `INSERT INTO stores (id, tenant_id, name, address, status, created_at) VALUES ($1, $2, $3, $4, 'active', $5)`,
		storeID, tenantID, "Tienda Centro", "Calle 1 # 2-34", now)
	if err != nil {
		log.Fatal().Err(err).Msg("insertar tienda")
	}

	userRepo := postgres.NewUserRepository(pool)
	admin := &entity.User{
		ID:           adminID,
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Admin Demo",
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("insertar admin")
	}
	if _, err := pool.Exec(ctx, `INSERT INTO store_users (store_id, user_id) VALUES ($1, $2)`, storeID, adminID); err != nil {
		log.Fatal().Err(err).Msg("insertar membresía")
	}

	type seedProduct struct {
		sku   string
		name  string
		stock int64
		price string
	}
	for _, p := range []seedProduct{
		{"SKU-CAFE-01", "Café molido 500g", 40, "18500.00"},
		{"SKU-PAN-01", "Pan artesanal", 25, "4200.00"},
		{"SKU-LECHE-01", "Leche entera 1L", 60, "3900.00"},
		{"SKU-QUESO-01", "Queso campesino 250g", 15, "7800.00"},
		{"SKU-AREPA-01", "Arepas x5", 30, "5600.00"},
	} {
		productID := uuid.New().String()
		if _, err := pool.Exec(ctx,
			`INSERT INTO products (id, tenant_id, sku, name, status, created_at, updated_at) VALUES ($1, $2, $3, $4, 'active', $5, $5)`,
			productID, tenantID, p.sku, p.name, now); err != nil {
			log.Fatal().Err(err).Str("sku", p.sku).Msg("insertar producto")
		}
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			log.Fatal().Err(err).Str("sku", p.sku).Msg("precio inválido")
		}
		if _, err := pool.Exec(ctx,
			`INSERT INTO store_products (id, store_id, product_id, stock, price, stock_threshold, updated_at) VALUES ($1, $2, $3, $4, $5, 5, $6)`,
			uuid.New().String(), storeID, productID, p.stock, price, now); err != nil {
			log.Fatal().Err(err).Str("sku", p.sku).Msg("insertar stock")
		}
	}

	log.Info().
		Str("tenant_id", tenantID).
		Str("store_id", storeID).
		Str("admin_email", email).
		Msg("seed completado")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
