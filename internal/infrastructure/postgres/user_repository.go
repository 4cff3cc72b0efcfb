package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository sobre PostgreSQL (usable con pool
// o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, tenant_id, email, password_hash, name, role, status, created_at, updated_at`

// Create persiste un usuario. El email es único por tenant; la violación se
// traduce al error de dominio.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	query := `
		INSERT INTO users (id, tenant_id, email, password_hash, name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.TenantID, u.Email, u.PasswordHash, u.Name, u.Role, u.Status, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID. Retorna (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get user")
}

// GetByEmailAndTenant busca por email dentro de un tenant. Retorna (nil, nil)
// si no existe.
func (r *UserRepo) GetByEmailAndTenant(ctx context.Context, email, tenantID string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND tenant_id = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, email, tenantID), "get user by email and tenant")
}

func (r *UserRepo) scanOne(row pgx.Row, op string) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.TenantID, &u.Email, &u.PasswordHash, &u.Name,
		&u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}
