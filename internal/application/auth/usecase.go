package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
// El núcleo confía en la identidad resuelta {userID, tenantID, role} que el
// middleware extrae del token generado aquí.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	tenantRepo repository.TenantRepository
	jwtCfg     JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tenantRepo repository.TenantRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tenantRepo: tenantRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya existe en ese tenant.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	existing, err := uc.userRepo.GetByEmailAndTenant(ctx, in.Email, in.TenantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	tenant, err := uc.tenantRepo.GetByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	role := in.Role
	if role == "" {
		role = entity.RoleVendedor
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     in.TenantID,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password dentro del tenant, genera JWT y retorna
// token + usuario. El email solo es único por tenant: buscarlo sin acotar
// resolvería a un usuario arbitrario cuando dos tenants comparten email.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmailAndTenant(ctx, in.Email, in.TenantID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.TenantID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		TenantID:  u.TenantID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}
