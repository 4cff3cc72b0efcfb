package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/auth"
	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/infrastructure/memory"
)

const (
	testTenantID  = "t-principal"
	otherTenantID = "t-ajeno"
)

func newAuthFixture(t *testing.T) (*memory.Store, *auth.AuthUseCase) {
	t.Helper()
	st := memory.New()
	st.PutTenant(entity.Tenant{ID: testTenantID, Name: "Principal", Status: "active"})
	st.PutTenant(entity.Tenant{ID: otherTenantID, Name: "Ajeno", Status: "active"})
	uc := auth.NewAuthUseCase(st.Users(), st.Tenants(), auth.JWTConfig{
		Secret:     "secreto-de-prueba",
		ExpMinutes: 60,
		Issuer:     "caja-api-test",
	})
	return st, uc
}

func register(t *testing.T, uc *auth.AuthUseCase, tenantID, email, password, role string) *dto.UserResponse {
	t.Helper()
	out, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		TenantID: tenantID, Email: email, Password: password, Role: role,
	})
	require.NoError(t, err)
	return out
}

func TestRegisterYLogin_FlujoCompleto(t *testing.T) {
	_, uc := newAuthFixture(t)
	register(t, uc, testTenantID, "cajero@demo.local", "clave-segura", entity.RoleCajero)

	out, err := uc.Login(context.Background(), dto.LoginRequest{
		TenantID: testTenantID, Email: "cajero@demo.local", Password: "clave-segura",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, testTenantID, out.User.TenantID)
	assert.Equal(t, entity.RoleCajero, out.User.Role)
}

func TestLogin_MismoEmailEnDosTenants_ResuelvePorTenant(t *testing.T) {
	_, uc := newAuthFixture(t)
	// El email solo es único por tenant: el login debe resolver siempre al
	// usuario del tenant de las credenciales, nunca a uno arbitrario.
	register(t, uc, testTenantID, "gerente@compartido.local", "clave-principal", entity.RoleAdmin)
	register(t, uc, otherTenantID, "gerente@compartido.local", "clave-ajena", entity.RoleVendedor)

	principal, err := uc.Login(context.Background(), dto.LoginRequest{
		TenantID: testTenantID, Email: "gerente@compartido.local", Password: "clave-principal",
	})
	require.NoError(t, err)
	assert.Equal(t, testTenantID, principal.User.TenantID)
	assert.Equal(t, entity.RoleAdmin, principal.User.Role)

	ajeno, err := uc.Login(context.Background(), dto.LoginRequest{
		TenantID: otherTenantID, Email: "gerente@compartido.local", Password: "clave-ajena",
	})
	require.NoError(t, err)
	assert.Equal(t, otherTenantID, ajeno.User.TenantID)
	assert.Equal(t, entity.RoleVendedor, ajeno.User.Role)

	// La clave del otro tenant no abre este.
	_, err = uc.Login(context.Background(), dto.LoginRequest{
		TenantID: testTenantID, Email: "gerente@compartido.local", Password: "clave-ajena",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_PasswordIncorrecta_Unauthorized(t *testing.T) {
	_, uc := newAuthFixture(t)
	register(t, uc, testTenantID, "cajero@demo.local", "clave-segura", entity.RoleCajero)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		TenantID: testTenantID, Email: "cajero@demo.local", Password: "clave-mala",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	_, uc := newAuthFixture(t)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		TenantID: testTenantID, Email: "nadie@demo.local", Password: "lo-que-sea",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRegister_EmailDuplicadoEnTenant_Conflicto(t *testing.T) {
	_, uc := newAuthFixture(t)
	register(t, uc, testTenantID, "cajero@demo.local", "clave-segura", entity.RoleCajero)

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		TenantID: testTenantID, Email: "cajero@demo.local", Password: "otra-clave",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_MismoEmailEnOtroTenant_Permitido(t *testing.T) {
	_, uc := newAuthFixture(t)
	register(t, uc, testTenantID, "cajero@demo.local", "clave-segura", entity.RoleCajero)

	out, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		TenantID: otherTenantID, Email: "cajero@demo.local", Password: "otra-clave",
	})
	require.NoError(t, err)
	assert.Equal(t, otherTenantID, out.TenantID)
}

func TestRegister_TenantInexistente_NotFound(t *testing.T) {
	_, uc := newAuthFixture(t)

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		TenantID: "t-fantasma", Email: "cajero@demo.local", Password: "clave-segura",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
