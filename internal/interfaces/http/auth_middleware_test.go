package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Caja-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Caja-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testTenantID  = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "caja-api-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con AuthMiddleware y
// RequireRole, más un handler dummy que devuelve 200 si pasa los middlewares.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ─── RequireRole ─────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, "/protected", tokenForRole(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_CajeroAccedeRutaMultiRol(t *testing.T) {
	app := buildTestApp("admin", "cajero")
	resp := doRequest(t, app, "/protected", tokenForRole(t, "cajero"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"cajero debe poder acceder a ruta que permite admin o cajero")
}

func TestRequireRole_VendedorBloqueadoEnRutaDeCaja(t *testing.T) {
	app := buildTestApp("admin", "cajero")
	resp := doRequest(t, app, "/protected", tokenForRole(t, "vendedor"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp("admin")
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "/protected", "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, "/protected", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, "/protected", "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ─── AuthMiddleware — extracción de claims ───────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   apphttp.GetUserID(c),
			"tenant_id": apphttp.GetTenantID(c),
			"role":      apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, "cajero"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testTenantID, body["tenant_id"])
	assert.Equal(t, "cajero", body["role"])
}

// ─── RequireModule ───────────────────────────────────────────────────────────

// fakeModuleChecker permite simular módulos activos y fallos de DB.
type fakeModuleChecker struct {
	active map[string]bool
	err    error
}

func (f *fakeModuleChecker) HasActiveModule(_ context.Context, _, moduleName string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.active[moduleName], nil
}

func buildModuleApp(checker *fakeModuleChecker) *fiber.App {
	app := fiber.New()
	app.Get("/cash",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireModule("CASH", checker),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	return app
}

func TestRequireModule_ModuloActivo_Pasa(t *testing.T) {
	app := buildModuleApp(&fakeModuleChecker{active: map[string]bool{"CASH": true}})
	resp := doRequest(t, app, "/cash", tokenForRole(t, "cajero"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireModule_ModuloInactivo_Retorna403(t *testing.T) {
	app := buildModuleApp(&fakeModuleChecker{active: map[string]bool{}})
	resp := doRequest(t, app, "/cash", tokenForRole(t, "cajero"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MODULE_DISABLED")
}

func TestRequireModule_FalloDeInfra_Retorna503(t *testing.T) {
	app := buildModuleApp(&fakeModuleChecker{err: errors.New("db caída")})
	resp := doRequest(t, app, "/cash", tokenForRole(t, "cajero"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

// ─── pkg/jwt ─────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantID, "vendedor", testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, tenantID, role, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testTenantID, tenantID)
	assert.Equal(t, "vendedor", role)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantID, "admin", testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantID, "admin", testIssuer, testExpMin)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
