package http_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Seguros-api/internal/application/dto"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/Seguros-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: Sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	env := buildTestApp(t)
	resp := env.do(t, request{method: http.MethodGet, path: "/api/me"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

// Caso 2: Formato distinto de Bearer → HTTP 401 INVALID_TOKEN.
func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	env := buildTestApp(t)
	resp := env.do(t, request{method: http.MethodGet, path: "/api/me", auth: "Basic dXNlcjpwYXNz"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

// Caso 3: Token firmado con otro secreto → HTTP 401.
func TestAuthMiddleware_FirmaIncorrecta_Retorna401(t *testing.T) {
	env := buildTestApp(t)
	tok, err := pkgjwt.Generate("otro-secreto", userAdmin, "ADMINISTRADOR", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := env.do(t, request{method: http.MethodGet, path: "/api/me", auth: "Bearer " + tok})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 4: Usuario del token inactivo o inexistente → HTTP 401 INACTIVE_USER.
func TestAuthMiddleware_UsuarioNoActivo_Retorna401(t *testing.T) {
	env := buildTestApp(t)
	for _, id := range []string{userInactive, "00000000-0000-0000-0000-00000000dead"} {
		resp := env.do(t, request{method: http.MethodGet, path: "/api/me", auth: tokenFor(t, id, entity.RoleAdministrador)})
		var body dto.ErrorResponse
		decode(t, resp, &body)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, id)
		assert.Equal(t, "INACTIVE_USER", body.Code)
	}
}

// Caso 5: El rol efectivo es el de la base aunque el token diga otro.
func TestAuthMiddleware_RolDeLaBase(t *testing.T) {
	env := buildTestApp(t)
	resp := env.do(t, request{
		method: http.MethodGet, path: "/api/me",
		auth: tokenFor(t, userReader, entity.RoleSuperAdmin),
	})
	var me dto.MeResponse
	decode(t, resp, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "SOLO_LECTURA", me.User.Role)
	assert.False(t, me.Global)
}

// ──────────────────────────────────────────────────────────────────────────────
// TenantMiddleware
// ──────────────────────────────────────────────────────────────────────────────

// Caso 6: Sin X-Company-ID se usa la primera membresía.
func TestTenantMiddleware_EmpresaPorDefecto(t *testing.T) {
	env := buildTestApp(t)
	resp := env.do(t, request{method: http.MethodGet, path: "/api/me", auth: tokenFor(t, userAdmin, entity.RoleAdministrador)})
	var me dto.MeResponse
	decode(t, resp, &me)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, companyA, me.ActiveCompanyID)
	require.Len(t, me.Companies, 1)
	assert.Equal(t, "corredora-a", me.Companies[0].Slug)
	assert.Equal(t, "ADMINISTRADOR", me.Companies[0].Role)
}

// Caso 7: Empresa sin membresía → HTTP 403 FORBIDDEN_COMPANY.
func TestTenantMiddleware_EmpresaAjena_Retorna403(t *testing.T) {
	env := buildTestApp(t)
	resp := env.do(t, request{
		method: http.MethodGet, path: "/api/me",
		auth: tokenFor(t, userAdmin, entity.RoleAdministrador), company: companyB,
	})
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN_COMPANY", body.Code)
}

// Caso 8: SUPER_ADMIN con "global" y con cualquier empresa.
func TestTenantMiddleware_SuperAdmin(t *testing.T) {
	env := buildTestApp(t)
	tok := tokenFor(t, userSuper, entity.RoleSuperAdmin)

	resp := env.do(t, request{method: http.MethodGet, path: "/api/me", auth: tok, company: "global"})
	var me dto.MeResponse
	decode(t, resp, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, me.Global)
	assert.Len(t, me.Companies, 2)

	resp = env.do(t, request{method: http.MethodGet, path: "/api/me", auth: tok, company: companyB})
	decode(t, resp, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, companyB, me.ActiveCompanyID)
	assert.False(t, me.Global)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin(t *testing.T) {
	env := buildTestApp(t)

	resp := env.do(t, request{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{
		"email": " Admin@A.co ", "password": testPassword,
	}})
	var out dto.LoginResponse
	decode(t, resp, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, userAdmin, out.User.ID)

	// el token emitido sirve para las rutas protegidas
	resp = env.do(t, request{method: http.MethodGet, path: "/api/me", auth: "Bearer " + out.Token})
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_Rechazos(t *testing.T) {
	env := buildTestApp(t)
	tests := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{"password incorrecto", map[string]string{"email": "admin@a.co", "password": "nope"}, http.StatusUnauthorized},
		{"usuario inactivo", map[string]string{"email": "baja@a.co", "password": testPassword}, http.StatusUnauthorized},
		{"email desconocido", map[string]string{"email": "x@x.co", "password": testPassword}, http.StatusUnauthorized},
		{"campos vacíos", map[string]string{"email": "", "password": ""}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, request{method: http.MethodPost, path: "/api/auth/login", body: tt.body})
			resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
