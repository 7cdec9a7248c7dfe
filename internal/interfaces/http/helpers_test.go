package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Seguros-api/internal/application/access"
	"github.com/jhoicas/Seguros-api/internal/application/auth"
	"github.com/jhoicas/Seguros-api/internal/application/commissions"
	"github.com/jhoicas/Seguros-api/internal/application/payments"
	"github.com/jhoicas/Seguros-api/internal/application/policies"
	"github.com/jhoicas/Seguros-api/internal/application/renewals"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Seguros-api/internal/interfaces/http"
	"github.com/jhoicas/Seguros-api/pkg/logger"
	pkgjwt "github.com/jhoicas/Seguros-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "seguros-api-test"
	testExpMin    = 60
	testPassword  = "clave-segura-123"

	userAdmin    = "00000000-0000-0000-0000-0000000000a1"
	userReader   = "00000000-0000-0000-0000-0000000000a2"
	userOutsider = "00000000-0000-0000-0000-0000000000a3"
	userSuper    = "00000000-0000-0000-0000-0000000000a4"
	userInactive = "00000000-0000-0000-0000-0000000000a5"

	companyA = "00000000-0000-0000-0000-0000000000c1"
	companyB = "00000000-0000-0000-0000-0000000000c2"
)

var fixedNow = time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	app    *fiber.App
	store  *memory.Store
	events *memory.EventRecorder
}

// buildTestApp construye la API completa sobre el store en memoria:
//   - empresas A y B activas
//   - admin y lector en A, otro admin en B, un SUPER_ADMIN y un usuario inactivo
//   - ADMINISTRADOR con todos los permisos; SOLO_LECTURA solo ve pólizas
func buildTestApp(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	events := &memory.EventRecorder{}
	log := logger.Nop()
	now := func() time.Time { return fixedNow }

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	created := fixedNow.AddDate(-1, 0, 0)
	store.AddCompany(&entity.Company{ID: companyA, Name: "Corredora A", Slug: "corredora-a", Status: entity.CompanyActivo, CreatedAt: created})
	store.AddCompany(&entity.Company{ID: companyB, Name: "Corredora B", Slug: "corredora-b", Status: entity.CompanyActivo, CreatedAt: created})

	users := []struct {
		id, email string
		role      entity.Role
		status    string
	}{
		{userAdmin, "admin@a.co", entity.RoleAdministrador, entity.UserStatusActive},
		{userReader, "lector@a.co", entity.RoleSoloLectura, entity.UserStatusActive},
		{userOutsider, "admin@b.co", entity.RoleAdministrador, entity.UserStatusActive},
		{userSuper, "root@seguros.co", entity.RoleSuperAdmin, entity.UserStatusActive},
		{userInactive, "baja@a.co", entity.RoleAdministrador, entity.UserStatusInactive},
	}
	for _, u := range users {
		store.AddUser(&entity.User{
			ID: u.id, Email: u.email, PasswordHash: string(hash), Name: u.email,
			Role: u.role, Status: u.status, CreatedAt: created, UpdatedAt: created,
		})
	}
	memberships := []struct {
		id, user, company string
		role              entity.MembershipRole
	}{
		{"m1", userAdmin, companyA, entity.MemberAdministrador},
		{"m2", userReader, companyA, entity.MemberSoloLectura},
		{"m3", userOutsider, companyB, entity.MemberAdministrador},
		{"m4", userInactive, companyA, entity.MemberAdministrador},
	}
	for i, m := range memberships {
		require.NoError(t, store.AddMembership(&entity.CompanyMembership{
			ID: m.id, UserID: m.user, CompanyID: m.company, Role: m.role, IsActive: true,
			CreatedAt: created.Add(time.Duration(i) * time.Minute),
		}))
	}

	for _, m := range entity.Modules() {
		require.NoError(t, store.Permissions().Upsert(ctx, &entity.ModulePermission{
			Role: entity.RoleAdministrador, Module: m, Permissions: entity.AllPermissions,
		}))
	}
	require.NoError(t, store.Permissions().Upsert(ctx, &entity.ModulePermission{
		Role: entity.RoleSoloLectura, Module: entity.ModulePolicies, Permissions: entity.Permissions{CanView: true},
	}))

	evaluator := access.NewEvaluator(store.Permissions())
	tenants := access.NewTenantResolver(store.Users(), store.Companies(), store.Memberships(), log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        auth.NewAuthUseCase(store.Users(), tenants, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		Tenants:       tenants,
		Permissions:   access.NewPermissionService(store.Permissions(), evaluator),
		Evaluator:     evaluator,
		PolicyUC:      policies.NewUseCase(store, store.Policies(), store.Payments(), store.Renewals(), evaluator, events, now, log),
		PaymentUC:     payments.NewUseCase(store, store.Payments(), evaluator, events, now, log),
		CommissionUC:  commissions.NewUseCase(store, store.Policies(), store.CommissionRules(), evaluator, events, now, log),
		RenewalUC:     renewals.NewUseCase(store, store.Policies(), store.Renewals(), evaluator, events, now, log),
		Users:         store.Users(),
		JWTSecret:     testJWTSecret,
		LookaheadDays: 30,
		Now:           now,
	})
	return &testEnv{app: app, store: store, events: events}
}

// tokenFor genera un JWT para el usuario indicado.
func tokenFor(t *testing.T, userID string, role entity.Role) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, string(role), testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

type request struct {
	method  string
	path    string
	auth    string
	company string
	body    any
}

// do lanza la petición y devuelve la respuesta.
func (e *testEnv) do(t *testing.T, r request) *http.Response {
	t.Helper()
	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.auth != "" {
		req.Header.Set("Authorization", r.auth)
	}
	if r.company != "" {
		req.Header.Set(apphttp.HeaderCompanyID, r.company)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decode lee el cuerpo JSON en out y cierra la respuesta.
func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func policyBody(start, end string) map[string]any {
	return map[string]any{
		"client_id":              "00000000-0000-0000-0000-00000000c11e",
		"insurer_id":             "00000000-0000-0000-0000-0000000001a5",
		"insurance_type_id":      "00000000-0000-0000-0000-0000000000a7",
		"policy_number":          "POL-100",
		"start_date":             start,
		"end_date":               end,
		"premium":                "6000",
		"number_of_installments": 6,
	}
}
