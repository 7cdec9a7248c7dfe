package commissions_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Seguros-api/internal/application/access"
	"github.com/jhoicas/Seguros-api/internal/application/commissions"
	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/infrastructure/memory"
	"github.com/jhoicas/Seguros-api/pkg/logger"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

type fixture struct {
	store  *memory.Store
	events *memory.EventRecorder
	uc     *commissions.UseCase
	scope  access.Scope
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Permissions().Upsert(ctx, &entity.ModulePermission{
		Role: entity.RoleContabilidad, Module: entity.ModuleCommissions, Permissions: entity.AllPermissions,
	}))
	require.NoError(t, store.Policies().Create(ctx, &entity.Policy{
		ID: "pol-1", CompanyID: "co-a", InsurerID: "ins-1", InsuranceTypeID: "auto",
		StartDate: date(2025, time.March, 10), EndDate: date(2026, time.March, 10),
		Premium: decimal.RequireFromString("1234.56"), Status: entity.PolicyVigente,
	}))
	events := &memory.EventRecorder{}
	uc := commissions.NewUseCase(store, store.Policies(), store.CommissionRules(),
		access.NewEvaluator(store.Permissions()), events, func() time.Time { return fixedNow }, logger.Nop())
	user := &entity.User{ID: "u-1", Role: entity.RoleContabilidad}
	return &fixture{store: store, events: events, uc: uc, scope: access.Scope{User: user, CompanyID: "co-a"}}
}

func (f *fixture) rule(t *testing.T, rate string, from time.Time, to *time.Time) {
	t.Helper()
	_, err := f.uc.CreateRule(context.Background(), f.scope, commissions.RuleInput{
		InsurerID: "ins-1", InsuranceTypeID: "auto", Rate: *dec(rate), EffectiveFrom: from, EffectiveTo: to,
	})
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución de tasa
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeRate_SinReglaNiOverride(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.ComputeRate(context.Background(), f.scope, "pol-1")
	assert.ErrorIs(t, err, domain.ErrNoRateFound)
}

func TestComputeRate_ReglaVigenteEnLaEmision(t *testing.T) {
	f := newFixture(t)
	end := date(2025, time.March, 10)
	f.rule(t, "8", date(2024, time.January, 1), &end) // termina justo en la emisión: no aplica
	f.rule(t, "10", date(2025, time.January, 1), nil)
	f.rule(t, "12", date(2025, time.April, 1), nil) // empieza después de la emisión

	rate, err := f.uc.ComputeRate(context.Background(), f.scope, "pol-1")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(10)), rate.String())
}

func TestComputeRate_OverrideDeLaPoliza(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.rule(t, "10", date(2025, time.January, 1), nil)

	p, err := f.store.Policies().GetByID(ctx, "pol-1")
	require.NoError(t, err)
	p.CommissionRate = dec("15")
	require.NoError(t, f.store.Policies().Update(ctx, p))

	rate, err := f.uc.ComputeRate(ctx, f.scope, "pol-1")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(15)))
}

func TestComputeRate_OtraEmpresa(t *testing.T) {
	f := newFixture(t)
	f.scope.CompanyID = "co-b"
	_, err := f.uc.ComputeRate(context.Background(), f.scope, "pol-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta y estados
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_TasaExplicitaGana(t *testing.T) {
	f := newFixture(t)
	f.rule(t, "10", date(2025, time.January, 1), nil)

	c, err := f.uc.Create(context.Background(), f.scope, commissions.CreateInput{
		PolicyID: "pol-1", ProducerID: "prod-1", Rate: dec("7.5"), Period: "2025-06",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CommissionPendiente, c.Status)
	assert.Equal(t, "7.5", c.Rate.String())
	// 1234.56 * 7.5 / 100 = 92.592
	assert.Equal(t, "92.59", c.Amount.StringFixed(2))
	assert.Len(t, f.events.OfType(entity.EventCommissionCreated), 1)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := []struct {
		name string
		in   commissions.CreateInput
		err  error
	}{
		{"periodo mal formado", commissions.CreateInput{PolicyID: "pol-1", ProducerID: "p", Rate: dec("5"), Period: "2025-6"}, domain.ErrValidation},
		{"mes 13", commissions.CreateInput{PolicyID: "pol-1", ProducerID: "p", Rate: dec("5"), Period: "2025-13"}, domain.ErrValidation},
		{"tasa negativa", commissions.CreateInput{PolicyID: "pol-1", ProducerID: "p", Rate: dec("-1"), Period: "2025-06"}, domain.ErrValidation},
		{"tasa con 3 decimales", commissions.CreateInput{PolicyID: "pol-1", ProducerID: "p", Rate: dec("12.345"), Period: "2025-06"}, domain.ErrValidation},
		{"prima con 3 decimales", commissions.CreateInput{PolicyID: "pol-1", ProducerID: "p", Rate: dec("5"), PremiumAmount: dec("100.001"), Period: "2025-06"}, domain.ErrValidation},
		{"prima cero", commissions.CreateInput{PolicyID: "pol-1", ProducerID: "p", Rate: dec("5"), PremiumAmount: dec("0"), Period: "2025-06"}, domain.ErrValidation},
		{"sin productor", commissions.CreateInput{PolicyID: "pol-1", Rate: dec("5"), Period: "2025-06"}, domain.ErrValidation},
		{"sin tasa resoluble", commissions.CreateInput{PolicyID: "pol-1", ProducerID: "p", Period: "2025-06"}, domain.ErrNoRateFound},
		{"póliza inexistente", commissions.CreateInput{PolicyID: "nope", ProducerID: "p", Rate: dec("5"), Period: "2025-06"}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(ctx, f.scope, tc.in)
			assert.ErrorIs(t, err, tc.err)
		})
	}
	assert.Equal(t, 0, f.store.Counts()["commissions"])
}

func TestEstadosTerminales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	newCommission := func() string {
		c, err := f.uc.Create(ctx, f.scope, commissions.CreateInput{PolicyID: "pol-1", ProducerID: "p", Rate: dec("10"), Period: "2025-06"})
		require.NoError(t, err)
		return c.ID
	}

	paid := newCommission()
	c, err := f.uc.MarkPaid(ctx, f.scope, paid)
	require.NoError(t, err)
	assert.Equal(t, entity.CommissionPagada, c.Status)
	require.NotNil(t, c.PaidAt)
	_, err = f.uc.Annul(ctx, f.scope, paid)
	assert.ErrorIs(t, err, domain.ErrAlreadyTerminal)

	annulled := newCommission()
	_, err = f.uc.Annul(ctx, f.scope, annulled)
	require.NoError(t, err)
	_, err = f.uc.MarkPaid(ctx, f.scope, annulled)
	assert.ErrorIs(t, err, domain.ErrAlreadyTerminal)

	assert.Len(t, f.events.OfType(entity.EventCommissionPaid), 1)
	assert.Len(t, f.events.OfType(entity.EventCommissionAnnulled), 1)
}

func TestCreateRule_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	from := date(2025, time.January, 1)

	_, err := f.uc.CreateRule(ctx, f.scope, commissions.RuleInput{InsurerID: "ins-1", InsuranceTypeID: "auto", Rate: *dec("101"), EffectiveFrom: from})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.CreateRule(ctx, f.scope, commissions.RuleInput{InsurerID: "ins-1", InsuranceTypeID: "auto", Rate: *dec("7.125"), EffectiveFrom: from})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.CreateRule(ctx, f.scope, commissions.RuleInput{InsurerID: "ins-1", InsuranceTypeID: "auto", Rate: *dec("5"), EffectiveFrom: from, EffectiveTo: &from})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.CreateRule(ctx, access.Scope{User: f.scope.User}, commissions.RuleInput{InsurerID: "ins-1", InsuranceTypeID: "auto", Rate: *dec("5"), EffectiveFrom: from})
	assert.ErrorIs(t, err, domain.ErrNoCompanySelected)

	rules, err := f.uc.ListRules(ctx, f.scope)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestSinPermiso(t *testing.T) {
	f := newFixture(t)
	f.scope.User = &entity.User{ID: "u-2", Role: entity.RoleEjecutivo}
	_, err := f.uc.ComputeRate(context.Background(), f.scope, "pol-1")
	assert.ErrorIs(t, err, domain.ErrForbiddenAction)
}
