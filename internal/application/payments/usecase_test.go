package payments_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Seguros-api/internal/application/access"
	"github.com/jhoicas/Seguros-api/internal/application/payments"
	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/infrastructure/memory"
	"github.com/jhoicas/Seguros-api/pkg/logger"
)

var fixedNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*memory.Store, *memory.EventRecorder, *payments.UseCase, access.Scope) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	events := &memory.EventRecorder{}
	require.NoError(t, store.Permissions().Upsert(ctx, &entity.ModulePermission{
		Role: entity.RoleContabilidad, Module: entity.ModulePayments,
		Permissions: entity.Permissions{CanView: true, CanEdit: true},
	}))

	require.NoError(t, store.Policies().Create(ctx, &entity.Policy{ID: "pol-1", CompanyID: "co-a", Status: entity.PolicyVigente}))
	batch := []*entity.Payment{
		{ID: "pay-1", CompanyID: "co-a", PolicyID: "pol-1", InstallmentNumber: 1, DueDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(500), Status: entity.PaymentPendiente},
		{ID: "pay-2", CompanyID: "co-a", PolicyID: "pol-1", InstallmentNumber: 2, DueDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(500), Status: entity.PaymentPendiente},
		{ID: "pay-3", CompanyID: "co-a", PolicyID: "pol-1", InstallmentNumber: 3, DueDate: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(500), Status: entity.PaymentPendiente},
	}
	require.NoError(t, store.Payments().CreateBatch(ctx, batch))

	uc := payments.NewUseCase(store, store.Payments(), access.NewEvaluator(store.Permissions()), events,
		func() time.Time { return fixedNow }, logger.Nop())
	user := &entity.User{ID: "u-1", Role: entity.RoleContabilidad, Status: entity.UserStatusActive}
	return store, events, uc, access.Scope{User: user, CompanyID: "co-a"}
}

func TestSettle_CuotaVencidaSePuedeCobrar(t *testing.T) {
	_, events, uc, scope := setup(t)

	p, err := uc.Settle(context.Background(), scope, "pay-1", payments.SettleInput{Method: "transferencia", Reference: "TX-9"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompletado, p.Status)
	require.NotNil(t, p.PaidAt)
	assert.Equal(t, fixedNow, *p.PaidAt)
	assert.Equal(t, "TX-9", p.Reference)
	assert.Len(t, events.OfType(entity.EventPaymentSettled), 1)
}

func TestSettle_DosVecesEsTransicionInvalida(t *testing.T) {
	_, _, uc, scope := setup(t)
	ctx := context.Background()
	_, err := uc.Settle(ctx, scope, "pay-2", payments.SettleInput{})
	require.NoError(t, err)

	_, err = uc.Settle(ctx, scope, "pay-2", payments.SettleInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSettle_OtraEmpresa(t *testing.T) {
	_, _, uc, scope := setup(t)
	scope.CompanyID = "co-b"
	_, err := uc.Settle(context.Background(), scope, "pay-1", payments.SettleInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// CONTABILIDAD no tiene delete sobre PAYMENTS.
func TestAnnul_SinPermiso(t *testing.T) {
	store, _, uc, scope := setup(t)
	_, err := uc.Annul(context.Background(), scope, "pay-1", "error de digitación")
	assert.ErrorIs(t, err, domain.ErrForbiddenAction)

	p, err := store.Payments().GetByID(context.Background(), "pay-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPendiente, p.Status)
}

func TestAnnul_SuperAdmin(t *testing.T) {
	_, events, uc, scope := setup(t)
	scope.User = &entity.User{ID: "root", Role: entity.RoleSuperAdmin}

	p, err := uc.Annul(context.Background(), scope, "pay-3", "replan")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentAnulado, p.Status)
	assert.Equal(t, "replan", p.AnnulReason)
	assert.Len(t, events.OfType(entity.EventPaymentAnnulled), 1)

	_, err = uc.Annul(context.Background(), scope, "pay-3", "otra vez")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReportOverdue(t *testing.T) {
	_, events, uc, _ := setup(t)

	n, err := uc.ReportOverdue(context.Background(), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got := events.OfType(entity.EventPaymentOverdue)
	require.Len(t, got, 2)
	assert.Equal(t, "pay-1", got[0].EntityID)
	assert.Equal(t, "37", got[0].Data["days_overdue"])
	assert.Equal(t, "9", got[1].Data["days_overdue"])
}
