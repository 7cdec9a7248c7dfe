package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Seguros-api/internal/application/access"
	"github.com/jhoicas/Seguros-api/internal/application/jobs"
	"github.com/jhoicas/Seguros-api/internal/application/payments"
	"github.com/jhoicas/Seguros-api/internal/application/policies"
	"github.com/jhoicas/Seguros-api/internal/application/renewals"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/infrastructure/memory"
	"github.com/jhoicas/Seguros-api/pkg/logger"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextRun(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		hour int
		want time.Time
	}{
		{"antes de la hora", time.Date(2025, 1, 15, 1, 30, 0, 0, time.UTC), 2, time.Date(2025, 1, 15, 2, 0, 0, 0, time.UTC)},
		{"justo a la hora pasa al día siguiente", time.Date(2025, 1, 15, 2, 0, 0, 0, time.UTC), 2, time.Date(2025, 1, 16, 2, 0, 0, 0, time.UTC)},
		{"después de la hora", time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC), 2, time.Date(2025, 2, 1, 2, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jobs.NextRun(tt.now, tt.hour))
		})
	}
}

// Caso: una corrida crea la renovación, reporta cuotas vencidas y una segunda corrida no duplica.
func TestRunner_RunOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	events := &memory.EventRecorder{}
	log := logger.Nop()
	now := func() time.Time { return date(2025, time.January, 15) }
	evaluator := access.NewEvaluator(store.Permissions())

	admin := &entity.User{ID: "u1", Role: entity.RoleSuperAdmin, Status: entity.UserStatusActive}
	policyUC := policies.NewUseCase(store, store.Policies(), store.Payments(), store.Renewals(), evaluator, events, now, log)
	_, err := policyUC.Create(ctx, access.Scope{User: admin, CompanyID: "co-1"}, policies.CreateInput{
		ClientID:             "cl-1",
		InsurerID:            "ins-1",
		InsuranceTypeID:      "typ-1",
		PolicyNumber:         "P-1",
		StartDate:            date(2024, time.February, 1),
		EndDate:              date(2025, time.February, 1),
		Premium:              decimal.NewFromInt(1200),
		NumberOfInstallments: 6,
	})
	require.NoError(t, err)

	runner := jobs.NewRunner(
		renewals.NewUseCase(store, store.Policies(), store.Renewals(), evaluator, events, now, log),
		payments.NewUseCase(store, store.Payments(), evaluator, events, now, log),
		30, now, log,
	)

	sum, err := runner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.RenewalsCreated)
	assert.Equal(t, 0, sum.RenewalsOverdue)
	// cuotas de feb a jul de 2024 ya vencidas y sin cobrar
	assert.Equal(t, 6, sum.PaymentsOverdue)
	assert.Len(t, events.OfType(entity.EventPaymentOverdue), 6)

	sum, err = runner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.RenewalsCreated)
	assert.Equal(t, 1, sum.RenewalsExisting)
	assert.Equal(t, 1, store.Counts()["renewals"])
}

func TestRunner_LoopSeDetiene(t *testing.T) {
	store := memory.NewStore()
	evaluator := access.NewEvaluator(store.Permissions())
	log := logger.Nop()
	runner := jobs.NewRunner(
		renewals.NewUseCase(store, store.Policies(), store.Renewals(), evaluator, &memory.EventRecorder{}, nil, log),
		payments.NewUseCase(store, store.Payments(), evaluator, &memory.EventRecorder{}, nil, log),
		30, nil, log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Loop(ctx, 2, time.Hour)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Loop no terminó tras cancelar el contexto")
	}
}
