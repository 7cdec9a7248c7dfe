package renewal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/domain/renewal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEligible(t *testing.T) {
	today := date(2024, 6, 1)
	cases := []struct {
		name   string
		status entity.PolicyStatus
		end    time.Time
		want   bool
	}{
		{"vence hoy", entity.PolicyVigente, today, true},
		{"límite superior", entity.PolicyVigente, date(2024, 7, 1), true},
		{"fuera de ventana", entity.PolicyVigente, date(2024, 7, 2), false},
		{"ya vencida", entity.PolicyVigente, date(2024, 5, 31), false},
		{"cancelada", entity.PolicyCancelada, date(2024, 6, 10), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &entity.Policy{Status: tc.status, EndDate: tc.end}
			assert.Equal(t, tc.want, renewal.Eligible(p, today, 30))
		})
	}
}

func TestIsOverdue(t *testing.T) {
	r := &entity.Renewal{Status: entity.RenewalPendiente, OriginalEndDate: date(2024, 6, 1)}
	assert.False(t, renewal.IsOverdue(r, date(2024, 6, 1)))
	assert.True(t, renewal.IsOverdue(r, date(2024, 6, 2)))
	r.Status = entity.RenewalProcesada
	assert.False(t, renewal.IsOverdue(r, date(2024, 6, 2)))
}

func TestValidateTransition(t *testing.T) {
	open := &entity.Renewal{Status: entity.RenewalPendiente}
	assert.NoError(t, renewal.ValidateTransition(open, entity.RenewalProcesada))
	assert.NoError(t, renewal.ValidateTransition(open, entity.RenewalRechazada))
	assert.NoError(t, renewal.ValidateTransition(open, entity.RenewalVencida))
	assert.ErrorIs(t, renewal.ValidateTransition(open, entity.RenewalPendiente), domain.ErrInvalidTransition)

	done := &entity.Renewal{Status: entity.RenewalProcesada}
	assert.ErrorIs(t, renewal.ValidateTransition(done, entity.RenewalRechazada), domain.ErrInvalidTransition)
}
