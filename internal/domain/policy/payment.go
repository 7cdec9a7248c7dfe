package policy

import (
	"time"

	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/calendar"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

// EffectivePaymentStatus devuelve VENCIDO para cuotas PENDIENTE con vencimiento anterior a today.
func EffectivePaymentStatus(p *entity.Payment, today time.Time) entity.PaymentStatus {
	if p.Status == entity.PaymentPendiente && calendar.DateOnly(p.DueDate).Before(calendar.DateOnly(today)) {
		return entity.PaymentVencido
	}
	return p.Status
}

// Settle marca la cuota como COMPLETADO. Solo desde PENDIENTE (incluye vencidas).
func Settle(p *entity.Payment, paidAt time.Time, method, reference string) error {
	if p.Status != entity.PaymentPendiente {
		return domain.NewTransitionError("payment", string(p.Status), string(entity.PaymentCompletado))
	}
	p.Status = entity.PaymentCompletado
	p.PaidAt = &paidAt
	p.Method = method
	p.Reference = reference
	p.UpdatedAt = paidAt
	return nil
}

// Annul anula la cuota (baja lógica). ANULADO no vuelve a PENDIENTE.
func Annul(p *entity.Payment, reason string, now time.Time) error {
	if !p.Active() {
		return domain.NewTransitionError("payment", string(p.Status), string(entity.PaymentAnulado))
	}
	p.Status = entity.PaymentAnulado
	p.AnnulReason = reason
	p.UpdatedAt = now
	return nil
}

// ScheduleLocked informa si alguna cuota activa impide rehacer el plan.
func ScheduleLocked(payments []*entity.Payment) bool {
	for _, p := range payments {
		if p.Active() {
			return true
		}
	}
	return false
}
