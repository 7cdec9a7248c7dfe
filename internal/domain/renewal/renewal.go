// Package renewal reglas puras del generador de renovaciones.
package renewal

import (
	"time"

	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/calendar"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

// Window devuelve el rango cerrado [today, today+lookaheadDays] de fechas de fin elegibles.
func Window(today time.Time, lookaheadDays int) (from, to time.Time) {
	from = calendar.DateOnly(today)
	return from, calendar.AddDays(from, lookaheadDays)
}

// Eligible informa si la póliza debe tener renovación abierta.
func Eligible(p *entity.Policy, today time.Time, lookaheadDays int) bool {
	if p.Status != entity.PolicyVigente {
		return false
	}
	from, to := Window(today, lookaheadDays)
	end := calendar.DateOnly(p.EndDate)
	return !end.Before(from) && !end.After(to)
}

// IsOverdue una renovación PENDIENTE cuya fecha de fin original ya pasó.
func IsOverdue(r *entity.Renewal, today time.Time) bool {
	return r.Status == entity.RenewalPendiente &&
		calendar.DateOnly(r.OriginalEndDate).Before(calendar.DateOnly(today))
}

// ValidateTransition solo PENDIENTE admite salida; los demás estados son finales.
func ValidateTransition(r *entity.Renewal, to entity.RenewalStatus) error {
	if r.Status != entity.RenewalPendiente {
		return domain.NewTransitionError("renewal", string(r.Status), string(to))
	}
	switch to {
	case entity.RenewalProcesada, entity.RenewalRechazada, entity.RenewalVencida:
		return nil
	}
	return domain.NewTransitionError("renewal", string(r.Status), string(to))
}

// New construye la renovación abierta de una póliza.
func New(id string, p *entity.Policy, now time.Time) *entity.Renewal {
	return &entity.Renewal{
		ID:              id,
		CompanyID:       p.CompanyID,
		PolicyID:        p.ID,
		OriginalEndDate: calendar.DateOnly(p.EndDate),
		Status:          entity.RenewalPendiente,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
