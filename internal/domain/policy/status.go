package policy

import (
	"time"

	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/calendar"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

var transitions = map[entity.PolicyStatus][]entity.PolicyStatus{
	entity.PolicyVigente:   {entity.PolicyCancelada, entity.PolicyVencida},
	entity.PolicyCancelada: {entity.PolicyVigente},
}

// CanTransition informa si el cambio de estado almacenado es legal.
func CanTransition(from, to entity.PolicyStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateTransition valida el cambio de estado de la póliza a la fecha today.
// VIGENTE -> VENCIDA solo procede cuando la fecha de fin ya pasó.
func ValidateTransition(p *entity.Policy, to entity.PolicyStatus, today time.Time) error {
	if !CanTransition(p.Status, to) {
		return domain.NewTransitionError("policy", string(p.Status), string(to))
	}
	if to == entity.PolicyVencida && !Expired(p, today) {
		return domain.NewTransitionError("policy", string(p.Status), string(to))
	}
	return nil
}

// Expired informa si la vigencia de la póliza terminó antes de today.
func Expired(p *entity.Policy, today time.Time) bool {
	return calendar.DateOnly(p.EndDate).Before(calendar.DateOnly(today))
}

// EffectiveStatus proyecta el estado visible: una póliza VIGENTE cuya fecha de fin pasó
// se lee como VENCIDA; si tiene una renovación abierta se lee como EN_RENOVACION.
func EffectiveStatus(p *entity.Policy, today time.Time, openRenewal bool) entity.PolicyStatus {
	if p.Status != entity.PolicyVigente {
		return p.Status
	}
	if Expired(p, today) {
		return entity.PolicyVencida
	}
	if openRenewal {
		return entity.PolicyEnRenovacion
	}
	return entity.PolicyVigente
}

// ValidateDates exige endDate posterior a startDate.
func ValidateDates(start, end time.Time) error {
	if !calendar.DateOnly(end).After(calendar.DateOnly(start)) {
		return domain.Invalid("end_date", "debe ser posterior a start_date")
	}
	return nil
}
