// Package commission reglas puras del motor de comisiones.
package commission

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/calendar"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

// PeriodLayout formato del período de una comisión.
const PeriodLayout = "2006-01"

var hundred = decimal.NewFromInt(100)

// Amount calcula round(premium * rate / 100, 2).
func Amount(premium, rate decimal.Decimal) decimal.Decimal {
	return premium.Mul(rate).Div(hundred).Round(2)
}

// ParsePeriod valida un período YYYY-MM correspondiente a un mes real.
func ParsePeriod(period string) (time.Time, error) {
	if len(period) != len(PeriodLayout) {
		return time.Time{}, domain.Invalid("period", "formato esperado YYYY-MM")
	}
	t, err := time.Parse(PeriodLayout, period)
	if err != nil {
		return time.Time{}, domain.Invalid("period", "no es un mes válido")
	}
	return t, nil
}

// ValidateRate exige una tasa porcentual en [0, 100] con hasta 2 decimales (NUMERIC(5,2)).
func ValidateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return domain.Invalid("rate", "debe estar entre 0 y 100")
	}
	if !rate.Equal(rate.Round(2)) {
		return domain.Invalid("rate", "admite como máximo 2 decimales")
	}
	return nil
}

// ValidateAmount exige un importe positivo con hasta 2 decimales.
func ValidateAmount(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return domain.Invalid(field, "debe ser mayor que cero")
	}
	if !v.Equal(v.Round(2)) {
		return domain.Invalid(field, "admite como máximo 2 decimales")
	}
	return nil
}

// ResolveRate aplica la precedencia: tasa explícita > override de la póliza >
// regla de la empresa para (aseguradora, tipo de seguro) vigente en la fecha de emisión.
// Si varias reglas aplican gana la de EffectiveFrom más reciente.
func ResolveRate(explicit *decimal.Decimal, p *entity.Policy, rules []*entity.CommissionRule) (decimal.Decimal, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if p.CommissionRate != nil {
		return *p.CommissionRate, nil
	}
	issued := IssuanceDate(p)
	var best *entity.CommissionRule
	for _, r := range rules {
		if r.CompanyID != p.CompanyID || r.InsurerID != p.InsurerID || r.InsuranceTypeID != p.InsuranceTypeID {
			continue
		}
		if !r.Covers(issued) {
			continue
		}
		if best == nil || r.EffectiveFrom.After(best.EffectiveFrom) {
			best = r
		}
	}
	if best == nil {
		return decimal.Zero, domain.ErrNoRateFound
	}
	return best.Rate, nil
}

// IssuanceDate fecha de emisión usada para elegir la regla: el inicio de vigencia.
func IssuanceDate(p *entity.Policy) time.Time {
	return calendar.DateOnly(p.StartDate)
}

// MarkPaid PENDIENTE -> PAGADA.
func MarkPaid(c *entity.Commission, now time.Time) error {
	if c.Status != entity.CommissionPendiente {
		return &domain.TerminalError{Entity: "commission", Status: string(c.Status)}
	}
	c.Status = entity.CommissionPagada
	c.PaidAt = &now
	c.UpdatedAt = now
	return nil
}

// Annul PENDIENTE -> ANULADA. Una comisión PAGADA nunca se anula.
func Annul(c *entity.Commission, now time.Time) error {
	if c.Status != entity.CommissionPendiente {
		return &domain.TerminalError{Entity: "commission", Status: string(c.Status)}
	}
	c.Status = entity.CommissionAnulada
	c.UpdatedAt = now
	return nil
}
