package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionStatus estado de una comisión. PAGADA y ANULADA son finales.
type CommissionStatus string

const (
	CommissionPendiente CommissionStatus = "PENDIENTE"
	CommissionPagada    CommissionStatus = "PAGADA"
	CommissionAnulada   CommissionStatus = "ANULADA"
)

// Commission ganancia del corredor sobre una póliza.
// Amount = PremiumAmount * Rate / 100, redondeado a 2 decimales.
type Commission struct {
	ID            string
	CompanyID     string
	PolicyID      string
	ProducerID    string
	PremiumAmount decimal.Decimal
	Rate          decimal.Decimal // porcentaje, ej. 12.5
	Amount        decimal.Decimal
	Period        string // YYYY-MM
	Status        CommissionStatus
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CommissionRule tasa por defecto de la empresa para (aseguradora, tipo de seguro)
// vigente en [EffectiveFrom, EffectiveTo).
type CommissionRule struct {
	ID              string
	CompanyID       string
	InsurerID       string
	InsuranceTypeID string
	Rate            decimal.Decimal
	EffectiveFrom   time.Time
	EffectiveTo     *time.Time // nil = sin fin
	CreatedAt       time.Time
}

// Covers informa si la fecha cae dentro de la ventana de vigencia de la regla.
func (r *CommissionRule) Covers(t time.Time) bool {
	if t.Before(r.EffectiveFrom) {
		return false
	}
	return r.EffectiveTo == nil || t.Before(*r.EffectiveTo)
}
