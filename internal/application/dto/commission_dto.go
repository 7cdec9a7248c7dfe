package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCommissionRequest alta de comisión. Rate y PremiumAmount son opcionales.
type CreateCommissionRequest struct {
	PolicyID      string           `json:"policy_id"`
	ProducerID    string           `json:"producer_id"`
	PremiumAmount *decimal.Decimal `json:"premium_amount,omitempty"`
	Rate          *decimal.Decimal `json:"rate,omitempty"`
	Period        string           `json:"period"`
}

// CommissionResponse salida de una comisión.
type CommissionResponse struct {
	ID            string          `json:"id"`
	PolicyID      string          `json:"policy_id"`
	ProducerID    string          `json:"producer_id"`
	PremiumAmount decimal.Decimal `json:"premium_amount"`
	Rate          decimal.Decimal `json:"rate"`
	Amount        decimal.Decimal `json:"amount"`
	Period        string          `json:"period"`
	Status        string          `json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RateResponse tasa resuelta para una póliza.
type RateResponse struct {
	PolicyID string          `json:"policy_id"`
	Rate     decimal.Decimal `json:"rate"`
}

// CommissionRuleRequest regla por (aseguradora, tipo) con vigencia [effective_from, effective_to).
type CommissionRuleRequest struct {
	InsurerID       string          `json:"insurer_id"`
	InsuranceTypeID string          `json:"insurance_type_id"`
	Rate            decimal.Decimal `json:"rate"`
	EffectiveFrom   string          `json:"effective_from"`
	EffectiveTo     string          `json:"effective_to,omitempty"`
}

// CommissionRuleResponse salida de una regla.
type CommissionRuleResponse struct {
	ID              string          `json:"id"`
	InsurerID       string          `json:"insurer_id"`
	InsuranceTypeID string          `json:"insurance_type_id"`
	Rate            decimal.Decimal `json:"rate"`
	EffectiveFrom   string          `json:"effective_from"`
	EffectiveTo     *string         `json:"effective_to,omitempty"`
}
