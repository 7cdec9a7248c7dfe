package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateRenewalsRequest corrida manual del generador. Sin valor usa la ventana configurada.
type GenerateRenewalsRequest struct {
	LookaheadDays *int `json:"lookahead_days,omitempty"`
}

// GenerateRenewalsResponse resumen de la corrida.
type GenerateRenewalsResponse struct {
	Scanned  int `json:"scanned"`
	Created  int `json:"created"`
	Existing int `json:"existing"`
}

// ProcessRenewalRequest condiciones del nuevo término.
type ProcessRenewalRequest struct {
	NewEndDate           string           `json:"new_end_date"`
	NewPremium           *decimal.Decimal `json:"new_premium,omitempty"`
	NumberOfInstallments *int             `json:"number_of_installments,omitempty"`
}

// RenewalResponse salida de una renovación.
type RenewalResponse struct {
	ID                string           `json:"id"`
	PolicyID          string           `json:"policy_id"`
	OriginalEndDate   string           `json:"original_end_date"`
	NewEndDate        *string          `json:"new_end_date,omitempty"`
	NewPremium        *decimal.Decimal `json:"new_premium,omitempty"`
	SuccessorPolicyID *string          `json:"successor_policy_id,omitempty"`
	Status            string           `json:"status"`
	Notes             string           `json:"notes,omitempty"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ProcessRenewalResponse renovación procesada y póliza sucesora.
type ProcessRenewalResponse struct {
	Renewal   RenewalResponse `json:"renewal"`
	Successor PolicyResponse  `json:"successor"`
}

// ExpireRenewalsResponse renovaciones pasadas a VENCIDA.
type ExpireRenewalsResponse struct {
	Expired int `json:"expired"`
}
