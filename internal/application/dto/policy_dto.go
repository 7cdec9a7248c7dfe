package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

// CreatePolicyRequest alta de póliza. Fechas en formato YYYY-MM-DD.
type CreatePolicyRequest struct {
	ClientID             string                  `json:"client_id"`
	InsurerID            string                  `json:"insurer_id"`
	InsuranceTypeID      string                  `json:"insurance_type_id"`
	PolicyNumber         string                  `json:"policy_number"`
	StartDate            string                  `json:"start_date"`
	EndDate              string                  `json:"end_date"`
	Premium              decimal.Decimal         `json:"premium"`
	NumberOfInstallments int                     `json:"number_of_installments"`
	AutoRenew            bool                    `json:"auto_renew"`
	CommissionRate       *decimal.Decimal        `json:"commission_rate,omitempty"`
	Beneficiary          *entity.BeneficiaryData `json:"beneficiary,omitempty"`
}

// ChangePolicyStatusRequest nuevo estado almacenado.
type ChangePolicyStatusRequest struct {
	Status string `json:"status"`
}

// UpdateInstallmentsRequest nuevo número de cuotas.
type UpdateInstallmentsRequest struct {
	NumberOfInstallments int `json:"number_of_installments"`
}

// PaymentResponse cuota con estado almacenado y efectivo.
type PaymentResponse struct {
	ID                string          `json:"id"`
	PolicyID          string          `json:"policy_id"`
	InstallmentNumber int             `json:"installment_number"`
	DueDate           string          `json:"due_date"`
	Amount            decimal.Decimal `json:"amount"`
	Status            string          `json:"status"`
	EffectiveStatus   string          `json:"effective_status"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	Method            string          `json:"method,omitempty"`
	Reference         string          `json:"reference,omitempty"`
	AnnulReason       string          `json:"annul_reason,omitempty"`
}

// PolicyResponse póliza con su estado efectivo; Payments solo en el detalle.
type PolicyResponse struct {
	ID                   string                  `json:"id"`
	CompanyID            string                  `json:"company_id"`
	ClientID             string                  `json:"client_id"`
	InsurerID            string                  `json:"insurer_id"`
	InsuranceTypeID      string                  `json:"insurance_type_id"`
	PolicyNumber         string                  `json:"policy_number"`
	StartDate            string                  `json:"start_date"`
	EndDate              string                  `json:"end_date"`
	Premium              decimal.Decimal         `json:"premium"`
	NumberOfInstallments int                     `json:"number_of_installments"`
	Status               string                  `json:"status"`
	EffectiveStatus      string                  `json:"effective_status"`
	AutoRenew            bool                    `json:"auto_renew"`
	CommissionRate       *decimal.Decimal        `json:"commission_rate,omitempty"`
	Beneficiary          *entity.BeneficiaryData `json:"beneficiary,omitempty"`
	PredecessorID        *string                 `json:"predecessor_id,omitempty"`
	Payments             []PaymentResponse       `json:"payments,omitempty"`
	CreatedAt            time.Time               `json:"created_at"`
	UpdatedAt            time.Time               `json:"updated_at"`
}

// PolicyListResponse lista paginada de pólizas.
type PolicyListResponse struct {
	Items []PolicyResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// CascadeResponse filas eliminadas por el borrado definitivo.
type CascadeResponse struct {
	Payments    int64 `json:"payments"`
	Claims      int64 `json:"claims"`
	Commissions int64 `json:"commissions"`
	Renewals    int64 `json:"renewals"`
	Policies    int64 `json:"policies"`
	Total       int64 `json:"total"`
}

// SettlePaymentRequest cobro de una cuota. PaidAt vacío usa la hora del servidor.
type SettlePaymentRequest struct {
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	Method    string     `json:"method"`
	Reference string     `json:"reference"`
}

// AnnulRequest motivo de una anulación o rechazo.
type AnnulRequest struct {
	Reason string `json:"reason"`
}
