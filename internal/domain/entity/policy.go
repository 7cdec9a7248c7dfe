package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PolicyStatus estado de una póliza.
type PolicyStatus string

const (
	PolicyVigente      PolicyStatus = "VIGENTE"
	PolicyVencida      PolicyStatus = "VENCIDA"
	PolicyCancelada    PolicyStatus = "CANCELADA"
	PolicyEnRenovacion PolicyStatus = "EN_RENOVACION"
)

// ParsePolicyStatus valida el estado de póliza.
func ParsePolicyStatus(s string) (PolicyStatus, error) {
	switch st := PolicyStatus(s); st {
	case PolicyVigente, PolicyVencida, PolicyCancelada, PolicyEnRenovacion:
		return st, nil
	}
	return "", fmt.Errorf("estado de póliza desconocido: %q", s)
}

// Límites del número de cuotas.
const (
	MinInstallments = 1
	MaxInstallments = 6
)

// Policy representa una póliza de seguro de una empresa.
// Status es el estado almacenado; el estado efectivo (VENCIDA por fecha, EN_RENOVACION)
// se calcula al leer.
type Policy struct {
	ID                   string
	CompanyID            string
	ClientID             string
	InsurerID            string
	InsuranceTypeID      string
	PolicyNumber         string
	StartDate            time.Time
	EndDate              time.Time
	Premium              decimal.Decimal
	NumberOfInstallments int
	Status               PolicyStatus
	AutoRenew            bool
	CommissionRate       *decimal.Decimal // override sobre la regla de la empresa
	Beneficiary          *BeneficiaryData
	PredecessorID        *string // póliza de la que esta es renovación
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
