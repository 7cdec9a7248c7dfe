package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RenewalStatus estado de una renovación. Solo PENDIENTE es abierta.
type RenewalStatus string

const (
	RenewalPendiente RenewalStatus = "PENDIENTE"
	RenewalProcesada RenewalStatus = "PROCESADA"
	RenewalRechazada RenewalStatus = "RECHAZADA"
	RenewalVencida   RenewalStatus = "VENCIDA"
)

// Renewal registro administrativo de la renovación de una póliza próxima a vencer.
// A lo sumo una renovación PENDIENTE por póliza.
type Renewal struct {
	ID                string
	CompanyID         string
	PolicyID          string
	OriginalEndDate   time.Time
	NewEndDate        *time.Time
	NewPremium        *decimal.Decimal
	SuccessorPolicyID *string
	Status            RenewalStatus
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
