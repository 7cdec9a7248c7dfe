package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus estado de una cuota. VENCIDO nunca se persiste: es la proyección
// de una cuota PENDIENTE cuya fecha de vencimiento ya pasó.
type PaymentStatus string

const (
	PaymentPendiente  PaymentStatus = "PENDIENTE"
	PaymentCompletado PaymentStatus = "COMPLETADO"
	PaymentVencido    PaymentStatus = "VENCIDO"
	PaymentAnulado    PaymentStatus = "ANULADO"
)

// Payment cuota del plan de pagos de una póliza.
type Payment struct {
	ID                string
	CompanyID         string
	PolicyID          string
	InstallmentNumber int // 1-based
	DueDate           time.Time
	Amount            decimal.Decimal
	Status            PaymentStatus
	PaidAt            *time.Time
	Method            string
	Reference         string
	AnnulReason       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Active informa si la cuota cuenta para el bloqueo del plan (PENDIENTE o COMPLETADO).
func (p *Payment) Active() bool {
	return p.Status == PaymentPendiente || p.Status == PaymentCompletado
}
