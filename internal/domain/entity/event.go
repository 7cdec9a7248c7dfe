package entity

import "time"

// Tipos de evento de dominio consumidos por el despachador de notificaciones.
const (
	EventPolicyCreated       = "policy.created"
	EventPolicyStatusChanged = "policy.status_changed"
	EventPolicyDeleted       = "policy.deleted"
	EventPaymentSettled      = "payment.settled"
	EventPaymentAnnulled     = "payment.annulled"
	EventPaymentOverdue      = "payment.overdue"
	EventCommissionCreated   = "commission.created"
	EventCommissionPaid      = "commission.paid"
	EventCommissionAnnulled  = "commission.annulled"
	EventRenewalCreated      = "renewal.created"
	EventRenewalOverdue      = "renewal.overdue"
	EventRenewalProcessed    = "renewal.processed"
	EventRenewalRejected     = "renewal.rejected"
)

// DomainEvent hecho emitido por los motores tras confirmar la transacción.
type DomainEvent struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	CompanyID  string            `json:"company_id"`
	EntityID   string            `json:"entity_id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Data       map[string]string `json:"data,omitempty"`
}
