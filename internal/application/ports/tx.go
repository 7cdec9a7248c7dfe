package ports

import (
	"context"
	"time"

	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Policies    repository.PolicyRepository
	Payments    repository.PaymentRepository
	Claims      repository.ClaimRepository
	Commissions repository.CommissionRepository
	Renewals    repository.RenewalRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y el error se propaga tal cual; un fallo de
// infraestructura al abrir o confirmar se devuelve envuelto en domain.ErrOperationFailed.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// EventPublisher entrega eventos de dominio al despachador de notificaciones.
type EventPublisher interface {
	Publish(ctx context.Context, events ...entity.DomainEvent) error
}

// Clock fuente de tiempo inyectable.
type Clock func() time.Time
