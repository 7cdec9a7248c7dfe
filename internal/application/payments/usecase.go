// Package payments cobro y anulación de cuotas, y el barrido de cuotas vencidas.
package payments

import (
	"context"
	"strconv"
	"time"

	"github.com/jhoicas/Seguros-api/internal/application/access"
	"github.com/jhoicas/Seguros-api/internal/application/ports"
	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/calendar"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	policyrules "github.com/jhoicas/Seguros-api/internal/domain/policy"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
	"github.com/jhoicas/Seguros-api/pkg/logger"
)

// UseCase operaciones sobre cuotas.
type UseCase struct {
	tx       ports.TxRunner
	payments repository.PaymentRepository
	guard    access.Authorizer
	events   ports.EventPublisher
	now      ports.Clock
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tx ports.TxRunner,
	payments repository.PaymentRepository,
	guard access.Authorizer,
	events ports.EventPublisher,
	now ports.Clock,
	log *logger.Logger,
) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{tx: tx, payments: payments, guard: guard, events: events, now: now, log: log.Component("payments")}
}

// SettleInput datos del cobro. PaidAt nulo usa la hora actual.
type SettleInput struct {
	PaidAt    *time.Time
	Method    string
	Reference string
}

// Settle registra el cobro de una cuota PENDIENTE (vencida o no).
func (uc *UseCase) Settle(ctx context.Context, scope access.Scope, id string, in SettleInput) (*entity.Payment, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModulePayments, entity.ActionEdit); err != nil {
		return nil, err
	}
	paidAt := uc.now()
	if in.PaidAt != nil {
		paidAt = *in.PaidAt
	}
	p, err := uc.mutate(ctx, scope, id, func(p *entity.Payment) error {
		return policyrules.Settle(p, paidAt, in.Method, in.Reference)
	})
	if err != nil {
		return nil, err
	}
	ports.Notify(ctx, uc.events, uc.log, ports.NewEvent(entity.EventPaymentSettled, p.CompanyID, p.ID, uc.now(), map[string]string{
		"policy_id": p.PolicyID,
		"amount":    p.Amount.StringFixed(2),
	}))
	return p, nil
}

// Annul baja lógica de una cuota. Es el paso previo para rehacer el plan de pagos.
func (uc *UseCase) Annul(ctx context.Context, scope access.Scope, id, reason string) (*entity.Payment, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModulePayments, entity.ActionDelete); err != nil {
		return nil, err
	}
	now := uc.now()
	p, err := uc.mutate(ctx, scope, id, func(p *entity.Payment) error {
		return policyrules.Annul(p, reason, now)
	})
	if err != nil {
		return nil, err
	}
	ports.Notify(ctx, uc.events, uc.log, ports.NewEvent(entity.EventPaymentAnnulled, p.CompanyID, p.ID, now, map[string]string{
		"policy_id": p.PolicyID,
		"reason":    reason,
	}))
	return p, nil
}

func (uc *UseCase) mutate(ctx context.Context, scope access.Scope, id string, apply func(*entity.Payment) error) (*entity.Payment, error) {
	var out *entity.Payment
	err := uc.tx.Run(ctx, func(repos ports.Repos) error {
		p, err := repos.Payments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil || !scope.Sees(p.CompanyID) {
			return domain.ErrNotFound
		}
		if err := apply(p); err != nil {
			return err
		}
		if err := repos.Payments.Update(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

// ReportOverdue publica payment.overdue por cada cuota PENDIENTE con vencimiento anterior a asOf.
// El estado almacenado no cambia: VENCIDO se calcula al leer.
func (uc *UseCase) ReportOverdue(ctx context.Context, asOf time.Time) (int, error) {
	day := calendar.DateOnly(asOf)
	list, err := uc.payments.ListPendingDueBefore(ctx, day)
	if err != nil {
		return 0, err
	}
	now := uc.now()
	events := make([]entity.DomainEvent, 0, len(list))
	for _, p := range list {
		days := int(day.Sub(calendar.DateOnly(p.DueDate)).Hours() / 24)
		events = append(events, ports.NewEvent(entity.EventPaymentOverdue, p.CompanyID, p.ID, now, map[string]string{
			"policy_id":    p.PolicyID,
			"installment":  strconv.Itoa(p.InstallmentNumber),
			"amount":       p.Amount.StringFixed(2),
			"days_overdue": strconv.Itoa(days),
		}))
	}
	ports.Notify(ctx, uc.events, uc.log, events...)
	uc.log.Info().Int("overdue", len(list)).Time("as_of", day).Msg("barrido de cuotas vencidas")
	return len(list), nil
}
