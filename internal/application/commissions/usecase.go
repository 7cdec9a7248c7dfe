// Package commissions motor de comisiones: resolución de tasa, alta y estados terminales.
package commissions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Seguros-api/internal/application/access"
	"github.com/jhoicas/Seguros-api/internal/application/ports"
	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/calendar"
	"github.com/jhoicas/Seguros-api/internal/domain/commission"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
	"github.com/jhoicas/Seguros-api/pkg/logger"
)

// UseCase motor de comisiones.
type UseCase struct {
	tx       ports.TxRunner
	policies repository.PolicyRepository
	rules    repository.CommissionRuleRepository
	guard    access.Authorizer
	events   ports.EventPublisher
	now      ports.Clock
	log      *logger.Logger
}

// NewUseCase construye el motor.
func NewUseCase(
	tx ports.TxRunner,
	policies repository.PolicyRepository,
	rules repository.CommissionRuleRepository,
	guard access.Authorizer,
	events ports.EventPublisher,
	now ports.Clock,
	log *logger.Logger,
) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{tx: tx, policies: policies, rules: rules, guard: guard, events: events, now: now, log: log.Component("commissions")}
}

func (uc *UseCase) loadPolicy(ctx context.Context, scope access.Scope, policyID string) (*entity.Policy, error) {
	p, err := uc.policies.GetByID(ctx, policyID)
	if err != nil {
		return nil, err
	}
	if p == nil || !scope.Sees(p.CompanyID) {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (uc *UseCase) resolve(ctx context.Context, explicit *decimal.Decimal, p *entity.Policy) (decimal.Decimal, error) {
	if explicit != nil || p.CommissionRate != nil {
		return commission.ResolveRate(explicit, p, nil)
	}
	rules, err := uc.rules.ListFor(ctx, p.CompanyID, p.InsurerID, p.InsuranceTypeID)
	if err != nil {
		return decimal.Zero, err
	}
	return commission.ResolveRate(nil, p, rules)
}

// ComputeRate tasa aplicable a la póliza (sin tasa explícita).
func (uc *UseCase) ComputeRate(ctx context.Context, scope access.Scope, policyID string) (decimal.Decimal, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModuleCommissions, entity.ActionView); err != nil {
		return decimal.Zero, err
	}
	p, err := uc.loadPolicy(ctx, scope, policyID)
	if err != nil {
		return decimal.Zero, err
	}
	return uc.resolve(ctx, nil, p)
}

// CreateInput alta de comisión. PremiumAmount nulo usa la prima de la póliza; Rate nulo
// aplica la precedencia de resolución.
type CreateInput struct {
	PolicyID      string
	ProducerID    string
	PremiumAmount *decimal.Decimal
	Rate          *decimal.Decimal
	Period        string
}

// Create calcula amount = round(premium * rate / 100, 2) y persiste la comisión PENDIENTE.
func (uc *UseCase) Create(ctx context.Context, scope access.Scope, in CreateInput) (*entity.Commission, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModuleCommissions, entity.ActionCreate); err != nil {
		return nil, err
	}
	if in.ProducerID == "" {
		return nil, domain.Invalid("producer_id", "es obligatorio")
	}
	if _, err := commission.ParsePeriod(in.Period); err != nil {
		return nil, err
	}
	if in.Rate != nil {
		if err := commission.ValidateRate(*in.Rate); err != nil {
			return nil, err
		}
	}
	p, err := uc.loadPolicy(ctx, scope, in.PolicyID)
	if err != nil {
		return nil, err
	}
	premium := p.Premium
	if in.PremiumAmount != nil {
		if err := commission.ValidateAmount("premium_amount", *in.PremiumAmount); err != nil {
			return nil, err
		}
		premium = *in.PremiumAmount
	}
	rate, err := uc.resolve(ctx, in.Rate, p)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	c := &entity.Commission{
		ID:            uuid.New().String(),
		CompanyID:     p.CompanyID,
		PolicyID:      p.ID,
		ProducerID:    in.ProducerID,
		PremiumAmount: premium,
		Rate:          rate,
		Amount:        commission.Amount(premium, rate),
		Period:        in.Period,
		Status:        entity.CommissionPendiente,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.tx.Run(ctx, func(repos ports.Repos) error {
		return repos.Commissions.Create(ctx, c)
	}); err != nil {
		return nil, err
	}
	ports.Notify(ctx, uc.events, uc.log, ports.NewEvent(entity.EventCommissionCreated, c.CompanyID, c.ID, now, map[string]string{
		"policy_id": c.PolicyID,
		"amount":    c.Amount.StringFixed(2),
		"period":    c.Period,
	}))
	return c, nil
}

// MarkPaid PENDIENTE -> PAGADA.
func (uc *UseCase) MarkPaid(ctx context.Context, scope access.Scope, id string) (*entity.Commission, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModuleCommissions, entity.ActionEdit); err != nil {
		return nil, err
	}
	return uc.transition(ctx, scope, id, commission.MarkPaid, entity.EventCommissionPaid)
}

// Annul PENDIENTE -> ANULADA.
func (uc *UseCase) Annul(ctx context.Context, scope access.Scope, id string) (*entity.Commission, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModuleCommissions, entity.ActionDelete); err != nil {
		return nil, err
	}
	return uc.transition(ctx, scope, id, commission.Annul, entity.EventCommissionAnnulled)
}

func (uc *UseCase) transition(
	ctx context.Context,
	scope access.Scope,
	id string,
	apply func(*entity.Commission, time.Time) error,
	event string,
) (*entity.Commission, error) {
	now := uc.now()
	var out *entity.Commission
	err := uc.tx.Run(ctx, func(repos ports.Repos) error {
		c, err := repos.Commissions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil || !scope.Sees(c.CompanyID) {
			return domain.ErrNotFound
		}
		if err := apply(c, now); err != nil {
			return err
		}
		if err := repos.Commissions.Update(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	ports.Notify(ctx, uc.events, uc.log, ports.NewEvent(event, out.CompanyID, out.ID, now, map[string]string{
		"policy_id": out.PolicyID,
		"amount":    out.Amount.StringFixed(2),
	}))
	return out, nil
}

// RuleInput alta de regla de comisión de la empresa activa.
type RuleInput struct {
	InsurerID       string
	InsuranceTypeID string
	Rate            decimal.Decimal
	EffectiveFrom   time.Time
	EffectiveTo     *time.Time
}

// CreateRule registra una regla [EffectiveFrom, EffectiveTo) para (aseguradora, tipo).
// Administrar reglas es configuración: exige COMMISSIONS/edit.
func (uc *UseCase) CreateRule(ctx context.Context, scope access.Scope, in RuleInput) (*entity.CommissionRule, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModuleCommissions, entity.ActionEdit); err != nil {
		return nil, err
	}
	companyID, err := scope.RequireCompany()
	if err != nil {
		return nil, err
	}
	if in.InsurerID == "" || in.InsuranceTypeID == "" {
		return nil, domain.Invalid("insurer_id", "aseguradora y tipo de seguro son obligatorios")
	}
	if err := commission.ValidateRate(in.Rate); err != nil {
		return nil, err
	}
	from := calendar.DateOnly(in.EffectiveFrom)
	var to *time.Time
	if in.EffectiveTo != nil {
		d := calendar.DateOnly(*in.EffectiveTo)
		if !d.After(from) {
			return nil, domain.Invalid("effective_to", "debe ser posterior a effective_from")
		}
		to = &d
	}
	rule := &entity.CommissionRule{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		InsurerID:       in.InsurerID,
		InsuranceTypeID: in.InsuranceTypeID,
		Rate:            in.Rate,
		EffectiveFrom:   from,
		EffectiveTo:     to,
		CreatedAt:       uc.now(),
	}
	if err := uc.rules.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// ListRules reglas de la empresa activa.
func (uc *UseCase) ListRules(ctx context.Context, scope access.Scope) ([]*entity.CommissionRule, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModuleCommissions, entity.ActionView); err != nil {
		return nil, err
	}
	companyID, err := scope.RequireCompany()
	if err != nil {
		return nil, err
	}
	return uc.rules.ListByCompany(ctx, companyID)
}
