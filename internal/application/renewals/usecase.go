// Package renewals generador de renovaciones y su ciclo PENDIENTE -> PROCESADA | RECHAZADA | VENCIDA.
package renewals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Seguros-api/internal/application/access"
	"github.com/jhoicas/Seguros-api/internal/application/policies"
	"github.com/jhoicas/Seguros-api/internal/application/ports"
	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/calendar"
	"github.com/jhoicas/Seguros-api/internal/domain/commission"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	policyrules "github.com/jhoicas/Seguros-api/internal/domain/policy"
	renewalrules "github.com/jhoicas/Seguros-api/internal/domain/renewal"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
	"github.com/jhoicas/Seguros-api/pkg/logger"
)

// UseCase generador de renovaciones.
type UseCase struct {
	tx       ports.TxRunner
	policies repository.PolicyRepository
	renewals repository.RenewalRepository
	guard    access.Authorizer
	events   ports.EventPublisher
	now      ports.Clock
	log      *logger.Logger
}

// NewUseCase construye el generador.
func NewUseCase(
	tx ports.TxRunner,
	policies repository.PolicyRepository,
	renewals repository.RenewalRepository,
	guard access.Authorizer,
	events ports.EventPublisher,
	now ports.Clock,
	log *logger.Logger,
) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{tx: tx, policies: policies, renewals: renewals, guard: guard, events: events, now: now, log: log.Component("renewals")}
}

// GenerateResult resumen de una corrida del generador.
type GenerateResult struct {
	Scanned  int `json:"scanned"`
	Created  int `json:"created"`
	Existing int `json:"existing"`
}

// Generate crea una renovación PENDIENTE para cada póliza VIGENTE cuyo fin cae en
// [hoy, hoy+lookaheadDays]. companyID vacío recorre todas las empresas (job diario).
// Cada póliza se procesa en su propia transacción con inserción atómica "si no hay abierta":
// repetir la corrida, o reanudarla tras una interrupción, deja el mismo estado final.
func (uc *UseCase) Generate(ctx context.Context, companyID string, lookaheadDays int) (*GenerateResult, error) {
	if lookaheadDays < 0 {
		return nil, domain.Invalid("lookahead_days", "no puede ser negativo")
	}
	now := uc.now()
	from, to := renewalrules.Window(now, lookaheadDays)
	list, err := uc.policies.ListExpiringBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	res := &GenerateResult{}
	var events []entity.DomainEvent
	for _, p := range list {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if companyID != "" && p.CompanyID != companyID {
			continue
		}
		if !renewalrules.Eligible(p, now, lookaheadDays) {
			continue
		}
		res.Scanned++
		rn := renewalrules.New(uuid.New().String(), p, now)
		var created bool
		err := uc.tx.Run(ctx, func(repos ports.Repos) error {
			var err error
			created, err = repos.Renewals.CreateIfNoneOpen(ctx, rn)
			return err
		})
		if err != nil {
			return res, err
		}
		if !created {
			res.Existing++
			continue
		}
		res.Created++
		events = append(events, ports.NewEvent(entity.EventRenewalCreated, rn.CompanyID, rn.ID, now, map[string]string{
			"policy_id":         rn.PolicyID,
			"original_end_date": rn.OriginalEndDate.Format(time.DateOnly),
		}))
	}
	ports.Notify(ctx, uc.events, uc.log, events...)
	uc.log.Info().
		Int("scanned", res.Scanned).
		Int("created", res.Created).
		Int("existing", res.Existing).
		Int("lookahead_days", lookaheadDays).
		Msg("generación de renovaciones")
	return res, nil
}

// GenerateFor corrida manual restringida a la empresa activa (todas en la vista global).
func (uc *UseCase) GenerateFor(ctx context.Context, scope access.Scope, lookaheadDays int) (*GenerateResult, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModuleRenewals, entity.ActionCreate); err != nil {
		return nil, err
	}
	companyID, err := scope.CompanyFilter()
	if err != nil {
		return nil, err
	}
	return uc.Generate(ctx, companyID, lookaheadDays)
}

// ListOverdue renovaciones PENDIENTE cuya fecha de fin original pasó. Solo reporta.
func (uc *UseCase) ListOverdue(ctx context.Context, scope access.Scope, asOf time.Time) ([]*entity.Renewal, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModuleRenewals, entity.ActionView); err != nil {
		return nil, err
	}
	companyID, err := scope.CompanyFilter()
	if err != nil {
		return nil, err
	}
	return uc.renewals.ListOverdue(ctx, companyID, calendar.DateOnly(asOf))
}

// ReportOverdue publica renewal.overdue por cada renovación atrasada sin cambiar su estado.
func (uc *UseCase) ReportOverdue(ctx context.Context, asOf time.Time) (int, error) {
	list, err := uc.renewals.ListOverdue(ctx, "", calendar.DateOnly(asOf))
	if err != nil {
		return 0, err
	}
	now := uc.now()
	events := make([]entity.DomainEvent, 0, len(list))
	for _, rn := range list {
		events = append(events, ports.NewEvent(entity.EventRenewalOverdue, rn.CompanyID, rn.ID, now, map[string]string{
			"policy_id":         rn.PolicyID,
			"original_end_date": rn.OriginalEndDate.Format(time.DateOnly),
		}))
	}
	ports.Notify(ctx, uc.events, uc.log, events...)
	if len(list) > 0 {
		uc.log.Warn().Int("overdue", len(list)).Msg("renovaciones pendientes con vigencia terminada")
	}
	return len(list), nil
}

// ProcessInput condiciones del nuevo término. Premium e Installments nulos heredan los de la póliza.
type ProcessInput struct {
	NewEndDate   time.Time
	NewPremium   *decimal.Decimal
	Installments *int
}

// ProcessResult renovación procesada y póliza sucesora con su plan de pagos.
type ProcessResult struct {
	Renewal   *entity.Renewal
	Successor *entity.Policy
	Payments  []*entity.Payment
}

// Process materializa la renovación: crea la póliza sucesora (inicio = fin original) con
// su plan de pagos y marca la renovación PROCESADA, todo en una transacción.
// La póliza anterior no cambia: se leerá VENCIDA cuando pase su propia fecha de fin.
func (uc *UseCase) Process(ctx context.Context, scope access.Scope, id string, in ProcessInput) (*ProcessResult, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModuleRenewals, entity.ActionEdit); err != nil {
		return nil, err
	}
	if in.NewPremium != nil {
		if err := commission.ValidateAmount("new_premium", *in.NewPremium); err != nil {
			return nil, err
		}
	}
	now := uc.now()
	res := &ProcessResult{}
	err := uc.tx.Run(ctx, func(repos ports.Repos) error {
		rn, err := repos.Renewals.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rn == nil || !scope.Sees(rn.CompanyID) {
			return domain.ErrNotFound
		}
		if err := renewalrules.ValidateTransition(rn, entity.RenewalProcesada); err != nil {
			return err
		}
		prev, err := repos.Policies.GetForUpdate(ctx, rn.PolicyID)
		if err != nil {
			return err
		}
		if prev == nil {
			return domain.ErrNotFound
		}
		// solo una póliza VIGENTE se renueva; cancelada después de generar la renovación no
		if prev.Status != entity.PolicyVigente {
			return domain.NewTransitionError("policy", string(prev.Status), string(entity.PolicyEnRenovacion))
		}

		next, err := successor(prev, rn, in, now)
		if err != nil {
			return err
		}
		payments, err := policies.PersistWithSchedule(ctx, repos, next, now)
		if err != nil {
			return err
		}

		end := next.EndDate
		premium := next.Premium
		rn.NewEndDate = &end
		rn.NewPremium = &premium
		rn.SuccessorPolicyID = &next.ID
		rn.Status = entity.RenewalProcesada
		rn.UpdatedAt = now
		if err := repos.Renewals.Update(ctx, rn); err != nil {
			return err
		}
		res.Renewal, res.Successor, res.Payments = rn, next, payments
		return nil
	})
	if err != nil {
		return nil, err
	}
	ports.Notify(ctx, uc.events, uc.log,
		ports.NewEvent(entity.EventRenewalProcessed, res.Renewal.CompanyID, res.Renewal.ID, now, map[string]string{
			"policy_id":           res.Renewal.PolicyID,
			"successor_policy_id": res.Successor.ID,
		}),
		ports.NewEvent(entity.EventPolicyCreated, res.Successor.CompanyID, res.Successor.ID, now, map[string]string{
			"predecessor_id": res.Renewal.PolicyID,
		}),
	)
	return res, nil
}

func successor(prev *entity.Policy, rn *entity.Renewal, in ProcessInput, now time.Time) (*entity.Policy, error) {
	start := calendar.DateOnly(rn.OriginalEndDate)
	end := calendar.DateOnly(in.NewEndDate)
	if err := policyrules.ValidateDates(start, end); err != nil {
		return nil, domain.Invalid("new_end_date", "debe ser posterior al fin de la vigencia anterior")
	}
	premium := prev.Premium
	if in.NewPremium != nil {
		premium = *in.NewPremium
	}
	installments := prev.NumberOfInstallments
	if in.Installments != nil {
		installments = *in.Installments
	}
	predecessor := prev.ID
	return &entity.Policy{
		ID:                   uuid.New().String(),
		CompanyID:            prev.CompanyID,
		ClientID:             prev.ClientID,
		InsurerID:            prev.InsurerID,
		InsuranceTypeID:      prev.InsuranceTypeID,
		PolicyNumber:         prev.PolicyNumber,
		StartDate:            start,
		EndDate:              end,
		Premium:              premium,
		NumberOfInstallments: installments,
		Status:               entity.PolicyVigente,
		AutoRenew:            prev.AutoRenew,
		CommissionRate:       prev.CommissionRate,
		Beneficiary:          prev.Beneficiary,
		PredecessorID:        &predecessor,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// Reject PENDIENTE -> RECHAZADA con el motivo en las notas.
func (uc *UseCase) Reject(ctx context.Context, scope access.Scope, id, reason string) (*entity.Renewal, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModuleRenewals, entity.ActionEdit); err != nil {
		return nil, err
	}
	now := uc.now()
	var out *entity.Renewal
	err := uc.tx.Run(ctx, func(repos ports.Repos) error {
		rn, err := repos.Renewals.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rn == nil || !scope.Sees(rn.CompanyID) {
			return domain.ErrNotFound
		}
		if err := renewalrules.ValidateTransition(rn, entity.RenewalRechazada); err != nil {
			return err
		}
		rn.Status = entity.RenewalRechazada
		rn.Notes = reason
		rn.UpdatedAt = now
		out = rn
		return repos.Renewals.Update(ctx, rn)
	})
	if err != nil {
		return nil, err
	}
	ports.Notify(ctx, uc.events, uc.log, ports.NewEvent(entity.EventRenewalRejected, out.CompanyID, out.ID, now, map[string]string{
		"policy_id": out.PolicyID,
		"reason":    reason,
	}))
	return out, nil
}

// ExpireOverdue barrido administrativo explícito: pasa a VENCIDA las renovaciones atrasadas
// de la empresa activa. Nunca lo ejecuta el job diario.
func (uc *UseCase) ExpireOverdue(ctx context.Context, scope access.Scope, asOf time.Time) (int, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModuleRenewals, entity.ActionEdit); err != nil {
		return 0, err
	}
	companyID, err := scope.CompanyFilter()
	if err != nil {
		return 0, err
	}
	now := uc.now()
	// el corte nunca supera la fecha de hoy: solo vence lo que ya terminó
	cutoff := calendar.DateOnly(asOf)
	if today := calendar.DateOnly(now); cutoff.After(today) {
		cutoff = today
	}
	var expired int
	err = uc.tx.Run(ctx, func(repos ports.Repos) error {
		list, err := repos.Renewals.ListOverdue(ctx, companyID, cutoff)
		if err != nil {
			return err
		}
		for _, rn := range list {
			if err := renewalrules.ValidateTransition(rn, entity.RenewalVencida); err != nil {
				return err
			}
			rn.Status = entity.RenewalVencida
			rn.UpdatedAt = now
			if err := repos.Renewals.Update(ctx, rn); err != nil {
				return err
			}
		}
		expired = len(list)
		return nil
	})
	if err != nil {
		return 0, err
	}
	uc.log.Info().Int("expired", expired).Str("company_id", companyID).Msg("renovaciones vencidas por barrido")
	return expired, nil
}
