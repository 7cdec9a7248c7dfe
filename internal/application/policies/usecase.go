// Package policies motor del ciclo de vida de pólizas: alta con plan de pagos,
// cambios de estado, edición de cuotas y borrado definitivo en cascada.
package policies

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Seguros-api/internal/application/access"
	"github.com/jhoicas/Seguros-api/internal/application/ports"
	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/calendar"
	"github.com/jhoicas/Seguros-api/internal/domain/commission"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	policyrules "github.com/jhoicas/Seguros-api/internal/domain/policy"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
	"github.com/jhoicas/Seguros-api/pkg/logger"
)

// UseCase motor del ciclo de vida de pólizas.
type UseCase struct {
	tx       ports.TxRunner
	policies repository.PolicyRepository
	payments repository.PaymentRepository
	renewals repository.RenewalRepository
	guard    access.Authorizer
	events   ports.EventPublisher
	now      ports.Clock
	log      *logger.Logger
}

// NewUseCase construye el motor.
func NewUseCase(
	tx ports.TxRunner,
	policies repository.PolicyRepository,
	payments repository.PaymentRepository,
	renewals repository.RenewalRepository,
	guard access.Authorizer,
	events ports.EventPublisher,
	now ports.Clock,
	log *logger.Logger,
) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{
		tx: tx, policies: policies, payments: payments, renewals: renewals,
		guard: guard, events: events, now: now, log: log.Component("policies"),
	}
}

// CreateInput datos de alta de una póliza.
type CreateInput struct {
	ClientID             string
	InsurerID            string
	InsuranceTypeID      string
	PolicyNumber         string
	StartDate            time.Time
	EndDate              time.Time
	Premium              decimal.Decimal
	NumberOfInstallments int
	AutoRenew            bool
	CommissionRate       *decimal.Decimal
	Beneficiary          *entity.BeneficiaryData
}

// Detail póliza con estado efectivo y plan de pagos.
type Detail struct {
	Policy          *entity.Policy
	EffectiveStatus entity.PolicyStatus
	Payments        []PaymentView
	OpenRenewal     *entity.Renewal
}

// PaymentView cuota con su estado efectivo (VENCIDO calculado).
type PaymentView struct {
	Payment         *entity.Payment
	EffectiveStatus entity.PaymentStatus
}

// CascadeResult filas eliminadas por PermanentlyDelete.
type CascadeResult struct {
	Payments    int64
	Claims      int64
	Commissions int64
	Renewals    int64
	Policies    int64
}

// Total suma de filas eliminadas.
func (r CascadeResult) Total() int64 {
	return r.Payments + r.Claims + r.Commissions + r.Renewals + r.Policies
}

func (uc *UseCase) today() time.Time { return calendar.DateOnly(uc.now()) }

// Create valida la entrada y persiste la póliza junto con su plan de pagos en una sola
// transacción: si falla la creación de cuotas no queda la póliza.
func (uc *UseCase) Create(ctx context.Context, scope access.Scope, in CreateInput) (*Detail, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModulePolicies, entity.ActionCreate); err != nil {
		return nil, err
	}
	companyID, err := scope.RequireCompany()
	if err != nil {
		return nil, err
	}
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	now := uc.now()
	p := &entity.Policy{
		ID:                   uuid.New().String(),
		CompanyID:            companyID,
		ClientID:             in.ClientID,
		InsurerID:            in.InsurerID,
		InsuranceTypeID:      in.InsuranceTypeID,
		PolicyNumber:         strings.TrimSpace(in.PolicyNumber),
		StartDate:            calendar.DateOnly(in.StartDate),
		EndDate:              calendar.DateOnly(in.EndDate),
		Premium:              in.Premium,
		NumberOfInstallments: in.NumberOfInstallments,
		Status:               entity.PolicyVigente,
		AutoRenew:            in.AutoRenew,
		CommissionRate:       in.CommissionRate,
		Beneficiary:          in.Beneficiary,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	var payments []*entity.Payment
	err = uc.tx.Run(ctx, func(repos ports.Repos) error {
		var err error
		payments, err = PersistWithSchedule(ctx, repos, p, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	ports.Notify(ctx, uc.events, uc.log, ports.NewEvent(entity.EventPolicyCreated, p.CompanyID, p.ID, now, map[string]string{
		"premium":      p.Premium.StringFixed(2),
		"installments": strconv.Itoa(p.NumberOfInstallments),
	}))
	return uc.detail(p, payments, nil), nil
}

// PersistWithSchedule inserta la póliza y sus cuotas con los repositorios de la transacción en curso.
func PersistWithSchedule(ctx context.Context, repos ports.Repos, p *entity.Policy, now time.Time) ([]*entity.Payment, error) {
	entries, err := policyrules.GenerateSchedule(p.Premium, p.NumberOfInstallments, p.StartDate)
	if err != nil {
		return nil, err
	}
	if err := repos.Policies.Create(ctx, p); err != nil {
		return nil, err
	}
	payments := paymentsFromSchedule(p, entries, now)
	if err := repos.Payments.CreateBatch(ctx, payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func paymentsFromSchedule(p *entity.Policy, entries []policyrules.ScheduleEntry, now time.Time) []*entity.Payment {
	out := make([]*entity.Payment, 0, len(entries))
	for _, e := range entries {
		out = append(out, &entity.Payment{
			ID:                uuid.New().String(),
			CompanyID:         p.CompanyID,
			PolicyID:          p.ID,
			InstallmentNumber: e.Number,
			DueDate:           e.DueDate,
			Amount:            e.Amount,
			Status:            entity.PaymentPendiente,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	return out
}

func validateCreate(in CreateInput) error {
	if in.ClientID == "" {
		return domain.Invalid("client_id", "es obligatorio")
	}
	if in.InsurerID == "" {
		return domain.Invalid("insurer_id", "es obligatorio")
	}
	if in.InsuranceTypeID == "" {
		return domain.Invalid("insurance_type_id", "es obligatorio")
	}
	if in.NumberOfInstallments < entity.MinInstallments || in.NumberOfInstallments > entity.MaxInstallments {
		return domain.Invalid("number_of_installments", "debe estar entre 1 y 6")
	}
	if err := commission.ValidateAmount("premium", in.Premium); err != nil {
		return err
	}
	if err := policyrules.ValidateDates(in.StartDate, in.EndDate); err != nil {
		return err
	}
	if in.CommissionRate != nil {
		if err := commission.ValidateRate(*in.CommissionRate); err != nil {
			return err
		}
	}
	if in.Beneficiary != nil {
		if err := in.Beneficiary.Validate(); err != nil {
			return domain.Invalid("beneficiary", err.Error())
		}
	}
	return nil
}

// Get devuelve la póliza con estado efectivo. Una póliza de otra empresa es NotFound.
func (uc *UseCase) Get(ctx context.Context, scope access.Scope, id string) (*Detail, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModulePolicies, entity.ActionView); err != nil {
		return nil, err
	}
	p, err := uc.policies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || !scope.Sees(p.CompanyID) {
		return nil, domain.ErrNotFound
	}
	payments, err := uc.payments.ListByPolicy(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	open, err := uc.renewals.GetOpenByPolicy(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return uc.detail(p, payments, open), nil
}

// ListResult página de pólizas con estado efectivo.
type ListResult struct {
	Items []*Detail
	Total int
}

// List lista las pólizas de la empresa activa (todas en la vista global).
func (uc *UseCase) List(ctx context.Context, scope access.Scope, f repository.PolicyFilter) (*ListResult, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModulePolicies, entity.ActionView); err != nil {
		return nil, err
	}
	companyID, err := scope.CompanyFilter()
	if err != nil {
		return nil, err
	}
	f.CompanyID = companyID
	list, total, err := uc.policies.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &ListResult{Items: make([]*Detail, 0, len(list)), Total: total}
	today := uc.today()
	for _, p := range list {
		out.Items = append(out.Items, &Detail{Policy: p, EffectiveStatus: policyrules.EffectiveStatus(p, today, false)})
	}
	return out, nil
}

// ChangeStatus aplica VIGENTE<->CANCELADA y VIGENTE->VENCIDA (solo con la vigencia terminada).
func (uc *UseCase) ChangeStatus(ctx context.Context, scope access.Scope, id string, to entity.PolicyStatus) (*entity.Policy, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModulePolicies, entity.ActionEdit); err != nil {
		return nil, err
	}
	now := uc.now()
	var updated *entity.Policy
	var from entity.PolicyStatus
	err := uc.tx.Run(ctx, func(repos ports.Repos) error {
		p, err := repos.Policies.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil || !scope.Sees(p.CompanyID) {
			return domain.ErrNotFound
		}
		if err := policyrules.ValidateTransition(p, to, now); err != nil {
			return err
		}
		from = p.Status
		p.Status = to
		p.UpdatedAt = now
		if err := repos.Policies.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	ports.Notify(ctx, uc.events, uc.log, ports.NewEvent(entity.EventPolicyStatusChanged, updated.CompanyID, updated.ID, now, map[string]string{
		"from": string(from),
		"to":   string(to),
	}))
	return updated, nil
}

// PermanentlyDelete borra la póliza CANCELADA y, antes, sus cuotas, reclamos, comisiones
// y renovaciones, todo en una transacción.
func (uc *UseCase) PermanentlyDelete(ctx context.Context, scope access.Scope, id string) (*CascadeResult, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModulePolicies, entity.ActionDelete); err != nil {
		return nil, err
	}
	var res CascadeResult
	var companyID string
	err := uc.tx.Run(ctx, func(repos ports.Repos) error {
		p, err := repos.Policies.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil || !scope.Sees(p.CompanyID) {
			return domain.ErrNotFound
		}
		if p.Status != entity.PolicyCancelada {
			return domain.NewTransitionError("policy", string(p.Status), "ELIMINADA")
		}
		companyID = p.CompanyID
		if res.Payments, err = repos.Payments.DeleteByPolicy(ctx, id); err != nil {
			return err
		}
		if res.Claims, err = repos.Claims.DeleteByPolicy(ctx, id); err != nil {
			return err
		}
		if res.Commissions, err = repos.Commissions.DeleteByPolicy(ctx, id); err != nil {
			return err
		}
		if res.Renewals, err = repos.Renewals.DeleteByPolicy(ctx, id); err != nil {
			return err
		}
		res.Policies, err = repos.Policies.Delete(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("policy_id", id).Int64("rows", res.Total()).Msg("póliza eliminada definitivamente")
	ports.Notify(ctx, uc.events, uc.log, ports.NewEvent(entity.EventPolicyDeleted, companyID, id, uc.now(), map[string]string{
		"rows": strconv.FormatInt(res.Total(), 10),
	}))
	return &res, nil
}

// UpdateInstallments rehace el plan con n cuotas. Se rechaza con ErrScheduleLocked mientras
// exista alguna cuota PENDIENTE o COMPLETADO: primero hay que anularlas.
func (uc *UseCase) UpdateInstallments(ctx context.Context, scope access.Scope, id string, n int) (*Detail, error) {
	if err := uc.guard.Authorize(ctx, scope.User, entity.ModulePolicies, entity.ActionEdit); err != nil {
		return nil, err
	}
	if n < entity.MinInstallments || n > entity.MaxInstallments {
		return nil, domain.Invalid("number_of_installments", "debe estar entre 1 y 6")
	}
	now := uc.now()
	var p *entity.Policy
	var payments []*entity.Payment
	err := uc.tx.Run(ctx, func(repos ports.Repos) error {
		var err error
		p, err = repos.Policies.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil || !scope.Sees(p.CompanyID) {
			return domain.ErrNotFound
		}
		existing, err := repos.Payments.ListByPolicy(ctx, id)
		if err != nil {
			return err
		}
		if policyrules.ScheduleLocked(existing) {
			return domain.ErrScheduleLocked
		}
		entries, err := policyrules.GenerateSchedule(p.Premium, n, p.StartDate)
		if err != nil {
			return err
		}
		p.NumberOfInstallments = n
		p.UpdatedAt = now
		if err := repos.Policies.Update(ctx, p); err != nil {
			return err
		}
		fresh := paymentsFromSchedule(p, entries, now)
		if err := repos.Payments.CreateBatch(ctx, fresh); err != nil {
			return err
		}
		payments = append(existing, fresh...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.detail(p, payments, nil), nil
}

func (uc *UseCase) detail(p *entity.Policy, payments []*entity.Payment, open *entity.Renewal) *Detail {
	today := uc.today()
	d := &Detail{
		Policy:          p,
		EffectiveStatus: policyrules.EffectiveStatus(p, today, open != nil),
		OpenRenewal:     open,
		Payments:        make([]PaymentView, 0, len(payments)),
	}
	for _, pay := range payments {
		d.Payments = append(d.Payments, PaymentView{Payment: pay, EffectiveStatus: policyrules.EffectivePaymentStatus(pay, today)})
	}
	return d
}
