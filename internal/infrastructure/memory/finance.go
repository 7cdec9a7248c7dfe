package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
)

var (
	_ repository.PolicyRepository         = PolicyRepo{}
	_ repository.PaymentRepository        = PaymentRepo{}
	_ repository.ClaimRepository          = ClaimRepo{}
	_ repository.CommissionRepository     = CommissionRepo{}
	_ repository.CommissionRuleRepository = CommissionRuleRepo{}
	_ repository.RenewalRepository        = RenewalRepo{}
)

// PolicyRepo pólizas en memoria.
type PolicyRepo struct{ s *Store }

// Policies repositorio de pólizas.
func (s *Store) Policies() PolicyRepo { return PolicyRepo{s} }

func (r PolicyRepo) Create(_ context.Context, p *entity.Policy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.policies[p.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *p
	r.s.t.policies[p.ID] = &c
	return nil
}

func (r PolicyRepo) GetByID(_ context.Context, id string) (*entity.Policy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.t.policies[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r PolicyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Policy, error) {
	return r.GetByID(ctx, id)
}

func (r PolicyRepo) Update(_ context.Context, p *entity.Policy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.policies[p.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *p
	r.s.t.policies[p.ID] = &c
	return nil
}

func (r PolicyRepo) Delete(_ context.Context, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.hasChildren(id) {
		return 0, domain.ErrOperationFailed // violaría la FK
	}
	if _, ok := r.s.t.policies[id]; !ok {
		return 0, nil
	}
	// referencias de sucesión en NULL, igual que el repositorio SQL
	// copias nuevas: el snapshot de la transacción comparte los punteros
	for k, p := range r.s.t.policies {
		if p.PredecessorID != nil && *p.PredecessorID == id {
			c := *p
			c.PredecessorID = nil
			r.s.t.policies[k] = &c
		}
	}
	for k, rn := range r.s.t.renewals {
		if rn.SuccessorPolicyID != nil && *rn.SuccessorPolicyID == id {
			c := *rn
			c.SuccessorPolicyID = nil
			r.s.t.renewals[k] = &c
		}
	}
	delete(r.s.t.policies, id)
	return 1, nil
}

func (r PolicyRepo) List(_ context.Context, f repository.PolicyFilter) ([]*entity.Policy, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Policy
	for _, p := range r.s.t.policies {
		if f.CompanyID != "" && p.CompanyID != f.CompanyID {
			continue
		}
		if f.ClientID != "" && p.ClientID != f.ClientID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		c := *p
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := len(all)
	if f.Offset >= total {
		return []*entity.Policy{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < total {
		end = f.Offset + f.Limit
	}
	return all[f.Offset:end], total, nil
}

func (r PolicyRepo) ListExpiringBetween(_ context.Context, from, to time.Time) ([]*entity.Policy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Policy
	for _, p := range r.s.t.policies {
		if p.Status != entity.PolicyVigente || p.EndDate.Before(from) || p.EndDate.After(to) {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// PaymentRepo cuotas en memoria.
type PaymentRepo struct{ s *Store }

// Payments repositorio de cuotas.
func (s *Store) Payments() PaymentRepo { return PaymentRepo{s} }

func (r PaymentRepo) CreateBatch(_ context.Context, payments []*entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailPaymentInsert != nil {
		return r.s.FailPaymentInsert
	}
	for _, p := range payments {
		if _, ok := r.s.t.policies[p.PolicyID]; !ok {
			return domain.ErrOperationFailed
		}
		c := *p
		r.s.t.payments[p.ID] = &c
	}
	return nil
}

func (r PaymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.t.payments[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r PaymentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Payment, error) {
	return r.GetByID(ctx, id)
}

func (r PaymentRepo) Update(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.payments[p.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *p
	r.s.t.payments[p.ID] = &c
	return nil
}

func (r PaymentRepo) ListByPolicy(_ context.Context, policyID string) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.s.t.payments {
		if p.PolicyID == policyID {
			c := *p
			out = append(out, &c)
		}
	}
	sortPayments(out)
	return out, nil
}

func (r PaymentRepo) DeleteByPolicy(_ context.Context, policyID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, p := range r.s.t.payments {
		if p.PolicyID == policyID {
			delete(r.s.t.payments, id)
			n++
		}
	}
	return n, nil
}

func (r PaymentRepo) ListPendingDueBefore(_ context.Context, date time.Time) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.s.t.payments {
		if p.Status == entity.PaymentPendiente && p.DueDate.Before(date) {
			c := *p
			out = append(out, &c)
		}
	}
	sortPayments(out)
	return out, nil
}

func sortPayments(list []*entity.Payment) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].PolicyID != list[j].PolicyID {
			return list[i].PolicyID < list[j].PolicyID
		}
		if list[i].InstallmentNumber != list[j].InstallmentNumber {
			return list[i].InstallmentNumber < list[j].InstallmentNumber
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}

// ClaimRepo reclamos en memoria.
type ClaimRepo struct{ s *Store }

// Claims repositorio de reclamos.
func (s *Store) Claims() ClaimRepo { return ClaimRepo{s} }

func (r ClaimRepo) Create(_ context.Context, c *entity.Claim) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.t.claims[c.ID] = &cp
	return nil
}

func (r ClaimRepo) DeleteByPolicy(_ context.Context, policyID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, c := range r.s.t.claims {
		if c.PolicyID == policyID {
			delete(r.s.t.claims, id)
			n++
		}
	}
	return n, nil
}

// CommissionRepo comisiones en memoria.
type CommissionRepo struct{ s *Store }

// Commissions repositorio de comisiones.
func (s *Store) Commissions() CommissionRepo { return CommissionRepo{s} }

func (r CommissionRepo) Create(_ context.Context, c *entity.Commission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.t.commissions[c.ID] = &cp
	return nil
}

func (r CommissionRepo) GetByID(_ context.Context, id string) (*entity.Commission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.t.commissions[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r CommissionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Commission, error) {
	return r.GetByID(ctx, id)
}

func (r CommissionRepo) Update(_ context.Context, c *entity.Commission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.commissions[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.s.t.commissions[c.ID] = &cp
	return nil
}

func (r CommissionRepo) ListByPolicy(_ context.Context, policyID string) ([]*entity.Commission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Commission
	for _, c := range r.s.t.commissions {
		if c.PolicyID == policyID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r CommissionRepo) DeleteByPolicy(_ context.Context, policyID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, c := range r.s.t.commissions {
		if c.PolicyID == policyID {
			delete(r.s.t.commissions, id)
			n++
		}
	}
	return n, nil
}

// CommissionRuleRepo reglas de comisión en memoria.
type CommissionRuleRepo struct{ s *Store }

// CommissionRules repositorio de reglas.
func (s *Store) CommissionRules() CommissionRuleRepo { return CommissionRuleRepo{s} }

func (r CommissionRuleRepo) Create(_ context.Context, rule *entity.CommissionRule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *rule
	r.s.t.rules[rule.ID] = &cp
	return nil
}

func (r CommissionRuleRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.CommissionRule, error) {
	return r.list(func(x *entity.CommissionRule) bool { return x.CompanyID == companyID }), nil
}

func (r CommissionRuleRepo) ListFor(_ context.Context, companyID, insurerID, insuranceTypeID string) ([]*entity.CommissionRule, error) {
	return r.list(func(x *entity.CommissionRule) bool {
		return x.CompanyID == companyID && x.InsurerID == insurerID && x.InsuranceTypeID == insuranceTypeID
	}), nil
}

func (r CommissionRuleRepo) list(keep func(*entity.CommissionRule) bool) []*entity.CommissionRule {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CommissionRule
	for _, x := range r.s.t.rules {
		if keep(x) {
			cp := *x
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EffectiveFrom.Before(out[j].EffectiveFrom) })
	return out
}

// RenewalRepo renovaciones en memoria.
type RenewalRepo struct{ s *Store }

// Renewals repositorio de renovaciones.
func (s *Store) Renewals() RenewalRepo { return RenewalRepo{s} }

func (r RenewalRepo) CreateIfNoneOpen(_ context.Context, rn *entity.Renewal) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.t.renewals {
		if existing.PolicyID != rn.PolicyID {
			continue
		}
		if existing.Status == entity.RenewalPendiente || existing.OriginalEndDate.Equal(rn.OriginalEndDate) {
			return false, nil
		}
	}
	cp := *rn
	r.s.t.renewals[rn.ID] = &cp
	return true, nil
}

func (r RenewalRepo) GetByID(_ context.Context, id string) (*entity.Renewal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rn, ok := r.s.t.renewals[id]
	if !ok {
		return nil, nil
	}
	cp := *rn
	return &cp, nil
}

func (r RenewalRepo) GetForUpdate(ctx context.Context, id string) (*entity.Renewal, error) {
	return r.GetByID(ctx, id)
}

func (r RenewalRepo) GetOpenByPolicy(_ context.Context, policyID string) (*entity.Renewal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rn := range r.s.t.renewals {
		if rn.PolicyID == policyID && rn.Status == entity.RenewalPendiente {
			cp := *rn
			return &cp, nil
		}
	}
	return nil, nil
}

func (r RenewalRepo) Update(_ context.Context, rn *entity.Renewal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.renewals[rn.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *rn
	r.s.t.renewals[rn.ID] = &cp
	return nil
}

func (r RenewalRepo) DeleteByPolicy(_ context.Context, policyID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, rn := range r.s.t.renewals {
		if rn.PolicyID == policyID {
			delete(r.s.t.renewals, id)
			n++
		}
	}
	return n, nil
}

func (r RenewalRepo) ListOverdue(_ context.Context, companyID string, before time.Time) ([]*entity.Renewal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Renewal
	for _, rn := range r.s.t.renewals {
		if rn.Status != entity.RenewalPendiente || !rn.OriginalEndDate.Before(before) {
			continue
		}
		if companyID != "" && rn.CompanyID != companyID {
			continue
		}
		cp := *rn
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OriginalEndDate.Before(out[j].OriginalEndDate) })
	return out, nil
}
