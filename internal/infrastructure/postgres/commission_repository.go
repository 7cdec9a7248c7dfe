package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
)

var (
	_ repository.CommissionRepository     = (*CommissionRepo)(nil)
	_ repository.CommissionRuleRepository = (*CommissionRuleRepo)(nil)
)

// CommissionRepo comisiones del corredor.
type CommissionRepo struct {
	q Querier
}

// NewCommissionRepository construye el adaptador.
func NewCommissionRepository(q Querier) *CommissionRepo {
	return &CommissionRepo{q: q}
}

const commissionColumns = `id, company_id, policy_id, producer_id, premium_amount, rate, amount,
	period, status, paid_at, created_at, updated_at`

func scanCommission(row rowScanner) (*entity.Commission, error) {
	var c entity.Commission
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.PolicyID, &c.ProducerID, &c.PremiumAmount, &c.Rate, &c.Amount,
		&c.Period, &c.Status, &c.PaidAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommissionRepo) Create(ctx context.Context, c *entity.Commission) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO commissions (`+commissionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.CompanyID, c.PolicyID, c.ProducerID, c.PremiumAmount, c.Rate, c.Amount,
		c.Period, c.Status, c.PaidAt, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("comisión %s: %w", c.ID, domain.ErrDuplicate)
		}
		return opFailed("create commission", err)
	}
	return nil
}

func (r *CommissionRepo) GetByID(ctx context.Context, id string) (*entity.Commission, error) {
	return r.getOne(ctx, `SELECT `+commissionColumns+` FROM commissions WHERE id = $1`, id)
}

func (r *CommissionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Commission, error) {
	return r.getOne(ctx, `SELECT `+commissionColumns+` FROM commissions WHERE id = $1 FOR UPDATE`, id)
}

func (r *CommissionRepo) getOne(ctx context.Context, query, id string) (*entity.Commission, error) {
	c, err := scanCommission(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, opFailed("get commission", err)
	}
	return c, nil
}

// Update solo mueve el estado y la fecha de pago; los importes no cambian tras crearse.
func (r *CommissionRepo) Update(ctx context.Context, c *entity.Commission) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE commissions SET status = $2, paid_at = $3, updated_at = $4 WHERE id = $1`,
		c.ID, c.Status, c.PaidAt, c.UpdatedAt)
	if err != nil {
		return opFailed("update commission", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("comisión %s: %w", c.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *CommissionRepo) ListByPolicy(ctx context.Context, policyID string) ([]*entity.Commission, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+commissionColumns+` FROM commissions WHERE policy_id = $1 ORDER BY created_at, id`, policyID)
	if err != nil {
		return nil, opFailed("list commissions", err)
	}
	defer rows.Close()
	var out []*entity.Commission
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, opFailed("scan commission", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, opFailed("list commissions", err)
	}
	return out, nil
}

func (r *CommissionRepo) DeleteByPolicy(ctx context.Context, policyID string) (int64, error) {
	return deleteByPolicy(ctx, r.q, "commissions", policyID)
}

// CommissionRuleRepo reglas de tasa por defecto.
type CommissionRuleRepo struct {
	q Querier
}

// NewCommissionRuleRepository construye el adaptador.
func NewCommissionRuleRepository(q Querier) *CommissionRuleRepo {
	return &CommissionRuleRepo{q: q}
}

const ruleColumns = `id, company_id, insurer_id, insurance_type_id, rate, effective_from, effective_to, created_at`

func (r *CommissionRuleRepo) Create(ctx context.Context, rule *entity.CommissionRule) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO commission_rules (`+ruleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rule.ID, rule.CompanyID, rule.InsurerID, rule.InsuranceTypeID, rule.Rate,
		rule.EffectiveFrom, rule.EffectiveTo, rule.CreatedAt,
	)
	if err != nil {
		return opFailed("create commission rule", err)
	}
	return nil
}

func (r *CommissionRuleRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.CommissionRule, error) {
	return r.list(ctx, `
		SELECT `+ruleColumns+` FROM commission_rules
		WHERE company_id = $1 ORDER BY effective_from, id`, companyID)
}

// ListFor reglas de (aseguradora, tipo) en cualquier vigencia; el caso de uso elige la aplicable.
func (r *CommissionRuleRepo) ListFor(ctx context.Context, companyID, insurerID, insuranceTypeID string) ([]*entity.CommissionRule, error) {
	return r.list(ctx, `
		SELECT `+ruleColumns+` FROM commission_rules
		WHERE company_id = $1 AND insurer_id = $2 AND insurance_type_id = $3
		ORDER BY effective_from, id`, companyID, insurerID, insuranceTypeID)
}

func (r *CommissionRuleRepo) list(ctx context.Context, query string, args ...any) ([]*entity.CommissionRule, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, opFailed("list commission rules", err)
	}
	defer rows.Close()
	var out []*entity.CommissionRule
	for rows.Next() {
		var x entity.CommissionRule
		if err := rows.Scan(&x.ID, &x.CompanyID, &x.InsurerID, &x.InsuranceTypeID, &x.Rate,
			&x.EffectiveFrom, &x.EffectiveTo, &x.CreatedAt); err != nil {
			return nil, opFailed("scan commission rule", err)
		}
		out = append(out, &x)
	}
	if err := rows.Err(); err != nil {
		return nil, opFailed("list commission rules", err)
	}
	return out, nil
}
