package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
)

var _ repository.PolicyRepository = (*PolicyRepo)(nil)

// PolicyRepo implementación del puerto PolicyRepository sobre PostgreSQL.
type PolicyRepo struct {
	q Querier
}

// NewPolicyRepository construye el adaptador. q puede ser el pool o una transacción.
func NewPolicyRepository(q Querier) *PolicyRepo {
	return &PolicyRepo{q: q}
}

const policyColumns = `id, company_id, client_id, insurer_id, insurance_type_id, policy_number,
	start_date, end_date, premium, number_of_installments, status, auto_renew,
	commission_rate, beneficiary, predecessor_id, created_at, updated_at`

func scanPolicy(row rowScanner) (*entity.Policy, error) {
	var (
		p           entity.Policy
		beneficiary []byte
	)
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.ClientID, &p.InsurerID, &p.InsuranceTypeID, &p.PolicyNumber,
		&p.StartDate, &p.EndDate, &p.Premium, &p.NumberOfInstallments, &p.Status, &p.AutoRenew,
		&p.CommissionRate, &beneficiary, &p.PredecessorID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(beneficiary) > 0 {
		var b entity.BeneficiaryData
		if err := json.Unmarshal(beneficiary, &b); err != nil {
			return nil, fmt.Errorf("beneficiario de la póliza %s: %w", p.ID, err)
		}
		p.Beneficiary = &b
	}
	return &p, nil
}

func encodeBeneficiary(b *entity.BeneficiaryData) ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b)
}

// Create inserta la póliza.
func (r *PolicyRepo) Create(ctx context.Context, p *entity.Policy) error {
	beneficiary, err := encodeBeneficiary(p.Beneficiary)
	if err != nil {
		return opFailed("encode beneficiary", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO policies (`+policyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		p.ID, p.CompanyID, p.ClientID, p.InsurerID, p.InsuranceTypeID, p.PolicyNumber,
		p.StartDate, p.EndDate, p.Premium, p.NumberOfInstallments, p.Status, p.AutoRenew,
		p.CommissionRate, beneficiary, p.PredecessorID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("póliza %s: %w", p.ID, domain.ErrDuplicate)
		}
		return opFailed("create policy", err)
	}
	return nil
}

// GetByID obtiene una póliza por ID.
func (r *PolicyRepo) GetByID(ctx context.Context, id string) (*entity.Policy, error) {
	return r.getOne(ctx, `SELECT `+policyColumns+` FROM policies WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *PolicyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Policy, error) {
	return r.getOne(ctx, `SELECT `+policyColumns+` FROM policies WHERE id = $1 FOR UPDATE`, id)
}

func (r *PolicyRepo) getOne(ctx context.Context, query, id string) (*entity.Policy, error) {
	p, err := scanPolicy(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, opFailed("get policy", err)
	}
	return p, nil
}

// Update persiste los campos mutables de la póliza.
func (r *PolicyRepo) Update(ctx context.Context, p *entity.Policy) error {
	beneficiary, err := encodeBeneficiary(p.Beneficiary)
	if err != nil {
		return opFailed("encode beneficiary", err)
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE policies SET
			policy_number = $2, start_date = $3, end_date = $4, premium = $5,
			number_of_installments = $6, status = $7, auto_renew = $8,
			commission_rate = $9, beneficiary = $10, updated_at = $11
		WHERE id = $1`,
		p.ID, p.PolicyNumber, p.StartDate, p.EndDate, p.Premium,
		p.NumberOfInstallments, p.Status, p.AutoRenew,
		p.CommissionRate, beneficiary, p.UpdatedAt,
	)
	if err != nil {
		return opFailed("update policy", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("póliza %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina la póliza; devuelve las filas afectadas. Las referencias de sucesión
// (predecessor_id y successor_policy_id) que apuntan a ella quedan en NULL.
func (r *PolicyRepo) Delete(ctx context.Context, id string) (int64, error) {
	if _, err := r.q.Exec(ctx, `UPDATE policies SET predecessor_id = NULL WHERE predecessor_id = $1`, id); err != nil {
		return 0, opFailed("detach successors", err)
	}
	if _, err := r.q.Exec(ctx, `UPDATE renewals SET successor_policy_id = NULL WHERE successor_policy_id = $1`, id); err != nil {
		return 0, opFailed("detach renewals", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM policies WHERE id = $1`, id)
	if err != nil {
		return 0, opFailed("delete policy", err)
	}
	return tag.RowsAffected(), nil
}

// List devuelve la página pedida y el total que cumple el filtro.
func (r *PolicyRepo) List(ctx context.Context, f repository.PolicyFilter) ([]*entity.Policy, int, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.CompanyID != "" {
		add("company_id = $%d", f.CompanyID)
	}
	if f.ClientID != "" {
		add("client_id = $%d", f.ClientID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM policies`+clause, args...).Scan(&total); err != nil {
		return nil, 0, opFailed("count policies", err)
	}

	query := `SELECT ` + policyColumns + ` FROM policies` + clause + ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, opFailed("list policies", err)
	}
	defer rows.Close()
	list, err := collectPolicies(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListExpiringBetween pólizas VIGENTE con end_date en [from, to], de todas las empresas.
func (r *PolicyRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Policy, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+policyColumns+` FROM policies
		WHERE status = $1 AND end_date BETWEEN $2 AND $3
		ORDER BY end_date, id`,
		entity.PolicyVigente, from, to)
	if err != nil {
		return nil, opFailed("list expiring policies", err)
	}
	defer rows.Close()
	return collectPolicies(rows)
}

func collectPolicies(rows pgx.Rows) ([]*entity.Policy, error) {
	var out []*entity.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, opFailed("scan policy", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, opFailed("iterate policies", err)
	}
	return out, nil
}
