package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
)

var _ repository.RenewalRepository = (*RenewalRepo)(nil)

// RenewalRepo renovaciones de pólizas.
type RenewalRepo struct {
	q Querier
}

// NewRenewalRepository construye el adaptador.
func NewRenewalRepository(q Querier) *RenewalRepo {
	return &RenewalRepo{q: q}
}

const renewalColumns = `id, company_id, policy_id, original_end_date, new_end_date, new_premium,
	successor_policy_id, status, notes, created_at, updated_at`

func scanRenewal(row rowScanner) (*entity.Renewal, error) {
	var rn entity.Renewal
	err := row.Scan(
		&rn.ID, &rn.CompanyID, &rn.PolicyID, &rn.OriginalEndDate, &rn.NewEndDate, &rn.NewPremium,
		&rn.SuccessorPolicyID, &rn.Status, &rn.Notes, &rn.CreatedAt, &rn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rn, nil
}

// CreateIfNoneOpen se apoya en los índices únicos renewals_open_policy_key y
// renewals_policy_term_key: con ON CONFLICT DO NOTHING dos generadores concurrentes
// no pueden duplicar la renovación. Sin fila devuelta, ya existía.
func (r *RenewalRepo) CreateIfNoneOpen(ctx context.Context, rn *entity.Renewal) (bool, error) {
	var id string
	err := r.q.QueryRow(ctx, `
		INSERT INTO renewals (`+renewalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT DO NOTHING
		RETURNING id`,
		rn.ID, rn.CompanyID, rn.PolicyID, rn.OriginalEndDate, rn.NewEndDate, rn.NewPremium,
		rn.SuccessorPolicyID, rn.Status, rn.Notes, rn.CreatedAt, rn.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, opFailed("create renewal", err)
	}
	return true, nil
}

func (r *RenewalRepo) GetByID(ctx context.Context, id string) (*entity.Renewal, error) {
	return r.getOne(ctx, `SELECT `+renewalColumns+` FROM renewals WHERE id = $1`, id)
}

func (r *RenewalRepo) GetForUpdate(ctx context.Context, id string) (*entity.Renewal, error) {
	return r.getOne(ctx, `SELECT `+renewalColumns+` FROM renewals WHERE id = $1 FOR UPDATE`, id)
}

// GetOpenByPolicy la renovación PENDIENTE de la póliza, si existe.
func (r *RenewalRepo) GetOpenByPolicy(ctx context.Context, policyID string) (*entity.Renewal, error) {
	return r.getOne(ctx, `SELECT `+renewalColumns+` FROM renewals WHERE policy_id = $1 AND status = 'PENDIENTE'`, policyID)
}

func (r *RenewalRepo) getOne(ctx context.Context, query, arg string) (*entity.Renewal, error) {
	rn, err := scanRenewal(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, opFailed("get renewal", err)
	}
	return rn, nil
}

func (r *RenewalRepo) Update(ctx context.Context, rn *entity.Renewal) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE renewals SET
			new_end_date = $2, new_premium = $3, successor_policy_id = $4,
			status = $5, notes = $6, updated_at = $7
		WHERE id = $1`,
		rn.ID, rn.NewEndDate, rn.NewPremium, rn.SuccessorPolicyID, rn.Status, rn.Notes, rn.UpdatedAt,
	)
	if err != nil {
		return opFailed("update renewal", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("renovación %s: %w", rn.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *RenewalRepo) DeleteByPolicy(ctx context.Context, policyID string) (int64, error) {
	return deleteByPolicy(ctx, r.q, "renewals", policyID)
}

// ListOverdue renovaciones PENDIENTE cuyo término original terminó antes de before.
func (r *RenewalRepo) ListOverdue(ctx context.Context, companyID string, before time.Time) ([]*entity.Renewal, error) {
	query := `SELECT ` + renewalColumns + ` FROM renewals WHERE status = 'PENDIENTE' AND original_end_date < $1`
	args := []any{before}
	if companyID != "" {
		query += ` AND company_id = $2`
		args = append(args, companyID)
	}
	query += ` ORDER BY original_end_date, id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, opFailed("list overdue renewals", err)
	}
	defer rows.Close()
	var out []*entity.Renewal
	for rows.Next() {
		rn, err := scanRenewal(rows)
		if err != nil {
			return nil, opFailed("scan renewal", err)
		}
		out = append(out, rn)
	}
	if err := rows.Err(); err != nil {
		return nil, opFailed("list overdue renewals", err)
	}
	return out, nil
}
