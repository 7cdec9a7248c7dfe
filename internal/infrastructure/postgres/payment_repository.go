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

var (
	_ repository.PaymentRepository = (*PaymentRepo)(nil)
	_ repository.ClaimRepository   = (*ClaimRepo)(nil)
)

// PaymentRepo cuotas del plan de pagos.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, company_id, policy_id, installment_number, due_date, amount, status,
	paid_at, method, reference, annul_reason, created_at, updated_at`

func scanPayment(row rowScanner) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.PolicyID, &p.InstallmentNumber, &p.DueDate, &p.Amount, &p.Status,
		&p.PaidAt, &p.Method, &p.Reference, &p.AnnulReason, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateBatch inserta todas las cuotas en un solo viaje a la base.
// Dentro de una transacción, un fallo en cualquier fila invalida el plan completo.
func (r *PaymentRepo) CreateBatch(ctx context.Context, payments []*entity.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range payments {
		batch.Queue(`
			INSERT INTO payments (`+paymentColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			p.ID, p.CompanyID, p.PolicyID, p.InstallmentNumber, p.DueDate, p.Amount, p.Status,
			p.PaidAt, p.Method, p.Reference, p.AnnulReason, p.CreatedAt, p.UpdatedAt,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range payments {
		if _, err := br.Exec(); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("cuota duplicada: %w", domain.ErrDuplicate)
			}
			return opFailed("create payments", err)
		}
	}
	return nil
}

// GetByID obtiene una cuota por ID.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

// GetForUpdate bloquea la cuota hasta el fin de la transacción.
func (r *PaymentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id)
}

func (r *PaymentRepo) getOne(ctx context.Context, query, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, opFailed("get payment", err)
	}
	return p, nil
}

func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE payments SET
			status = $2, paid_at = $3, method = $4, reference = $5, annul_reason = $6, updated_at = $7
		WHERE id = $1`,
		p.ID, p.Status, p.PaidAt, p.Method, p.Reference, p.AnnulReason, p.UpdatedAt,
	)
	if err != nil {
		return opFailed("update payment", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cuota %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

// ListByPolicy todas las cuotas de la póliza, anuladas incluidas.
func (r *PaymentRepo) ListByPolicy(ctx context.Context, policyID string) ([]*entity.Payment, error) {
	return r.list(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE policy_id = $1
		ORDER BY installment_number, created_at`, policyID)
}

// ListPendingDueBefore cuotas PENDIENTE vencidas antes de date, de todas las empresas.
func (r *PaymentRepo) ListPendingDueBefore(ctx context.Context, date time.Time) ([]*entity.Payment, error) {
	return r.list(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE status = $1 AND due_date < $2
		ORDER BY policy_id, installment_number, created_at`, entity.PaymentPendiente, date)
}

func (r *PaymentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, opFailed("list payments", err)
	}
	defer rows.Close()
	var out []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, opFailed("scan payment", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, opFailed("list payments", err)
	}
	return out, nil
}

func (r *PaymentRepo) DeleteByPolicy(ctx context.Context, policyID string) (int64, error) {
	return deleteByPolicy(ctx, r.q, "payments", policyID)
}

// deleteByPolicy borra las filas dependientes de una póliza en la tabla indicada.
// table es siempre una constante del paquete.
func deleteByPolicy(ctx context.Context, q Querier, table, policyID string) (int64, error) {
	tag, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE policy_id = $1`, policyID)
	if err != nil {
		return 0, opFailed("delete "+table, err)
	}
	return tag.RowsAffected(), nil
}

// ClaimRepo reclamos; solo lo que usa el borrado en cascada.
type ClaimRepo struct {
	q Querier
}

// NewClaimRepository construye el adaptador.
func NewClaimRepository(q Querier) *ClaimRepo {
	return &ClaimRepo{q: q}
}

func (r *ClaimRepo) Create(ctx context.Context, c *entity.Claim) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO claims (id, company_id, policy_id, number, description, amount, status, reported_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.CompanyID, c.PolicyID, c.Number, c.Description, c.Amount, c.Status,
		c.ReportedAt, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return opFailed("create claim", err)
	}
	return nil
}

func (r *ClaimRepo) DeleteByPolicy(ctx context.Context, policyID string) (int64, error) {
	return deleteByPolicy(ctx, r.q, "claims", policyID)
}
