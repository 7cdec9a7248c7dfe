package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para las cuotas.
type PaymentRepository interface {
	CreateBatch(ctx context.Context, payments []*entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Payment, error)
	Update(ctx context.Context, p *entity.Payment) error
	ListByPolicy(ctx context.Context, policyID string) ([]*entity.Payment, error)
	DeleteByPolicy(ctx context.Context, policyID string) (int64, error)
	// ListPendingDueBefore cuotas PENDIENTE con due_date < date (todas las empresas).
	ListPendingDueBefore(ctx context.Context, date time.Time) ([]*entity.Payment, error)
}

// ClaimRepository persistencia mínima de reclamos que necesita el borrado en cascada.
type ClaimRepository interface {
	Create(ctx context.Context, c *entity.Claim) error
	DeleteByPolicy(ctx context.Context, policyID string) (int64, error)
}
