package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

// RenewalRepository define el puerto de persistencia para Renewal.
type RenewalRepository interface {
	// CreateIfNoneOpen inserta la renovación solo si la póliza no tiene otra PENDIENTE ni otra
	// para el mismo término (policy_id, original_end_date), esté en el estado que esté.
	// Debe ser atómico frente a ejecuciones concurrentes del generador; devuelve false si ya existía.
	CreateIfNoneOpen(ctx context.Context, r *entity.Renewal) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.Renewal, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Renewal, error)
	GetOpenByPolicy(ctx context.Context, policyID string) (*entity.Renewal, error)
	Update(ctx context.Context, r *entity.Renewal) error
	DeleteByPolicy(ctx context.Context, policyID string) (int64, error)
	// ListOverdue renovaciones PENDIENTE con original_end_date < before. companyID vacío = todas.
	ListOverdue(ctx context.Context, companyID string, before time.Time) ([]*entity.Renewal, error)
}
