package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

// PolicyFilter filtros del listado de pólizas. CompanyID vacío = todas las empresas.
type PolicyFilter struct {
	CompanyID string
	ClientID  string
	Status    entity.PolicyStatus
	Limit     int
	Offset    int
}

// PolicyRepository define el puerto de persistencia para Policy.
type PolicyRepository interface {
	Create(ctx context.Context, p *entity.Policy) error
	GetByID(ctx context.Context, id string) (*entity.Policy, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); usar dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Policy, error)
	Update(ctx context.Context, p *entity.Policy) error
	Delete(ctx context.Context, id string) (int64, error)
	List(ctx context.Context, f PolicyFilter) ([]*entity.Policy, int, error)
	// ListExpiringBetween pólizas VIGENTE de todas las empresas con end_date en [from, to].
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Policy, error)
}
