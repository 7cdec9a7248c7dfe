package repository

import (
	"context"

	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

// CommissionRepository define el puerto de persistencia para Commission.
type CommissionRepository interface {
	Create(ctx context.Context, c *entity.Commission) error
	GetByID(ctx context.Context, id string) (*entity.Commission, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Commission, error)
	Update(ctx context.Context, c *entity.Commission) error
	ListByPolicy(ctx context.Context, policyID string) ([]*entity.Commission, error)
	DeleteByPolicy(ctx context.Context, policyID string) (int64, error)
}

// CommissionRuleRepository reglas de tasa por defecto de cada empresa.
type CommissionRuleRepository interface {
	Create(ctx context.Context, r *entity.CommissionRule) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.CommissionRule, error)
	// ListFor reglas de la empresa para (aseguradora, tipo de seguro), cualquier vigencia.
	ListFor(ctx context.Context, companyID, insurerID, insuranceTypeID string) ([]*entity.CommissionRule, error)
}
