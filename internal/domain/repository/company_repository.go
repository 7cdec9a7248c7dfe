package repository

import (
	"context"

	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Company, error)
	// ListAll devuelve todas las empresas ordenadas por fecha de creación.
	ListAll(ctx context.Context) ([]*entity.Company, error)
}

// MembershipRepository consulta las membresías usuario-empresa.
type MembershipRepository interface {
	// Get devuelve la membresía (activa o no) con su empresa; (nil, nil) si no existe.
	Get(ctx context.Context, userID, companyID string) (*entity.MembershipWithCompany, error)
	// ListByUser devuelve las membresías del usuario ordenadas por fecha de creación.
	ListByUser(ctx context.Context, userID string) ([]entity.MembershipWithCompany, error)
}
