package repository

import (
	"context"

	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get devuelven (nil, nil) si el usuario no existe.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// SetLastActiveCompany guarda la empresa resuelta para usarla por defecto en la siguiente petición.
	SetLastActiveCompany(ctx context.Context, userID, companyID string) error
}
