package repository

import (
	"context"

	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

// PermissionRepository persiste la matriz (rol global, módulo) -> permisos.
// SUPER_ADMIN nunca se almacena.
type PermissionRepository interface {
	// Get devuelve (nil, nil) si no hay fila para el par.
	Get(ctx context.Context, role entity.Role, module entity.Module) (*entity.ModulePermission, error)
	ListByRole(ctx context.Context, role entity.Role) ([]*entity.ModulePermission, error)
	// Upsert sobrescribe los cuatro indicadores del par.
	Upsert(ctx context.Context, perm *entity.ModulePermission) error
}
