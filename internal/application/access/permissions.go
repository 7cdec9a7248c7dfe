package access

import (
	"context"

	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
)

// PermissionService administra la matriz de permisos. Gestionarla exige SETTINGS.
type PermissionService struct {
	perms     repository.PermissionRepository
	evaluator *Evaluator
}

// NewPermissionService construye el servicio.
func NewPermissionService(perms repository.PermissionRepository, evaluator *Evaluator) *PermissionService {
	return &PermissionService{perms: perms, evaluator: evaluator}
}

// SetModulePermission sobrescribe los cuatro indicadores de (role, module).
// La fila de SUPER_ADMIN no existe y no se puede modificar.
func (s *PermissionService) SetModulePermission(
	ctx context.Context,
	actor *entity.User,
	role entity.Role,
	module entity.Module,
	perms entity.Permissions,
) (*entity.ModulePermission, error) {
	if err := s.evaluator.Authorize(ctx, actor, entity.ModuleSettings, entity.ActionEdit); err != nil {
		return nil, err
	}
	if role == entity.RoleSuperAdmin {
		return nil, domain.ErrImmutableRole
	}
	row := &entity.ModulePermission{Role: role, Module: module, Permissions: perms}
	if err := s.perms.Upsert(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// ListPermissions devuelve la fila de cada módulo para el rol, rellenando las ausentes con false.
func (s *PermissionService) ListPermissions(ctx context.Context, actor *entity.User, role entity.Role) ([]entity.ModulePermission, error) {
	if err := s.evaluator.Authorize(ctx, actor, entity.ModuleSettings, entity.ActionView); err != nil {
		return nil, err
	}
	stored := map[entity.Module]entity.Permissions{}
	if role != entity.RoleSuperAdmin {
		rows, err := s.perms.ListByRole(ctx, role)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			stored[r.Module] = r.Permissions
		}
	}
	out := make([]entity.ModulePermission, 0, len(entity.Modules()))
	for _, m := range entity.Modules() {
		p := stored[m]
		if role == entity.RoleSuperAdmin {
			p = entity.AllPermissions
		}
		out = append(out, entity.ModulePermission{Role: role, Module: m, Permissions: p})
	}
	return out, nil
}
