package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
)

var _ repository.PermissionRepository = (*PermissionRepo)(nil)

// PermissionRepo matriz de permisos sobre PostgreSQL.
type PermissionRepo struct {
	q Querier
}

// NewPermissionRepository construye el adaptador.
func NewPermissionRepository(q Querier) *PermissionRepo {
	return &PermissionRepo{q: q}
}

func scanPermission(row rowScanner) (*entity.ModulePermission, error) {
	var p entity.ModulePermission
	if err := row.Scan(&p.Role, &p.Module, &p.CanView, &p.CanCreate, &p.CanEdit, &p.CanDelete); err != nil {
		return nil, err
	}
	return &p, nil
}

// Get devuelve (nil, nil) si no hay fila para el par.
func (r *PermissionRepo) Get(ctx context.Context, role entity.Role, module entity.Module) (*entity.ModulePermission, error) {
	p, err := scanPermission(r.q.QueryRow(ctx, `
		SELECT role, module, can_view, can_create, can_edit, can_delete
		FROM module_permissions WHERE role = $1 AND module = $2`, role, module))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, opFailed("get permission", err)
	}
	return p, nil
}

// ListByRole filas almacenadas del rol.
func (r *PermissionRepo) ListByRole(ctx context.Context, role entity.Role) ([]*entity.ModulePermission, error) {
	rows, err := r.q.Query(ctx, `
		SELECT role, module, can_view, can_create, can_edit, can_delete
		FROM module_permissions WHERE role = $1 ORDER BY module`, role)
	if err != nil {
		return nil, opFailed("list permissions", err)
	}
	defer rows.Close()
	var out []*entity.ModulePermission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, opFailed("scan permission", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, opFailed("list permissions", err)
	}
	return out, nil
}

// Upsert sobrescribe los cuatro indicadores del par.
func (r *PermissionRepo) Upsert(ctx context.Context, perm *entity.ModulePermission) error {
	if perm.Role == entity.RoleSuperAdmin {
		return domain.ErrImmutableRole
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO module_permissions (role, module, can_view, can_create, can_edit, can_delete, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (role, module) DO UPDATE SET
			can_view = EXCLUDED.can_view,
			can_create = EXCLUDED.can_create,
			can_edit = EXCLUDED.can_edit,
			can_delete = EXCLUDED.can_delete,
			updated_at = now()`,
		perm.Role, perm.Module, perm.CanView, perm.CanCreate, perm.CanEdit, perm.CanDelete)
	if err != nil {
		return opFailed("upsert permission", err)
	}
	return nil
}
