package access

import (
	"context"
	"fmt"

	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
)

// Evaluator decide si un usuario puede ejecutar una acción sobre un módulo.
// Los permisos se indexan solo por rol global: el rol dentro de la empresa no cambia
// las acciones permitidas, solo qué datos se ven.
type Evaluator struct {
	perms repository.PermissionRepository
}

// NewEvaluator construye el evaluador sobre la matriz de permisos.
func NewEvaluator(perms repository.PermissionRepository) *Evaluator {
	return &Evaluator{perms: perms}
}

// IsAllowed devuelve true para SUPER_ADMIN siempre; para el resto consulta la matriz
// y una fila ausente equivale a los cuatro indicadores en false.
func (e *Evaluator) IsAllowed(ctx context.Context, user *entity.User, module entity.Module, action entity.Action) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.IsSuperAdmin() {
		return true, nil
	}
	perm, err := e.perms.Get(ctx, user.Role, module)
	if err != nil {
		return false, fmt.Errorf("consultar permisos %s/%s: %w", user.Role, module, err)
	}
	if perm == nil {
		return false, nil
	}
	return perm.Allows(action), nil
}

// Authorize es IsAllowed convertido en error: domain.ActionError si se deniega.
func (e *Evaluator) Authorize(ctx context.Context, user *entity.User, module entity.Module, action entity.Action) error {
	ok, err := e.IsAllowed(ctx, user, module, action)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.ActionError{Module: string(module), Action: string(action)}
	}
	return nil
}

// Authorizer contrato que usan los motores para el control de acceso.
type Authorizer interface {
	Authorize(ctx context.Context, user *entity.User, module entity.Module, action entity.Action) error
}

var _ Authorizer = (*Evaluator)(nil)
