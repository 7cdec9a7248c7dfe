package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Seguros-api/internal/application/access"
	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/infrastructure/memory"
)

var allActions = []entity.Action{entity.ActionView, entity.ActionCreate, entity.ActionEdit, entity.ActionDelete}

type failingPerms struct{ memory.PermissionRepo }

func (failingPerms) Get(context.Context, entity.Role, entity.Module) (*entity.ModulePermission, error) {
	return nil, errors.New("conexión perdida")
}

// Caso 1: sin fila en la matriz se deniega todo, sin error.
func TestIsAllowed_DenegadoPorDefecto(t *testing.T) {
	store := memory.NewStore()
	ev := access.NewEvaluator(store.Permissions())
	user := &entity.User{ID: "u", Role: entity.RoleEjecutivo}

	for _, m := range entity.Modules() {
		for _, a := range allActions {
			ok, err := ev.IsAllowed(context.Background(), user, m, a)
			require.NoError(t, err)
			assert.False(t, ok, "%s/%s", m, a)
		}
	}
}

// Caso 2: SUPER_ADMIN pasa en todos los módulos aunque no haya filas.
func TestIsAllowed_SuperAdmin(t *testing.T) {
	ev := access.NewEvaluator(failingPerms{})
	user := &entity.User{ID: "root", Role: entity.RoleSuperAdmin}

	for _, m := range entity.Modules() {
		for _, a := range allActions {
			ok, err := ev.IsAllowed(context.Background(), user, m, a)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	}
}

func TestIsAllowed_SegunFila(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Permissions().Upsert(ctx, &entity.ModulePermission{
		Role: entity.RoleEjecutivo, Module: entity.ModuleClaims,
		Permissions: entity.Permissions{CanView: true, CanCreate: true},
	}))
	ev := access.NewEvaluator(store.Permissions())

	tests := []struct {
		role   entity.Role
		action entity.Action
		want   bool
	}{
		{entity.RoleEjecutivo, entity.ActionView, true},
		{entity.RoleEjecutivo, entity.ActionCreate, true},
		{entity.RoleEjecutivo, entity.ActionEdit, false},
		{entity.RoleEjecutivo, entity.ActionDelete, false},
		{entity.RoleContabilidad, entity.ActionView, false},
	}
	for _, tt := range tests {
		ok, err := ev.IsAllowed(ctx, &entity.User{Role: tt.role}, entity.ModuleClaims, tt.action)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "%s %s", tt.role, tt.action)
	}
}

// El rol de la membresía no influye: mismo rol global, mismos permisos.
func TestIsAllowed_SoloRolGlobal(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Permissions().Upsert(ctx, &entity.ModulePermission{
		Role: entity.RoleEjecutivo, Module: entity.ModulePolicies, Permissions: entity.Permissions{CanView: true},
	}))
	ev := access.NewEvaluator(store.Permissions())

	a := &entity.User{ID: "a", Role: entity.RoleEjecutivo}
	b := &entity.User{ID: "b", Role: entity.RoleEjecutivo}
	for _, act := range allActions {
		okA, _ := ev.IsAllowed(ctx, a, entity.ModulePolicies, act)
		okB, _ := ev.IsAllowed(ctx, b, entity.ModulePolicies, act)
		assert.Equal(t, okA, okB)
	}
}

func TestAuthorize_ErrorTipado(t *testing.T) {
	ev := access.NewEvaluator(memory.NewStore().Permissions())
	err := ev.Authorize(context.Background(), &entity.User{Role: entity.RoleCliente}, entity.ModuleReports, entity.ActionView)

	require.ErrorIs(t, err, domain.ErrForbiddenAction)
	var ae *domain.ActionError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "REPORTS", ae.Module)
	assert.Equal(t, "view", ae.Action)
}

func TestAuthorize_FalloDeRepositorio(t *testing.T) {
	ev := access.NewEvaluator(failingPerms{})
	err := ev.Authorize(context.Background(), &entity.User{Role: entity.RoleEjecutivo}, entity.ModuleReports, entity.ActionView)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrForbiddenAction)
}

func TestAuthorize_SinUsuario(t *testing.T) {
	ev := access.NewEvaluator(memory.NewStore().Permissions())
	err := ev.Authorize(context.Background(), nil, entity.ModuleReports, entity.ActionView)
	assert.ErrorIs(t, err, domain.ErrForbiddenAction)
}
