package redis_test

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/infrastructure/memory"
	"github.com/jhoicas/Seguros-api/internal/infrastructure/redis"
	"github.com/jhoicas/Seguros-api/pkg/logger"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
	down bool
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeKV) Get(_ context.Context, key string) *goredis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return goredis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeKV) Set(_ context.Context, key string, value any, exp time.Duration) *goredis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return goredis.NewStatusResult("", errors.New("connection refused"))
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttl[key] = exp
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeKV) Incr(_ context.Context, key string) *goredis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return goredis.NewIntResult(0, errors.New("connection refused"))
	}
	n, _ := strconv.ParseInt(f.data[key], 10, 64)
	n++
	f.data[key] = strconv.FormatInt(n, 10)
	return goredis.NewIntResult(n, nil)
}

// countingPerms cuenta las lecturas que llegan a la base. afterRead, si está,
// corre una sola vez entre la lectura y el retorno.
type countingPerms struct {
	memory.PermissionRepo
	mu        sync.Mutex
	gets      int
	afterRead func()
}

func (c *countingPerms) Get(ctx context.Context, role entity.Role, module entity.Module) (*entity.ModulePermission, error) {
	c.mu.Lock()
	c.gets++
	hook := c.afterRead
	c.afterRead = nil
	c.mu.Unlock()
	p, err := c.PermissionRepo.Get(ctx, role, module)
	if hook != nil {
		hook()
	}
	return p, err
}

func setup(t *testing.T) (*redis.CachedPermissions, *countingPerms, *fakeKV) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Permissions().Upsert(context.Background(), &entity.ModulePermission{
		Role: entity.RoleEjecutivo, Module: entity.ModulePolicies,
		Permissions: entity.Permissions{CanView: true, CanCreate: true},
	}))
	inner := &countingPerms{PermissionRepo: store.Permissions()}
	kv := newFakeKV()
	return redis.NewCachedPermissions(inner, kv, time.Minute, logger.Nop()), inner, kv
}

// ─────────────────────────────────────────────────────────────────────────────
// Lectura
// ─────────────────────────────────────────────────────────────────────────────

// Caso 1: la segunda lectura sale de la caché.
func TestCachedPermissions_ReadThrough(t *testing.T) {
	cache, inner, kv := setup(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p, err := cache.Get(ctx, entity.RoleEjecutivo, entity.ModulePolicies)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.True(t, p.CanView)
		assert.True(t, p.CanCreate)
		assert.False(t, p.CanDelete)
	}
	assert.Equal(t, 1, inner.gets)
	assert.Equal(t, time.Minute, kv.ttl["perm:EJECUTIVO:POLICIES:0"])
}

// Caso 2: la ausencia de fila también se cachea.
func TestCachedPermissions_AusenciaCacheada(t *testing.T) {
	cache, inner, kv := setup(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		p, err := cache.Get(ctx, entity.RoleCliente, entity.ModuleSettings)
		require.NoError(t, err)
		assert.Nil(t, p)
	}
	assert.Equal(t, 1, inner.gets)

	var e map[string]any
	require.NoError(t, json.Unmarshal([]byte(kv.data["perm:CLIENTE:SETTINGS:0"]), &e))
	assert.Equal(t, false, e["found"])
}

// Caso 3: con Redis caído se lee de la base sin error.
func TestCachedPermissions_RedisCaido(t *testing.T) {
	cache, inner, kv := setup(t)
	kv.down = true

	p, err := cache.Get(context.Background(), entity.RoleEjecutivo, entity.ModulePolicies)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.CanView)

	_, err = cache.Get(context.Background(), entity.RoleEjecutivo, entity.ModulePolicies)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.gets)
}

func TestCachedPermissions_EntradaCorrupta(t *testing.T) {
	cache, inner, kv := setup(t)
	kv.data["perm:EJECUTIVO:POLICIES:0"] = "{no-json"

	p, err := cache.Get(context.Background(), entity.RoleEjecutivo, entity.ModulePolicies)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 1, inner.gets)
}

// ─────────────────────────────────────────────────────────────────────────────
// Escritura
// ─────────────────────────────────────────────────────────────────────────────

// Caso 4: el upsert invalida y la siguiente lectura ve los indicadores nuevos.
func TestCachedPermissions_UpsertInvalida(t *testing.T) {
	cache, inner, _ := setup(t)
	ctx := context.Background()

	_, err := cache.Get(ctx, entity.RoleEjecutivo, entity.ModulePolicies)
	require.NoError(t, err)

	require.NoError(t, cache.Upsert(ctx, &entity.ModulePermission{
		Role: entity.RoleEjecutivo, Module: entity.ModulePolicies,
		Permissions: entity.Permissions{CanView: true},
	}))

	p, err := cache.Get(ctx, entity.RoleEjecutivo, entity.ModulePolicies)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.False(t, p.CanCreate)
	assert.Equal(t, 2, inner.gets)
}

func TestCachedPermissions_UpsertSuperAdmin(t *testing.T) {
	cache, _, kv := setup(t)
	kv.data["perm:SUPER_ADMIN:POLICIES:0"] = `{"found":false}`

	err := cache.Upsert(context.Background(), &entity.ModulePermission{
		Role: entity.RoleSuperAdmin, Module: entity.ModulePolicies,
	})
	require.Error(t, err)
	// la generación no avanza si la base rechaza la escritura
	assert.Contains(t, kv.data, "perm:SUPER_ADMIN:POLICIES:0")
	assert.NotContains(t, kv.data, "perm:gen:SUPER_ADMIN:POLICIES")
}

// Caso 5: una lectura que cargó la fila vieja mientras otro la actualizaba no
// deja esa fila visible para las lecturas siguientes.
func TestCachedPermissions_UpsertDuranteLectura(t *testing.T) {
	cache, inner, kv := setup(t)
	ctx := context.Background()

	inner.afterRead = func() {
		require.NoError(t, cache.Upsert(ctx, &entity.ModulePermission{
			Role: entity.RoleEjecutivo, Module: entity.ModulePolicies,
			Permissions: entity.Permissions{CanView: true, CanDelete: true},
		}))
	}

	// la lectura en curso devuelve lo que vio y lo guarda bajo la generación 0
	p, err := cache.Get(ctx, entity.RoleEjecutivo, entity.ModulePolicies)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.False(t, p.CanDelete)
	assert.Contains(t, kv.data, "perm:EJECUTIVO:POLICIES:0")
	assert.Equal(t, "1", kv.data["perm:gen:EJECUTIVO:POLICIES"])

	p, err = cache.Get(ctx, entity.RoleEjecutivo, entity.ModulePolicies)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.CanDelete)
	assert.False(t, p.CanCreate)
	assert.Equal(t, 2, inner.gets)
}
