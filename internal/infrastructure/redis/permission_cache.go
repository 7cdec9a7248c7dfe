package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
	"github.com/jhoicas/Seguros-api/pkg/logger"
)

var _ repository.PermissionRepository = (*CachedPermissions)(nil)

// KV subconjunto de comandos que usa la caché. *goredis.Client lo cumple.
type KV interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Incr(ctx context.Context, key string) *goredis.IntCmd
}

// DefaultPermissionTTL vigencia de una entrada cuando no se configura otra.
const DefaultPermissionTTL = 5 * time.Minute

// CachedPermissions decorador read-through sobre la matriz de permisos.
// Las ausencias también se guardan para no consultar la base en cada denegación.
// Un fallo de Redis nunca rompe la evaluación: se registra y se lee de la base.
//
// Cada par (rol, módulo) tiene un contador de generación; la entrada vive bajo
// la generación leída antes de consultar la base. Upsert incrementa el contador,
// así una lectura concurrente que cargó la fila vieja la guarda en una
// generación que ya nadie consulta.
type CachedPermissions struct {
	inner repository.PermissionRepository
	kv    KV
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedPermissions envuelve inner con la caché.
func NewCachedPermissions(inner repository.PermissionRepository, kv KV, ttl time.Duration, log *logger.Logger) *CachedPermissions {
	if ttl <= 0 {
		ttl = DefaultPermissionTTL
	}
	return &CachedPermissions{inner: inner, kv: kv, ttl: ttl, log: log.Component("permission_cache")}
}

// cachedEntry valor guardado; Found=false marca la ausencia de fila.
type cachedEntry struct {
	Found     bool `json:"found"`
	CanView   bool `json:"can_view,omitempty"`
	CanCreate bool `json:"can_create,omitempty"`
	CanEdit   bool `json:"can_edit,omitempty"`
	CanDelete bool `json:"can_delete,omitempty"`
}

func generationKey(role entity.Role, module entity.Module) string {
	return fmt.Sprintf("perm:gen:%s:%s", role, module)
}

func permissionKey(role entity.Role, module entity.Module, gen int64) string {
	return fmt.Sprintf("perm:%s:%s:%d", role, module, gen)
}

// Get consulta primero Redis y, si no hay entrada, la base.
func (c *CachedPermissions) Get(ctx context.Context, role entity.Role, module entity.Module) (*entity.ModulePermission, error) {
	gen, err := c.kv.Get(ctx, generationKey(role, module)).Int64()
	switch {
	case err == nil:
	case errors.Is(err, goredis.Nil):
		gen = 0
	default:
		c.log.Warn().Err(err).Str("key", generationKey(role, module)).Msg("redis no disponible; lectura directa")
		return c.inner.Get(ctx, role, module)
	}
	key := permissionKey(role, module, gen)

	raw, err := c.kv.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var e cachedEntry
		if jerr := json.Unmarshal(raw, &e); jerr == nil {
			if !e.Found {
				return nil, nil
			}
			return &entity.ModulePermission{Role: role, Module: module, Permissions: entity.Permissions{
				CanView: e.CanView, CanCreate: e.CanCreate, CanEdit: e.CanEdit, CanDelete: e.CanDelete,
			}}, nil
		}
		c.log.Warn().Str("key", key).Msg("entrada de caché corrupta; se ignora")
	case errors.Is(err, goredis.Nil):
	default:
		c.log.Warn().Err(err).Str("key", key).Msg("redis no disponible; lectura directa")
	}

	perm, err := c.inner.Get(ctx, role, module)
	if err != nil {
		return nil, err
	}

	e := cachedEntry{Found: perm != nil}
	if perm != nil {
		e.CanView, e.CanCreate, e.CanEdit, e.CanDelete = perm.CanView, perm.CanCreate, perm.CanEdit, perm.CanDelete
	}
	if payload, jerr := json.Marshal(e); jerr == nil {
		if serr := c.kv.Set(ctx, key, payload, c.ttl).Err(); serr != nil {
			c.log.Warn().Err(serr).Str("key", key).Msg("no se pudo guardar en caché")
		}
	}
	return perm, nil
}

// ListByRole va directo a la base; solo lo usa la pantalla de administración.
func (c *CachedPermissions) ListByRole(ctx context.Context, role entity.Role) ([]*entity.ModulePermission, error) {
	return c.inner.ListByRole(ctx, role)
}

// Upsert escribe en la base y avanza la generación del par; las entradas
// anteriores quedan huérfanas y caducan con el TTL.
func (c *CachedPermissions) Upsert(ctx context.Context, perm *entity.ModulePermission) error {
	if err := c.inner.Upsert(ctx, perm); err != nil {
		return err
	}
	key := generationKey(perm.Role, perm.Module)
	if err := c.kv.Incr(ctx, key).Err(); err != nil {
		// la entrada vieja caduca con el TTL
		c.log.Error().Err(err).Str("key", key).Msg("no se pudo invalidar la caché de permisos")
	}
	return nil
}
