package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Seguros-api/internal/application/access"
	"github.com/jhoicas/Seguros-api/internal/application/dto"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/pkg/jwt"
)

// Locals keys del contexto Fiber.
const (
	LocalUser  = "user"
	LocalScope = "scope"
	localError = "error"
)

// HeaderCompanyID cabecera con la empresa pedida; "global" es la vista de SUPER_ADMIN.
const HeaderCompanyID = "X-Company-ID"

// userLoader lo mínimo que necesita el middleware para cargar al usuario del token.
type userLoader interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// AuthMiddleware valida el Bearer Token JWT, carga al usuario y lo deja en c.Locals.
// Un usuario inexistente o no activo se trata igual que un token inválido.
func AuthMiddleware(jwtSecret string, users userLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, _, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}

		// el rol vigente es el de la base, no el del token
		user, err := users.GetByID(c.Context(), userID)
		if err != nil {
			return writeError(c, err)
		}
		if user == nil || user.Status != entity.UserStatusActive {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INACTIVE_USER", Message: "usuario inexistente o inactivo"})
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// TenantMiddleware resuelve la empresa activa de la petición a partir de X-Company-ID.
// Debe ir después de AuthMiddleware.
func TenantMiddleware(resolver *access.TenantResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := resolver.Resolve(c.Context(), GetUser(c), strings.TrimSpace(c.Get(HeaderCompanyID)))
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalScope, scope)
		return c.Next()
	}
}

// GetUser devuelve el usuario autenticado (después del middleware de auth).
func GetUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// GetScope devuelve el contexto resuelto (después del middleware de tenant).
func GetScope(c *fiber.Ctx) access.Scope {
	if s, ok := c.Locals(LocalScope).(access.Scope); ok {
		return s
	}
	return access.Scope{User: GetUser(c)}
}
