package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Seguros-api/internal/application/auth"
	"github.com/jhoicas/Seguros-api/internal/application/dto"
)

// AuthHandler maneja login y datos de la sesión.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Usuario de la sesión y empresa activa
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Param        X-Company-ID  header  string  false  "Empresa pedida (global para SUPER_ADMIN)"
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.Context(), GetScope(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Companies godoc
// @Summary      Empresas disponibles para el usuario
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.CompanyOptionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/me/companies [get]
func (h *AuthHandler) Companies(c *fiber.Ctx) error {
	out, err := h.uc.Companies(c.Context(), GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
