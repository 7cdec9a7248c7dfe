package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Seguros-api/internal/application/access"
	"github.com/jhoicas/Seguros-api/internal/application/dto"
	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

// PermissionHandler administración y consulta de la matriz de permisos.
type PermissionHandler struct {
	svc       *access.PermissionService
	evaluator *access.Evaluator
}

// NewPermissionHandler construye el handler.
func NewPermissionHandler(svc *access.PermissionService, evaluator *access.Evaluator) *PermissionHandler {
	return &PermissionHandler{svc: svc, evaluator: evaluator}
}

// List godoc
// @Summary      Matriz de permisos de un rol (los 14 módulos)
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Param        role  path  string  true  "Rol global"
// @Success      200  {array}   dto.PermissionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/permissions/{role} [get]
func (h *PermissionHandler) List(c *fiber.Ctx) error {
	role, err := entity.ParseRole(c.Params("role"))
	if err != nil {
		return writeError(c, domain.Invalid("role", err.Error()))
	}
	rows, err := h.svc.ListPermissions(c.Context(), GetUser(c), role)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.PermissionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toPermissionResponse(r))
	}
	return c.JSON(out)
}

// Set godoc
// @Summary      Sobrescribir permisos de (rol, módulo)
// @Tags         permissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        role    path  string                 true  "Rol global"
// @Param        module  path  string                 true  "Módulo"
// @Param        body    body  dto.PermissionRequest  true  "Indicadores"
// @Success      200  {object}  dto.PermissionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/permissions/{role}/{module} [put]
func (h *PermissionHandler) Set(c *fiber.Ctx) error {
	role, err := entity.ParseRole(c.Params("role"))
	if err != nil {
		return writeError(c, domain.Invalid("role", err.Error()))
	}
	module, err := entity.ParseModule(c.Params("module"))
	if err != nil {
		return writeError(c, domain.Invalid("module", err.Error()))
	}
	var in dto.PermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	row, err := h.svc.SetModulePermission(c.Context(), GetUser(c), role, module, entity.Permissions{
		CanView: in.CanView, CanCreate: in.CanCreate, CanEdit: in.CanEdit, CanDelete: in.CanDelete,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toPermissionResponse(*row))
}

// Check godoc
// @Summary      ¿Puede el usuario de la sesión hacer la acción sobre el módulo?
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Param        module  query  string  true  "Módulo"
// @Param        action  query  string  true  "view|create|edit|delete"
// @Success      200  {object}  dto.PermissionCheckResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/permissions/check [get]
func (h *PermissionHandler) Check(c *fiber.Ctx) error {
	module, err := entity.ParseModule(c.Query("module"))
	if err != nil {
		return writeError(c, domain.Invalid("module", err.Error()))
	}
	action, err := entity.ParseAction(c.Query("action"))
	if err != nil {
		return writeError(c, domain.Invalid("action", err.Error()))
	}
	ok, err := h.evaluator.IsAllowed(c.Context(), GetUser(c), module, action)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PermissionCheckResponse{Module: string(module), Action: string(action), Allowed: ok})
}
