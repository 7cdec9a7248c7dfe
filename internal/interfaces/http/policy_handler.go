package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Seguros-api/internal/application/dto"
	"github.com/jhoicas/Seguros-api/internal/application/policies"
	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
)

// PolicyHandler ciclo de vida de pólizas.
type PolicyHandler struct {
	uc *policies.UseCase
}

// NewPolicyHandler construye el handler.
func NewPolicyHandler(uc *policies.UseCase) *PolicyHandler {
	return &PolicyHandler{uc: uc}
}

// Create godoc
// @Summary      Crear póliza con su plan de pagos
// @Tags         policies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Company-ID  header  string                   false  "Empresa activa"
// @Param        body          body    dto.CreatePolicyRequest  true   "Datos de la póliza"
// @Success      201  {object}  dto.PolicyResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/policies [post]
func (h *PolicyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePolicyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	start, err := dto.ParseDate("start_date", in.StartDate)
	if err != nil {
		return writeError(c, err)
	}
	end, err := dto.ParseDate("end_date", in.EndDate)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Context(), GetScope(c), policies.CreateInput{
		ClientID:             in.ClientID,
		InsurerID:            in.InsurerID,
		InsuranceTypeID:      in.InsuranceTypeID,
		PolicyNumber:         in.PolicyNumber,
		StartDate:            start,
		EndDate:              end,
		Premium:              in.Premium,
		NumberOfInstallments: in.NumberOfInstallments,
		AutoRenew:            in.AutoRenew,
		CommissionRate:       in.CommissionRate,
		Beneficiary:          in.Beneficiary,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPolicyResponse(out))
}

// GetByID godoc
// @Summary      Obtener póliza con estado efectivo y cuotas
// @Tags         policies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la póliza"
// @Success      200  {object}  dto.PolicyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/policies/{id} [get]
func (h *PolicyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetScope(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toPolicyResponse(out))
}

// List godoc
// @Summary      Listar pólizas de la empresa activa
// @Tags         policies
// @Security     Bearer
// @Produce      json
// @Param        client_id  query  string  false  "Filtrar por cliente"
// @Param        status     query  string  false  "Filtrar por estado almacenado"
// @Param        limit      query  int     false  "Límite"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.PolicyListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/policies [get]
func (h *PolicyHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()

	f := repository.PolicyFilter{ClientID: c.Query("client_id"), Limit: page.Limit, Offset: page.Offset}
	if s := c.Query("status"); s != "" {
		st, err := entity.ParsePolicyStatus(s)
		if err != nil {
			return writeError(c, domain.Invalid("status", err.Error()))
		}
		f.Status = st
	}
	res, err := h.uc.List(c.Context(), GetScope(c), f)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.PolicyResponse, 0, len(res.Items))
	for _, d := range res.Items {
		items = append(items, toPolicyResponse(d))
	}
	return c.JSON(dto.PolicyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: res.Total},
	})
}

// ChangeStatus godoc
// @Summary      Cambiar el estado almacenado de la póliza
// @Tags         policies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la póliza"
// @Param        body  body  dto.ChangePolicyStatusRequest  true  "Nuevo estado"
// @Success      200  {object}  dto.PolicyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/policies/{id}/status [patch]
func (h *PolicyHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangePolicyStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	to, err := entity.ParsePolicyStatus(in.Status)
	if err != nil {
		return writeError(c, domain.Invalid("status", err.Error()))
	}
	scope := GetScope(c)
	id := c.Params("id")
	if _, err := h.uc.ChangeStatus(c.Context(), scope, id, to); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.Context(), scope, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toPolicyResponse(out))
}

// UpdateInstallments godoc
// @Summary      Cambiar el número de cuotas y regenerar el plan
// @Tags         policies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la póliza"
// @Param        body  body  dto.UpdateInstallmentsRequest  true  "Número de cuotas"
// @Success      200  {object}  dto.PolicyResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/policies/{id}/installments [patch]
func (h *PolicyHandler) UpdateInstallments(c *fiber.Ctx) error {
	var in dto.UpdateInstallmentsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateInstallments(c.Context(), GetScope(c), c.Params("id"), in.NumberOfInstallments)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toPolicyResponse(out))
}

// Delete godoc
// @Summary      Borrado definitivo de una póliza CANCELADA y sus dependientes
// @Tags         policies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la póliza"
// @Success      200  {object}  dto.CascadeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/policies/{id} [delete]
func (h *PolicyHandler) Delete(c *fiber.Ctx) error {
	res, err := h.uc.PermanentlyDelete(c.Context(), GetScope(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CascadeResponse{
		Payments:    res.Payments,
		Claims:      res.Claims,
		Commissions: res.Commissions,
		Renewals:    res.Renewals,
		Policies:    res.Policies,
		Total:       res.Total(),
	})
}
