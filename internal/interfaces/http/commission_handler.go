package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Seguros-api/internal/application/commissions"
	"github.com/jhoicas/Seguros-api/internal/application/dto"
	"github.com/jhoicas/Seguros-api/internal/domain"
)

// CommissionHandler comisiones y reglas de tasa.
type CommissionHandler struct {
	uc *commissions.UseCase
}

// NewCommissionHandler construye el handler.
func NewCommissionHandler(uc *commissions.UseCase) *CommissionHandler {
	return &CommissionHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar comisión de una póliza
// @Tags         commissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCommissionRequest  true  "Datos de la comisión"
// @Success      201  {object}  dto.CommissionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/commissions [post]
func (h *CommissionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCommissionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), GetScope(c), commissions.CreateInput{
		PolicyID:      in.PolicyID,
		ProducerID:    in.ProducerID,
		PremiumAmount: in.PremiumAmount,
		Rate:          in.Rate,
		Period:        in.Period,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCommissionResponse(out))
}

// Rate godoc
// @Summary      Tasa de comisión aplicable a una póliza
// @Tags         commissions
// @Security     Bearer
// @Produce      json
// @Param        policy_id  query  string  true  "ID de la póliza"
// @Success      200  {object}  dto.RateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/commissions/rate [get]
func (h *CommissionHandler) Rate(c *fiber.Ctx) error {
	policyID := c.Query("policy_id")
	if policyID == "" {
		return writeError(c, domain.Invalid("policy_id", "es obligatorio"))
	}
	rate, err := h.uc.ComputeRate(c.Context(), GetScope(c), policyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.RateResponse{PolicyID: policyID, Rate: rate})
}

// MarkPaid godoc
// @Summary      Marcar comisión como pagada
// @Tags         commissions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la comisión"
// @Success      200  {object}  dto.CommissionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/commissions/{id}/pay [post]
func (h *CommissionHandler) MarkPaid(c *fiber.Ctx) error {
	out, err := h.uc.MarkPaid(c.Context(), GetScope(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCommissionResponse(out))
}

// Annul godoc
// @Summary      Anular comisión
// @Tags         commissions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la comisión"
// @Success      200  {object}  dto.CommissionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/commissions/{id}/annul [post]
func (h *CommissionHandler) Annul(c *fiber.Ctx) error {
	out, err := h.uc.Annul(c.Context(), GetScope(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCommissionResponse(out))
}

// CreateRule godoc
// @Summary      Crear regla de comisión de la empresa activa
// @Tags         commissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommissionRuleRequest  true  "Regla"
// @Success      201  {object}  dto.CommissionRuleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/commission-rules [post]
func (h *CommissionHandler) CreateRule(c *fiber.Ctx) error {
	var in dto.CommissionRuleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	from, err := dto.ParseDate("effective_from", in.EffectiveFrom)
	if err != nil {
		return writeError(c, err)
	}
	to, err := dto.ParseOptionalDate("effective_to", in.EffectiveTo)
	if err != nil {
		return writeError(c, err)
	}
	rule, err := h.uc.CreateRule(c.Context(), GetScope(c), commissions.RuleInput{
		InsurerID:       in.InsurerID,
		InsuranceTypeID: in.InsuranceTypeID,
		Rate:            in.Rate,
		EffectiveFrom:   from,
		EffectiveTo:     to,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRuleResponse(rule))
}

// ListRules godoc
// @Summary      Reglas de comisión de la empresa activa
// @Tags         commissions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.CommissionRuleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/commission-rules [get]
func (h *CommissionHandler) ListRules(c *fiber.Ctx) error {
	rules, err := h.uc.ListRules(c.Context(), GetScope(c))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.CommissionRuleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, toRuleResponse(r))
	}
	return c.JSON(out)
}
