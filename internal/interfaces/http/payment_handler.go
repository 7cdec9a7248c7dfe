package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Seguros-api/internal/application/dto"
	"github.com/jhoicas/Seguros-api/internal/application/payments"
	"github.com/jhoicas/Seguros-api/internal/application/policies"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

// PaymentHandler cobro y anulación de cuotas.
type PaymentHandler struct {
	uc *payments.UseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *payments.UseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

func settledView(p *entity.Payment) dto.PaymentResponse {
	return toPaymentResponse(policies.PaymentView{Payment: p, EffectiveStatus: p.Status})
}

// Settle godoc
// @Summary      Registrar el cobro de una cuota
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la cuota"
// @Param        body  body  dto.SettlePaymentRequest  true  "Datos del cobro"
// @Success      200  {object}  dto.PaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/payments/{id}/settle [post]
func (h *PaymentHandler) Settle(c *fiber.Ctx) error {
	var in dto.SettlePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, err := h.uc.Settle(c.Context(), GetScope(c), c.Params("id"), payments.SettleInput{
		PaidAt:    in.PaidAt,
		Method:    in.Method,
		Reference: in.Reference,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(settledView(p))
}

// Annul godoc
// @Summary      Anular una cuota
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID de la cuota"
// @Param        body  body  dto.AnnulRequest  true  "Motivo"
// @Success      200  {object}  dto.PaymentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/payments/{id}/annul [post]
func (h *PaymentHandler) Annul(c *fiber.Ctx) error {
	var in dto.AnnulRequest
	if err := parseOptionalBody(c, &in); err != nil {
		return badBody(c)
	}
	p, err := h.uc.Annul(c.Context(), GetScope(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(settledView(p))
}
