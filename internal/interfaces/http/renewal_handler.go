package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Seguros-api/internal/application/dto"
	"github.com/jhoicas/Seguros-api/internal/application/policies"
	"github.com/jhoicas/Seguros-api/internal/application/renewals"
	"github.com/jhoicas/Seguros-api/internal/domain/calendar"
	policyrules "github.com/jhoicas/Seguros-api/internal/domain/policy"
)

// RenewalHandler generación y gestión de renovaciones.
type RenewalHandler struct {
	uc        *renewals.UseCase
	lookahead int
	now       func() time.Time
}

// NewRenewalHandler construye el handler. lookahead es la ventana por defecto de la corrida manual.
func NewRenewalHandler(uc *renewals.UseCase, lookahead int, now func() time.Time) *RenewalHandler {
	if now == nil {
		now = time.Now
	}
	return &RenewalHandler{uc: uc, lookahead: lookahead, now: now}
}

// asOf fecha de corte: ?as_of=YYYY-MM-DD u hoy.
func (h *RenewalHandler) asOf(c *fiber.Ctx) (time.Time, error) {
	if v := c.Query("as_of"); v != "" {
		return dto.ParseDate("as_of", v)
	}
	return calendar.DateOnly(h.now()), nil
}

// Generate godoc
// @Summary      Generar renovaciones de la empresa activa
// @Tags         renewals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateRenewalsRequest  false  "Ventana en días"
// @Success      200  {object}  dto.GenerateRenewalsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/renewals/generate [post]
func (h *RenewalHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateRenewalsRequest
	if err := parseOptionalBody(c, &in); err != nil {
		return badBody(c)
	}
	lookahead := h.lookahead
	if in.LookaheadDays != nil {
		lookahead = *in.LookaheadDays
	}
	res, err := h.uc.GenerateFor(c.Context(), GetScope(c), lookahead)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.GenerateRenewalsResponse{Scanned: res.Scanned, Created: res.Created, Existing: res.Existing})
}

// ListOverdue godoc
// @Summary      Renovaciones pendientes con vigencia terminada
// @Tags         renewals
// @Security     Bearer
// @Produce      json
// @Param        as_of  query  string  false  "Fecha de corte YYYY-MM-DD (por defecto hoy)"
// @Success      200  {array}   dto.RenewalResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/renewals/overdue [get]
func (h *RenewalHandler) ListOverdue(c *fiber.Ctx) error {
	asOf, err := h.asOf(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.ListOverdue(c.Context(), GetScope(c), asOf)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.RenewalResponse, 0, len(list))
	for _, rn := range list {
		out = append(out, toRenewalResponse(rn))
	}
	return c.JSON(out)
}

// Process godoc
// @Summary      Procesar renovación y crear la póliza sucesora
// @Tags         renewals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la renovación"
// @Param        body  body  dto.ProcessRenewalRequest  true  "Nuevo término"
// @Success      200  {object}  dto.ProcessRenewalResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/renewals/{id}/process [post]
func (h *RenewalHandler) Process(c *fiber.Ctx) error {
	var in dto.ProcessRenewalRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	end, err := dto.ParseDate("new_end_date", in.NewEndDate)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.Process(c.Context(), GetScope(c), c.Params("id"), renewals.ProcessInput{
		NewEndDate:   end,
		NewPremium:   in.NewPremium,
		Installments: in.NumberOfInstallments,
	})
	if err != nil {
		return writeError(c, err)
	}

	today := calendar.DateOnly(h.now())
	detail := &policies.Detail{
		Policy:          res.Successor,
		EffectiveStatus: policyrules.EffectiveStatus(res.Successor, today, false),
	}
	for _, p := range res.Payments {
		detail.Payments = append(detail.Payments, policies.PaymentView{
			Payment: p, EffectiveStatus: policyrules.EffectivePaymentStatus(p, today),
		})
	}
	return c.JSON(dto.ProcessRenewalResponse{
		Renewal:   toRenewalResponse(res.Renewal),
		Successor: toPolicyResponse(detail),
	})
}

// Reject godoc
// @Summary      Rechazar renovación
// @Tags         renewals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true   "ID de la renovación"
// @Param        body  body  dto.AnnulRequest  false  "Motivo"
// @Success      200  {object}  dto.RenewalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/renewals/{id}/reject [post]
func (h *RenewalHandler) Reject(c *fiber.Ctx) error {
	var in dto.AnnulRequest
	if err := parseOptionalBody(c, &in); err != nil {
		return badBody(c)
	}
	rn, err := h.uc.Reject(c.Context(), GetScope(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toRenewalResponse(rn))
}

// Expire godoc
// @Summary      Pasar a VENCIDA las renovaciones atrasadas de la empresa activa
// @Tags         renewals
// @Security     Bearer
// @Produce      json
// @Param        as_of  query  string  false  "Fecha de corte YYYY-MM-DD (por defecto hoy)"
// @Success      200  {object}  dto.ExpireRenewalsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/renewals/expire [post]
func (h *RenewalHandler) Expire(c *fiber.Ctx) error {
	asOf, err := h.asOf(c)
	if err != nil {
		return writeError(c, err)
	}
	n, err := h.uc.ExpireOverdue(c.Context(), GetScope(c), asOf)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ExpireRenewalsResponse{Expired: n})
}
