package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Seguros-api/internal/application/dto"
	"github.com/jhoicas/Seguros-api/internal/domain"
)

// errorMapping tipo de error de dominio -> estado HTTP y código estable del cuerpo.
// El orden importa: los específicos antes que los genéricos.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrForbiddenCompany, fiber.StatusForbidden, "FORBIDDEN_COMPANY"},
	{domain.ErrForbiddenAction, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNoCompanySelected, fiber.StatusBadRequest, "NO_COMPANY_SELECTED"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrScheduleLocked, fiber.StatusConflict, "SCHEDULE_LOCKED"},
	{domain.ErrAlreadyTerminal, fiber.StatusConflict, "ALREADY_TERMINAL"},
	{domain.ErrImmutableRole, fiber.StatusConflict, "IMMUTABLE_ROLE"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrNoRateFound, fiber.StatusUnprocessableEntity, "NO_RATE_FOUND"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
}

// writeError traduce un error de los casos de uso a la respuesta HTTP.
// Los errores no clasificados salen como 500 sin detalle; la causa queda para el log de la petición.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	c.Locals(localError, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// parseOptionalBody acepta un cuerpo vacío; si hay cuerpo debe ser válido.
func parseOptionalBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}
