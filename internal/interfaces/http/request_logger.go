package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Seguros-api/pkg/logger"
)

// RequestLogger registra cada petición con método, ruta, estado, latencia, usuario y empresa.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev = ev.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start))
		if u := GetUser(c); u != nil {
			ev = ev.Str("user_id", u.ID)
		}
		scope := GetScope(c)
		if scope.Global {
			ev = ev.Str("company_id", "global")
		} else if scope.CompanyID != "" {
			ev = ev.Str("company_id", scope.CompanyID)
		}
		if cause, ok := c.Locals(localError).(error); ok {
			ev = ev.AnErr("cause", cause)
		} else if err != nil {
			ev = ev.Err(err)
		}
		ev.Msg("petición")
		return err
	}
}
