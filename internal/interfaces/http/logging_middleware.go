package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gacha-api/pkg/logger"
)

// RequestLogger registra cada petición con su status y latencia.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("petición HTTP")
		return err
	}
}
