package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gacha-api/internal/application/dto"
	"github.com/jhoicas/gacha-api/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP.
// ErrNotFound → 404, ErrInvalidInput → 400, BackendError → 502 con la categoría como código.
func writeError(c *fiber.Ctx, err error) error {
	var be *domain.BackendError
	switch {
	case errors.Is(err, domain.ErrNotFound) && !errors.As(err, &be):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "premio no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.As(err, &be):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "BACKEND_" + strings.ToUpper(string(be.Category)), Message: be.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

