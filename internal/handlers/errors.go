package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/justttkumkum/talent-scout-ai/internal/models"
	"github.com/justttkumkum/talent-scout-ai/internal/monitoring"
	"github.com/justttkumkum/talent-scout-ai/internal/repositories"
	"github.com/justttkumkum/talent-scout-ai/internal/services"
)

// respondError writes the uniform {error} body for err. Server-side failures
// are logged and reported to Sentry.
func respondError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: vErr.Message,
			Field: vErr.Field,
		})
	}

	switch {
	case errors.Is(err, services.ErrMissingResume):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: err.Error(),
			Field: "resume",
		})
	case errors.Is(err, repositories.ErrApplicationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: "Application not found"})
	case errors.Is(err, services.ErrIndexDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{Error: err.Error()})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
	monitoring.CaptureError(err, map[string]interface{}{
		"method": c.Method(),
		"path":   c.Path(),
	})

	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: publicMessage(err)})
}

// publicMessage keeps upstream and driver detail out of responses.
func publicMessage(err error) string {
	var analysisErr *services.AnalysisError
	switch {
	case errors.As(err, &analysisErr):
		return analysisErr.Error()
	case errors.Is(err, services.ErrInvalidModelOutput):
		return services.ErrInvalidModelOutput.Error()
	case errors.Is(err, services.ErrPersistence):
		return "Database error"
	case errors.Is(err, services.ErrLLMNotConfigured):
		return services.ErrLLMNotConfigured.Error()
	default:
		return "Internal server error"
	}
}

// respondFunctionError answers with 500 {error} for every failure. User
// errors keep their message; server-side ones go through respondError's
// logging and public message mapping.
func respondFunctionError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: vErr.Message})
	case errors.Is(err, services.ErrMissingResume):
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: err.Error()})
	}

	return respondError(c, err)
}
