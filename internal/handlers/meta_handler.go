package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/justttkumkum/talent-scout-ai/internal/models"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type MetaHandler struct {
	db Pinger
}

func NewMetaHandler(db Pinger) *MetaHandler {
	return &MetaHandler{db: db}
}

func (h *MetaHandler) HandleHealth(c *fiber.Ctx) error {
	status := "healthy"
	code := fiber.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"time":   time.Now(),
	})
}

func (h *MetaHandler) HandleTechStack(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"techStack":           models.TechStackOptions,
		"candidateTypes":      models.CandidateTypes,
		"educationCategories": models.EducationCategories,
	})
}
