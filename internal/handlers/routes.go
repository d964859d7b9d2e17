package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/justttkumkum/talent-scout-ai/internal/monitoring"
)

type Handlers struct {
	Application *ApplicationHandler
	Upload      *UploadHandler
	Meta        *MetaHandler
}

// CORS allows every origin and the headers browser clients of the function
// endpoint send.
func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "authorization, x-client-info, apikey, content-type",
	})
}

// RegisterRoutes mounts every endpoint. Mount CORS() before calling it.
func RegisterRoutes(app *fiber.App, h Handlers) {
	// The cors middleware only answers real preflights; any other OPTIONS
	// request still gets an empty 204.
	app.Options("/*", func(c *fiber.Ctx) error {
		c.Status(fiber.StatusNoContent)
		return nil
	})

	app.Get("/metrics", adaptor.HTTPHandler(monitoring.Handler()))
	app.Post("/functions/v1/process-application", h.Application.HandleFunction)

	api := app.Group("/api/v1")
	api.Get("/health", h.Meta.HandleHealth)
	api.Get("/tech-stack", h.Meta.HandleTechStack)
	api.Post("/resumes", h.Upload.HandleUpload)
	api.Post("/process-application", h.Application.HandleProcess)
	api.Post("/applications", h.Application.HandleSubmit)
	api.Get("/applications", h.Application.HandleList)
	api.Get("/applications/export", h.Application.HandleExport)
	api.Get("/applications/:id", h.Application.HandleGet)
	api.Get("/applications/:id/similar", h.Application.HandleSimilar)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Talent Scout AI API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /functions/v1/process-application",
				"POST /api/v1/process-application",
				"POST /api/v1/applications",
				"POST /api/v1/resumes",
				"GET /api/v1/applications",
				"GET /api/v1/applications/export",
				"GET /api/v1/applications/:id",
				"GET /api/v1/applications/:id/similar",
				"GET /api/v1/tech-stack",
			},
		})
	})
}
