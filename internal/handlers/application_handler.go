package handlers

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/justttkumkum/talent-scout-ai/internal/models"
	"github.com/justttkumkum/talent-scout-ai/internal/services"
)

type ApplicationHandler struct {
	appService  services.ApplicationService
	resolver    services.ResumeResolver
	validator   services.RequestValidator
	maxFileSize int64
}

func NewApplicationHandler(
	appService services.ApplicationService,
	resolver services.ResumeResolver,
	validator services.RequestValidator,
	maxFileSize int64,
) *ApplicationHandler {
	return &ApplicationHandler{
		appService:  appService,
		resolver:    resolver,
		validator:   validator,
		maxFileSize: maxFileSize,
	}
}

// HandleProcess analyzes a JSON submission whose resume URL is already
// resolved.
func (h *ApplicationHandler) HandleProcess(c *fiber.Ctx) error {
	var req models.ProcessApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request body",
		})
	}

	resp, err := h.appService.Process(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// HandleFunction is the function-call form of HandleProcess: the answer is
// either 200 with the result or 500 {error}, whatever the failure.
func (h *ApplicationHandler) HandleFunction(c *fiber.Ctx) error {
	var req models.ProcessApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFunctionError(c, &services.ValidationError{Message: "Invalid request body"})
	}

	resp, err := h.appService.Process(c.UserContext(), req)
	if err != nil {
		return respondFunctionError(c, err)
	}

	return c.JSON(resp)
}

// HandleSubmit accepts the application form as multipart data. An attached
// resume file takes precedence over a resumeUrl field.
func (h *ApplicationHandler) HandleSubmit(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "failed to parse multipart form",
		})
	}

	req := models.ProcessApplicationRequest{
		Name:          formValue(form.Value, "name"),
		Email:         formValue(form.Value, "email"),
		LinkedinURL:   formValue(form.Value, "linkedinUrl"),
		TechStack:     techStackValues(form.Value["techStack"]),
		ZapierWebhook: formValue(form.Value, "zapierWebhook"),
	}

	// Reject a bad form before anything is written to storage.
	req.Normalize()
	if err := h.validator.ValidateApplicant(req); err != nil {
		return respondError(c, err)
	}

	var upload *services.ResumeUpload
	if files := form.File[resumeField]; len(files) > 0 {
		upload, err = readUpload(files[0], h.maxFileSize)
		if err != nil {
			return respondError(c, err)
		}
	}

	req.ResumeURL, err = h.resolver.Resolve(c.UserContext(), upload, formValue(form.Value, "resumeUrl"))
	if err != nil {
		return respondError(c, err)
	}

	resp, err := h.appService.Process(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *ApplicationHandler) HandleList(c *fiber.Ctx) error {
	apps, err := h.appService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	items := make([]models.ApplicationListItem, 0, len(apps))
	for _, app := range apps {
		items = append(items, models.ApplicationListItem{
			Application: app,
			Badge:       models.BadgeFor(app.Recommendation),
		})
	}

	return c.JSON(models.ApplicationListResponse{
		Applications: items,
		Total:        len(items),
	})
}

func (h *ApplicationHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid application ID format",
		})
	}

	app, err := h.appService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ApplicationListItem{
		Application: *app,
		Badge:       models.BadgeFor(app.Recommendation),
	})
}

func (h *ApplicationHandler) HandleSimilar(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid application ID format",
		})
	}

	limit := c.QueryInt("limit", services.DefaultSimilarLimit)
	if limit < 1 || limit > 50 {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "limit must be between 1 and 50",
			Field: "limit",
		})
	}

	similar, err := h.appService.Similar(c.UserContext(), id, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SimilarApplicationsResponse{
		ID:      id.String(),
		Similar: similar,
	})
}

func (h *ApplicationHandler) HandleExport(c *fiber.Ctx) error {
	apps, err := h.appService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	var buf bytes.Buffer
	if err := services.ExportApplications(&buf, apps); err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("applications-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	return c.Send(buf.Bytes())
}

func formValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// techStackValues accepts repeated fields as well as one comma-separated value.
func techStackValues(values []string) []string {
	var stack []string
	for _, v := range values {
		for _, tech := range strings.Split(v, ",") {
			if tech = strings.TrimSpace(tech); tech != "" {
				stack = append(stack, tech)
			}
		}
	}
	return stack
}
