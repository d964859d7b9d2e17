package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/justttkumkum/talent-scout-ai/internal/models"
	"github.com/justttkumkum/talent-scout-ai/internal/services"
)

// resumeField is the multipart field carrying the resume file.
const resumeField = "resume"

type UploadHandler struct {
	resolver    services.ResumeResolver
	maxFileSize int64
}

func NewUploadHandler(resolver services.ResumeResolver, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		resolver:    resolver,
		maxFileSize: maxFileSize,
	}
}

// HandleUpload stores one resume and returns its public URL.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile(resumeField)
	if err != nil {
		return respondError(c, services.ErrMissingResume)
	}

	upload, err := readUpload(fileHeader, h.maxFileSize)
	if err != nil {
		return respondError(c, err)
	}

	url, err := h.resolver.Store(c.UserContext(), upload)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.ResumeUploadResponse{
		ResumeURL:    url,
		OriginalName: fileHeader.Filename,
		Size:         fileHeader.Size,
	})
}

// readUpload loads a multipart file into memory, refusing files over maxSize.
func readUpload(fileHeader *multipart.FileHeader, maxSize int64) (*services.ResumeUpload, error) {
	if maxSize > 0 && fileHeader.Size > maxSize {
		return nil, &services.ValidationError{
			Field:   resumeField,
			Message: fmt.Sprintf("File is too large (max %d bytes)", maxSize),
		}
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return &services.ResumeUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
