package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// AllowedResumeExtensions mirrors the file types the application form accepts.
var AllowedResumeExtensions = []string{".pdf", ".doc", ".docx"}

// ResumeUpload is an uploaded resume held in memory.
type ResumeUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ResumeResolver interface {
	// Resolve returns exactly one resume URL. An uploaded file wins over a
	// supplied URL; with neither it fails with ErrMissingResume.
	Resolve(ctx context.Context, upload *ResumeUpload, resumeURL string) (string, error)
	Store(ctx context.Context, upload *ResumeUpload) (string, error)
}

type resumeResolver struct {
	storage     StorageService
	parser      DocumentParser
	maxFileSize int64
}

func NewResumeResolver(storage StorageService, parser DocumentParser, maxFileSize int64) ResumeResolver {
	return &resumeResolver{
		storage:     storage,
		parser:      parser,
		maxFileSize: maxFileSize,
	}
}

func (r *resumeResolver) Resolve(ctx context.Context, upload *ResumeUpload, resumeURL string) (string, error) {
	if upload != nil {
		return r.Store(ctx, upload)
	}

	if url := strings.TrimSpace(resumeURL); url != "" {
		return url, nil
	}

	return "", ErrMissingResume
}

func (r *resumeResolver) Store(ctx context.Context, upload *ResumeUpload) (string, error) {
	if upload == nil || len(upload.Data) == 0 {
		return "", ErrMissingResume
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !isAllowedResumeExtension(ext) {
		return "", &ValidationError{
			Field:   "resume",
			Message: fmt.Sprintf("Unsupported file type %q, expected one of %s", ext, strings.Join(AllowedResumeExtensions, ", ")),
		}
	}

	size := int64(len(upload.Data))
	if r.maxFileSize > 0 && size > r.maxFileSize {
		return "", &ValidationError{
			Field:   "resume",
			Message: fmt.Sprintf("File is too large (max %d bytes)", r.maxFileSize),
		}
	}

	if r.parser.Supports(ext) {
		if _, err := r.parser.ExtractText(upload.Data, ext); err != nil {
			log.Warn().Err(err).Str("filename", upload.Filename).Msg("Rejected unreadable resume")
			return "", &ValidationError{Field: "resume", Message: "Could not read the uploaded document"}
		}
	}

	url, err := r.storage.SaveResume(ctx, upload.Filename, bytes.NewReader(upload.Data), size, upload.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to store resume: %w", err)
	}

	log.Info().Str("filename", upload.Filename).Str("url", url).Msg("Resume stored")

	return url, nil
}

func isAllowedResumeExtension(ext string) bool {
	for _, allowed := range AllowedResumeExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
