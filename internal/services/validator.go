package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/justttkumkum/talent-scout-ai/internal/models"
)

type RequestValidator interface {
	Validate(req models.ProcessApplicationRequest) error
	// ValidateApplicant checks every field except the resume URL, which
	// may not be resolved yet.
	ValidateApplicant(req models.ProcessApplicationRequest) error
}

type requestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names so errors line up with what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("techstack", func(fl validator.FieldLevel) bool {
		return models.IsKnownTechnology(fl.Field().String())
	})

	return &requestValidator{validate: v}
}

// Validate returns a *ValidationError describing the first failing field.
func (rv *requestValidator) Validate(req models.ProcessApplicationRequest) error {
	return toValidationError(rv.validate.Struct(req))
}

func (rv *requestValidator) ValidateApplicant(req models.ProcessApplicationRequest) error {
	return toValidationError(rv.validate.StructExcept(req, "ResumeURL"))
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	fe := vErrs[0]
	field := fe.Field()
	if i := strings.Index(field, "["); i >= 0 {
		field = field[:i]
	}

	return &ValidationError{Field: field, Message: validationMessage(field, fe)}
}

var fieldMessages = map[string]string{
	"name":          "Name must be at least 2 characters",
	"email":         "Invalid email address",
	"linkedinUrl":   "Invalid LinkedIn URL",
	"techStack":     "Select at least one technology",
	"resumeUrl":     "Invalid resume URL",
	"zapierWebhook": "Invalid webhook URL",
}

func validationMessage(field string, fe validator.FieldError) string {
	if fe.Tag() == "techstack" {
		return fmt.Sprintf("Unknown technology: %v", fe.Value())
	}
	if msg, ok := fieldMessages[field]; ok {
		return msg
	}
	return fmt.Sprintf("Failed %s validation", fe.Tag())
}
