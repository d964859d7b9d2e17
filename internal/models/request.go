package models

import (
	"strings"
	"time"
)

// ProcessApplicationRequest is the JSON body of the process-application call.
type ProcessApplicationRequest struct {
	Name          string   `json:"name" form:"name" validate:"required,min=2"`
	Email         string   `json:"email" form:"email" validate:"required,email"`
	LinkedinURL   string   `json:"linkedinUrl" form:"linkedinUrl" validate:"omitempty,url"`
	TechStack     []string `json:"techStack" form:"techStack" validate:"required,min=1,dive,required,techstack"`
	ResumeURL     string   `json:"resumeUrl" form:"resumeUrl" validate:"required,url"`
	ZapierWebhook string   `json:"zapierWebhook" form:"zapierWebhook" validate:"omitempty,url"`
}

// Normalize trims every field and drops duplicate or blank tech stack entries.
func (r *ProcessApplicationRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.LinkedinURL = strings.TrimSpace(r.LinkedinURL)
	r.ResumeURL = strings.TrimSpace(r.ResumeURL)
	r.ZapierWebhook = strings.TrimSpace(r.ZapierWebhook)

	seen := make(map[string]struct{}, len(r.TechStack))
	stack := make([]string, 0, len(r.TechStack))
	for _, tech := range r.TechStack {
		tech = strings.TrimSpace(tech)
		if tech == "" {
			continue
		}
		if _, ok := seen[tech]; ok {
			continue
		}
		seen[tech] = struct{}{}
		stack = append(stack, tech)
	}
	r.TechStack = stack
}

type ProcessApplicationResponse struct {
	Success     bool         `json:"success"`
	Application *Application `json:"application"`
	Analysis    *Analysis    `json:"analysis"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type ResumeUploadResponse struct {
	ResumeURL    string `json:"resumeUrl"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
}

// WebhookPayload is the flattened summary posted to a user-supplied webhook.
type WebhookPayload struct {
	Name                string         `json:"name"`
	Email               string         `json:"email"`
	CandidateType       string         `json:"candidateType"`
	TechnicalSkill      int            `json:"technicalSkill"`
	ExperienceRelevance int            `json:"experienceRelevance"`
	Communication       int            `json:"communication"`
	EducationQuality    int            `json:"educationQuality"`
	EducationCategory   string         `json:"educationCategory"`
	Strengths           string         `json:"strengths"`
	Weaknesses          string         `json:"weaknesses"`
	Recommendation      Recommendation `json:"recommendation"`
	ResumeURL           string         `json:"resumeUrl"`
	LinkedinURL         *string        `json:"linkedinUrl"`
	TechStack           string         `json:"techStack"`
	SubmittedAt         string         `json:"submittedAt"`
}

func NewWebhookPayload(req ProcessApplicationRequest, analysis *Analysis, submittedAt time.Time) WebhookPayload {
	var linkedin *string
	if req.LinkedinURL != "" {
		linkedin = &req.LinkedinURL
	}

	return WebhookPayload{
		Name:                req.Name,
		Email:               req.Email,
		CandidateType:       analysis.CandidateType,
		TechnicalSkill:      int(analysis.TechnicalSkill),
		ExperienceRelevance: int(analysis.ExperienceRelevance),
		Communication:       int(analysis.Communication),
		EducationQuality:    int(analysis.EducationQuality),
		EducationCategory:   analysis.EducationCategory,
		Strengths:           analysis.Strengths,
		Weaknesses:          analysis.Weaknesses,
		Recommendation:      analysis.Recommendation,
		ResumeURL:           req.ResumeURL,
		LinkedinURL:         linkedin,
		TechStack:           strings.Join(req.TechStack, ", "),
		SubmittedAt:         submittedAt.UTC().Format(time.RFC3339),
	}
}
