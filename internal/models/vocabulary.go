package models

import "strings"

// TechStackOptions is the fixed vocabulary offered by the application form.
var TechStackOptions = []string{
	"React", "Vue", "Angular", "Node.js", "Python", "Java", "C#", "Go",
	"TypeScript", "JavaScript", "PHP", "Ruby", "Swift", "Kotlin", "Rust",
	"PostgreSQL", "MongoDB", "MySQL", "Redis", "Docker", "Kubernetes",
	"AWS", "Azure", "GCP", "Git", "CI/CD", "REST API", "GraphQL",
}

const (
	CandidateBackend   = "backend"
	CandidateFrontend  = "frontend"
	CandidateFullstack = "fullstack"
)

var CandidateTypes = []string{CandidateBackend, CandidateFrontend, CandidateFullstack}

const EducationOther = "Other"

var EducationCategories = []string{"State Board", "CBSE", "ICSE", "IB", EducationOther}

func IsKnownTechnology(tech string) bool {
	for _, t := range TechStackOptions {
		if t == tech {
			return true
		}
	}
	return false
}

// NormalizeCandidateType maps a model-supplied label onto the candidate type
// vocabulary. It returns "" when the label matches none of them.
func NormalizeCandidateType(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.NewReplacer("-", "", " ", "", "_", "").Replace(v)
	for _, t := range CandidateTypes {
		if v == t {
			return t
		}
	}
	return ""
}

// NormalizeEducationCategory canonicalizes the casing of a known category.
// Unknown non-empty values fall back to "Other".
func NormalizeEducationCategory(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	for _, c := range EducationCategories {
		if strings.EqualFold(v, c) {
			return c
		}
	}
	return EducationOther
}
