package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Recommendation string

const (
	Recommended    Recommendation = "Recommended"
	NotRecommended Recommendation = "Not Recommended"
)

// Score thresholds for a positive recommendation.
const (
	MinTechnicalSkill      = 7
	MinExperienceRelevance = 6
)

// Recommend derives the recommendation from the two scores that drive it.
// The model never supplies this value.
func Recommend(technicalSkill, experienceRelevance int) Recommendation {
	if technicalSkill >= MinTechnicalSkill && experienceRelevance >= MinExperienceRelevance {
		return Recommended
	}
	return NotRecommended
}

// Application is one submitted candidate together with the model's analysis.
// Rows are inserted once and never updated.
type Application struct {
	ID                       uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name                     string         `gorm:"type:text;not null" json:"name"`
	Email                    string         `gorm:"type:text;not null" json:"email"`
	LinkedinURL              *string        `gorm:"type:text" json:"linkedin_url"`
	TechStack                pq.StringArray `gorm:"type:text[];not null" json:"tech_stack"`
	ResumeURL                string         `gorm:"type:text;not null" json:"resume_url"`
	CandidateType            *string        `gorm:"type:text" json:"candidate_type"`
	TechnicalSkillScore      *int           `gorm:"type:integer" json:"technical_skill_score"`
	ExperienceRelevanceScore *int           `gorm:"type:integer" json:"experience_relevance_score"`
	CommunicationScore       *int           `gorm:"type:integer" json:"communication_score"`
	EducationQualityScore    *int           `gorm:"type:integer" json:"education_quality_score"`
	EducationCategory        *string        `gorm:"type:text" json:"education_category"`
	Strengths                *string        `gorm:"type:text" json:"strengths"`
	Weaknesses               *string        `gorm:"type:text" json:"weaknesses"`
	Recommendation           Recommendation `gorm:"type:text;not null" json:"recommendation"`
	ZapierWebhookURL         *string        `gorm:"type:text" json:"zapier_webhook_url"`
	RawAnalysis              datatypes.JSON `gorm:"type:jsonb" json:"-"`
	CreatedAt                time.Time      `gorm:"default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (Application) TableName() string {
	return "applications"
}
