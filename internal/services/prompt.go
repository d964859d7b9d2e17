package services

import (
	"fmt"
	"strings"

	"github.com/justttkumkum/talent-scout-ai/internal/models"
)

// SystemInstruction is sent with every analysis request.
const SystemInstruction = "You are an expert recruiter analyzing candidate applications. Always respond with valid JSON matching the requested format."

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt embeds the candidate's fields verbatim and asks for the
// fixed JSON key set understood by models.AnalysisFromObject.
func (pb *PromptBuilder) BuildAnalysisPrompt(req models.ProcessApplicationRequest) string {
	linkedin := req.LinkedinURL
	if linkedin == "" {
		linkedin = "Not provided"
	}

	return fmt.Sprintf(`Analyze this candidate's application:

Name: %s
Email: %s
LinkedIn: %s
Tech Stack: %s
Resume URL: %s

Based on the information provided, analyze and provide:

1. Candidate Type: Determine if they are Backend, Frontend, or Fullstack developer
2. Scores (0-10 scale):
   - Technical Skill: Based on tech stack breadth and depth
   - Experience Relevance: Based on technologies and implied experience
   - Communication: Based on how they present themselves
   - Education Quality: Infer from overall presentation
3. Education Category: Estimate one of: %s
4. Strengths: 2-3 key strengths (max 100 words)
5. Weaknesses: 1-2 areas for improvement (max 100 words)

Return your analysis in this exact JSON format:
{
  "candidateType": "backend|frontend|fullstack",
  "technicalSkill": 8,
  "experienceRelevance": 7,
  "communication": 8,
  "educationQuality": 7,
  "educationCategory": "CBSE",
  "strengths": "Strong technical skills...",
  "weaknesses": "Could improve..."
}`,
		req.Name,
		req.Email,
		linkedin,
		strings.Join(req.TechStack, ", "),
		req.ResumeURL,
		strings.Join(models.EducationCategories, ", "),
	)
}

// BuildProfileText renders a persisted application as the text that gets
// embedded for similarity search.
func (pb *PromptBuilder) BuildProfileText(app *models.Application) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Candidate: %s\n", app.Name))
	if app.CandidateType != nil {
		sb.WriteString(fmt.Sprintf("Type: %s\n", *app.CandidateType))
	}
	sb.WriteString(fmt.Sprintf("Tech Stack: %s\n", strings.Join(app.TechStack, ", ")))
	if app.EducationCategory != nil {
		sb.WriteString(fmt.Sprintf("Education: %s\n", *app.EducationCategory))
	}
	if app.Strengths != nil {
		sb.WriteString(fmt.Sprintf("Strengths: %s\n", *app.Strengths))
	}
	if app.Weaknesses != nil {
		sb.WriteString(fmt.Sprintf("Weaknesses: %s\n", *app.Weaknesses))
	}
	sb.WriteString(fmt.Sprintf("Recommendation: %s", app.Recommendation))

	return sb.String()
}
