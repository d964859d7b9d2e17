package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	MinScore = 0
	MaxScore = 10
)

// Score is a 0-10 sub-score. Models sometimes answer 7.5 or "8", so any JSON
// number or numeric string is accepted. Fractions are truncated toward zero
// so a stored score never exceeds what the model actually gave, and the
// result is clamped to the range.
type Score int

func (s *Score) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("invalid score %s", string(data))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid score %s", string(data))
	}
	f = math.Max(MinScore, math.Min(MaxScore, math.Floor(f)))
	*s = Score(int(f))
	return nil
}

// Analysis is the structured evaluation returned by the model, plus the
// recommendation computed from it.
type Analysis struct {
	CandidateType       string         `json:"candidateType"`
	TechnicalSkill      Score          `json:"technicalSkill"`
	ExperienceRelevance Score          `json:"experienceRelevance"`
	Communication       Score          `json:"communication"`
	EducationQuality    Score          `json:"educationQuality"`
	EducationCategory   string         `json:"educationCategory"`
	Strengths           string         `json:"strengths"`
	Weaknesses          string         `json:"weaknesses"`
	Recommendation      Recommendation `json:"recommendation"`
}

// analysisScoreKeys must all be present in a model reply.
var analysisScoreKeys = []string{"technicalSkill", "experienceRelevance", "communication", "educationQuality"}

// AnalysisFromObject decodes a parsed model object. All four scores are
// required so that a record never carries a partial score set.
func AnalysisFromObject(obj map[string]any) (*Analysis, error) {
	for _, key := range analysisScoreKeys {
		if v, ok := obj[key]; !ok || v == nil {
			return nil, fmt.Errorf("missing %s", key)
		}
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}

	var analysis Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, err
	}

	analysis.CandidateType = NormalizeCandidateType(analysis.CandidateType)
	analysis.EducationCategory = NormalizeEducationCategory(analysis.EducationCategory)
	analysis.Strengths = strings.TrimSpace(analysis.Strengths)
	analysis.Weaknesses = strings.TrimSpace(analysis.Weaknesses)
	analysis.Recommendation = Recommend(int(analysis.TechnicalSkill), int(analysis.ExperienceRelevance))

	return &analysis, nil
}
