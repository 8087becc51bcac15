// Package scoring turns matching signals into a weighted composite score
// with a per-component breakdown.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidWeights is returned when configured weights cannot form a
// valid composite score.
var ErrInvalidWeights = errors.New("invalid scoring weights")

// Weights are the relative importance of each scoring component. They
// must be non-negative and sum to 1.0 within a 0.01 tolerance.
type Weights struct {
	Semantic   float64 `json:"semantic_similarity"`
	Skill      float64 `json:"skill_match"`
	Experience float64 `json:"experience_match"`
	Education  float64 `json:"education_match"`
	Keyword    float64 `json:"keyword_match"`
}

// DefaultWeights favor concrete skill evidence over document-level
// similarity.
func DefaultWeights() Weights {
	return Weights{
		Semantic:   0.30,
		Skill:      0.35,
		Experience: 0.20,
		Education:  0.10,
		Keyword:    0.05,
	}
}

// Validate checks the weights are usable.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"semantic":   w.Semantic,
		"skill":      w.Skill,
		"experience": w.Experience,
		"education":  w.Education,
		"keyword":    w.Keyword,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s weight is negative", ErrInvalidWeights, name)
		}
	}
	total := w.Semantic + w.Skill + w.Experience + w.Education + w.Keyword
	if math.Abs(total-1.0) > 0.01 {
		return fmt.Errorf("%w: weights must sum to 1.0, got %.3f", ErrInvalidWeights, total)
	}
	return nil
}

// Signals are the raw inputs the engine scores.
type Signals struct {
	SemanticSimilarity float64
	SkillMatchRate     float64
	MatchedSkills      []string
	MissingSkills      []string
	CandidateYears     int
	RequiredYears      int
	CandidateEducation string
	RequiredEducation  string
	ResumeText         string
	JobKeywords        []string
}

// Breakdown is the scored result. Component scores are in [0, 1], the
// overall score in [0, 100].
type Breakdown struct {
	Overall            float64  `json:"overall_score"`
	SemanticSimilarity float64  `json:"semantic_similarity"`
	SkillScore         float64  `json:"skill_match_score"`
	ExperienceScore    float64  `json:"experience_score"`
	EducationScore     float64  `json:"education_score"`
	KeywordScore       float64  `json:"keyword_score"`
	Confidence         float64  `json:"confidence"`
	MatchedSkills      []string `json:"matched_skills"`
	MissingSkills      []string `json:"missing_skills"`
	Strengths          []string `json:"strengths"`
	Weaknesses         []string `json:"weaknesses"`
}

// Engine computes composite scores under a fixed set of weights.
type Engine struct {
	weights Weights
}

// NewEngine validates the weights and returns an engine.
func NewEngine(w Weights) (*Engine, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Engine{weights: w}, nil
}

// Weights returns the engine's configured weights.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Score produces the full breakdown for a set of signals.
func (e *Engine) Score(sig Signals) Breakdown {
	b := Breakdown{
		SemanticSimilarity: sig.SemanticSimilarity,
		SkillScore:         sig.SkillMatchRate,
		ExperienceScore:    ExperienceScore(sig.CandidateYears, sig.RequiredYears),
		EducationScore:     EducationScore(sig.CandidateEducation, sig.RequiredEducation),
		KeywordScore:       KeywordScore(sig.ResumeText, sig.JobKeywords),
		MatchedSkills:      sig.MatchedSkills,
		MissingSkills:      sig.MissingSkills,
	}

	weighted := b.SemanticSimilarity*e.weights.Semantic +
		b.SkillScore*e.weights.Skill +
		b.ExperienceScore*e.weights.Experience +
		b.EducationScore*e.weights.Education +
		b.KeywordScore*e.weights.Keyword
	b.Overall = math.Round(math.Min(math.Max(weighted, 0), 1)*10000) / 100

	b.Confidence = confidence(b)
	b.Strengths, b.Weaknesses = strengthsWeaknesses(b)
	return b
}

// ExperienceScore compares candidate years against the requirement.
// Unknown data on either side yields a neutral 0.5. Meeting the
// requirement scores 1.0; the excess bonus is capped away by the [0,1]
// clamp and kept only to preserve the historical curve. Falling short
// follows a soft (ratio)^0.7 penalty.
func ExperienceScore(candidateYears, requiredYears int) float64 {
	if requiredYears <= 0 || candidateYears <= 0 {
		return 0.5
	}
	if candidateYears >= requiredYears {
		excess := float64(candidateYears - requiredYears)
		bonus := math.Min(excess/float64(requiredYears)*0.2, 0.2)
		return math.Min(1.0+bonus, 1.0)
	}
	return math.Pow(float64(candidateYears)/float64(requiredYears), 0.7)
}

var educationLevels = map[string]int{
	"high school": 1,
	"high-school": 1,
	"associate":   2,
	"bachelor":    3,
	"master":      4,
	"phd":         5,
	"doctorate":   5,
}

// EducationScore compares education levels on a five-step ladder.
// No requirement scores 1.0; a requirement with no candidate data scores
// a 0.3 base. Meeting the level scores 1.0, one step short 0.7,
// anything lower 0.4.
func EducationScore(candidateEducation, requiredEducation string) float64 {
	if strings.TrimSpace(requiredEducation) == "" {
		return 1.0
	}
	if strings.TrimSpace(candidateEducation) == "" {
		return 0.3
	}
	required := educationLevels[strings.ToLower(requiredEducation)]
	candidate := educationLevels[strings.ToLower(candidateEducation)]
	switch {
	case candidate >= required:
		return 1.0
	case candidate == required-1:
		return 0.7
	default:
		return 0.4
	}
}

// KeywordScore is the fraction of job keywords found in the resume text.
// No keywords to check scores 1.0.
func KeywordScore(resumeText string, jobKeywords []string) float64 {
	if len(jobKeywords) == 0 {
		return 1.0
	}
	lower := strings.ToLower(resumeText)
	found := 0
	for _, kw := range jobKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found++
		}
	}
	return float64(found) / float64(len(jobKeywords))
}

// confidence estimates data completeness as the fraction of components
// whose scores sit away from their no-data sentinel values. A legitimate
// score landing exactly on a sentinel is indistinguishable from missing
// data and is counted as such.
func confidence(b Breakdown) float64 {
	valid := 0
	if b.SemanticSimilarity > 0.1 {
		valid++
	}
	if b.SkillScore > 0 {
		valid++
	}
	if b.ExperienceScore != 0 && b.ExperienceScore != 0.5 {
		valid++
	}
	if b.EducationScore != 0.3 && b.EducationScore != 1.0 {
		valid++
	}
	if b.KeywordScore > 0 {
		valid++
	}
	return float64(valid) / 5
}

func strengthsWeaknesses(b Breakdown) (strengths, weaknesses []string) {
	if b.SkillScore >= 0.8 {
		strengths = append(strengths, fmt.Sprintf("Strong skill alignment (%d matched skills)", len(b.MatchedSkills)))
	} else if b.SkillScore < 0.5 {
		missing := b.MissingSkills
		if len(missing) > 3 {
			missing = missing[:3]
		}
		weaknesses = append(weaknesses, "Missing key skills: "+strings.Join(missing, ", "))
	}

	if b.SemanticSimilarity >= 0.8 {
		strengths = append(strengths, "Excellent semantic match with job description")
	} else if b.SemanticSimilarity < 0.5 {
		weaknesses = append(weaknesses, "Resume content differs significantly from job requirements")
	}

	if b.ExperienceScore >= 0.9 {
		strengths = append(strengths, "Meets or exceeds experience requirements")
	} else if b.ExperienceScore < 0.7 {
		weaknesses = append(weaknesses, "May lack required experience level")
	}

	if b.EducationScore >= 0.9 {
		strengths = append(strengths, "Meets education requirements")
	} else if b.EducationScore < 0.7 {
		weaknesses = append(weaknesses, "Education level may not meet requirements")
	}

	return strengths, weaknesses
}
