// Package explain renders scored analyses into human-readable
// explanations. Output is fully template-driven so identical inputs
// always produce identical text.
package explain

import (
	"fmt"
	"strings"

	"github.com/resumatch/resumatch/internal/scoring"
)

// ComponentNote is one component's analysis line. Kept as a slice
// element rather than a map entry so rendering order is stable.
type ComponentNote struct {
	Component string `json:"component"`
	Analysis  string `json:"analysis"`
}

// Explanation is the structured explanation of a scored match.
type Explanation struct {
	Summary          string          `json:"summary"`
	DetailedAnalysis []ComponentNote `json:"detailed_analysis"`
	Recommendations  []string        `json:"recommendations"`
	KeyFactors       []string        `json:"key_factors"`
	Improvements     []string        `json:"improvement_suggestions"`
}

// Explainer produces baseline explanations from a score breakdown.
type Explainer struct{}

// NewExplainer returns a ready explainer.
func NewExplainer() *Explainer {
	return &Explainer{}
}

// Explain builds the full explanation for a breakdown.
func (e *Explainer) Explain(b scoring.Breakdown) Explanation {
	return Explanation{
		Summary:          summarize(b),
		DetailedAnalysis: analyzeComponents(b),
		Recommendations:  recommend(b),
		KeyFactors:       keyFactors(b),
		Improvements:     suggestImprovements(b),
	}
}

func summarize(b scoring.Breakdown) string {
	var quality, verb string
	switch {
	case b.Overall >= 85:
		quality, verb = "excellent", "strongly matches"
	case b.Overall >= 70:
		quality, verb = "strong", "matches well with"
	case b.Overall >= 55:
		quality, verb = "moderate", "partially matches"
	default:
		quality, verb = "weak", "does not strongly match"
	}

	summary := fmt.Sprintf(
		"This resume %s the job requirements with an overall score of %.1f/100 (%s match). "+
			"Confidence in this assessment is %s (%.0f%%).",
		verb, b.Overall, quality, confidenceWord(b.Confidence), b.Confidence*100)

	if len(b.Strengths) > 0 {
		summary += " Key strengths: " + b.Strengths[0]
	}
	return summary
}

func confidenceWord(confidence float64) string {
	switch {
	case confidence >= 0.7:
		return "high"
	case confidence >= 0.5:
		return "moderate"
	default:
		return "low"
	}
}

func analyzeComponents(b scoring.Breakdown) []ComponentNote {
	notes := make([]ComponentNote, 0, 4)

	sem := b.SemanticSimilarity * 100
	switch {
	case sem >= 80:
		notes = append(notes, ComponentNote{"Semantic Match", fmt.Sprintf(
			"Excellent alignment (%.1f%%). The resume content closely matches the job description's requirements and terminology.", sem)})
	case sem >= 60:
		notes = append(notes, ComponentNote{"Semantic Match", fmt.Sprintf(
			"Good alignment (%.1f%%). The resume addresses most job requirements with relevant experience and skills.", sem)})
	default:
		notes = append(notes, ComponentNote{"Semantic Match", fmt.Sprintf(
			"Limited alignment (%.1f%%). The resume content differs significantly from what the job description requires.", sem)})
	}

	skill := b.SkillScore * 100
	switch {
	case skill >= 80:
		notes = append(notes, ComponentNote{"Skills", fmt.Sprintf(
			"Strong skill match (%.1f%%). %d key skills matched. %s",
			skill, len(b.MatchedSkills), formatSkillList(b.MatchedSkills, 5))})
	case skill >= 50:
		notes = append(notes, ComponentNote{"Skills", fmt.Sprintf(
			"Partial skill match (%.1f%%). %d skills matched, but %d required skills are missing: %s",
			skill, len(b.MatchedSkills), len(b.MissingSkills), formatSkillList(b.MissingSkills, 5))})
	default:
		notes = append(notes, ComponentNote{"Skills", fmt.Sprintf(
			"Weak skill match (%.1f%%). Most required skills are missing: %s",
			skill, formatSkillList(b.MissingSkills, 5))})
	}

	exp := b.ExperienceScore * 100
	switch {
	case exp >= 90:
		notes = append(notes, ComponentNote{"Experience", fmt.Sprintf(
			"Meets or exceeds experience requirements (%.1f%%).", exp)})
	case exp >= 70:
		notes = append(notes, ComponentNote{"Experience", fmt.Sprintf(
			"Adequate experience level (%.1f%%), though may be slightly below optimal.", exp)})
	default:
		notes = append(notes, ComponentNote{"Experience", fmt.Sprintf(
			"Experience level may be insufficient (%.1f%%).", exp)})
	}

	edu := b.EducationScore * 100
	switch {
	case edu >= 90:
		notes = append(notes, ComponentNote{"Education", fmt.Sprintf("Meets education requirements (%.1f%%).", edu)})
	case edu >= 70:
		notes = append(notes, ComponentNote{"Education", fmt.Sprintf("Education level is close to requirements (%.1f%%).", edu)})
	default:
		notes = append(notes, ComponentNote{"Education", fmt.Sprintf("Education level may not meet requirements (%.1f%%).", edu)})
	}

	return notes
}

func recommend(b scoring.Breakdown) []string {
	var recs []string
	switch {
	case b.Overall >= 85:
		recs = append(recs,
			"Highly recommend scheduling an interview - strong candidate",
			"Focus interview on validating top skills and cultural fit")
	case b.Overall >= 70:
		recs = append(recs,
			"Recommend phone screening to assess fit",
			"Verify experience with missing skills during interview")
	case b.Overall >= 55:
		recs = append(recs,
			"Consider if willing to train on missing skills",
			"May be suitable for junior/mid-level variant of role")
	default:
		recs = append(recs,
			"Not recommended for this position",
			"Significant gaps in required qualifications")
	}

	if len(b.MissingSkills) > 0 {
		recs = append(recs, "Address skill gaps: "+strings.Join(capList(b.MissingSkills, 3), ", "))
	}
	return recs
}

func keyFactors(b scoring.Breakdown) []string {
	var factors []string

	if b.SkillScore >= 0.8 {
		factors = append(factors, fmt.Sprintf("+ Strong skill alignment (%d matches)", len(b.MatchedSkills)))
	}
	if b.SemanticSimilarity >= 0.8 {
		factors = append(factors, "+ Excellent semantic match with job description")
	}
	if b.ExperienceScore >= 0.9 {
		factors = append(factors, "+ Meets experience requirements")
	}

	if b.SkillScore < 0.5 {
		factors = append(factors, fmt.Sprintf("- Missing critical skills (%d gaps)", len(b.MissingSkills)))
	}
	if b.SemanticSimilarity < 0.5 {
		factors = append(factors, "- Resume content differs from job requirements")
	}
	if b.ExperienceScore < 0.7 {
		factors = append(factors, "- May lack required experience level")
	}

	return factors
}

func suggestImprovements(b scoring.Breakdown) []string {
	var suggestions []string

	if len(b.MissingSkills) > 0 {
		suggestions = append(suggestions,
			"Add these skills if applicable: "+strings.Join(capList(b.MissingSkills, 3), ", "),
			"Highlight projects demonstrating these missing skills")
	}
	if b.SemanticSimilarity < 0.7 {
		suggestions = append(suggestions,
			"Tailor resume language to better match job description terminology",
			"Add keywords and phrases from the job posting")
	}
	if b.ExperienceScore < 0.8 {
		suggestions = append(suggestions,
			"Emphasize relevant experience more prominently",
			"Quantify achievements with metrics and impact")
	}
	if b.Overall < 70 {
		suggestions = append(suggestions,
			"Consider adding a summary section targeting this role",
			"Reorganize to prioritize most relevant experience")
	}
	return suggestions
}

func formatSkillList(skills []string, limit int) string {
	if len(skills) > limit {
		skills = skills[:limit]
	}
	if len(skills) == 0 {
		return "none"
	}
	if len(skills) <= 3 {
		return strings.Join(skills, ", ")
	}
	return strings.Join(skills[:3], ", ") + fmt.Sprintf(" (and %d more)", len(skills)-3)
}

func capList(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

const reportRule = "================================================================================"
const reportSubRule = "--------------------------------------------------------------------------------"

// Report renders an explanation as a plain-text block for terminals.
func Report(e Explanation) string {
	var sb strings.Builder

	sb.WriteString(reportRule + "\n")
	sb.WriteString("RESUME SCREENING REPORT\n")
	sb.WriteString(reportRule + "\n\n")

	sb.WriteString("SUMMARY\n" + reportSubRule + "\n")
	sb.WriteString(e.Summary + "\n\n")

	sb.WriteString("KEY FACTORS\n" + reportSubRule + "\n")
	for _, factor := range e.KeyFactors {
		sb.WriteString("  " + factor + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString("DETAILED ANALYSIS\n" + reportSubRule + "\n")
	for _, note := range e.DetailedAnalysis {
		sb.WriteString("\n" + note.Component + ":\n")
		sb.WriteString("  " + note.Analysis + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString("RECOMMENDATIONS\n" + reportSubRule + "\n")
	for _, rec := range e.Recommendations {
		sb.WriteString("  " + rec + "\n")
	}
	sb.WriteString("\n")

	if len(e.Improvements) > 0 {
		sb.WriteString("IMPROVEMENT SUGGESTIONS\n" + reportSubRule + "\n")
		for _, s := range e.Improvements {
			sb.WriteString("  " + s + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(reportRule + "\n")
	return sb.String()
}
