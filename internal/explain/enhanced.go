package explain

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/resumatch/resumatch/internal/scoring"
)

//go:embed data/insights.json
var insightsJSON []byte

// Skill importance tiers, highest first.
const (
	ImportanceCritical   = "Critical"
	ImportanceImportant  = "Important"
	ImportanceBeneficial = "Beneficial"
)

// SkillAnalysis is the per-skill record in an enhanced explanation.
type SkillAnalysis struct {
	Skill             string   `json:"skill_name"`
	Matched           bool     `json:"is_matched"`
	Importance        string   `json:"importance"`
	Reason            string   `json:"reason"`
	MarketDemand      string   `json:"market_demand"`
	LearningResources []string `json:"learning_resources,omitempty"`
	EstimatedTime     string   `json:"estimated_learning_time,omitempty"`
}

// RoadmapStep is one entry in the prioritized learning roadmap.
type RoadmapStep struct {
	Phase         int      `json:"phase"`
	Priority      string   `json:"priority"`
	Skill         string   `json:"skill"`
	EstimatedTime string   `json:"estimated_time"`
	MarketDemand  string   `json:"market_demand"`
	Resources     []string `json:"resources"`
	Reason        string   `json:"reason"`
}

// Benchmark positions a score against a reference applicant cohort.
type Benchmark struct {
	YourScore        float64 `json:"your_score"`
	AverageApplicant int     `json:"average_applicant"`
	Top10Percent     int     `json:"top_10_percent"`
	Top25Percent     int     `json:"top_25_percent"`
	Percentile       int     `json:"percentile"`
	Interpretation   string  `json:"interpretation"`
}

// CareerInsights summarizes level, fit and growth outlook.
type CareerInsights struct {
	CareerLevel      string   `json:"career_level"`
	RoleFit          string   `json:"role_fit"`
	GrowthPotential  []string `json:"growth_potential"`
	AlternativeRoles []string `json:"alternative_roles"`
}

// EnhancedExplanation carries the full deep-dive analysis.
type EnhancedExplanation struct {
	Summary           string          `json:"summary"`
	ScoreExplanations []ComponentNote `json:"score_explanations"`
	SkillAnalysis     []SkillAnalysis `json:"skill_analysis"`
	ATS               ATSCompatibility `json:"ats_compatibility"`
	CareerInsights    CareerInsights  `json:"career_insights"`
	Recommendations   []string        `json:"recommendations"`
	LearningRoadmap   []RoadmapStep   `json:"learning_roadmap"`
	Benchmark         Benchmark       `json:"industry_benchmark"`
}

type skillInsight struct {
	Importance   string `json:"importance"`
	Demand       string `json:"demand"`
	LearningTime string `json:"learning_time"`
}

// Enhanced produces deep-dive explanations backed by static skill
// importance and learning-resource tables.
type Enhanced struct {
	weights    scoring.Weights
	importance map[string]skillInsight
	resources  map[string][]string
}

// NewEnhanced parses the embedded insight tables.
func NewEnhanced(weights scoring.Weights) (*Enhanced, error) {
	var raw struct {
		SkillImportance   map[string]skillInsight `json:"skill_importance"`
		LearningResources map[string][]string     `json:"learning_resources"`
	}
	if err := json.Unmarshal(insightsJSON, &raw); err != nil {
		return nil, fmt.Errorf("parsing insight tables: %w", err)
	}
	return &Enhanced{
		weights:    weights,
		importance: raw.SkillImportance,
		resources:  raw.LearningResources,
	}, nil
}

// Explain builds the enhanced explanation. resumeText is the raw resume
// used for ATS heuristics; jobSkills is the job's required skill list.
func (e *Enhanced) Explain(b scoring.Breakdown, resumeText string, jobSkills []string) EnhancedExplanation {
	skillAnalysis := e.analyzeSkills(b.MatchedSkills, b.MissingSkills)
	ats := CheckATS(resumeText, jobSkills)

	return EnhancedExplanation{
		Summary:           enhancedSummary(b),
		ScoreExplanations: e.explainComponents(b),
		SkillAnalysis:     skillAnalysis,
		ATS:               ats,
		CareerInsights:    careerInsights(b),
		Recommendations:   detailedRecommendations(b, skillAnalysis, ats),
		LearningRoadmap:   buildRoadmap(skillAnalysis),
		Benchmark:         benchmark(b.Overall),
	}
}

func enhancedSummary(b scoring.Breakdown) string {
	var quality, action string
	switch {
	case b.Overall >= 85:
		quality = "exceptional"
		action = "This candidate should be prioritized for immediate interview."
	case b.Overall >= 70:
		quality = "strong"
		action = "This candidate is well-qualified and recommended for interview."
	case b.Overall >= 60:
		quality = "moderate"
		action = "This candidate may be suitable depending on team needs and other applicants."
	case b.Overall >= 50:
		quality = "fair"
		action = "This candidate has some relevant experience but significant gaps exist."
	default:
		quality = "weak"
		action = "This candidate does not meet the minimum requirements for this role."
	}

	summary := fmt.Sprintf("Overall Assessment: %s match (%.1f/100) with %s confidence (%.0f%%).\n\n%s",
		strings.ToUpper(quality), b.Overall, confidenceWord(b.Confidence), b.Confidence*100, action)

	if len(b.Strengths) > 0 {
		summary += "\n\nKey Strengths: " + strings.Join(capList(b.Strengths, 3), ", ")
	}
	if len(b.Weaknesses) > 0 {
		summary += "\n\nAreas of Concern: " + strings.Join(capList(b.Weaknesses, 3), ", ")
	}
	return summary
}

func (e *Enhanced) explainComponents(b scoring.Breakdown) []ComponentNote {
	notes := make([]ComponentNote, 0, 5)

	sem := b.SemanticSimilarity * 100
	semNote := fmt.Sprintf("Score: %.1f/100. Measures how well the overall content of the resume matches the job description beyond keyword overlap. ", sem)
	switch {
	case sem >= 80:
		semNote += "Excellent alignment: the candidate speaks the same language as the job requirements."
	case sem >= 60:
		semNote += "Good alignment, though some areas could be better articulated using job description terminology."
	default:
		semNote += "Limited alignment. Consider rephrasing experience to better match the role's language and focus areas."
	}
	notes = append(notes, ComponentNote{componentLabel("Semantic Similarity", e.weights.Semantic), semNote})

	skill := b.SkillScore * 100
	matched, total := len(b.MatchedSkills), len(b.MatchedSkills)+len(b.MissingSkills)
	skillNote := fmt.Sprintf("Score: %.1f/100 (%d/%d required skills). ", skill, matched, total)
	switch {
	case skill >= 80:
		skillNote += fmt.Sprintf("Excellent: %d of %d required skills matched.", matched, total)
	case skill >= 50:
		skillNote += fmt.Sprintf("Partial match: missing %d key skills that should be developed or added to the resume if possessed.", len(b.MissingSkills))
	default:
		skillNote += fmt.Sprintf("Weak match: only %d of %d required skills found. Significant skill gaps exist for this role.", matched, total)
	}
	notes = append(notes, ComponentNote{componentLabel("Skill Match", e.weights.Skill), skillNote})

	exp := b.ExperienceScore * 100
	expNote := fmt.Sprintf("Score: %.1f/100. Measures years of relevant professional experience against the requirement. ", exp)
	switch {
	case exp >= 80:
		expNote += "Strong experience match with demonstrated career growth."
	case exp >= 50:
		expNote += "Moderate experience; slightly less than ideal but viable depending on skill strength."
	default:
		expNote += "Limited experience for this role; the position may require more senior-level experience."
	}
	notes = append(notes, ComponentNote{componentLabel("Experience Level", e.weights.Experience), expNote})

	edu := b.EducationScore * 100
	eduNote := fmt.Sprintf("Score: %.1f/100. Measures educational background alignment. ", edu)
	switch {
	case edu >= 80:
		eduNote += "Education requirements met."
	case edu >= 30:
		eduNote += "Education present but may not perfectly match requirements; experience can often compensate."
	default:
		eduNote += "Education section unclear or missing; relevant education should be listed prominently."
	}
	notes = append(notes, ComponentNote{componentLabel("Education", e.weights.Education), eduNote})

	kw := b.KeywordScore * 100
	kwNote := fmt.Sprintf("Score: %.1f/100. Measures presence of exact job-description keywords, which automated screening depends on. ", kw)
	switch {
	case kw >= 70:
		kwNote += "Good keyword optimization."
	case kw >= 40:
		kwNote += "Moderate keyword usage; incorporating more exact phrases would improve ATS compatibility."
	default:
		kwNote += "Low keyword match; the resume may struggle with automated screening systems."
	}
	notes = append(notes, ComponentNote{componentLabel("Keyword Match", e.weights.Keyword), kwNote})

	return notes
}

func componentLabel(name string, weight float64) string {
	return fmt.Sprintf("%s (%.0f%% weight)", name, weight*100)
}

func (e *Enhanced) insightFor(skill string) skillInsight {
	if info, ok := e.importance[strings.ToLower(skill)]; ok {
		return info
	}
	return skillInsight{Importance: ImportanceImportant, Demand: "Stable", LearningTime: "Varies"}
}

func (e *Enhanced) resourcesFor(skill string) []string {
	if res, ok := e.resources[strings.ToLower(skill)]; ok {
		return res
	}
	return []string{
		fmt.Sprintf("Search for %q tutorials on YouTube or Udemy", skill),
		fmt.Sprintf("Check the official %s documentation", skill),
		fmt.Sprintf("FreeCodeCamp or Codecademy for %s", skill),
	}
}

func (e *Enhanced) analyzeSkills(matchedSkills, missingSkills []string) []SkillAnalysis {
	analyses := make([]SkillAnalysis, 0, len(matchedSkills)+len(missingSkills))

	for _, skill := range matchedSkills {
		info := e.insightFor(skill)
		analyses = append(analyses, SkillAnalysis{
			Skill:      skill,
			Matched:    true,
			Importance: info.Importance,
			Reason: fmt.Sprintf("You have this skill. It is %s for the role and shows %s in the job market.",
				strings.ToLower(info.Importance), strings.ToLower(info.Demand)),
			MarketDemand: info.Demand,
		})
	}

	for _, skill := range missingSkills {
		info := e.insightFor(skill)
		analyses = append(analyses, SkillAnalysis{
			Skill:             skill,
			Matched:           false,
			Importance:        info.Importance,
			Reason:            missingSkillReason(skill, info),
			MarketDemand:      info.Demand,
			LearningResources: e.resourcesFor(skill),
			EstimatedTime:     info.LearningTime,
		})
	}

	// Matched first, then by importance tier. Stable to keep input order
	// within a tier.
	order := map[string]int{ImportanceCritical: 0, ImportanceImportant: 1, ImportanceBeneficial: 2}
	sort.SliceStable(analyses, func(i, j int) bool {
		if analyses[i].Matched != analyses[j].Matched {
			return analyses[i].Matched
		}
		return order[analyses[i].Importance] < order[analyses[j].Importance]
	})
	return analyses
}

func missingSkillReason(skill string, info skillInsight) string {
	switch info.Importance {
	case ImportanceCritical:
		return fmt.Sprintf("CRITICAL SKILL MISSING: %s is essential for this role. This skill is in %s and is likely required for day-to-day tasks. Priority: HIGH.",
			skill, strings.ToLower(info.Demand))
	case ImportanceImportant:
		return fmt.Sprintf("Important skill missing: %s is strongly preferred for this position (market demand: %s). Having it would significantly strengthen the application. Priority: MEDIUM.",
			skill, info.Demand)
	default:
		return fmt.Sprintf("Beneficial skill: %s would be nice to have but isn't essential (market trend: %s). Priority: LOW.",
			skill, info.Demand)
	}
}

func careerInsights(b scoring.Breakdown) CareerInsights {
	insights := CareerInsights{}

	switch {
	case b.ExperienceScore >= 0.8:
		insights.CareerLevel = "Senior/Lead level"
		insights.AlternativeRoles = []string{"Senior Software Engineer", "Tech Lead", "Engineering Manager"}
	case b.ExperienceScore >= 0.5:
		insights.CareerLevel = "Mid-level"
		insights.AlternativeRoles = []string{"Software Engineer", "Backend Developer", "Full Stack Developer"}
	default:
		insights.CareerLevel = "Junior/Entry level"
		insights.AlternativeRoles = []string{"Junior Developer", "Associate Engineer", "Software Engineer I"}
	}

	switch {
	case b.Overall >= 75:
		insights.RoleFit = "Excellent fit for this specific role"
	case b.Overall >= 60:
		insights.RoleFit = "Good fit with some development areas"
	case b.Overall >= 45:
		insights.RoleFit = "Moderate fit - consider lateral moves or skill development"
	default:
		insights.RoleFit = "Limited fit - significant reskilling needed or explore different roles"
	}

	switch missing := len(b.MissingSkills); {
	case missing <= 2:
		insights.GrowthPotential = append(insights.GrowthPotential, "Close to role requirements - minimal upskilling needed")
	case missing <= 5:
		insights.GrowthPotential = append(insights.GrowthPotential, "3-6 months of focused learning could close skill gaps")
	default:
		insights.GrowthPotential = append(insights.GrowthPotential, "6-12 months of learning recommended to meet requirements")
	}
	if b.SkillScore >= 0.7 {
		insights.GrowthPotential = append(insights.GrowthPotential, "Strong foundation - ready for advanced topics")
	}

	return insights
}

func detailedRecommendations(b scoring.Breakdown, skills []SkillAnalysis, ats ATSCompatibility) []string {
	var recs []string

	if b.Overall < 60 {
		recs = append(recs, "PRIORITY ACTION: focus on acquiring the 2-3 most critical missing skills. This will have the biggest impact on the score.")
	}

	var criticalMissing []string
	for _, s := range skills {
		if !s.Matched && s.Importance == ImportanceCritical {
			criticalMissing = append(criticalMissing, s.Skill)
		}
	}
	if len(criticalMissing) > 0 {
		recs = append(recs, "Learn critical skills: focus on "+strings.Join(capList(criticalMissing, 3), ", ")+". These are essential for the role and in high demand.")
	}

	if !ats.Friendly {
		recs = append(recs, fmt.Sprintf("Improve ATS compatibility: the resume may not pass automated screening (current score: %.0f%%).", ats.OverallScore))
	}
	if b.KeywordScore < 0.5 {
		recs = append(recs, "Add keywords: incorporate more exact phrases from the job description. This helps with both ATS systems and recruiter scanning.")
	}
	if b.SemanticSimilarity < 0.6 {
		recs = append(recs, "Rephrase experience: use language from the job description to describe experience. Match their terminology and focus areas.")
	}
	if b.SkillScore >= 0.7 {
		recs = append(recs, "Highlight strengths: strong relevant skills are present. Feature them prominently in the resume summary and experience sections.")
	}

	return recs
}

func buildRoadmap(skills []SkillAnalysis) []RoadmapStep {
	var critical, important, beneficial []SkillAnalysis
	for _, s := range skills {
		if s.Matched {
			continue
		}
		switch s.Importance {
		case ImportanceCritical:
			critical = append(critical, s)
		case ImportanceImportant:
			important = append(important, s)
		default:
			beneficial = append(beneficial, s)
		}
	}

	var roadmap []RoadmapStep
	phase := 1

	for _, s := range critical {
		roadmap = append(roadmap, roadmapStep(phase, s, "Essential for this role"))
	}
	if len(critical) > 0 {
		phase++
	}

	for _, s := range capSkills(important, 3) {
		roadmap = append(roadmap, roadmapStep(phase, s, "Strongly recommended"))
	}
	if len(important) > 3 {
		phase++
	}

	if len(beneficial) > 0 && len(roadmap) < 6 {
		for _, s := range capSkills(beneficial, 2) {
			roadmap = append(roadmap, roadmapStep(min(phase+1, 3), s, "Nice to have"))
		}
	}

	return roadmap
}

func roadmapStep(phase int, s SkillAnalysis, reason string) RoadmapStep {
	return RoadmapStep{
		Phase:         phase,
		Priority:      s.Importance,
		Skill:         s.Skill,
		EstimatedTime: s.EstimatedTime,
		MarketDemand:  s.MarketDemand,
		Resources:     s.LearningResources,
		Reason:        reason,
	}
}

func capSkills(items []SkillAnalysis, limit int) []SkillAnalysis {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

// Reference cohort figures for the benchmark comparison.
const (
	benchmarkAverage = 62
	benchmarkTop25   = 74
	benchmarkTop10   = 82
)

func benchmark(overall float64) Benchmark {
	percentile := percentileFor(overall)
	return Benchmark{
		YourScore:        overall,
		AverageApplicant: benchmarkAverage,
		Top10Percent:     benchmarkTop10,
		Top25Percent:     benchmarkTop25,
		Percentile:       percentile,
		Interpretation:   interpretPercentile(percentile),
	}
}

func percentileFor(score float64) int {
	switch {
	case score >= 85:
		return 95
	case score >= 75:
		return 80
	case score >= 65:
		return 60
	case score >= 55:
		return 40
	case score >= 45:
		return 25
	default:
		return 10
	}
}

func interpretPercentile(percentile int) string {
	switch {
	case percentile >= 90:
		return "You're in the top 10% of applicants for this role!"
	case percentile >= 75:
		return "You're above average and competitive for this position."
	case percentile >= 50:
		return "You're around the average applicant for this role."
	case percentile >= 25:
		return "You're below average. Focus on skill development to improve."
	default:
		return "Significant gaps exist. Consider additional training or different roles."
	}
}
