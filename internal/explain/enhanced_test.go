package explain

import (
	"strings"
	"testing"

	"github.com/resumatch/resumatch/internal/scoring"
)

func newTestEnhanced(t *testing.T) *Enhanced {
	t.Helper()
	e, err := NewEnhanced(scoring.DefaultWeights())
	if err != nil {
		t.Fatalf("NewEnhanced: %v", err)
	}
	return e
}

func TestEnhancedSkillAnalysisOrdering(t *testing.T) {
	e := newTestEnhanced(t)
	b := scoring.Breakdown{
		Overall:       60,
		MatchedSkills: []string{"Git"},
		MissingSkills: []string{"Terraform", "Docker"}, // Important, Critical
	}

	got := e.Explain(b, "", nil)

	if len(got.SkillAnalysis) != 3 {
		t.Fatalf("got %d skill analyses, want 3", len(got.SkillAnalysis))
	}
	if !got.SkillAnalysis[0].Matched {
		t.Error("matched skills should sort first")
	}
	// Among missing skills, the critical one leads.
	if got.SkillAnalysis[1].Skill != "Docker" || got.SkillAnalysis[1].Importance != ImportanceCritical {
		t.Errorf("first missing = %+v, want critical Docker", got.SkillAnalysis[1])
	}
	if got.SkillAnalysis[2].Skill != "Terraform" {
		t.Errorf("second missing = %+v, want Terraform", got.SkillAnalysis[2])
	}
}

func TestEnhancedMissingSkillCarriesResources(t *testing.T) {
	e := newTestEnhanced(t)
	b := scoring.Breakdown{MissingSkills: []string{"Kubernetes", "Zig"}}

	got := e.Explain(b, "", nil)

	var k8s, zig *SkillAnalysis
	for i := range got.SkillAnalysis {
		switch got.SkillAnalysis[i].Skill {
		case "Kubernetes":
			k8s = &got.SkillAnalysis[i]
		case "Zig":
			zig = &got.SkillAnalysis[i]
		}
	}
	if k8s == nil || len(k8s.LearningResources) == 0 {
		t.Fatal("Kubernetes should carry curated learning resources")
	}
	if k8s.EstimatedTime != "2-4 months" {
		t.Errorf("Kubernetes learning time = %q, want 2-4 months", k8s.EstimatedTime)
	}
	// Unknown skills fall back to generic resources and defaults.
	if zig == nil || len(zig.LearningResources) != 3 {
		t.Fatalf("unknown skill should get generic resources, got %+v", zig)
	}
	if zig.Importance != ImportanceImportant || zig.MarketDemand != "Stable" {
		t.Errorf("unknown skill defaults = %+v", zig)
	}
}

func TestLearningRoadmapPhases(t *testing.T) {
	e := newTestEnhanced(t)
	b := scoring.Breakdown{
		// Docker/AWS critical; Terraform/Flask/Redis/Vue important.
		MissingSkills: []string{"Docker", "AWS", "Terraform", "Flask", "Redis", "Vue"},
	}

	got := e.Explain(b, "", nil)
	roadmap := got.LearningRoadmap

	if len(roadmap) != 5 {
		t.Fatalf("got %d roadmap steps, want 5 (2 critical + top 3 important)", len(roadmap))
	}
	for _, step := range roadmap[:2] {
		if step.Phase != 1 || step.Priority != ImportanceCritical {
			t.Errorf("critical step = %+v, want phase 1", step)
		}
	}
	for _, step := range roadmap[2:] {
		if step.Phase != 2 || step.Priority != ImportanceImportant {
			t.Errorf("important step = %+v, want phase 2", step)
		}
	}
}

func TestBenchmarkPercentiles(t *testing.T) {
	cases := []struct {
		score float64
		want  int
	}{
		{90, 95}, {85, 95}, {80, 80}, {70, 60}, {60, 40}, {50, 25}, {30, 10},
	}
	for _, tc := range cases {
		got := benchmark(tc.score)
		if got.Percentile != tc.want {
			t.Errorf("benchmark(%v).Percentile = %d, want %d", tc.score, got.Percentile, tc.want)
		}
	}

	b := benchmark(88)
	if b.AverageApplicant != 62 || b.Top25Percent != 74 || b.Top10Percent != 82 {
		t.Errorf("reference cohort = %+v", b)
	}
	if !strings.Contains(b.Interpretation, "top 10%") {
		t.Errorf("interpretation = %q, want top-10%% phrasing", b.Interpretation)
	}
}

func TestEnhancedSummaryBands(t *testing.T) {
	e := newTestEnhanced(t)

	got := e.Explain(scoring.Breakdown{Overall: 90, Confidence: 0.9}, "", nil)
	if !strings.Contains(got.Summary, "EXCEPTIONAL") {
		t.Errorf("summary = %q, want EXCEPTIONAL", got.Summary)
	}

	got = e.Explain(scoring.Breakdown{Overall: 30, Confidence: 0.9}, "", nil)
	if !strings.Contains(got.Summary, "does not meet the minimum requirements") {
		t.Errorf("summary = %q, want minimum-requirements phrasing", got.Summary)
	}
}

func TestEnhancedComponentLabelsUseWeights(t *testing.T) {
	e := newTestEnhanced(t)
	got := e.Explain(scoring.Breakdown{}, "", nil)

	if len(got.ScoreExplanations) != 5 {
		t.Fatalf("got %d score explanations, want 5", len(got.ScoreExplanations))
	}
	if got.ScoreExplanations[0].Component != "Semantic Similarity (30% weight)" {
		t.Errorf("component label = %q", got.ScoreExplanations[0].Component)
	}
	if got.ScoreExplanations[1].Component != "Skill Match (35% weight)" {
		t.Errorf("component label = %q", got.ScoreExplanations[1].Component)
	}
}
