package bias

import (
	"strings"
	"testing"
)

func TestDetectCleanText(t *testing.T) {
	got := Detect("Built distributed systems in Go. Led a platform team of six engineers.", "")

	if got.OverallRisk != RiskLow {
		t.Errorf("overall risk = %q, want low", got.OverallRisk)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("clean text produced warnings: %v", got.Warnings)
	}
	if got.JobBias != nil {
		t.Error("no job text was given, JobBias should be nil")
	}
}

func TestDetectGenderedAndAgeText(t *testing.T) {
	resume := "Mrs Smith. She graduated in 1998. Her church choir. Married with children."
	got := Detect(resume, "")

	f := got.ResumeBias
	if len(f.GenderIndicators) == 0 {
		t.Error("expected gender indicators")
	}
	if len(f.AgeIndicators) == 0 {
		t.Error("expected age indicators for the birth year")
	}
	if len(f.ProtectedAttributes) < 3 {
		t.Errorf("protected attributes = %v, want church/married/children", f.ProtectedAttributes)
	}
	if f.RiskLevel != RiskHigh {
		t.Errorf("risk = %q, want high for 5+ indicators", f.RiskLevel)
	}
	if got.OverallRisk != RiskHigh {
		t.Errorf("overall risk = %q, want high", got.OverallRisk)
	}
	if len(got.Recommendations) == 0 {
		t.Error("expected mitigation recommendations")
	}
}

func TestDetectJobTextRaisesRisk(t *testing.T) {
	job := "Looking for a young recent graduate to join our family."
	got := Detect("Neutral resume about Go and SQL work experience.", job)

	if got.JobBias == nil {
		t.Fatal("JobBias should be set when job text is given")
	}
	if got.OverallRisk == RiskLow {
		t.Errorf("age-coded job text should raise overall risk, got %q", got.OverallRisk)
	}
	found := false
	for _, w := range got.Warnings {
		if strings.Contains(w, "Job description") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings %v should mention the job description", got.Warnings)
	}
}

func TestAnonymize(t *testing.T) {
	resume := "Jane Smith\njane@example.com 555-123-4567\nShe shipped her project in 2019."
	got := Anonymize(resume)

	for _, redacted := range []string{"[NAME REDACTED]", "[EMAIL REDACTED]", "[PHONE REDACTED]", "[YEAR REDACTED]"} {
		if !strings.Contains(got, redacted) {
			t.Errorf("anonymized text missing %s: %q", redacted, got)
		}
	}
	if strings.Contains(got, "jane@example.com") || strings.Contains(got, "2019") {
		t.Errorf("identifiers survived anonymization: %q", got)
	}
	if strings.Contains(strings.ToLower(got), " she ") {
		t.Errorf("gendered pronoun survived: %q", got)
	}
}
