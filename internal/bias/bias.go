// Package bias scans resume and job-posting text for wording that could
// introduce protected-attribute bias into screening. Purely lexical.
package bias

import (
	"fmt"
	"regexp"
	"strings"
)

// Risk levels, lowest to highest.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

var genderIndicators = []struct {
	gender string
	terms  []string
}{
	{"male", []string{"he", "his", "him", "mr", "gentleman", "guy", "brother", "son", "father", "husband"}},
	{"female", []string{"she", "her", "hers", "ms", "mrs", "miss", "lady", "woman", "sister", "daughter", "mother", "wife"}},
}

var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(19|20)\d{2}\b`),
	regexp.MustCompile(`\b\d{2}\s*years?\s*old\b`),
	regexp.MustCompile(`\baged?\s*\d{2}\b`),
	regexp.MustCompile(`\byoung\b`),
	regexp.MustCompile(`\brecent\s+graduate\b`),
}

var ethnicityIndicators = []string{
	"asian", "caucasian", "african", "hispanic", "latino", "latina",
	"black", "white", "native", "indigenous", "minority",
}

var protectedAttributes = []string{
	"married", "single", "divorced", "children", "kids", "family",
	"religion", "religious", "church", "temple", "mosque",
	"disability", "disabled", "veteran", "military",
}

// Findings lists the indicators detected in one piece of text.
type Findings struct {
	GenderIndicators    []string `json:"gender_indicators"`
	AgeIndicators       []string `json:"age_indicators"`
	EthnicityIndicators []string `json:"ethnicity_indicators"`
	ProtectedAttributes []string `json:"protected_attributes"`
	RiskLevel           string   `json:"risk_level"`
	Issues              []string `json:"issues_found"`
}

// Report is the combined bias assessment for a resume and, optionally,
// its job description.
type Report struct {
	ResumeBias      Findings  `json:"resume_bias"`
	JobBias         *Findings `json:"job_bias,omitempty"`
	OverallRisk     string    `json:"overall_risk"`
	Warnings        []string  `json:"warnings"`
	Recommendations []string  `json:"recommendations"`
}

// Detect analyzes the resume and, when non-empty, the job description.
func Detect(resumeText, jobText string) Report {
	report := Report{
		ResumeBias:  analyze(resumeText),
		OverallRisk: RiskLow,
	}
	if strings.TrimSpace(jobText) != "" {
		jb := analyze(jobText)
		report.JobBias = &jb
	}

	jobRisk := RiskLow
	if report.JobBias != nil {
		jobRisk = report.JobBias.RiskLevel
	}
	switch {
	case report.ResumeBias.RiskLevel == RiskHigh || jobRisk == RiskHigh:
		report.OverallRisk = RiskHigh
	case report.ResumeBias.RiskLevel == RiskMedium || jobRisk == RiskMedium:
		report.OverallRisk = RiskMedium
	}

	report.Warnings = warnings(report)
	report.Recommendations = recommendations(report)
	return report
}

func analyze(text string) Findings {
	lower := strings.ToLower(text)

	f := Findings{
		GenderIndicators:    detectGender(lower),
		AgeIndicators:       detectAge(lower),
		EthnicityIndicators: matchTerms(lower, ethnicityIndicators),
		ProtectedAttributes: matchTerms(lower, protectedAttributes),
	}

	total := len(f.GenderIndicators) + len(f.AgeIndicators) +
		len(f.EthnicityIndicators) + len(f.ProtectedAttributes)
	switch {
	case total >= 5:
		f.RiskLevel = RiskHigh
	case total >= 2:
		f.RiskLevel = RiskMedium
	default:
		f.RiskLevel = RiskLow
	}

	if len(f.GenderIndicators) > 0 {
		f.Issues = append(f.Issues, "Gender indicators detected")
	}
	if len(f.AgeIndicators) > 0 {
		f.Issues = append(f.Issues, "Age-related information found")
	}
	if len(f.EthnicityIndicators) > 0 {
		f.Issues = append(f.Issues, "Ethnicity/race indicators present")
	}
	if len(f.ProtectedAttributes) > 0 {
		f.Issues = append(f.Issues, "Protected attributes mentioned")
	}
	return f
}

func detectGender(lower string) []string {
	var found []string
	for _, group := range genderIndicators {
		for _, term := range group.terms {
			if wordPresent(lower, term) {
				found = append(found, fmt.Sprintf("%s (%s)", term, group.gender))
			}
		}
	}
	return found
}

func detectAge(lower string) []string {
	var found []string
	for _, pattern := range agePatterns {
		found = append(found, pattern.FindAllString(lower, -1)...)
	}
	return found
}

func matchTerms(lower string, terms []string) []string {
	var found []string
	for _, term := range terms {
		if wordPresent(lower, term) {
			found = append(found, term)
		}
	}
	return found
}

// wordPatterns is built once at init so lookups are read-only and safe
// for concurrent use.
var wordPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	add := func(terms []string) {
		for _, term := range terms {
			patterns[term] = regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
		}
	}
	for _, group := range genderIndicators {
		add(group.terms)
	}
	add(ethnicityIndicators)
	add(protectedAttributes)
	return patterns
}()

func wordPresent(lower, term string) bool {
	return wordPatterns[term].MatchString(lower)
}

func warnings(r Report) []string {
	var out []string
	if r.ResumeBias.RiskLevel != RiskLow {
		out = append(out, fmt.Sprintf("Resume contains potential bias indicators (risk: %s)", r.ResumeBias.RiskLevel))
		for _, issue := range r.ResumeBias.Issues {
			out = append(out, "  - "+issue)
		}
	}
	if r.JobBias != nil && r.JobBias.RiskLevel != RiskLow {
		out = append(out, fmt.Sprintf("Job description contains potential bias indicators (risk: %s)", r.JobBias.RiskLevel))
		for _, issue := range r.JobBias.Issues {
			out = append(out, "  - "+issue)
		}
	}
	return out
}

func recommendations(r Report) []string {
	var out []string
	if len(r.ResumeBias.GenderIndicators) > 0 {
		out = append(out, "Remove or redact gender-specific pronouns and titles")
	}
	if len(r.ResumeBias.AgeIndicators) > 0 {
		out = append(out, "Remove birth years, graduation dates, and age references")
	}
	if len(r.ResumeBias.EthnicityIndicators) > 0 {
		out = append(out, "Remove ethnicity/race indicators unless legally required")
	}
	if len(r.ResumeBias.ProtectedAttributes) > 0 {
		out = append(out, "Remove personal information about marital status, religion, etc.")
	}
	if r.OverallRisk != RiskLow {
		out = append(out,
			"Consider using a blind resume screening process",
			"Focus evaluation on skills, experience, and qualifications only",
			"Use structured interview questions to reduce bias")
	}
	return out
}

var (
	emailPattern   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern   = regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	addressPattern = regexp.MustCompile(`(?i)\b\d+\s+[A-Za-z\s]+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd)\b`)
	yearPattern    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

var pronounReplacements = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\bhe\b`), "they"},
	{regexp.MustCompile(`(?i)\bhis\b`), "their"},
	{regexp.MustCompile(`(?i)\bhim\b`), "them"},
	{regexp.MustCompile(`(?i)\bshe\b`), "they"},
	{regexp.MustCompile(`(?i)\bher\b`), "their"},
	{regexp.MustCompile(`(?i)\bhers\b`), "theirs"},
}

// Anonymize redacts direct identifiers and common bias signals from a
// resume. The first line is assumed to carry the candidate's name.
func Anonymize(resumeText string) string {
	lines := strings.SplitN(resumeText, "\n", 2)
	out := "[NAME REDACTED]"
	if len(lines) == 2 {
		out += "\n" + lines[1]
	}

	out = emailPattern.ReplaceAllString(out, "[EMAIL REDACTED]")
	out = phonePattern.ReplaceAllString(out, "[PHONE REDACTED]")
	out = addressPattern.ReplaceAllString(out, "[ADDRESS REDACTED]")
	for _, pr := range pronounReplacements {
		out = pr.pattern.ReplaceAllString(out, pr.replacement)
	}
	out = yearPattern.ReplaceAllString(out, "[YEAR REDACTED]")
	return out
}
