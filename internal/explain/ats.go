package explain

import (
	"fmt"
	"regexp"
	"strings"
)

// ATSCompatibility reports how well a resume is likely to survive an
// applicant tracking system's automated parsing.
type ATSCompatibility struct {
	OverallScore        float64  `json:"overall_score"`
	Friendly            bool     `json:"is_ats_friendly"`
	Issues              []string `json:"issues"`
	Recommendations     []string `json:"recommendations"`
	FormattingScore     float64  `json:"formatting_score"`
	KeywordOptimization float64  `json:"keyword_optimization"`
}

var phonePattern = regexp.MustCompile(`\d{3}[-.]?\d{3}[-.]?\d{4}`)

// atsSpecialChars commonly break ATS text extraction.
var atsSpecialChars = []string{"§", "©", "®", "™", "•"}

// CheckATS runs format heuristics over the raw resume text and measures
// how many of the job's skills appear verbatim. Purely lexical.
func CheckATS(resumeText string, jobSkills []string) ATSCompatibility {
	var issues, recommendations []string
	formatting := 100.0
	lower := strings.ToLower(resumeText)

	if resumeText == "" {
		issues = append(issues, "Unable to parse resume text")
		formatting -= 50
	}

	if strings.Contains(resumeText, "|") || strings.Contains(resumeText, "\t\t") {
		issues = append(issues, "Resume may contain tables - ATS systems often have trouble parsing these")
		recommendations = append(recommendations, "Convert tables to simple bullet points or lists")
		formatting -= 15
	}

	if len(resumeText) < 100 {
		issues = append(issues, "Very little text detected - resume may be image-based or heavily formatted")
		recommendations = append(recommendations, "Ensure resume is text-based, not image-based (no scanned documents)")
		formatting -= 30
	}

	var missingSections []string
	for _, section := range []struct{ key, label string }{
		{"experience", "Experience"},
		{"education", "Education"},
		{"skills", "Skills"},
	} {
		if !strings.Contains(lower, section.key) {
			missingSections = append(missingSections, section.label)
		}
	}
	if len(missingSections) > 0 {
		issues = append(issues, "Standard sections may be missing or not clearly labeled: "+strings.Join(missingSections, ", "))
		recommendations = append(recommendations, "Add clear section headers: "+strings.Join(missingSections, ", "))
		formatting -= float64(len(missingSections)) * 10
	}

	lines := strings.Split(resumeText, "\n")
	if len(lines) > 5 {
		first := strings.TrimSpace(lines[0])
		last := strings.TrimSpace(lines[len(lines)-1])
		if first != "" && first == last {
			issues = append(issues, "Possible header/footer detected - may confuse ATS")
			recommendations = append(recommendations, "Remove headers and footers, or use simple text only")
			formatting -= 10
		}
	}

	var foundSpecial []string
	for _, ch := range atsSpecialChars {
		if strings.Contains(resumeText, ch) {
			foundSpecial = append(foundSpecial, ch)
		}
	}
	if len(foundSpecial) > 0 {
		issues = append(issues, "Special characters found: "+strings.Join(foundSpecial, ", ")+" - may not parse correctly")
		recommendations = append(recommendations, "Replace special characters with standard text (e.g., (C) instead of ©)")
		formatting -= 5
	}

	keywordOptimization := 50.0
	if len(jobSkills) > 0 {
		found := 0
		for _, skill := range jobSkills {
			if strings.Contains(lower, strings.ToLower(skill)) {
				found++
			}
		}
		keywordOptimization = float64(found) / float64(len(jobSkills)) * 100
		if keywordOptimization < 50 {
			issues = append(issues, fmt.Sprintf("Only %d/%d key skills mentioned explicitly", found, len(jobSkills)))
			recommendations = append(recommendations, "Add more keywords from the job description to improve ATS matching")
		}
	}

	if !strings.Contains(resumeText, "@") || !strings.Contains(resumeText, ".") {
		issues = append(issues, "Email address not clearly visible")
		recommendations = append(recommendations, "Ensure email address is clearly stated at the top")
		formatting -= 10
	}
	if !phonePattern.MatchString(resumeText) {
		issues = append(issues, "Phone number not clearly visible")
		recommendations = append(recommendations, "Include phone number in a standard format")
		formatting -= 5
	}

	overall := (formatting + keywordOptimization) / 2
	if len(issues) == 0 {
		recommendations = append(recommendations, "Resume appears to be ATS-friendly")
	}

	return ATSCompatibility{
		OverallScore:        max(0, overall),
		Friendly:            overall >= 70 && len(issues) <= 3,
		Issues:              issues,
		Recommendations:     recommendations,
		FormattingScore:     max(0, formatting),
		KeywordOptimization: keywordOptimization,
	}
}
