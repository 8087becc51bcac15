package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultKeywordCount bounds the keyword list used for scoring.
const DefaultKeywordCount = 20

var yearsPattern = regexp.MustCompile(`(\d+)\+?\s*years?\s+(?:of\s+)?experience`)

// RequiredYears extracts the first stated years-of-experience requirement,
// or 0 when the text names none.
func RequiredYears(text string) int {
	m := yearsPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0
	}
	years, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return years
}

// Education level names, lowest to highest. Shared with the scoring ladder.
const (
	EducationHighSchool = "high-school"
	EducationAssociate  = "associate"
	EducationBachelor   = "bachelor"
	EducationMaster     = "master"
	EducationPhD        = "phd"
)

var educationPatterns = []struct {
	level   string
	pattern *regexp.Regexp
}{
	{EducationPhD, regexp.MustCompile(`\b(ph\.?d|doctorate|doctoral)\b`)},
	{EducationMaster, regexp.MustCompile(`\b(master('?s)?|m\.?sc|mba)\b`)},
	{EducationBachelor, regexp.MustCompile(`\b(bachelor('?s)?|b\.?sc)\b`)},
	{EducationAssociate, regexp.MustCompile(`\bassociate('?s)?\s+degree\b`)},
	{EducationHighSchool, regexp.MustCompile(`\bhigh\s+school\b`)},
}

var bareDegreePattern = regexp.MustCompile(`\bdegree\b`)

// EducationLevel returns the highest education level the text mentions, or
// "" when none is found. A bare "degree" mention counts as bachelor.
func EducationLevel(text string) string {
	lower := strings.ToLower(text)
	for _, p := range educationPatterns {
		if p.pattern.MatchString(lower) {
			return p.level
		}
	}
	if bareDegreePattern.MatchString(lower) {
		return EducationBachelor
	}
	return ""
}

var keywordPattern = regexp.MustCompile(`\b[a-z]{3,}\b`)

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "but": {}, "for": {}, "with": {},
	"are": {}, "was": {}, "were": {}, "been": {},
}

// Keywords returns the n most frequent lowercase words of three or more
// letters, excluding stopwords. Ties break on first occurrence.
func Keywords(text string, n int) []string {
	if n <= 0 {
		n = DefaultKeywordCount
	}
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, word := range keywordPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := stopwords[word]; stop {
			continue
		}
		counts[word]++
		if _, seen := firstSeen[word]; !seen {
			firstSeen[word] = i
		}
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return firstSeen[words[i]] < firstSeen[words[j]]
	})

	if len(words) > n {
		words = words[:n]
	}
	return words
}
