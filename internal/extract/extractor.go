// Package extract identifies skills and job requirements in raw text.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/resumatch/resumatch/internal/vocab"
)

// contextWindow is how many characters around an occurrence are inspected
// for disambiguation terms.
const contextWindow = 15

// EntityTagger supplies candidate skill names from an external tagger.
// Results are matched against the vocabulary; unknown names are ignored.
type EntityTagger interface {
	Tag(text string) []string
}

type skillMatcher struct {
	skill    vocab.Skill
	pattern  *regexp.Regexp
	blockers []string
}

// Extractor scans text for vocabulary skills. Patterns are compiled once
// at construction; an Extractor is safe for concurrent use.
type Extractor struct {
	vocab    *vocab.Vocabulary
	matchers []skillMatcher
	tagger   EntityTagger
}

// New builds an extractor over the given vocabulary. tagger may be nil.
func New(v *vocab.Vocabulary, tagger EntityTagger) (*Extractor, error) {
	e := &Extractor{vocab: v, tagger: tagger}
	for _, s := range v.Skills() {
		re, err := compileSkillPattern(s.Name)
		if err != nil {
			return nil, err
		}
		e.matchers = append(e.matchers, skillMatcher{
			skill:    s,
			pattern:  re,
			blockers: v.Blockers(s.Name),
		})
	}
	return e, nil
}

// compileSkillPattern builds a case-folded pattern for a skill name.
// Word-boundary anchors are only usable next to word characters, so names
// like "C++" or ".NET" get them on one side only.
func compileSkillPattern(name string) (*regexp.Regexp, error) {
	lower := strings.ToLower(name)
	pattern := regexp.QuoteMeta(lower)
	if isWordChar(lower[0]) {
		pattern = `\b` + pattern
	}
	if isWordChar(lower[len(lower)-1]) {
		pattern += `\b`
	}
	return regexp.Compile(pattern)
}

func isWordChar(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

// ExtractSkills returns the canonical names of all vocabulary skills found
// in text, sorted and deduplicated. A skill with disambiguation terms is
// reported only when at least one occurrence has none of its terms within
// the surrounding context window.
func (e *Extractor) ExtractSkills(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lower := strings.ToLower(text)
	found := make(map[string]struct{})

	for _, m := range e.matchers {
		if e.hasCleanOccurrence(lower, m.pattern, m.blockers) {
			found[m.skill.Name] = struct{}{}
		}
	}

	for _, variant := range e.vocab.Variants() {
		if e.hasCleanOccurrence(lower, variant.Pattern, e.vocab.Blockers(variant.Canonical)) {
			if s, ok := e.vocab.Lookup(variant.Canonical); ok {
				found[s.Name] = struct{}{}
			}
		}
	}

	if e.tagger != nil {
		for _, name := range e.tagger.Tag(text) {
			if s, ok := e.vocab.Lookup(name); ok {
				found[s.Name] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(found))
	for name := range found {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (e *Extractor) hasCleanOccurrence(lower string, pattern *regexp.Regexp, blockers []string) bool {
	locs := pattern.FindAllStringIndex(lower, -1)
	if len(locs) == 0 {
		return false
	}
	if len(blockers) == 0 {
		return true
	}
	for _, loc := range locs {
		start := max(0, loc[0]-contextWindow)
		end := min(len(lower), loc[1]+contextWindow)
		if !containsAny(lower[start:end], blockers) {
			return true
		}
	}
	return false
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
