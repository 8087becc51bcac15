// Package vocab holds the static skill vocabulary used for extraction.
// It groups canonical skill names by category and carries the context
// rules and surface-form variants that keep matching precise.
package vocab

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

//go:embed data/skills.json
var skillsJSON []byte

// Skill is a single canonical vocabulary entry.
type Skill struct {
	Name     string
	Category string
}

// VariantPattern maps an alternate surface form ("node.js", "python3")
// to its canonical skill name.
type VariantPattern struct {
	Pattern   *regexp.Regexp
	Canonical string
}

// Vocabulary is the immutable skill database. Safe for concurrent use
// after Load returns.
type Vocabulary struct {
	byName     map[string]Skill
	skills     []Skill
	categories []string
	blockers   map[string][]string
	variants   []VariantPattern
}

type rawVocabulary struct {
	Categories     map[string][]string `json:"categories"`
	Disambiguation map[string][]string `json:"disambiguation"`
	Variants       []struct {
		Pattern   string `json:"pattern"`
		Canonical string `json:"canonical"`
	} `json:"variants"`
}

// Load parses the embedded vocabulary and compiles its variant patterns.
func Load() (*Vocabulary, error) {
	var raw rawVocabulary
	if err := json.Unmarshal(skillsJSON, &raw); err != nil {
		return nil, fmt.Errorf("parsing skill vocabulary: %w", err)
	}

	v := &Vocabulary{
		byName:   make(map[string]Skill),
		blockers: make(map[string][]string),
	}
	for category, names := range raw.Categories {
		v.categories = append(v.categories, category)
		for _, name := range names {
			v.byName[strings.ToLower(name)] = Skill{Name: name, Category: category}
		}
	}
	sort.Strings(v.categories)

	for _, s := range v.byName {
		v.skills = append(v.skills, s)
	}
	sort.Slice(v.skills, func(i, j int) bool { return v.skills[i].Name < v.skills[j].Name })

	for skill, terms := range raw.Disambiguation {
		v.blockers[strings.ToLower(skill)] = terms
	}

	for _, variant := range raw.Variants {
		re, err := regexp.Compile(variant.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling variant pattern %q: %w", variant.Pattern, err)
		}
		v.variants = append(v.variants, VariantPattern{Pattern: re, Canonical: variant.Canonical})
	}

	return v, nil
}

// Lookup returns the canonical skill for a name, case-insensitively.
func (v *Vocabulary) Lookup(name string) (Skill, bool) {
	s, ok := v.byName[strings.ToLower(name)]
	return s, ok
}

// Skills returns all vocabulary entries sorted by name.
func (v *Vocabulary) Skills() []Skill {
	out := make([]Skill, len(v.skills))
	copy(out, v.skills)
	return out
}

// Categories returns the sorted category names.
func (v *Vocabulary) Categories() []string {
	out := make([]string, len(v.categories))
	copy(out, v.categories)
	return out
}

// Blockers returns the disambiguation terms for a skill, or nil when the
// skill needs no context check. The returned slice must not be modified.
func (v *Vocabulary) Blockers(name string) []string {
	return v.blockers[strings.ToLower(name)]
}

// Variants returns the compiled surface-form patterns. The returned slice
// must not be modified.
func (v *Vocabulary) Variants() []VariantPattern {
	return v.variants
}

// Categorize groups the given skill names by vocabulary category. Names
// absent from the vocabulary land under "other". Empty groups are omitted.
func (v *Vocabulary) Categorize(skills []string) map[string][]string {
	out := make(map[string][]string)
	for _, name := range skills {
		if s, ok := v.Lookup(name); ok {
			out[s.Category] = append(out[s.Category], s.Name)
			continue
		}
		out["other"] = append(out["other"], name)
	}
	return out
}
