// Package match pairs required job skills with a candidate's skills using
// embedding similarity.
package match

import (
	"context"
	"fmt"
	"strings"

	"github.com/resumatch/resumatch/internal/embedding"
)

// DefaultThreshold is the minimum similarity for a semantic skill match.
const DefaultThreshold = 0.7

// SkillMatch pairs a required skill with the candidate skill that
// satisfied it.
type SkillMatch struct {
	Required   string  `json:"required"`
	Matched    string  `json:"matched"`
	Similarity float64 `json:"similarity"`
}

// Result is the outcome of matching one skill list against another.
// Missing preserves the order of the required list.
type Result struct {
	Matches   []SkillMatch `json:"matches"`
	Missing   []string     `json:"missing"`
	MatchRate float64      `json:"match_rate"`
}

// Matcher scores required-vs-possessed skill pairs.
type Matcher struct {
	provider  embedding.Provider
	threshold float64
}

// New creates a Matcher. A non-positive threshold selects the default.
func New(provider embedding.Provider, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{provider: provider, threshold: threshold}
}

// MatchSkills matches each required skill to its most similar possessed
// skill. Identical names match at similarity 1.0 without touching the
// provider; only the remainder is embedded, in a single batch.
func (m *Matcher) MatchSkills(ctx context.Context, required, possessed []string) (Result, error) {
	if len(required) == 0 {
		return Result{MatchRate: 1.0}, nil
	}

	result := Exact(required, possessed)
	if len(result.Missing) == 0 || len(possessed) == 0 {
		return result, nil
	}

	remaining := result.Missing
	texts := make([]string, 0, len(possessed)+len(remaining))
	texts = append(texts, possessed...)
	texts = append(texts, remaining...)

	vecs, err := m.provider.EmbedBatch(ctx, texts)
	if err != nil {
		return Result{}, fmt.Errorf("embedding skills: %w", err)
	}
	possessedVecs := vecs[:len(possessed)]
	remainingVecs := vecs[len(possessed):]

	result.Missing = nil
	for i, req := range remaining {
		best, bestSim := "", 0.0
		for j, have := range possessed {
			if sim := embedding.Cosine(remainingVecs[i], possessedVecs[j]); sim > bestSim {
				best, bestSim = have, sim
			}
		}
		if bestSim >= m.threshold {
			result.Matches = append(result.Matches, SkillMatch{Required: req, Matched: best, Similarity: bestSim})
		} else {
			result.Missing = append(result.Missing, req)
		}
	}

	result.MatchRate = float64(len(result.Matches)) / float64(len(required))
	return result, nil
}

// Exact matches skills by case-insensitive name equality only. Used as
// the first pass of MatchSkills before anything is embedded.
func Exact(required, possessed []string) Result {
	if len(required) == 0 {
		return Result{MatchRate: 1.0}
	}

	have := make(map[string]string, len(possessed))
	for _, s := range possessed {
		have[strings.ToLower(s)] = s
	}

	var result Result
	for _, req := range required {
		if matched, ok := have[strings.ToLower(req)]; ok {
			result.Matches = append(result.Matches, SkillMatch{Required: req, Matched: matched, Similarity: 1.0})
		} else {
			result.Missing = append(result.Missing, req)
		}
	}
	result.MatchRate = float64(len(result.Matches)) / float64(len(required))
	return result
}
