package analyzer

import (
	"context"
	"errors"
	"sort"

	"github.com/resumatch/resumatch/internal/embedding"
)

// NamedText is one resume in a batch, tagged with a display name.
type NamedText struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// RankedAnalysis is one batch entry with its position after sorting by
// overall score. Err is set when that resume failed to analyze; the rest
// of the batch is unaffected.
type RankedAnalysis struct {
	Name     string    `json:"name"`
	Rank     int       `json:"rank,omitempty"`
	Analysis *Analysis `json:"analysis,omitempty"`
	Err      string    `json:"error,omitempty"`
}

// AnalyzeBatch scores every resume against the same job posting and
// returns them ordered best first. Failed entries sort last, in input
// order, with Rank left zero. An unavailable embedding backend aborts
// the batch, since no remaining entry could succeed.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, resumes []NamedText, jobText string, opts Request) ([]RankedAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]RankedAnalysis, 0, len(resumes))
	for _, resume := range resumes {
		req := Request{
			ResumeText: resume.Text,
			JobText:    jobText,
			Enhanced:   opts.Enhanced,
			BiasScan:   opts.BiasScan,
		}
		analysis, err := a.Analyze(ctx, req)
		if errors.Is(err, embedding.ErrUnavailable) {
			return nil, err
		}
		if err != nil {
			a.logger.Warn("batch entry failed", "name", resume.Name, "error", err)
			results = append(results, RankedAnalysis{Name: resume.Name, Err: err.Error()})
			continue
		}
		results = append(results, RankedAnalysis{Name: resume.Name, Analysis: analysis})
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Analysis, results[j].Analysis
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Breakdown.Overall > b.Breakdown.Overall
	})
	rank := 0
	for i := range results {
		if results[i].Analysis != nil {
			rank++
			results[i].Rank = rank
		}
	}
	return results, nil
}
