package analyzer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/resumatch/resumatch/internal/embedding"
)

func TestAnalyzeBatchRanksByScore(t *testing.T) {
	a := newTestAnalyzer(t, &stubMatcher{}, &stubScorer{similarity: 0.8})

	weak := `John Roe
Junior developer, 1 year of experience with HTML.`

	got, err := a.AnalyzeBatch(context.Background(), []NamedText{
		{Name: "weak.txt", Text: weak},
		{Name: "strong.txt", Text: testResume},
		{Name: "empty.txt", Text: ""},
	}, testJob, Request{})
	if err != nil {
		t.Fatalf("AnalyzeBatch: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d results, want 3", len(got))
	}

	if got[0].Name != "strong.txt" || got[0].Rank != 1 {
		t.Errorf("best = %s rank %d, want strong.txt rank 1", got[0].Name, got[0].Rank)
	}
	if got[1].Name != "weak.txt" || got[1].Rank != 2 {
		t.Errorf("second = %s rank %d, want weak.txt rank 2", got[1].Name, got[1].Rank)
	}
	if got[0].Analysis.Breakdown.Overall <= got[1].Analysis.Breakdown.Overall {
		t.Errorf("ordering violated: %v then %v",
			got[0].Analysis.Breakdown.Overall, got[1].Analysis.Breakdown.Overall)
	}

	last := got[2]
	if last.Name != "empty.txt" || last.Err == "" || last.Rank != 0 {
		t.Errorf("failed entry should sort last unranked, got %+v", last)
	}
}

func TestAnalyzeBatchAbortsWhenBackendDown(t *testing.T) {
	down := &stubScorer{err: fmt.Errorf("%w: connection refused", embedding.ErrUnavailable)}
	a := newTestAnalyzer(t, &stubMatcher{}, down)

	got, err := a.AnalyzeBatch(context.Background(), []NamedText{
		{Name: "a.txt", Text: testResume},
		{Name: "b.txt", Text: testResume},
	}, testJob, Request{})
	if got != nil {
		t.Error("no partial batch should be returned when the backend is down")
	}
	if !errors.Is(err, embedding.ErrUnavailable) {
		t.Fatalf("err = %v, want embedding.ErrUnavailable", err)
	}
}

func TestAnalyzeBatchCanceledContext(t *testing.T) {
	a := newTestAnalyzer(t, &stubMatcher{}, &stubScorer{similarity: 0.8})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.AnalyzeBatch(ctx, []NamedText{{Name: "r", Text: testResume}}, testJob, Request{}); err == nil {
		t.Error("canceled context should error")
	}
}
