package storage

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(id string, overall float64, createdAt time.Time) AnalysisRecord {
	return AnalysisRecord{
		ID:          id,
		CreatedAt:   createdAt,
		Overall:     overall,
		Label:       "Strong Match",
		Confidence:  0.8,
		MatchRate:   0.75,
		ResumeChars: 2400,
		JobChars:    900,
		ResultJSON:  `{"id":"` + id + `"}`,
	}
}

// TestMigrationsIdempotent runs Open twice on the same database and verifies
// the schema_version count stays correct (migration not re-applied).
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	v1, err := s1.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	v2, err := s2.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(v1) != len(v2) {
		t.Errorf("migration count changed: %d -> %d", len(v1), len(v2))
	}
}

// TestMigrationsOrdered verifies migrations are applied in ascending numeric order.
func TestMigrationsOrdered(t *testing.T) {
	s := openTestStore(t)

	versions, err := s.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(versions) == 0 {
		t.Fatal("expected at least one applied migration")
	}

	for i := 1; i < len(versions); i++ {
		if versions[i] <= versions[i-1] {
			t.Errorf("migrations not in ascending order: %v", versions)
			break
		}
	}
}

// TestIndexesExist verifies that the migration creates the listing indexes.
func TestIndexesExist(t *testing.T) {
	s := openTestStore(t)

	indexes := []string{"idx_analyses_created", "idx_analyses_overall", "idx_feedback_analysis"}
	for _, idx := range indexes {
		var count int
		err := s.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&count)
		if err != nil {
			t.Fatalf("querying sqlite_master for %q: %v", idx, err)
		}
		if count != 1 {
			t.Errorf("index %q not found in sqlite_master", idx)
		}
	}
}

// TestSaveAndGetAnalysis saves a record and retrieves it by ID.
func TestSaveAndGetAnalysis(t *testing.T) {
	s := openTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	want := sampleRecord("an-001", 82.5, now)

	if err := s.SaveAnalysis(want); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}

	got, err := s.GetAnalysis("an-001")
	if err != nil {
		t.Fatalf("GetAnalysis: %v", err)
	}

	if got.ID != want.ID {
		t.Errorf("ID = %q, want %q", got.ID, want.ID)
	}
	if got.Overall != want.Overall {
		t.Errorf("Overall = %v, want %v", got.Overall, want.Overall)
	}
	if got.Label != want.Label {
		t.Errorf("Label = %q, want %q", got.Label, want.Label)
	}
	if got.Confidence != want.Confidence {
		t.Errorf("Confidence = %v, want %v", got.Confidence, want.Confidence)
	}
	if got.MatchRate != want.MatchRate {
		t.Errorf("MatchRate = %v, want %v", got.MatchRate, want.MatchRate)
	}
	if got.ResumeChars != want.ResumeChars || got.JobChars != want.JobChars {
		t.Errorf("chars = %d/%d, want %d/%d", got.ResumeChars, got.JobChars, want.ResumeChars, want.JobChars)
	}
	if got.ResultJSON != want.ResultJSON {
		t.Errorf("ResultJSON = %q, want %q", got.ResultJSON, want.ResultJSON)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
}

// TestGetAnalysisNotFound verifies that retrieving a non-existent ID returns ErrNotFound.
func TestGetAnalysisNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetAnalysis("does-not-exist")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// TestListAnalyses saves 10 records and verifies limit and descending order.
func TestListAnalyses(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for j := 0; j < 10; j++ {
		rec := sampleRecord(fmt.Sprintf("an-%02d", j), float64(50+j), base.Add(time.Duration(j)*time.Hour))
		if err := s.SaveAnalysis(rec); err != nil {
			t.Fatalf("SaveAnalysis %d: %v", j, err)
		}
	}

	got, err := s.ListAnalyses(5)
	if err != nil {
		t.Fatalf("ListAnalyses: %v", err)
	}

	if len(got) != 5 {
		t.Fatalf("got %d analyses, want 5", len(got))
	}

	// Verify descending order by created_at.
	for k := 1; k < len(got); k++ {
		if got[k].CreatedAt.After(got[k-1].CreatedAt) {
			t.Errorf("not in descending order: [%d]=%v > [%d]=%v", k, got[k].CreatedAt, k-1, got[k-1].CreatedAt)
		}
	}

	// The most recent should be an-09, and listings omit the payload.
	if got[0].ID != "an-09" {
		t.Errorf("first result ID = %q, want %q", got[0].ID, "an-09")
	}
	if got[0].ResultJSON != "" {
		t.Errorf("listing should omit result_json, got %q", got[0].ResultJSON)
	}
}

// TestSaveFeedbackRoundTrip saves feedback and lists it back.
func TestSaveFeedbackRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveAnalysis(sampleRecord("an-fb", 70, time.Now().UTC())); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}

	want := Feedback{
		ID:         "fb-001",
		AnalysisID: "an-fb",
		Rating:     4,
		Verdict:    "agree",
		Comment:    "score matched my read of the candidate",
	}
	if err := s.SaveFeedback(want); err != nil {
		t.Fatalf("SaveFeedback: %v", err)
	}

	got, err := s.ListFeedback("an-fb")
	if err != nil {
		t.Fatalf("ListFeedback: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d feedback rows, want 1", len(got))
	}
	if got[0].Rating != 4 || got[0].Verdict != "agree" || got[0].Comment != want.Comment {
		t.Errorf("round-trip mismatch: %+v", got[0])
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should default to now when zero")
	}
}

// TestSaveFeedbackValidation rejects out-of-range ratings and unknown analyses.
func TestSaveFeedbackValidation(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveFeedback(Feedback{ID: "fb-bad", AnalysisID: "an-x", Rating: 6}); err == nil {
		t.Error("rating 6 should be rejected")
	}
	if err := s.SaveFeedback(Feedback{ID: "fb-orphan", AnalysisID: "missing", Rating: 3}); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound for unknown analysis", err)
	}
}

// TestFeedbackStats aggregates counts, averages, and verdict tallies.
func TestFeedbackStats(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveAnalysis(sampleRecord("an-stats", 70, time.Now().UTC())); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}
	ratings := []struct {
		rating  int
		verdict string
	}{
		{5, "agree"},
		{4, "agree"},
		{2, "disagree"},
	}
	for i, r := range ratings {
		fb := Feedback{
			ID:         fmt.Sprintf("fb-%d", i),
			AnalysisID: "an-stats",
			Rating:     r.rating,
			Verdict:    r.verdict,
		}
		if err := s.SaveFeedback(fb); err != nil {
			t.Fatalf("SaveFeedback %d: %v", i, err)
		}
	}

	stats, err := s.FeedbackStats()
	if err != nil {
		t.Fatalf("FeedbackStats: %v", err)
	}
	if stats.Count != 3 {
		t.Errorf("Count = %d, want 3", stats.Count)
	}
	if stats.AverageRating < 3.66 || stats.AverageRating > 3.67 {
		t.Errorf("AverageRating = %v, want ~3.667", stats.AverageRating)
	}
	if stats.Verdicts["agree"] != 2 || stats.Verdicts["disagree"] != 1 {
		t.Errorf("Verdicts = %v", stats.Verdicts)
	}
}

// TestFeedbackStatsEmpty works on a database with no feedback yet.
func TestFeedbackStatsEmpty(t *testing.T) {
	s := openTestStore(t)

	stats, err := s.FeedbackStats()
	if err != nil {
		t.Fatalf("FeedbackStats: %v", err)
	}
	if stats.Count != 0 || stats.AverageRating != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
}
