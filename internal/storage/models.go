package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// AnalysisRecord is the persisted form of one analysis. Summary columns
// are denormalized for listing; ResultJSON holds the full pipeline
// output as serialized by the caller.
type AnalysisRecord struct {
	ID          string
	CreatedAt   time.Time
	Overall     float64
	Label       string
	Confidence  float64
	MatchRate   float64
	ResumeChars int
	JobChars    int
	ResultJSON  string
}

// Feedback is a reviewer's verdict on a stored analysis.
type Feedback struct {
	ID         string
	AnalysisID string
	Rating     int    // 1..5
	Verdict    string // "agree", "disagree", "unsure"
	Comment    string
	CreatedAt  time.Time
}

// FeedbackStats aggregates feedback across analyses, used to gauge how
// well scores track human judgment.
type FeedbackStats struct {
	Count         int
	AverageRating float64
	Verdicts      map[string]int
}
