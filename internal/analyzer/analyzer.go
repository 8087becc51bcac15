// Package analyzer orchestrates the full resume-vs-job pipeline: skill
// extraction, semantic matching, composite scoring, classification and
// explanation.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/resumatch/resumatch/internal/bias"
	"github.com/resumatch/resumatch/internal/explain"
	"github.com/resumatch/resumatch/internal/extract"
	"github.com/resumatch/resumatch/internal/match"
	"github.com/resumatch/resumatch/internal/scoring"
)

// SkillMatcher pairs required skills with possessed skills.
type SkillMatcher interface {
	MatchSkills(ctx context.Context, required, possessed []string) (match.Result, error)
}

// DocumentScorer measures whole-document similarity.
type DocumentScorer interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Request is one analysis job. Candidate fields are optional and are
// derived from the resume text when zero-valued.
type Request struct {
	ResumeText         string `json:"resume_text"`
	JobText            string `json:"job_text"`
	CandidateYears     int    `json:"candidate_years,omitempty"`
	CandidateEducation string `json:"candidate_education,omitempty"`
	Enhanced           bool   `json:"enhanced,omitempty"`
	BiasScan           bool   `json:"bias_scan,omitempty"`
}

// Analysis is the complete pipeline output for one resume/job pair.
type Analysis struct {
	ID                 string                       `json:"id"`
	CreatedAt          time.Time                    `json:"created_at"`
	ResumeSkills       []string                     `json:"resume_skills"`
	JobSkills          []string                     `json:"job_skills"`
	CandidateYears     int                          `json:"candidate_years"`
	RequiredYears      int                          `json:"required_years"`
	CandidateEducation string                       `json:"candidate_education"`
	RequiredEducation  string                       `json:"required_education"`
	JobKeywords        []string                     `json:"job_keywords"`
	Match              match.Result                 `json:"match"`
	Breakdown          scoring.Breakdown            `json:"breakdown"`
	Classification     scoring.Classification       `json:"classification"`
	Explanation        explain.Explanation          `json:"explanation"`
	Enhanced           *explain.EnhancedExplanation `json:"enhanced,omitempty"`
	Bias               *bias.Report                 `json:"bias,omitempty"`
}

// Analyzer wires the pipeline components together.
type Analyzer struct {
	extractor *extract.Extractor
	matcher   SkillMatcher
	docs      DocumentScorer
	engine    *scoring.Engine
	explainer *explain.Explainer
	enhanced  *explain.Enhanced
	logger    *slog.Logger
}

// New creates an Analyzer. All components are required except logger,
// which defaults to slog.Default().
func New(
	extractor *extract.Extractor,
	matcher SkillMatcher,
	docs DocumentScorer,
	engine *scoring.Engine,
	explainer *explain.Explainer,
	enhanced *explain.Enhanced,
	logger *slog.Logger,
) (*Analyzer, error) {
	if extractor == nil || matcher == nil || docs == nil || engine == nil || explainer == nil || enhanced == nil {
		return nil, errors.New("analyzer: all pipeline components are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		extractor: extractor,
		matcher:   matcher,
		docs:      docs,
		engine:    engine,
		explainer: explainer,
		enhanced:  enhanced,
		logger:    logger,
	}, nil
}

// Analyze runs the full pipeline. A collaborator failure aborts the
// whole analysis; embedding.ErrUnavailable stays detectable through the
// returned error so callers can tell a down backend from bad input.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	if req.ResumeText == "" {
		return nil, errors.New("resume text is empty")
	}
	if req.JobText == "" {
		return nil, errors.New("job text is empty")
	}

	analysis := &Analysis{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	analysis.ResumeSkills = a.extractor.ExtractSkills(req.ResumeText)
	analysis.JobSkills = a.extractor.ExtractSkills(req.JobText)

	analysis.RequiredYears = extract.RequiredYears(req.JobText)
	analysis.CandidateYears = req.CandidateYears
	if analysis.CandidateYears == 0 {
		analysis.CandidateYears = extract.RequiredYears(req.ResumeText)
	}
	analysis.RequiredEducation = extract.EducationLevel(req.JobText)
	analysis.CandidateEducation = req.CandidateEducation
	if analysis.CandidateEducation == "" {
		analysis.CandidateEducation = extract.EducationLevel(req.ResumeText)
	}
	analysis.JobKeywords = extract.Keywords(req.JobText, extract.DefaultKeywordCount)

	semantic, err := a.docs.Similarity(ctx, req.ResumeText, req.JobText)
	if err != nil {
		return nil, fmt.Errorf("computing document similarity: %w", err)
	}

	analysis.Match, err = a.matcher.MatchSkills(ctx, analysis.JobSkills, analysis.ResumeSkills)
	if err != nil {
		return nil, fmt.Errorf("matching skills: %w", err)
	}

	matched := make([]string, 0, len(analysis.Match.Matches))
	for _, m := range analysis.Match.Matches {
		matched = append(matched, m.Required)
	}

	analysis.Breakdown = a.engine.Score(scoring.Signals{
		SemanticSimilarity: semantic,
		SkillMatchRate:     analysis.Match.MatchRate,
		MatchedSkills:      matched,
		MissingSkills:      analysis.Match.Missing,
		CandidateYears:     analysis.CandidateYears,
		RequiredYears:      analysis.RequiredYears,
		CandidateEducation: analysis.CandidateEducation,
		RequiredEducation:  analysis.RequiredEducation,
		ResumeText:         req.ResumeText,
		JobKeywords:        analysis.JobKeywords,
	})

	analysis.Classification = scoring.NewClassification(analysis.Breakdown.Overall, analysis.Breakdown.Confidence)
	analysis.Explanation = a.explainer.Explain(analysis.Breakdown)

	if req.Enhanced {
		enhanced := a.enhanced.Explain(analysis.Breakdown, req.ResumeText, analysis.JobSkills)
		analysis.Enhanced = &enhanced
	}
	if req.BiasScan {
		report := bias.Detect(req.ResumeText, req.JobText)
		analysis.Bias = &report
	}

	a.logger.Info("analysis complete",
		"id", analysis.ID,
		"overall", analysis.Breakdown.Overall,
		"label", analysis.Classification.Label,
		"match_rate", analysis.Match.MatchRate,
	)
	return analysis, nil
}
