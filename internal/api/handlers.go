// Package api exposes the analysis pipeline over HTTP and MCP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/resumatch/resumatch/internal/analyzer"
	"github.com/resumatch/resumatch/internal/storage"
	"github.com/resumatch/resumatch/internal/vocab"
)

const maxRequestBodySize = 1 << 20 // 1MB
const maxBatchBodySize = 10 << 20  // 10MB

// ResumeAnalyzer abstracts the pipeline for the API layer.
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, req analyzer.Request) (*analyzer.Analysis, error)
	AnalyzeBatch(ctx context.Context, resumes []analyzer.NamedText, jobText string, opts analyzer.Request) ([]analyzer.RankedAnalysis, error)
}

type Deps struct {
	Analyzer ResumeAnalyzer
	Store    *storage.Store
	Vocab    *vocab.Vocabulary
	Token    string
}

// NewHandler returns the REST API. Everything under /v1 requires the
// bearer token; /health does not.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))
		r.Post("/analyze", handleAnalyze(deps))
		r.Post("/analyze/batch", handleAnalyzeBatch(deps))
		r.Get("/analyses", handleListAnalyses(deps))
		r.Get("/analyses/{id}", handleGetAnalysis(deps))
		r.Post("/analyses/{id}/feedback", handleFeedback(deps))
		r.Get("/feedback/stats", handleFeedbackStats(deps))
		r.Get("/skills", handleSkills(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleAnalyze(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req analyzer.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.ResumeText == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "resume_text is required")
			return
		}
		if req.JobText == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "job_text is required")
			return
		}

		analysis, err := deps.Analyzer.Analyze(r.Context(), req)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "analysis failed: %v", err)
			return
		}

		saveAnalysis(deps.Store, analysis, len(req.ResumeText), len(req.JobText))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(analysis)
	}
}

type batchRequest struct {
	JobText  string              `json:"job_text"`
	Resumes  []analyzer.NamedText `json:"resumes"`
	Enhanced bool                `json:"enhanced,omitempty"`
	BiasScan bool                `json:"bias_scan,omitempty"`
}

func handleAnalyzeBatch(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBatchBodySize)
		defer r.Body.Close()

		var req batchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.JobText == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "job_text is required")
			return
		}
		if len(req.Resumes) == 0 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "resumes must not be empty")
			return
		}

		results, err := deps.Analyzer.AnalyzeBatch(r.Context(), req.Resumes, req.JobText, analyzer.Request{
			Enhanced: req.Enhanced,
			BiasScan: req.BiasScan,
		})
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "batch analysis failed: %v", err)
			return
		}

		for _, entry := range results {
			if entry.Analysis != nil {
				saveAnalysis(deps.Store, entry.Analysis, 0, len(req.JobText))
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"results": results})
	}
}

// saveAnalysis persists a completed analysis. Persistence failures are
// logged but never fail the request; the caller already has the result.
func saveAnalysis(store *storage.Store, a *analyzer.Analysis, resumeChars, jobChars int) {
	if store == nil {
		return
	}
	payload, err := json.Marshal(a)
	if err != nil {
		slog.Warn("marshaling analysis for storage", "id", a.ID, "error", err)
		return
	}
	rec := storage.AnalysisRecord{
		ID:          a.ID,
		CreatedAt:   a.CreatedAt,
		Overall:     a.Breakdown.Overall,
		Label:       a.Classification.Label,
		Confidence:  a.Breakdown.Confidence,
		MatchRate:   a.Match.MatchRate,
		ResumeChars: resumeChars,
		JobChars:    jobChars,
		ResultJSON:  string(payload),
	}
	if err := store.SaveAnalysis(rec); err != nil {
		slog.Warn("saving analysis", "id", a.ID, "error", err)
	}
}

type analysisSummary struct {
	ID         string  `json:"id"`
	CreatedAt  string  `json:"created_at"`
	Overall    float64 `json:"overall_score"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	MatchRate  float64 `json:"match_rate"`
}

func handleListAnalyses(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 20, 100)

		records, err := deps.Store.ListAnalyses(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list analyses: %v", err)
			return
		}

		summaries := make([]analysisSummary, len(records))
		for i, rec := range records {
			summaries[i] = analysisSummary{
				ID:         rec.ID,
				CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
				Overall:    rec.Overall,
				Label:      rec.Label,
				Confidence: rec.Confidence,
				MatchRate:  rec.MatchRate,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summaries)
	}
}

func handleGetAnalysis(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		rec, err := deps.Store.GetAnalysis(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "analysis not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get analysis: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(rec.ResultJSON))
	}
}

type feedbackRequest struct {
	Rating  int    `json:"rating"`
	Verdict string `json:"verdict"`
	Comment string `json:"comment"`
}

func handleFeedback(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		id := chi.URLParam(r, "id")

		var req feedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Rating < 1 || req.Rating > 5 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "rating must be between 1 and 5")
			return
		}

		fb := storage.Feedback{
			ID:         uuid.New().String(),
			AnalysisID: id,
			Rating:     req.Rating,
			Verdict:    req.Verdict,
			Comment:    req.Comment,
		}
		err := deps.Store.SaveFeedback(fb)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "analysis not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save feedback: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": fb.ID, "status": "recorded"})
	}
}

func handleFeedbackStats(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := deps.Store.FeedbackStats()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to compute stats: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count":          stats.Count,
			"average_rating": stats.AverageRating,
			"verdicts":       stats.Verdicts,
		})
	}
}

func handleSkills(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names := skillNames(deps.Vocab)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count":      len(names),
			"skills":     names,
			"categories": deps.Vocab.Categorize(names),
		})
	}
}

func skillNames(v *vocab.Vocabulary) []string {
	skills := v.Skills()
	names := make([]string, len(skills))
	for i, s := range skills {
		names[i] = s.Name
	}
	return names
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
