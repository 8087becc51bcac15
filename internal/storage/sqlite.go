// Package storage persists analyses and reviewer feedback in SQLite.
package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database with methods for analyses and feedback.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending migrations.
// Pass ":memory:" as dataDir for an in-memory database (used by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "resumatch.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access waits briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads embedded SQL migration files and applies any that haven't been run yet.
func (s *Store) migrate() error {
	// Ensure schema_version table exists (bootstrap).
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort by filename to guarantee ascending order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		// Check if already applied.
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the list of applied migration versions in ascending order.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// --- Analyses ---

func (s *Store) SaveAnalysis(a AnalysisRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO analyses (id, created_at, overall, label, confidence, match_rate, resume_chars, job_chars, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.CreatedAt.UTC().Format(time.RFC3339), a.Overall, a.Label, a.Confidence,
		a.MatchRate, a.ResumeChars, a.JobChars, a.ResultJSON,
	)
	return err
}

func (s *Store) GetAnalysis(id string) (AnalysisRecord, error) {
	var a AnalysisRecord
	var createdAt string
	err := s.db.QueryRow(`
		SELECT id, created_at, overall, label, confidence, match_rate, resume_chars, job_chars, result_json
		FROM analyses WHERE id = ?`, id,
	).Scan(&a.ID, &createdAt, &a.Overall, &a.Label, &a.Confidence, &a.MatchRate, &a.ResumeChars, &a.JobChars, &a.ResultJSON)
	if err == sql.ErrNoRows {
		return AnalysisRecord{}, ErrNotFound
	}
	if err != nil {
		return AnalysisRecord{}, err
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return AnalysisRecord{}, fmt.Errorf("parsing created_at: %w", err)
	}
	a.CreatedAt = t
	return a, nil
}

// ListAnalyses returns the most recent analyses, newest first. The
// result_json column is omitted to keep listings light.
func (s *Store) ListAnalyses(limit int) ([]AnalysisRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, overall, label, confidence, match_rate, resume_chars, job_chars
		FROM analyses ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []AnalysisRecord
	for rows.Next() {
		var a AnalysisRecord
		var createdAt string
		if err := rows.Scan(&a.ID, &createdAt, &a.Overall, &a.Label, &a.Confidence, &a.MatchRate, &a.ResumeChars, &a.JobChars); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		a.CreatedAt = t
		results = append(results, a)
	}
	return results, rows.Err()
}

// --- Feedback ---

func (s *Store) SaveFeedback(f Feedback) error {
	if f.Rating < 1 || f.Rating > 5 {
		return fmt.Errorf("rating %d out of range 1..5", f.Rating)
	}
	var exists int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM analyses WHERE id = ?", f.AnalysisID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}
	createdAt := f.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO feedback (id, analysis_id, rating, verdict, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.AnalysisID, f.Rating, f.Verdict, f.Comment, createdAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) ListFeedback(analysisID string) ([]Feedback, error) {
	rows, err := s.db.Query(`
		SELECT id, analysis_id, rating, verdict, comment, created_at
		FROM feedback WHERE analysis_id = ? ORDER BY created_at ASC`, analysisID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Feedback
	for rows.Next() {
		var f Feedback
		var createdAt string
		if err := rows.Scan(&f.ID, &f.AnalysisID, &f.Rating, &f.Verdict, &f.Comment, &createdAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		f.CreatedAt = t
		results = append(results, f)
	}
	return results, rows.Err()
}

// FeedbackStats aggregates all stored feedback.
func (s *Store) FeedbackStats() (FeedbackStats, error) {
	stats := FeedbackStats{Verdicts: make(map[string]int)}

	var avg sql.NullFloat64
	if err := s.db.QueryRow("SELECT COUNT(*), AVG(rating) FROM feedback").Scan(&stats.Count, &avg); err != nil {
		return FeedbackStats{}, err
	}
	stats.AverageRating = avg.Float64

	rows, err := s.db.Query("SELECT verdict, COUNT(*) FROM feedback GROUP BY verdict")
	if err != nil {
		return FeedbackStats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var verdict string
		var n int
		if err := rows.Scan(&verdict, &n); err != nil {
			return FeedbackStats{}, err
		}
		stats.Verdicts[verdict] = n
	}
	return stats, rows.Err()
}
