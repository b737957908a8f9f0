// Package store persists a history of pipeline runs to SQLite. One row
// per execution; artifact bodies are not stored, only run-level facts.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codeforge/internal/types"

	_ "modernc.org/sqlite"
)

// RunRecord is one persisted pipeline execution.
type RunRecord struct {
	RequestID     string
	Prompt        string
	Scope         string
	Success       bool
	Error         string
	ArtifactCount int
	QualityScore  float64
	DurationMS    int64
	CreatedAt     time.Time
}

// RunStore persists run records.
type RunStore struct {
	db *sql.DB
}

// Open creates or opens the run history database at path.
func Open(path string) (*RunStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &RunStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}

func (s *RunStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_id TEXT NOT NULL,
		prompt TEXT NOT NULL,
		scope TEXT NOT NULL,
		success INTEGER NOT NULL,
		error TEXT,
		artifact_count INTEGER NOT NULL,
		quality_score REAL NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record persists the outcome of one pipeline execution.
func (s *RunStore) Record(req types.GenerationRequest, result types.Result) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (request_id, prompt, scope, success, error, artifact_count, quality_score, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID,
		req.Prompt,
		string(result.Scope.Scope),
		result.Success,
		result.Error,
		len(result.Artifacts),
		result.QualityScore,
		result.Duration.Milliseconds(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Recent returns the most recent limit runs, newest first.
func (s *RunStore) Recent(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(`
		SELECT request_id, prompt, scope, success, error, artifact_count, quality_score, duration_ms, created_at
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var errText sql.NullString
		var created string
		if err := rows.Scan(&r.RequestID, &r.Prompt, &r.Scope, &r.Success, &errText, &r.ArtifactCount, &r.QualityScore, &r.DurationMS, &created); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Error = errText.String
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		records = append(records, r)
	}
	return records, rows.Err()
}
