package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"greetcheck/internal/harness"
)

// ErrRunNotFound is returned by ReadRun for unknown run ids.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is one row of the run history listing.
type RunSummary struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Total     int       `json:"total"`
	Passed    int       `json:"passed"`
	Failed    int       `json:"failed"`
	Pass      bool      `json:"pass"`
}

// ListRuns returns all recorded runs, newest first. Ordering ties on
// started_at break on id so listings are deterministic.
//
// Returns an empty slice (not nil) if no runs are recorded.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, total, passed, failed, pass
		FROM runs
		ORDER BY started_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	summaries := []RunSummary{}
	for rows.Next() {
		var (
			summary   RunSummary
			startedAt string
			pass      int
		)
		if err := rows.Scan(&summary.ID, &startedAt, &summary.Total, &summary.Passed, &summary.Failed, &pass); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		summary.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at for run %s: %w", summary.ID, err)
		}
		summary.Pass = pass == 1
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return summaries, nil
}

// ReadRun reconstructs a full run report from the history.
// Returns ErrRunNotFound if the id is unknown.
func (s *Store) ReadRun(ctx context.Context, runID string) (*harness.RunReport, error) {
	var (
		report    harness.RunReport
		startedAt string
		pass      int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, total, passed, failed, pass
		FROM runs
		WHERE id = ?
	`, runID).Scan(&report.RunID, &startedAt, &report.Total, &report.Passed, &report.Failed, &pass)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	report.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse started_at for run %s: %w", runID, err)
	}
	report.Pass = pass == 1

	results, err := s.readRunResults(ctx, runID)
	if err != nil {
		return nil, err
	}
	report.Results = results

	return &report, nil
}

// readRunResults returns a run's results ordered by position.
func (s *Store) readRunResults(ctx context.Context, runID string) ([]harness.ScenarioResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT scenario_id, description, endpoint, classification, raw_output,
		       expected_classification, expected_text, expected_match, score, error
		FROM run_results
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run results: %w", err)
	}
	defer rows.Close()

	results := []harness.ScenarioResult{}
	for rows.Next() {
		var (
			res            harness.ScenarioResult
			classification string
			expectedClass  string
		)
		err := rows.Scan(
			&res.ID,
			&res.Description,
			&res.Endpoint,
			&classification,
			&res.RawOutput,
			&expectedClass,
			&res.Expected.Text,
			&res.Expected.Match,
			&res.Score,
			&res.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("scan run result: %w", err)
		}
		res.Classification = harness.Classification(classification)
		res.Expected.Classification = harness.Classification(expectedClass)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run results: %w", err)
	}

	return results, nil
}
