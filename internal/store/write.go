package store

import (
	"context"
	"fmt"
	"time"

	"greetcheck/internal/harness"
)

// WriteRun records a completed run and its ordered results atomically.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: replaying the same
// run id is silently ignored, results included.
func (s *Store) WriteRun(ctx context.Context, report *harness.RunReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, total, passed, failed, pass)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		report.RunID,
		report.StartedAt.UTC().Format(time.RFC3339Nano),
		report.Total,
		report.Passed,
		report.Failed,
		boolToInt(report.Pass),
	)
	if err != nil {
		return fmt.Errorf("write run: insert run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("write run: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Run already recorded; keep the original results.
		return tx.Commit()
	}

	for i, res := range report.Results {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_results
			(run_id, position, scenario_id, description, endpoint, classification,
			 raw_output, expected_classification, expected_text, expected_match, score, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			report.RunID,
			i,
			res.ID,
			res.Description,
			res.Endpoint,
			string(res.Classification),
			res.RawOutput,
			string(res.Expected.Classification),
			res.Expected.Text,
			res.Expected.Match,
			res.Score,
			res.Error,
		)
		if err != nil {
			return fmt.Errorf("write run: insert result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
