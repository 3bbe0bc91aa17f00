package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fortuna/crossice/internal/reconciliation"
	"github.com/fortuna/crossice/internal/store"
)

// RunRepository persists the audit trail of engine runs. Dry runs are stored
// too, flagged as such, so operators can audit a matching pass before
// committing it.
type RunRepository struct {
	db *store.Database
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *store.Database) *RunRepository {
	return &RunRepository{db: db}
}

// SaveRun stores one run report.
func (r *RunRepository) SaveRun(ctx context.Context, report *reconciliation.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}

	query := `
		INSERT INTO reconciliation_runs (run_id, season_id, dry_run, report, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.DB().ExecContext(ctx, query,
		report.RunID, report.SeasonID, report.DryRun, string(payload),
		report.StartedAt, report.FinishedAt,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// LatestRun returns the most recent non-dry run report for a season, or nil
// when the season has never been reconciled.
func (r *RunRepository) LatestRun(ctx context.Context, seasonID string) (*reconciliation.Report, error) {
	query := `
		SELECT report FROM reconciliation_runs
		WHERE season_id = $1 AND dry_run = false
		ORDER BY finished_at DESC
		LIMIT 1
	`

	var payload string
	err := r.db.DB().GetContext(ctx, &payload, query, seasonID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}

	var report reconciliation.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("unmarshal run report: %w", err)
	}
	return &report, nil
}

// ListRuns returns the most recent run reports for a season, dry runs
// included, newest first.
func (r *RunRepository) ListRuns(ctx context.Context, seasonID string, limit int) ([]*reconciliation.Report, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT report FROM reconciliation_runs
		WHERE season_id = $1
		ORDER BY finished_at DESC
		LIMIT $2
	`

	var payloads []string
	if err := r.db.DB().SelectContext(ctx, &payloads, query, seasonID, limit); err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	reports := make([]*reconciliation.Report, 0, len(payloads))
	for _, payload := range payloads {
		var report reconciliation.Report
		if err := json.Unmarshal([]byte(payload), &report); err != nil {
			return nil, fmt.Errorf("unmarshal run report: %w", err)
		}
		reports = append(reports, &report)
	}
	return reports, nil
}
