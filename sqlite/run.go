package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alqudimi/deepdoc"
)

// Compile-time interface verification.
var _ deepdoc.RunService = (*RunService)(nil)

// RunService implements deepdoc.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun records a finished run together with its stage statuses.
func (s *RunService) CreateRun(ctx context.Context, run *deepdoc.RunRecord) error {
	if err := run.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, project_path, status, error, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.ProjectPath, string(run.Status), run.Error,
		formatTime(run.StartedAt), formatTime(run.CompletedAt)); err != nil {
		return err
	}

	for stage, status := range run.Stages {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO run_stages (run_id, stage, status) VALUES (?, ?, ?)
		`, run.ID, string(stage), string(status)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*deepdoc.RunRecord, error) {
	runs, err := s.FindRuns(ctx, deepdoc.RunFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, deepdoc.Errorf(deepdoc.ENOTFOUND, "run not found")
	}
	return runs[0], nil
}

// FindRuns retrieves runs matching the filter, most recent first.
func (s *RunService) FindRuns(ctx context.Context, filter deepdoc.RunFilter) ([]*deepdoc.RunRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, project_path, status, error, started_at, completed_at FROM runs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.ProjectPath != nil {
		query.WriteString(" AND project_path = ?")
		args = append(args, *filter.ProjectPath)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}

	query.WriteString(" ORDER BY started_at DESC, id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*deepdoc.RunRecord
	for rows.Next() {
		var run deepdoc.RunRecord
		var status, startedAt, completedAt string

		if err := rows.Scan(&run.ID, &run.ProjectPath, &status, &run.Error, &startedAt, &completedAt); err != nil {
			return nil, err
		}
		run.Status = deepdoc.RunStatus(status)

		if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.CompletedAt, err = parseTime(completedAt, "completed_at"); err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, run := range runs {
		if run.Stages, err = s.findStages(ctx, run.ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *RunService) findStages(ctx context.Context, runID string) (map[deepdoc.StageName]deepdoc.StageStatus, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT stage, status FROM run_stages WHERE run_id = ?", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stages: %w", err)
	}
	defer rows.Close()

	stages := make(map[deepdoc.StageName]deepdoc.StageStatus)
	for rows.Next() {
		var stage, status string
		if err := rows.Scan(&stage, &status); err != nil {
			return nil, err
		}
		stages[deepdoc.StageName(stage)] = deepdoc.StageStatus(status)
	}
	return stages, rows.Err()
}

// DeleteRun permanently removes a run and its stage statuses.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return deepdoc.Errorf(deepdoc.ENOTFOUND, "run not found")
	}

	return nil
}

// DeleteRunsBefore removes every run started before t.
func (s *RunService) DeleteRunsBefore(ctx context.Context, t time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", formatTime(t))
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}
