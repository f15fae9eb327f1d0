package deepdoc

import (
	"context"
	"time"
)

// RunRecord is the persisted summary of a finished documentation run.
type RunRecord struct {
	ID          string                    `json:"id"`
	ProjectPath string                    `json:"projectPath"`
	Status      RunStatus                 `json:"status"`
	Stages      map[StageName]StageStatus `json:"stages"`
	Error       string                    `json:"error,omitempty"`
	StartedAt   time.Time                 `json:"startedAt"`
	CompletedAt time.Time                 `json:"completedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *RunRecord) Validate() error {
	if r.ID == "" {
		return Errorf(EINVALID, "run ID required")
	}
	if r.ProjectPath == "" {
		return Errorf(EINVALID, "run project path required")
	}
	if !r.Status.Terminal() {
		return Errorf(EINVALID, "run status must be terminal, got %q", r.Status)
	}
	return nil
}

// NewRunRecord summarizes a terminal workflow state.
func NewRunRecord(state *WorkflowState) *RunRecord {
	r := &RunRecord{
		ID:          state.RunID,
		ProjectPath: state.ProjectPath,
		Status:      state.Status,
		Stages:      state.Statuses(),
		StartedAt:   state.StartedAt,
		CompletedAt: state.CompletedAt,
	}
	if state.Err != nil {
		r.Error = ErrorMessage(state.Err)
	}
	return r
}

// RunService represents a service for managing run history.
type RunService interface {
	// CreateRun records a finished run.
	CreateRun(ctx context.Context, run *RunRecord) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if run does not exist.
	FindRunByID(ctx context.Context, id string) (*RunRecord, error)

	// FindRuns retrieves runs matching the filter, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*RunRecord, error)

	// DeleteRun permanently removes a run.
	// Returns ENOTFOUND if run does not exist.
	DeleteRun(ctx context.Context, id string) error

	// DeleteRunsBefore removes every run started before t and returns the
	// number of runs removed.
	DeleteRunsBefore(ctx context.Context, t time.Time) (int, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID          *string    `json:"id"`
	ProjectPath *string    `json:"projectPath"`
	Status      *RunStatus `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
