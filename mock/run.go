package mock

import (
	"context"
	"time"

	"github.com/alqudimi/deepdoc"
)

var (
	_ deepdoc.RunService = (*RunService)(nil)
	_ deepdoc.Runner     = (*Runner)(nil)
)

// RunService is a mock implementation of deepdoc.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *deepdoc.RunRecord) error
	FindRunByIDFn func(ctx context.Context, id string) (*deepdoc.RunRecord, error)
	FindRunsFn    func(ctx context.Context, filter deepdoc.RunFilter) ([]*deepdoc.RunRecord, error)
	DeleteRunFn   func(ctx context.Context, id string) error

	DeleteRunsBeforeFn func(ctx context.Context, t time.Time) (int, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *deepdoc.RunRecord) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*deepdoc.RunRecord, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter deepdoc.RunFilter) ([]*deepdoc.RunRecord, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}

func (s *RunService) DeleteRunsBefore(ctx context.Context, t time.Time) (int, error) {
	return s.DeleteRunsBeforeFn(ctx, t)
}

// Runner is a mock implementation of deepdoc.Runner.
type Runner struct {
	RunFn func(ctx context.Context, projectPath string) (*deepdoc.WorkflowState, error)
}

func (r *Runner) Run(ctx context.Context, projectPath string) (*deepdoc.WorkflowState, error) {
	return r.RunFn(ctx, projectPath)
}
