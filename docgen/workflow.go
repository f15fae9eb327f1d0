// Package docgen drives a documentation run: it scans a project, builds a
// bounded digest, runs the documentation stages through the model gateway
// and assembles their outputs into documents.
package docgen

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alqudimi/deepdoc"
	"github.com/google/uuid"
)

var _ deepdoc.Runner = (*Workflow)(nil)

// Workflow orchestrates documentation runs. It holds no per-run state, so
// one Workflow may serve concurrent runs.
type Workflow struct {
	Scanner   deepdoc.Scanner
	Scheduler *Scheduler
	Budget    deepdoc.BudgetConfig
	Assemble  AssembleOptions

	// Runs records finished runs when set. Recording failures are logged.
	Runs deepdoc.RunService

	Logger *slog.Logger
	Now    func() time.Time
	NewID  func() string
}

// Run documents the project at projectPath and returns the terminal state.
// Only a scan failure, a failed required stage or cancellation abort the
// run; the returned error is non-nil exactly when the run is Aborted.
func (w *Workflow) Run(ctx context.Context, projectPath string) (*deepdoc.WorkflowState, error) {
	now := w.Now
	if now == nil {
		now = time.Now
	}
	newID := w.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := &run{
		state: &deepdoc.WorkflowState{
			RunID:        newID(),
			ProjectPath:  projectPath,
			Status:       deepdoc.RunInitialized,
			StageResults: make(map[deepdoc.StageName]deepdoc.StageOutput),
			StartedAt:    now(),
		},
		now: now,
	}
	r.logger = logger.With("run", r.state.RunID)
	r.logger.Info("run started", "path", projectPath)

	state, err := w.run(ctx, r)
	w.record(ctx, r)
	return state, err
}

func (w *Workflow) run(ctx context.Context, r *run) (*deepdoc.WorkflowState, error) {
	r.transition(deepdoc.RunScanning)
	scan, err := w.Scanner.Scan(ctx, r.state.ProjectPath)
	if err != nil {
		if ctx.Err() != nil {
			return r.abort(deepdoc.Errorf(deepdoc.ECANCELED, "run canceled during scan"))
		}
		msg := deepdoc.ErrorMessage(err)
		if deepdoc.ErrorCode(err) == deepdoc.EINTERNAL {
			msg = err.Error()
		}
		return r.abort(deepdoc.Errorf(deepdoc.ESCAN, "cannot scan %s: %s", r.state.ProjectPath, msg))
	}

	r.transition(deepdoc.RunBuildingDigest)
	digest, err := deepdoc.BuildDigest(scan, w.Budget)
	if err != nil {
		return r.abort(err)
	}
	r.state.Digest = digest
	r.logger.Info("digest built",
		"files", len(digest.Files),
		"omitted", len(digest.Omitted),
		"chars", digest.ExcerptChars())

	r.transition(deepdoc.RunRunningStages)
	results, err := w.Scheduler.Run(ctx, digest, Progress{
		Started:  r.stageStarted,
		Finished: r.stageFinished,
	})
	r.state.StageResults = results
	r.state.CurrentStage = ""
	if err != nil {
		var se *deepdoc.StageError
		if deepdoc.ErrorCode(err) != deepdoc.ECANCELED && errors.As(err, &se) {
			err = deepdoc.Errorf(deepdoc.EMODEL, "required stage %s failed: %s", se.Stage, se.Reason)
		}
		return r.abort(err)
	}

	r.transition(deepdoc.RunAggregating)
	r.state.Documents = Assemble(digest, results, w.Assemble)

	r.state.CompletedAt = r.now()
	r.transition(deepdoc.RunCompleted)
	r.logger.Info("run completed",
		"documents", len(r.state.Documents.Documents),
		"stageErrors", len(r.state.Errors),
		"duration", r.state.CompletedAt.Sub(r.state.StartedAt))
	return r.state, nil
}

func (w *Workflow) record(ctx context.Context, r *run) {
	if w.Runs == nil {
		return
	}
	if err := w.Runs.CreateRun(context.WithoutCancel(ctx), deepdoc.NewRunRecord(r.state)); err != nil {
		r.logger.Warn("failed to record run", "err", err)
	}
}

// run is the mutable state of one workflow run. Only the goroutine that
// called Workflow.Run touches it.
type run struct {
	state  *deepdoc.WorkflowState
	now    func() time.Time
	logger *slog.Logger
}

func (r *run) transition(to deepdoc.RunStatus) {
	from := r.state.Status
	if !from.CanTransition(to) {
		panic("docgen: invalid transition from " + string(from) + " to " + string(to))
	}
	r.state.Transitions = append(r.state.Transitions, deepdoc.Transition{From: from, To: to, At: r.now()})
	r.state.Status = to
	r.logger.Debug("state changed", "from", from, "to", to)
}

func (r *run) abort(err error) (*deepdoc.WorkflowState, error) {
	r.state.Err = err
	r.state.CompletedAt = r.now()
	r.transition(deepdoc.RunAborted)
	r.logger.Error("run aborted", "code", deepdoc.ErrorCode(err), "err", err)
	return r.state, err
}

func (r *run) stageStarted(name deepdoc.StageName) {
	r.state.CurrentStage = name
	r.logger.Info("stage started", "stage", name)
}

func (r *run) stageFinished(out deepdoc.StageOutput) {
	r.state.StageResults[out.Stage] = out
	if out.Status != deepdoc.StageOK {
		r.state.Errors = append(r.state.Errors, deepdoc.StageError{
			Stage:  out.Stage,
			Status: out.Status,
			Reason: out.Reason,
		})
	}
	r.logger.Info("stage finished",
		"stage", out.Stage,
		"status", out.Status,
		"fromCache", out.FromCache,
		"retries", out.RetryCount,
		"duration", out.Duration)
}
