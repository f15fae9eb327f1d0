package docgen

import (
	"context"

	"github.com/alqudimi/deepdoc"
	"golang.org/x/sync/errgroup"
)

// Scheduler runs a stage DAG on a bounded worker pool. A stage is
// dispatched once every stage it needs has a terminal output, and it
// receives a snapshot of exactly those outputs.
type Scheduler struct {
	Executor deepdoc.StageExecutor
	Workers  int

	// Required stages abort the run when they fail. Stages already running
	// are allowed to finish; nothing new is dispatched.
	Required map[deepdoc.StageName]bool

	stages     []Stage
	order      []deepdoc.StageName
	dependents map[deepdoc.StageName][]deepdoc.StageName
}

// Progress observes a scheduler run. Callbacks are invoked from the
// goroutine that called Run, never concurrently. Either may be nil.
type Progress struct {
	Started  func(name deepdoc.StageName)
	Finished func(out deepdoc.StageOutput)
}

// NewScheduler validates the stage graph. Unknown dependencies, duplicate
// names and cycles are EINVALID.
func NewScheduler(stages []Stage, exec deepdoc.StageExecutor, workers int) (*Scheduler, error) {
	order, err := ValidateStages(stages)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	dependents := make(map[deepdoc.StageName][]deepdoc.StageName)
	for _, s := range stages {
		for _, need := range s.Needs {
			dependents[need] = append(dependents[need], s.Name)
		}
	}
	return &Scheduler{
		Executor:   exec,
		Workers:    workers,
		stages:     stages,
		order:      order,
		dependents: dependents,
	}, nil
}

// Order returns a dependency respecting order of the stages.
func (s *Scheduler) Order() []deepdoc.StageName {
	return append([]deepdoc.StageName(nil), s.order...)
}

// Run executes every stage and returns one terminal output per stage.
// Stages that were never dispatched are reported as failed with reason
// "canceled" or "skipped". The error is ECANCELED if ctx was canceled, or a
// *deepdoc.StageError if a required stage failed.
func (s *Scheduler) Run(ctx context.Context, digest *deepdoc.ProjectDigest, progress Progress) (map[deepdoc.StageName]deepdoc.StageOutput, error) {
	results := make(map[deepdoc.StageName]deepdoc.StageOutput, len(s.stages))
	remaining := make(map[deepdoc.StageName]int, len(s.stages))
	needs := make(map[deepdoc.StageName][]deepdoc.StageName, len(s.stages))
	for _, st := range s.stages {
		remaining[st.Name] = len(st.Needs)
		needs[st.Name] = st.Needs
	}

	done := make(chan deepdoc.StageOutput, len(s.stages))
	var g errgroup.Group
	g.SetLimit(s.Workers)

	inFlight := 0
	dispatch := func(name deepdoc.StageName) {
		prior := make(map[deepdoc.StageName]deepdoc.StageOutput, len(needs[name]))
		for _, need := range needs[name] {
			prior[need] = results[need]
		}
		if progress.Started != nil {
			progress.Started(name)
		}
		inFlight++
		g.Go(func() error {
			out := s.Executor.RunStage(ctx, name, digest, prior)
			out.Stage = name
			done <- out
			return nil
		})
	}

	for _, name := range s.order {
		if remaining[name] == 0 {
			dispatch(name)
		}
	}

	var abort error
	for inFlight > 0 {
		out := <-done
		inFlight--
		results[out.Stage] = out
		if progress.Finished != nil {
			progress.Finished(out)
		}

		if out.Status == deepdoc.StageFailed && s.Required[out.Stage] && abort == nil {
			abort = &deepdoc.StageError{Stage: out.Stage, Status: out.Status, Reason: out.Reason, Message: "required stage failed"}
		}
		if abort != nil || ctx.Err() != nil {
			continue
		}
		for _, next := range s.dependents[out.Stage] {
			remaining[next]--
			if remaining[next] == 0 {
				dispatch(next)
			}
		}
	}
	_ = g.Wait()

	reason := deepdoc.ReasonSkipped
	if ctx.Err() != nil {
		reason = deepdoc.ReasonCanceled
	}
	for _, name := range s.order {
		if _, ok := results[name]; !ok {
			out := deepdoc.StageOutput{Stage: name, Status: deepdoc.StageFailed, Reason: reason}
			results[name] = out
			if progress.Finished != nil {
				progress.Finished(out)
			}
		}
	}

	if ctx.Err() != nil {
		return results, deepdoc.Errorf(deepdoc.ECANCELED, "run canceled: %v", context.Cause(ctx))
	}
	if abort != nil {
		return results, abort
	}
	return results, nil
}
