package mock

import (
	"context"

	"github.com/alqudimi/deepdoc"
)

var _ deepdoc.StageExecutor = (*StageExecutor)(nil)

// StageExecutor is a mock implementation of deepdoc.StageExecutor.
type StageExecutor struct {
	RunStageFn func(ctx context.Context, name deepdoc.StageName, digest *deepdoc.ProjectDigest, prior map[deepdoc.StageName]deepdoc.StageOutput) deepdoc.StageOutput
}

func (e *StageExecutor) RunStage(ctx context.Context, name deepdoc.StageName, digest *deepdoc.ProjectDigest, prior map[deepdoc.StageName]deepdoc.StageOutput) deepdoc.StageOutput {
	return e.RunStageFn(ctx, name, digest, prior)
}
