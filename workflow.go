package deepdoc

import (
	"context"
	"time"
)

// RunStatus is a state of the documentation workflow.
type RunStatus string

// Workflow states. Completed and Aborted are terminal.
const (
	RunInitialized    RunStatus = "initialized"
	RunScanning       RunStatus = "scanning"
	RunBuildingDigest RunStatus = "building_digest"
	RunRunningStages  RunStatus = "running_stages"
	RunAggregating    RunStatus = "aggregating"
	RunCompleted      RunStatus = "completed"
	RunAborted        RunStatus = "aborted"
)

// Terminal reports whether no further transitions are possible.
func (s RunStatus) Terminal() bool {
	return s == RunCompleted || s == RunAborted
}

// next lists the forward transition allowed from each non-terminal state.
var next = map[RunStatus]RunStatus{
	RunInitialized:    RunScanning,
	RunScanning:       RunBuildingDigest,
	RunBuildingDigest: RunRunningStages,
	RunRunningStages:  RunAggregating,
	RunAggregating:    RunCompleted,
}

// CanTransition reports whether the workflow may move from s to to.
// Aborted is reachable from every non-terminal state.
func (s RunStatus) CanTransition(to RunStatus) bool {
	if s.Terminal() {
		return false
	}
	return to == RunAborted || next[s] == to
}

// Transition records a state change.
type Transition struct {
	From RunStatus `json:"from"`
	To   RunStatus `json:"to"`
	At   time.Time `json:"at"`
}

// StageError records a stage that did not produce a genuine model response.
type StageError struct {
	Stage   StageName   `json:"stage"`
	Status  StageStatus `json:"status"`
	Reason  string      `json:"reason"`
	Message string      `json:"message,omitempty"`
}

func (e *StageError) Error() string {
	if e.Message == "" {
		return string(e.Stage) + " " + string(e.Status) + ": " + e.Reason
	}
	return string(e.Stage) + " " + string(e.Status) + ": " + e.Reason + ": " + e.Message
}

// WorkflowState accumulates the results of one documentation run. It is
// owned by the workflow while the run is in progress and must be treated
// as read-only once Status is terminal.
type WorkflowState struct {
	RunID       string    `json:"runId"`
	ProjectPath string    `json:"projectPath"`
	Status      RunStatus `json:"status"`

	Transitions  []Transition `json:"transitions"`
	CurrentStage StageName    `json:"currentStage,omitempty"`

	Digest       *ProjectDigest            `json:"digest,omitempty"`
	StageResults map[StageName]StageOutput `json:"stageResults"`
	Errors       []StageError              `json:"errors,omitempty"`
	Documents    *DocumentSet              `json:"documents,omitempty"`

	// Err is the fatal error of an aborted run.
	Err error `json:"-"`

	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
}

// Statuses returns the terminal status of every stage that ran.
func (s *WorkflowState) Statuses() map[StageName]StageStatus {
	m := make(map[StageName]StageStatus, len(s.StageResults))
	for name, out := range s.StageResults {
		m[name] = out.Status
	}
	return m
}

// Runner executes documentation runs.
type Runner interface {
	// Run documents the project at projectPath. The returned state is
	// terminal. The error is non-nil only when the run was aborted.
	Run(ctx context.Context, projectPath string) (*WorkflowState, error)
}
