package deepdoc

import (
	"context"
	"time"
)

// StageName identifies a documentation stage.
type StageName string

// Stages produced by the default catalog.
const (
	StageOverview     StageName = "overview"
	StageReadme       StageName = "readme"
	StageArchitecture StageName = "architecture"
	StageAPIReference StageName = "api_reference"
	StageSummary      StageName = "summary"
)

// Valid reports whether n names a known stage.
func (n StageName) Valid() bool {
	switch n {
	case StageOverview, StageReadme, StageArchitecture, StageAPIReference, StageSummary:
		return true
	}
	return false
}

// Title returns a human readable name for the stage.
func (n StageName) Title() string {
	switch n {
	case StageOverview:
		return "Overview"
	case StageReadme:
		return "README"
	case StageArchitecture:
		return "Architecture"
	case StageAPIReference:
		return "API Reference"
	case StageSummary:
		return "Summary"
	}
	return string(n)
}

// StageStatus is the terminal status of a stage.
type StageStatus string

const (
	// StageOK means the text is a genuine model response.
	StageOK StageStatus = "ok"

	// StageDegraded means the text was synthesized from the digest after the
	// model could not produce a usable response.
	StageDegraded StageStatus = "degraded"

	// StageFailed means no usable text was produced.
	StageFailed StageStatus = "failed"
)

// Reasons recorded on StageOutput when a stage is not ok.
const (
	ReasonCanceled      = "canceled"
	ReasonExhausted     = "retries exhausted"
	ReasonInvalidOutput = "invalid model output"
	ReasonInvalidPrompt = "invalid request"
	ReasonSkipped       = "skipped"
)

// StageOutput is the result of running one stage.
//
// A failed stage has an empty RawText. The "Documentation unavailable for
// this section." placeholder is not stored here; document assembly writes
// it in place of the section body.
type StageOutput struct {
	Stage      StageName     `json:"stage"`
	RawText    string        `json:"rawText"`
	Status     StageStatus   `json:"status"`
	RetryCount int           `json:"retryCount"`
	FromCache  bool          `json:"fromCache"`
	Reason     string        `json:"reason,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Usable reports whether the output has text that later stages and the
// document assembly may use.
func (o *StageOutput) Usable() bool {
	return o != nil && o.Status != StageFailed && o.RawText != ""
}

// StageExecutor runs a single stage against a digest and the outputs of the
// stages it depends on. It never returns an error: every failure is folded
// into the returned StageOutput.
type StageExecutor interface {
	RunStage(ctx context.Context, name StageName, digest *ProjectDigest, prior map[StageName]StageOutput) StageOutput
}
