package docgen

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/alqudimi/deepdoc"
)

var _ deepdoc.StageExecutor = (*Executor)(nil)

// Executor runs catalog stages against a gateway with response caching.
type Executor struct {
	Gateway deepdoc.Gateway

	// Cache is optional; nil disables caching.
	Cache    deepdoc.ResponseCache
	CacheTTL time.Duration

	Model  deepdoc.ModelConfig
	Logger *slog.Logger

	stages map[deepdoc.StageName]Stage
}

// NewExecutor creates an Executor for the given stage catalog.
func NewExecutor(gw deepdoc.Gateway, cache deepdoc.ResponseCache, stages []Stage, model deepdoc.ModelConfig, ttl time.Duration, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	byName := make(map[deepdoc.StageName]Stage, len(stages))
	for _, s := range stages {
		byName[s.Name] = s
	}
	return &Executor{
		Gateway:  gw,
		Cache:    cache,
		CacheTTL: ttl,
		Model:    model,
		Logger:   logger,
		stages:   byName,
	}
}

// RunStage produces the output of one stage. It never fails: gateway
// exhaustion and invalid output fall back to the stage's digest based text
// (degraded) or to an empty failed output.
func (e *Executor) RunStage(ctx context.Context, name deepdoc.StageName, digest *deepdoc.ProjectDigest, prior map[deepdoc.StageName]deepdoc.StageOutput) deepdoc.StageOutput {
	start := time.Now()
	out := e.run(ctx, name, digest, prior)
	out.Stage = name
	out.Duration = time.Since(start)
	return out
}

func (e *Executor) run(ctx context.Context, name deepdoc.StageName, digest *deepdoc.ProjectDigest, prior map[deepdoc.StageName]deepdoc.StageOutput) deepdoc.StageOutput {
	stage, ok := e.stages[name]
	if !ok {
		return deepdoc.StageOutput{Status: deepdoc.StageFailed, Reason: deepdoc.ReasonInvalidPrompt}
	}
	if ctx.Err() != nil {
		return deepdoc.StageOutput{Status: deepdoc.StageFailed, Reason: deepdoc.ReasonCanceled}
	}

	prompt := stage.Prompt(digest, prior)
	fp := e.fingerprint(stage, digest, prior)
	logger := e.Logger.With("stage", name, "fingerprint", fp)

	if e.Cache != nil {
		value, hit, err := e.Cache.Get(ctx, fp)
		switch {
		case err != nil:
			logger.Warn("cache read failed", "err", err)
		case hit && ValidateOutput(value) == nil:
			logger.Debug("cache hit")
			return deepdoc.StageOutput{RawText: value, Status: deepdoc.StageOK, FromCache: true}
		}
	}

	resp, err := e.Gateway.Invoke(ctx, prompt, e.Model)
	if err != nil {
		retries := max(deepdoc.Attempts(err)-1, 0)
		if ctx.Err() != nil || deepdoc.ErrorCode(err) == deepdoc.ECANCELED {
			return deepdoc.StageOutput{Status: deepdoc.StageFailed, RetryCount: retries, Reason: deepdoc.ReasonCanceled}
		}
		reason := deepdoc.ReasonExhausted
		if deepdoc.ErrorCode(err) == deepdoc.EINVALID {
			reason = deepdoc.ReasonInvalidPrompt
		}
		logger.Warn("model call failed", "reason", reason, "attempts", deepdoc.Attempts(err), "err", err)
		return fallback(stage, digest, reason, retries)
	}

	retries := max(resp.Attempts-1, 0)
	if err := ValidateOutput(resp.Text); err != nil {
		logger.Warn("model output rejected", "err", err)
		return fallback(stage, digest, deepdoc.ReasonInvalidOutput, retries)
	}

	text := strings.TrimSpace(resp.Text) + "\n"
	if e.Cache != nil {
		if err := e.Cache.Put(ctx, fp, text, e.CacheTTL); err != nil {
			logger.Warn("cache write failed", "err", err)
		}
	}
	return deepdoc.StageOutput{RawText: text, Status: deepdoc.StageOK, RetryCount: retries}
}

func (e *Executor) fingerprint(stage Stage, digest *deepdoc.ProjectDigest, prior map[deepdoc.StageName]deepdoc.StageOutput) string {
	deps := make(map[deepdoc.StageName]string, len(stage.Needs))
	for _, need := range stage.Needs {
		deps[need] = OutputHash(prior[need])
	}
	return Fingerprint(FingerprintInput{
		Stage:         stage.Name,
		PromptVersion: stage.PromptVersion,
		Model:         e.Model.Model,
		Temperature:   e.Model.Temperature,
		DigestHash:    DigestHash(digest),
		Dependencies:  deps,
	})
}

func fallback(stage Stage, digest *deepdoc.ProjectDigest, reason string, retries int) deepdoc.StageOutput {
	if stage.Fallback == nil {
		return deepdoc.StageOutput{Status: deepdoc.StageFailed, RetryCount: retries, Reason: reason}
	}
	return deepdoc.StageOutput{
		RawText:    stage.Fallback(digest),
		Status:     deepdoc.StageDegraded,
		RetryCount: retries,
		Reason:     reason,
	}
}
