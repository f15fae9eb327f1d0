package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alqudimi/deepdoc"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Config     deepdoc.Config
	ConfigPath string
	Runner     deepdoc.Runner
	Writer     deepdoc.DocumentWriter
	OutputDir  string
	Cache      deepdoc.CacheAdmin
	Runs       deepdoc.RunService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" help:"Configuration file (default: deepdoc.yaml)"`
	DB      string `name:"db" help:"Database for cached responses and run history"`
	Verbose bool   `short:"v" help:"Log debug output"`
	LogFile string `name:"log-file" help:"Also write logs to a rotating file"`

	Generate GenerateCmd `cmd:"" help:"Generate documentation for a project"`
	Init     InitCmd     `cmd:"" help:"Write a default configuration file"`
	Cache    CacheCmd    `cmd:"" help:"Inspect or clear the response cache"`
	Runs     RunsCmd     `cmd:"" help:"Inspect or prune recorded documentation runs"`
}

// GenerateCmd is the "generate" subcommand.
type GenerateCmd struct {
	Path      string `arg:"" optional:"" default:"." help:"Project directory"`
	Output    string `short:"o" help:"Output directory, relative to the project"`
	Backend   string `short:"b" help:"Model backend (ollama or gemini)"`
	Model     string `short:"m" help:"Model name"`
	Overwrite bool   `help:"Replace existing documents"`
	NoCache   bool   `name:"no-cache" help:"Do not read or write cached responses"`
	Notify    bool   `help:"Print a completion message and ring the terminal bell"`
}

// apply overrides cfg with the flags that were set.
func (c *GenerateCmd) apply(cfg *deepdoc.Config) {
	if c.Output != "" {
		cfg.Output.Directory = c.Output
	}
	if c.Backend != "" {
		cfg.Backend = c.Backend
	}
	if c.Model != "" {
		cfg.Model = c.Model
	}
	if c.Overwrite {
		cfg.Output.OverwriteExisting = true
	}
	if c.NoCache {
		cfg.CacheEnabled = false
	}
	if c.Notify {
		cfg.Notifications.CompletionMessage = true
	}
}

// InitCmd is the "init" subcommand.
type InitCmd struct {
	Force bool `short:"f" help:"Overwrite an existing configuration file"`
}

// CacheCmd groups the cache maintenance subcommands.
type CacheCmd struct {
	Stats CacheStatsCmd `cmd:"" help:"Show the number of cached responses"`
	Clear CacheClearCmd `cmd:"" help:"Remove every cached response"`
	Purge CachePurgeCmd `cmd:"" help:"Remove expired cached responses"`
}

// CacheStatsCmd is the "cache stats" subcommand.
type CacheStatsCmd struct{}

// CacheClearCmd is the "cache clear" subcommand.
type CacheClearCmd struct{}

// CachePurgeCmd is the "cache purge" subcommand.
type CachePurgeCmd struct{}

// RunsCmd groups the run history subcommands. A bare "runs" lists runs.
type RunsCmd struct {
	List   RunsListCmd   `cmd:"" default:"withargs" help:"List recorded runs, most recent first"`
	Show   RunsShowCmd   `cmd:"" help:"Show one run"`
	Delete RunsDeleteCmd `cmd:"" help:"Delete one run"`
	Prune  RunsPruneCmd  `cmd:"" help:"Delete runs older than a given age"`
}

// RunsListCmd is the "runs list" subcommand.
type RunsListCmd struct {
	Path  string `arg:"" optional:"" help:"Only show runs of this project directory"`
	Limit int    `short:"n" default:"20" help:"Maximum number of runs to show"`
}

// RunsShowCmd is the "runs show" subcommand.
type RunsShowCmd struct {
	ID string `arg:"" help:"Run ID"`
}

// RunsDeleteCmd is the "runs delete" subcommand.
type RunsDeleteCmd struct {
	ID string `arg:"" help:"Run ID"`
}

// RunsPruneCmd is the "runs prune" subcommand.
type RunsPruneCmd struct {
	OlderThan time.Duration `name:"older-than" default:"720h" help:"Delete runs started longer ago than this"`
}
