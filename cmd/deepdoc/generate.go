package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alqudimi/deepdoc"
)

var stageOrder = []deepdoc.StageName{
	deepdoc.StageOverview,
	deepdoc.StageReadme,
	deepdoc.StageArchitecture,
	deepdoc.StageAPIReference,
	deepdoc.StageSummary,
}

// Run executes the generate command.
func (c *GenerateCmd) Run(deps *Dependencies) error {
	fmt.Fprintf(deps.Stdout, "Documenting %s\n", c.Path)

	state, err := deps.Runner.Run(deps.Ctx, c.Path)
	if err != nil {
		return err
	}

	if d := state.Digest; d != nil {
		fmt.Fprintf(deps.Stdout, "Scanned %d files (%d lines)\n", d.TotalFiles, d.TotalLines)
	}
	printStages(deps.Stdout, state)

	result, err := deps.Writer.WriteDocuments(deps.Ctx, state.Documents)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %d documents to %s\n", len(result.Written), deps.OutputDir)
	for _, name := range result.Skipped {
		fmt.Fprintf(deps.Stdout, "Kept existing %s (use --overwrite to replace)\n", name)
	}
	if n := len(state.Errors); n > 0 {
		fmt.Fprintf(deps.Stdout, "%d of %d stages did not produce a model response\n", n, len(state.StageResults))
	}
	if n := deps.Config.Notifications; n.CompletionMessage {
		notifyCompletion(deps.Stdout, state, n.Sound)
	}
	return nil
}

func notifyCompletion(w io.Writer, state *deepdoc.WorkflowState, bell bool) {
	if bell {
		fmt.Fprint(w, "\a")
	}
	name := "project"
	if d := state.Digest; d != nil && d.Name != "" {
		name = d.Name
	}
	fmt.Fprintf(w, "\nDocumentation complete for %s\n", name)
	if d := state.Digest; d != nil {
		fmt.Fprintf(w, "  Files documented: %d\n", d.TotalFiles)
		fmt.Fprintf(w, "  Lines of code:    %d\n", d.TotalLines)
		if len(d.DetectedLanguages) > 0 {
			langs := d.DetectedLanguages
			if len(langs) > 3 {
				langs = langs[:3]
			}
			fmt.Fprintf(w, "  Languages:        %s\n", strings.Join(langs, ", "))
		}
	}
	if !state.StartedAt.IsZero() && !state.CompletedAt.IsZero() {
		fmt.Fprintf(w, "  Time taken:       %s\n", state.CompletedAt.Sub(state.StartedAt).Round(100*time.Millisecond))
	}
}

func printStages(w io.Writer, state *deepdoc.WorkflowState) {
	for _, name := range stageOrder {
		out, ok := state.StageResults[name]
		if !ok {
			continue
		}
		note := ""
		switch {
		case out.FromCache:
			note = " (cached)"
		case out.Reason != "":
			note = " (" + out.Reason + ")"
		}
		fmt.Fprintf(w, "  %-14s %s%s\n", name.Title(), out.Status, note)
	}
}
