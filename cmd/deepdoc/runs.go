package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alqudimi/deepdoc"
)

// Run executes the runs list command.
func (c *RunsListCmd) Run(deps *Dependencies) error {
	filter := deepdoc.RunFilter{Limit: c.Limit}
	if c.Path != "" {
		abs, err := filepath.Abs(c.Path)
		if err != nil {
			return deepdoc.Errorf(deepdoc.EINVALID, "invalid project path %q", c.Path)
		}
		filter.ProjectPath = &abs
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'deepdoc generate' to document a project.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", r.ID, r.StartedAt.Format(time.RFC3339), r.Status, r.ProjectPath)
		if stages := formatStages(r.Stages); stages != "" {
			fmt.Fprintf(deps.Stdout, "    %s\n", stages)
		}
		if r.Error != "" {
			fmt.Fprintf(deps.Stdout, "    error: %s\n", r.Error)
		}
	}
	return nil
}

// Run executes the runs show command.
func (c *RunsShowCmd) Run(deps *Dependencies) error {
	r, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		return err
	}
	printRun(deps.Stdout, r)
	return nil
}

// Run executes the runs delete command.
func (c *RunsDeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Runs.DeleteRun(deps.Ctx, c.ID); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Deleted run %s\n", c.ID)
	return nil
}

// Run executes the runs prune command.
func (c *RunsPruneCmd) Run(deps *Dependencies) error {
	if c.OlderThan <= 0 {
		return deepdoc.Errorf(deepdoc.EINVALID, "--older-than must be positive")
	}
	n, err := deps.Runs.DeleteRunsBefore(deps.Ctx, time.Now().Add(-c.OlderThan))
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Removed %d runs older than %s\n", n, c.OlderThan)
	return nil
}

func printRun(w io.Writer, r *deepdoc.RunRecord) {
	fmt.Fprintf(w, "Run:       %s\n", r.ID)
	fmt.Fprintf(w, "Project:   %s\n", r.ProjectPath)
	fmt.Fprintf(w, "Status:    %s\n", r.Status)
	fmt.Fprintf(w, "Started:   %s\n", r.StartedAt.Format(time.RFC3339))
	if !r.CompletedAt.IsZero() {
		fmt.Fprintf(w, "Completed: %s (%s)\n", r.CompletedAt.Format(time.RFC3339), r.CompletedAt.Sub(r.StartedAt).Round(time.Second))
	}
	if r.Error != "" {
		fmt.Fprintf(w, "Error:     %s\n", r.Error)
	}
	if len(r.Stages) == 0 {
		return
	}
	fmt.Fprintln(w, "Stages:")
	for _, name := range stageOrder {
		if status, ok := r.Stages[name]; ok {
			fmt.Fprintf(w, "  %-14s %s\n", name.Title(), status)
		}
	}
}

func formatStages(stages map[deepdoc.StageName]deepdoc.StageStatus) string {
	parts := make([]string, 0, len(stages))
	for name, status := range stages {
		parts = append(parts, string(name)+"="+string(status))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
