package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alqudimi/deepdoc"
	main "github.com/alqudimi/deepdoc/cmd/deepdoc"
	"github.com/alqudimi/deepdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunsListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists runs with stage statuses", func(t *testing.T) {
		t.Parallel()

		var gotFilter deepdoc.RunFilter
		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, filter deepdoc.RunFilter) ([]*deepdoc.RunRecord, error) {
				gotFilter = filter
				return []*deepdoc.RunRecord{
					{
						ID:          "run-2",
						ProjectPath: "/src/demo",
						Status:      deepdoc.RunAborted,
						Error:       "cannot scan /src/demo: permission denied",
						StartedAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
					},
					{
						ID:          "run-1",
						ProjectPath: "/src/demo",
						Status:      deepdoc.RunCompleted,
						Stages: map[deepdoc.StageName]deepdoc.StageStatus{
							deepdoc.StageReadme:   deepdoc.StageOK,
							deepdoc.StageOverview: deepdoc.StageDegraded,
						},
						StartedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		err := (&main.RunsListCmd{Limit: 20}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 20, gotFilter.Limit)
		assert.Nil(t, gotFilter.ProjectPath)

		output := stdout.String()
		assert.Contains(t, output, "run-2  2026-03-02T09:00:00Z  aborted  /src/demo")
		assert.Contains(t, output, "error: cannot scan /src/demo: permission denied")
		assert.Contains(t, output, "run-1  2026-03-01T09:00:00Z  completed  /src/demo")
		assert.Contains(t, output, "overview=degraded readme=ok")
		assert.Less(t, bytes.Index(stdout.Bytes(), []byte("run-2")), bytes.Index(stdout.Bytes(), []byte("run-1")))
	})

	t.Run("filters by absolute project path", func(t *testing.T) {
		t.Parallel()

		var gotFilter deepdoc.RunFilter
		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, filter deepdoc.RunFilter) ([]*deepdoc.RunRecord, error) {
				gotFilter = filter
				return nil, nil
			},
		}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Runs: runs}

		err := (&main.RunsListCmd{Path: "demo", Limit: 5}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, gotFilter.ProjectPath)
		assert.True(t, filepath.IsAbs(*gotFilter.ProjectPath))
		assert.Equal(t, "demo", filepath.Base(*gotFilter.ProjectPath))
	})

	t.Run("explains an empty history", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, _ deepdoc.RunFilter) ([]*deepdoc.RunRecord, error) {
				return nil, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		err := (&main.RunsListCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No runs recorded")
	})
}

func TestRunsShowCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the run with stages in workflow order", func(t *testing.T) {
		t.Parallel()

		started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		runs := &mock.RunService{
			FindRunByIDFn: func(_ context.Context, id string) (*deepdoc.RunRecord, error) {
				return &deepdoc.RunRecord{
					ID:          id,
					ProjectPath: "/src/demo",
					Status:      deepdoc.RunCompleted,
					Stages: map[deepdoc.StageName]deepdoc.StageStatus{
						deepdoc.StageSummary:  deepdoc.StageOK,
						deepdoc.StageOverview: deepdoc.StageDegraded,
					},
					StartedAt:   started,
					CompletedAt: started.Add(95 * time.Second),
				}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		err := (&main.RunsShowCmd{ID: "run-1"}).Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "Run:       run-1\n")
		assert.Contains(t, output, "Project:   /src/demo\n")
		assert.Contains(t, output, "Completed: 2026-03-01T09:01:35Z (1m35s)\n")
		assert.Less(t, strings.Index(output, "Overview"), strings.Index(output, "Summary"))
		assert.NotContains(t, output, "Error:")
	})

	t.Run("returns not found for unknown IDs", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunByIDFn: func(_ context.Context, _ string) (*deepdoc.RunRecord, error) {
				return nil, deepdoc.Errorf(deepdoc.ENOTFOUND, "run not found")
			},
		}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Runs: runs}

		err := (&main.RunsShowCmd{ID: "nope"}).Run(deps)

		assert.Equal(t, deepdoc.ENOTFOUND, deepdoc.ErrorCode(err))
	})
}

func TestRunsDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	var deleted string
	runs := &mock.RunService{
		DeleteRunFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	stdout := &bytes.Buffer{}
	deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

	err := (&main.RunsDeleteCmd{ID: "run-7"}).Run(deps)

	require.NoError(t, err)
	assert.Equal(t, "run-7", deleted)
	assert.Equal(t, "Deleted run run-7\n", stdout.String())
}

func TestRunsPruneCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("deletes runs started before the cutoff", func(t *testing.T) {
		t.Parallel()

		var cutoff time.Time
		runs := &mock.RunService{
			DeleteRunsBeforeFn: func(_ context.Context, before time.Time) (int, error) {
				cutoff = before
				return 3, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		before := time.Now()
		err := (&main.RunsPruneCmd{OlderThan: 48 * time.Hour}).Run(deps)

		require.NoError(t, err)
		assert.WithinDuration(t, before.Add(-48*time.Hour), cutoff, time.Minute)
		assert.Equal(t, "Removed 3 runs older than 48h0m0s\n", stdout.String())
	})

	t.Run("rejects a non-positive age", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Runs: &mock.RunService{}}

		err := (&main.RunsPruneCmd{}).Run(deps)

		assert.Equal(t, deepdoc.EINVALID, deepdoc.ErrorCode(err))
	})
}
