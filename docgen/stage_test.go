package docgen_test

import (
	"testing"

	"github.com/alqudimi/deepdoc"
	"github.com/alqudimi/deepdoc/docgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stub(name deepdoc.StageName, needs ...deepdoc.StageName) docgen.Stage {
	return docgen.Stage{
		Name:          name,
		Needs:         needs,
		PromptVersion: string(name) + "/test",
		Prompt: func(*deepdoc.ProjectDigest, map[deepdoc.StageName]deepdoc.StageOutput) string {
			return "prompt for " + string(name)
		},
	}
}

func TestDefaultStages(t *testing.T) {
	t.Parallel()

	t.Run("overview runs first and everything else depends on it", func(t *testing.T) {
		t.Parallel()

		stages := docgen.DefaultStages(true)

		require.Len(t, stages, 5)
		assert.Equal(t, deepdoc.StageOverview, stages[0].Name)
		assert.Empty(t, stages[0].Needs)
		for _, s := range stages[1:] {
			assert.Equal(t, []deepdoc.StageName{deepdoc.StageOverview}, s.Needs, s.Name)
		}
	})

	t.Run("summary is optional", func(t *testing.T) {
		t.Parallel()

		for _, s := range docgen.DefaultStages(false) {
			assert.NotEqual(t, deepdoc.StageSummary, s.Name)
		}
	})

	t.Run("architecture and api reference have no fallback", func(t *testing.T) {
		t.Parallel()

		for _, s := range docgen.DefaultStages(true) {
			switch s.Name {
			case deepdoc.StageArchitecture, deepdoc.StageAPIReference:
				assert.Nil(t, s.Fallback, s.Name)
			default:
				assert.NotNil(t, s.Fallback, s.Name)
			}
			assert.NotEmpty(t, s.PromptVersion, s.Name)
		}
	})

	t.Run("prompts embed the digest", func(t *testing.T) {
		t.Parallel()

		d := testDigest(t)
		prior := map[deepdoc.StageName]deepdoc.StageOutput{
			deepdoc.StageOverview: {RawText: "The overview text.\n", Status: deepdoc.StageOK},
		}

		for _, s := range docgen.DefaultStages(true) {
			p := s.Prompt(d, prior)

			assert.Contains(t, p, "Project name: demo", s.Name)
			assert.Contains(t, p, "Go, Shell", s.Name)
			if len(s.Needs) > 0 {
				assert.Contains(t, p, "The overview text.", s.Name)
			}
		}
	})

	t.Run("prompts mark unusable dependencies", func(t *testing.T) {
		t.Parallel()

		prior := map[deepdoc.StageName]deepdoc.StageOutput{
			deepdoc.StageOverview: {Status: deepdoc.StageFailed, Reason: deepdoc.ReasonExhausted},
		}

		p := docgen.DefaultStages(true)[1].Prompt(testDigest(t), prior)

		assert.Contains(t, p, "(overview not available)")
	})

	t.Run("fallbacks describe the project", func(t *testing.T) {
		t.Parallel()

		d := testDigest(t)
		for _, s := range docgen.DefaultStages(true) {
			if s.Fallback == nil {
				continue
			}
			text := s.Fallback(d)

			assert.Contains(t, text, "A Go, Shell project with 2 files.", s.Name)
			assert.NoError(t, docgen.ValidateOutput(text), s.Name)
		}
	})

	t.Run("fallbacks handle an empty project", func(t *testing.T) {
		t.Parallel()

		d, err := deepdoc.BuildDigest(&deepdoc.ScanResult{}, deepdoc.BudgetConfig{MaxTotalChars: 100, MaxCharsPerFile: 10})
		require.NoError(t, err)

		for _, s := range docgen.DefaultStages(true) {
			if s.Fallback == nil {
				continue
			}
			assert.Contains(t, s.Fallback(d), "A project with 0 files.", s.Name)
		}
	})
}

func TestValidateStages(t *testing.T) {
	t.Parallel()

	t.Run("orders dependencies first", func(t *testing.T) {
		t.Parallel()

		order, err := docgen.ValidateStages([]docgen.Stage{
			stub("c", "b"),
			stub("b", "a"),
			stub("a"),
		})

		require.NoError(t, err)
		assert.Equal(t, []deepdoc.StageName{"a", "b", "c"}, order)
	})

	t.Run("default catalog is valid", func(t *testing.T) {
		t.Parallel()

		order, err := docgen.ValidateStages(docgen.DefaultStages(true))

		require.NoError(t, err)
		assert.Equal(t, deepdoc.StageOverview, order[0])
		assert.Len(t, order, 5)
	})

	tests := []struct {
		name   string
		stages []docgen.Stage
		msg    string
	}{
		{"unknown dependency", []docgen.Stage{stub("a", "missing")}, `stage "a" depends on unknown stage "missing"`},
		{"duplicate", []docgen.Stage{stub("a"), stub("a")}, `duplicate stage "a"`},
		{"cycle", []docgen.Stage{stub("a", "c"), stub("b", "a"), stub("c", "b")}, "stage dependency cycle: a -> c -> b -> a"},
		{"self dependency", []docgen.Stage{stub("a", "a")}, "stage dependency cycle: a -> a"},
		{"missing name", []docgen.Stage{stub("")}, "stage name required"},
		{"missing prompt", []docgen.Stage{{Name: "a"}}, `stage "a" has no prompt`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := docgen.ValidateStages(tt.stages)

			assert.Equal(t, deepdoc.EINVALID, deepdoc.ErrorCode(err))
			assert.Equal(t, tt.msg, deepdoc.ErrorMessage(err))
		})
	}
}
