package docgen

import (
	"fmt"
	"strings"

	"github.com/alqudimi/deepdoc"
)

// PromptFunc builds the prompt for a stage from the digest and the outputs
// of the stages it declares in Needs.
type PromptFunc func(d *deepdoc.ProjectDigest, prior map[deepdoc.StageName]deepdoc.StageOutput) string

// Stage describes how one documentation section is produced.
type Stage struct {
	Name  deepdoc.StageName
	Needs []deepdoc.StageName

	// PromptVersion is part of the cache fingerprint. Change it whenever
	// the prompt template changes.
	PromptVersion string
	Prompt        PromptFunc

	// Fallback synthesizes replacement text from the digest when the model
	// does not produce a usable response. Nil means the stage fails.
	Fallback func(d *deepdoc.ProjectDigest) string
}

// DefaultStages returns the stage catalog: Overview first, then README,
// Architecture, API Reference and optionally Summary, each depending on
// Overview only so that they can run concurrently.
func DefaultStages(summary bool) []Stage {
	stages := []Stage{
		{
			Name:          deepdoc.StageOverview,
			PromptVersion: "overview/v1",
			Prompt:        overviewPrompt,
			Fallback:      overviewFallback,
		},
		{
			Name:          deepdoc.StageReadme,
			Needs:         []deepdoc.StageName{deepdoc.StageOverview},
			PromptVersion: "readme/v1",
			Prompt:        readmePrompt,
			Fallback:      readmeFallback,
		},
		{
			Name:          deepdoc.StageArchitecture,
			Needs:         []deepdoc.StageName{deepdoc.StageOverview},
			PromptVersion: "architecture/v1",
			Prompt:        architecturePrompt,
		},
		{
			Name:          deepdoc.StageAPIReference,
			Needs:         []deepdoc.StageName{deepdoc.StageOverview},
			PromptVersion: "api_reference/v1",
			Prompt:        apiReferencePrompt,
		},
	}
	if summary {
		stages = append(stages, Stage{
			Name:          deepdoc.StageSummary,
			Needs:         []deepdoc.StageName{deepdoc.StageOverview},
			PromptVersion: "summary/v1",
			Prompt:        summaryPrompt,
			Fallback:      summaryFallback,
		})
	}
	return stages
}

// ValidateStages checks that names are unique and every dependency refers
// to a stage in the list, and that the dependencies form no cycle. It
// returns the stages in a dependency respecting order.
func ValidateStages(stages []Stage) ([]deepdoc.StageName, error) {
	byName := make(map[deepdoc.StageName]Stage, len(stages))
	for _, s := range stages {
		if s.Name == "" {
			return nil, deepdoc.Errorf(deepdoc.EINVALID, "stage name required")
		}
		if s.Prompt == nil {
			return nil, deepdoc.Errorf(deepdoc.EINVALID, "stage %q has no prompt", s.Name)
		}
		if _, dup := byName[s.Name]; dup {
			return nil, deepdoc.Errorf(deepdoc.EINVALID, "duplicate stage %q", s.Name)
		}
		byName[s.Name] = s
	}

	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[deepdoc.StageName]int, len(stages))
	order := make([]deepdoc.StageName, 0, len(stages))

	var visit func(name deepdoc.StageName, path []deepdoc.StageName) error
	visit = func(name deepdoc.StageName, path []deepdoc.StageName) error {
		switch state[name] {
		case visiting:
			return deepdoc.Errorf(deepdoc.EINVALID, "stage dependency cycle: %s", joinNames(append(path, name)))
		case visited:
			return nil
		}
		state[name] = visiting
		for _, dep := range byName[name].Needs {
			if _, ok := byName[dep]; !ok {
				return deepdoc.Errorf(deepdoc.EINVALID, "stage %q depends on unknown stage %q", name, dep)
			}
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = visited
		order = append(order, name)
		return nil
	}

	for _, s := range stages {
		if err := visit(s.Name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func joinNames(names []deepdoc.StageName) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, " -> ")
}

// priorText returns the usable text of a dependency or a marker saying it
// is unavailable.
func priorText(prior map[deepdoc.StageName]deepdoc.StageOutput, name deepdoc.StageName, limit int) string {
	out, ok := prior[name]
	if !ok || !out.Usable() {
		return fmt.Sprintf("(%s not available)", strings.ToLower(name.Title()))
	}
	if limit > 0 && len(out.RawText) > limit {
		if t := deepdoc.TruncateExcerpt(out.RawText, limit); t != "" {
			return t
		}
		return strings.ToValidUTF8(out.RawText[:limit], "")
	}
	return out.RawText
}
