package docgen

import (
	"fmt"
	"strings"

	"github.com/alqudimi/deepdoc"
)

// Placeholder replaces the body of a section whose stage failed.
const Placeholder = "Documentation unavailable for this section."

// Document file names.
const (
	ReadmeFile       = "README.md"
	ArchitectureFile = "ARCHITECTURE.md"
	APIFile          = "API.md"
	SummaryFile      = "SUMMARY.md"
	DependenciesFile = "DEPENDENCIES.md"
	ContributingFile = "CONTRIBUTING.md"
	IndexFile        = "INDEX.md"
)

var stageFiles = []struct {
	stage deepdoc.StageName
	file  string
}{
	{deepdoc.StageReadme, ReadmeFile},
	{deepdoc.StageArchitecture, ArchitectureFile},
	{deepdoc.StageAPIReference, APIFile},
	{deepdoc.StageSummary, SummaryFile},
}

var fileDescriptions = map[string]string{
	ReadmeFile:       "Project overview and getting started guide",
	SummaryFile:      "Concise project summary",
	ArchitectureFile: "System architecture and design decisions",
	APIFile:          "API reference and usage documentation",
	DependenciesFile: "Project dependencies and environment setup",
	ContributingFile: "Guidelines for contributing to the project",
}

// AssembleOptions selects optional documents and decorations.
type AssembleOptions struct {
	Contributing    bool
	TableOfContents bool

	// Enhance applies EnhanceMarkdown to README, ARCHITECTURE and API.
	Enhance bool

	// FrontMatter prefixes README, ARCHITECTURE and API with YAML metadata.
	FrontMatter bool
}

// enhanced reports whether stage gets the markdown enhancements and front
// matter.
func enhanced(stage deepdoc.StageName) bool {
	switch stage {
	case deepdoc.StageReadme, deepdoc.StageArchitecture, deepdoc.StageAPIReference:
		return true
	}
	return false
}

// Assemble turns the terminal stage outputs into a cross-referenced
// document set. Every stage that ran yields a document; failed stages yield
// the placeholder text, degraded ones carry a visible notice. The summary
// always ends with the digest statistics.
func Assemble(digest *deepdoc.ProjectDigest, results map[deepdoc.StageName]deepdoc.StageOutput, opts AssembleOptions) *deepdoc.DocumentSet {
	set := &deepdoc.DocumentSet{}

	var generated []string
	for _, sf := range stageFiles {
		if _, ok := results[sf.stage]; ok {
			generated = append(generated, sf.file)
		}
	}

	for _, sf := range stageFiles {
		out, ok := results[sf.stage]
		if !ok {
			continue
		}
		set.Documents = append(set.Documents, &deepdoc.Document{
			Name:    sf.file,
			Title:   sf.stage.Title(),
			Content: renderStage(digest, sf.stage, out, opts, seeAlso(sf.file, generated)),
			Stage:   sf.stage,
			Status:  out.Status,
		})
	}

	if !digest.Dependencies.Empty() {
		set.Documents = append(set.Documents, &deepdoc.Document{
			Name:    DependenciesFile,
			Title:   "Dependencies",
			Content: renderDependencies(digest.Dependencies),
		})
	}
	if opts.Contributing {
		set.Documents = append(set.Documents, &deepdoc.Document{
			Name:    ContributingFile,
			Title:   "Contributing",
			Content: contributingTemplate,
		})
	}

	set.Documents = append(set.Documents, &deepdoc.Document{
		Name:    IndexFile,
		Title:   "Index",
		Content: renderIndex(digest, results, set.Names()),
	})
	return set
}

func renderStage(d *deepdoc.ProjectDigest, stage deepdoc.StageName, out deepdoc.StageOutput, opts AssembleOptions, related []string) string {
	var sb strings.Builder

	body := strings.TrimSpace(out.RawText)
	if !out.Usable() {
		body = ""
	}

	title, rest := splitTitle(body)
	if title == "" {
		title = stage.Title()
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	switch out.Status {
	case deepdoc.StageDegraded:
		fmt.Fprintf(&sb, "> **Note:** this section was generated from project metadata because the model did not return a usable response (%s).\n\n", out.Reason)
	case deepdoc.StageFailed:
		fmt.Fprintf(&sb, "> %s\n", Placeholder)
	}

	if rest != "" && opts.Enhance && enhanced(stage) {
		rest = EnhanceMarkdown(rest)
	}
	if rest != "" {
		if opts.TableOfContents {
			if t := deepdoc.TableOfContents(rest, 2, 3); t != "" {
				sb.WriteString(t)
				sb.WriteString("\n")
			}
		}
		sb.WriteString(rest)
		sb.WriteString("\n")
	}
	if stage == deepdoc.StageSummary {
		sb.WriteString(quickStats(d))
	}

	var fm string
	if opts.FrontMatter && enhanced(stage) {
		fm, _ = NewFrontMatter(d, stage, "# "+title+"\n\n"+rest).Render()
	}

	if len(related) > 0 {
		sb.WriteString("\n---\n\nSee also: ")
		links := make([]string, len(related))
		for i, f := range related {
			links[i] = fmt.Sprintf("[%s](%s)", strings.TrimSuffix(f, ".md"), f)
		}
		sb.WriteString(strings.Join(links, " | "))
		sb.WriteString("\n")
	}
	return fm + sb.String()
}

// splitTitle separates a leading level one heading from the rest of body.
func splitTitle(body string) (title, rest string) {
	if !strings.HasPrefix(body, "# ") {
		return "", body
	}
	line, rest, _ := strings.Cut(body, "\n")
	return strings.TrimSpace(strings.TrimPrefix(line, "# ")), strings.TrimSpace(rest)
}

func seeAlso(self string, files []string) []string {
	var out []string
	for _, f := range files {
		if f != self {
			out = append(out, f)
		}
	}
	return append(out, IndexFile)
}

func renderDependencies(info *deepdoc.DependencyInfo) string {
	var sb strings.Builder
	sb.WriteString("# Dependencies & Environment\n\n")
	sb.WriteString("This document lists the declared project dependencies and required environment configuration.\n")

	for _, m := range info.Manifests {
		fmt.Fprintf(&sb, "\n## %s (%s)\n\n", m.Path, m.Ecosystem)
		if len(m.Dependencies) == 0 {
			sb.WriteString("No dependencies declared.\n")
			continue
		}
		sb.WriteString("| Package | Version | Scope |\n|---|---|---|\n")
		for _, d := range m.Dependencies {
			scope := "runtime"
			if d.Dev {
				scope = "development"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", d.Name, orDefault(d.Version, "-"), scope)
		}
	}

	if len(info.EnvVars) > 0 {
		fmt.Fprintf(&sb, "\n## Environment Variables\n\nDeclared in `%s`:\n\n", orDefault(info.EnvVarsFile, ".env.example"))
		for _, v := range info.EnvVars {
			fmt.Fprintf(&sb, "- `%s`\n", v)
		}
		sb.WriteString("\nCopy the example file and fill in your values:\n\n```bash\n")
		fmt.Fprintf(&sb, "cp %s .env\n```\n", orDefault(info.EnvVarsFile, ".env.example"))
	}
	return sb.String()
}

func renderIndex(d *deepdoc.ProjectDigest, results map[deepdoc.StageName]deepdoc.StageOutput, names []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s Documentation Index\n\n", orDefault(d.Name, "Project"))

	sb.WriteString("## Overview\n\n")
	if out, ok := results[deepdoc.StageOverview]; ok && out.Usable() {
		_, rest := splitTitle(strings.TrimSpace(out.RawText))
		sb.WriteString(demoteHeadings(rest))
		sb.WriteString("\n")
		if out.Status == deepdoc.StageDegraded {
			sb.WriteString("\n> **Note:** this overview was generated from project metadata.\n")
		}
	} else {
		fmt.Fprintf(&sb, "> %s\n", Placeholder)
	}

	sb.WriteString("\n## Documentation Files\n\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "- **[%s](%s)** - %s", name, name, orDefault(fileDescriptions[name], "Documentation"))
		for _, sf := range stageFiles {
			if sf.file == name && results[sf.stage].Status != deepdoc.StageOK {
				fmt.Fprintf(&sb, " (%s)", results[sf.stage].Status)
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n## Project Statistics\n\n")
	fmt.Fprintf(&sb, "- **Total Files**: %d\n", d.TotalFiles)
	fmt.Fprintf(&sb, "- **Total Lines of Code**: %d\n", d.TotalLines)
	fmt.Fprintf(&sb, "- **Languages**: %s\n", listOr(d.DetectedLanguages, "None detected"))
	fmt.Fprintf(&sb, "- **Frameworks**: %s\n", listOr(d.DetectedFrameworks, "None detected"))
	if len(d.Omitted) > 0 {
		fmt.Fprintf(&sb, "- **Files not included in the digest**: %d\n", len(d.Omitted))
	}
	return sb.String()
}

// demoteHeadings shifts every heading down one level so that embedded
// content nests under the surrounding section.
func demoteHeadings(s string) string {
	lines := strings.Split(s, "\n")
	fenced := false
	for i, l := range lines {
		if strings.HasPrefix(l, "```") {
			fenced = !fenced
		}
		if !fenced && isHeading(l) && !strings.HasPrefix(l, "######") {
			lines[i] = "#" + l
		}
	}
	return strings.Join(lines, "\n")
}

func isHeading(line string) bool {
	rest := strings.TrimLeft(line, "#")
	return len(rest) < len(line) && len(line)-len(rest) <= 6 && strings.HasPrefix(rest, " ")
}

const contributingTemplate = `# Contributing Guidelines

Thank you for considering contributing to this project!

## How to Contribute

### Reporting Bugs

- Check if the bug has already been reported in Issues
- Include detailed steps to reproduce the issue
- Specify your environment (OS, version, etc.)

### Suggesting Features

- Open an issue to discuss the feature before implementing it
- Explain the use case and benefits
- Consider backward compatibility

### Pull Requests

1. Fork the repository
2. Create a branch for your change (` + "`git checkout -b feature/my-change`" + `)
3. Make your changes and add or update tests
4. Ensure all tests pass
5. Commit with a descriptive message
6. Push the branch and open a Pull Request

### Code Style

- Follow the existing code style in the project
- Write clear, descriptive commit messages
- Update documentation as needed

## Code of Conduct

- Be respectful and inclusive
- Welcome newcomers and help them learn
- Focus on constructive feedback

## Questions?

Feel free to open an issue for any questions or clarifications.
`
