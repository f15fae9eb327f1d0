package docgen

import (
	"fmt"
	"strings"

	"github.com/alqudimi/deepdoc"
)

const overviewInstructions = `You are an expert technical writer creating project documentation.
Based on the project digest below, write a clear and comprehensive project overview covering:
- Project purpose and main functionality
- Key technologies and languages used
- Project structure and organization
- Notable features and capabilities

Be concise but informative. Use a professional technical writing style and Markdown formatting.`

const readmeInstructions = `You are an expert at writing professional README.md files.
Write a README with these sections: title and tagline, overview, features, installation,
usage examples, project structure, technologies used, contributing and license.
Use Markdown headers, code blocks, lists and tables where appropriate.
Do not leave placeholders for the reader to fill in.`

const architectureInstructions = `You are a software architect writing technical architecture documentation.
Cover: high-level architecture, key components and their responsibilities, technology stack,
directory structure, data flow between components, design patterns used, and scalability
and performance considerations. Describe diagrams in prose. Use Markdown formatting.`

const apiReferenceInstructions = `You are writing API reference documentation for a software project.
Based on the source excerpts, document the public endpoints, functions, classes or commands:
their parameters, return values, usage examples and error handling.
Only describe what the excerpts show. Use Markdown with code examples.`

const summaryInstructions = `You are an expert technical writer creating concise project summaries.
Write a summary of the project in 1-2 paragraphs (150-200 words). Highlight the main purpose
and value, mention the key technologies, and write for both technical and non-technical readers.
Output only the summary text.`

func writeFacts(sb *strings.Builder, d *deepdoc.ProjectDigest) {
	fmt.Fprintf(sb, "Project name: %s\n", orUnknown(d.Name))
	fmt.Fprintf(sb, "Total files: %d\n", d.TotalFiles)
	fmt.Fprintf(sb, "Total lines of code: %d\n", d.TotalLines)
	fmt.Fprintf(sb, "Languages: %s\n", listOr(d.DetectedLanguages, "none detected"))
	fmt.Fprintf(sb, "Frameworks: %s\n", listOr(d.DetectedFrameworks, "none detected"))
}

func overviewPrompt(d *deepdoc.ProjectDigest, _ map[deepdoc.StageName]deepdoc.StageOutput) string {
	var sb strings.Builder
	sb.WriteString(overviewInstructions)
	sb.WriteString("\n\n")
	writeFacts(&sb, d)
	sb.WriteString("\n")
	sb.WriteString(deepdoc.FormatDigest(d))
	sb.WriteString("\nGenerate the project overview.")
	return sb.String()
}

func readmePrompt(d *deepdoc.ProjectDigest, prior map[deepdoc.StageName]deepdoc.StageOutput) string {
	var sb strings.Builder
	sb.WriteString(readmeInstructions)
	sb.WriteString("\n\n")
	writeFacts(&sb, d)
	if !d.Dependencies.Empty() {
		sb.WriteString("\nDeclared dependencies:\n")
		sb.WriteString(deepdoc.FormatDependencies(d.Dependencies))
	}
	sb.WriteString("\n<overview>\n")
	sb.WriteString(priorText(prior, deepdoc.StageOverview, 0))
	sb.WriteString("\n</overview>\n\nGenerate the README.md file.")
	return sb.String()
}

func architecturePrompt(d *deepdoc.ProjectDigest, prior map[deepdoc.StageName]deepdoc.StageOutput) string {
	var sb strings.Builder
	sb.WriteString(architectureInstructions)
	sb.WriteString("\n\n")
	writeFacts(&sb, d)
	fmt.Fprintf(&sb, "Main directories: %s\n", listOr(d.Directories(), "none"))
	sb.WriteString("\n<overview>\n")
	sb.WriteString(priorText(prior, deepdoc.StageOverview, 0))
	sb.WriteString("\n</overview>\n\n")
	sb.WriteString(deepdoc.FormatDigest(d))
	sb.WriteString("\nGenerate the architecture documentation.")
	return sb.String()
}

func apiReferencePrompt(d *deepdoc.ProjectDigest, prior map[deepdoc.StageName]deepdoc.StageOutput) string {
	var sb strings.Builder
	sb.WriteString(apiReferenceInstructions)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Project name: %s\n", orUnknown(d.Name))
	fmt.Fprintf(&sb, "Number of files: %d\n", d.TotalFiles)
	fmt.Fprintf(&sb, "Primary language: %s\n", orUnknown(d.PrimaryLanguage))
	sb.WriteString("\n<overview>\n")
	sb.WriteString(priorText(prior, deepdoc.StageOverview, 2000))
	sb.WriteString("\n</overview>\n\n")
	sb.WriteString(deepdoc.FormatDigest(d))
	sb.WriteString("\nGenerate the API reference.")
	return sb.String()
}

func summaryPrompt(d *deepdoc.ProjectDigest, prior map[deepdoc.StageName]deepdoc.StageOutput) string {
	var sb strings.Builder
	sb.WriteString(summaryInstructions)
	sb.WriteString("\n\n")
	writeFacts(&sb, d)
	sb.WriteString("\n<overview>\n")
	sb.WriteString(priorText(prior, deepdoc.StageOverview, 500))
	sb.WriteString("\n</overview>\n\nGenerate the summary.")
	return sb.String()
}

func overviewFallback(d *deepdoc.ProjectDigest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", orDefault(d.Name, "Project"))
	sb.WriteString(summaryFallback(d))
	sb.WriteString("\n")
	if dirs := d.Directories(); len(dirs) > 0 {
		sb.WriteString("\n## Structure\n\n")
		for _, dir := range dirs {
			fmt.Fprintf(&sb, "- `%s/`\n", dir)
		}
	}
	if len(d.DetectedFrameworks) > 0 {
		sb.WriteString("\n## Frameworks\n\n")
		for _, f := range d.DetectedFrameworks {
			fmt.Fprintf(&sb, "- %s\n", f)
		}
	}
	return sb.String()
}

func readmeFallback(d *deepdoc.ProjectDigest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", orDefault(d.Name, "Project"))
	sb.WriteString(summaryFallback(d))
	sb.WriteString("\n\n## Technologies\n\n")
	if len(d.DetectedLanguages) == 0 && len(d.DetectedFrameworks) == 0 {
		sb.WriteString("No languages were detected.\n")
	}
	for _, l := range d.DetectedLanguages {
		fmt.Fprintf(&sb, "- %s\n", l)
	}
	for _, f := range d.DetectedFrameworks {
		fmt.Fprintf(&sb, "- %s\n", f)
	}
	if len(d.Files) > 0 {
		sb.WriteString("\n## Key Files\n\n")
		for i, f := range d.Files {
			if i == 10 {
				break
			}
			fmt.Fprintf(&sb, "- `%s`\n", f.Path)
		}
	}
	return sb.String()
}

func summaryFallback(d *deepdoc.ProjectDigest) string {
	langs := d.DetectedLanguages
	if len(langs) > 2 {
		langs = langs[:2]
	}
	noun := "files"
	if d.TotalFiles == 1 {
		noun = "file"
	}
	if len(langs) == 0 {
		return fmt.Sprintf("A project with %d %s.", d.TotalFiles, noun)
	}
	return fmt.Sprintf("A %s project with %d %s.", strings.Join(langs, ", "), d.TotalFiles, noun)
}

func listOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

func orUnknown(s string) string { return orDefault(s, "unknown") }

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
