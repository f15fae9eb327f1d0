package docgen

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/alqudimi/deepdoc"
	"gopkg.in/yaml.v3"
)

// collapseMinLines is the section length above which dependency,
// requirement and configuration sections are folded.
const collapseMinLines = 15

const (
	maxDescriptionChars = 160
	maxKeywords         = 10
	maxTags             = 15
	maxLanguages        = 5
)

// FrontMatter is the YAML metadata block that prefixes README, ARCHITECTURE
// and API documents.
type FrontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Languages   []string `yaml:"languages,omitempty"`
}

// techTerms are picked up as keywords when they appear in a document.
var techTerms = []string{
	"api", "rest", "graphql", "database", "authentication", "authorization",
	"microservices", "docker", "kubernetes", "ci/cd", "testing", "deployment",
	"frontend", "backend", "fullstack", "web", "mobile", "cloud",
	"machine learning", "ai", "data", "analytics", "security",
	"open source", "library", "framework", "cli", "sdk", "tool",
}

// tagKeywords are the keywords that are also promoted to tags.
var tagKeywords = []string{"documentation", "open-source", "library", "framework", "cli", "api"}

var capitalizedWord = regexp.MustCompile(`\b[A-Z][a-z]+(?:[A-Z][a-z]+)*\b`)

// NewFrontMatter derives document metadata from the digest and the rendered
// document body.
func NewFrontMatter(d *deepdoc.ProjectDigest, stage deepdoc.StageName, content string) FrontMatter {
	name := orDefault(d.Name, "Project")
	langs := head(d.DetectedLanguages, maxLanguages)
	keywords := extractKeywords(d, content)

	fm := FrontMatter{
		Title:       name,
		Description: describe(d, content),
		Keywords:    head(keywords, maxKeywords),
		Tags:        tags(langs, head(d.DetectedFrameworks, maxLanguages), keywords),
		Languages:   langs,
	}
	switch stage {
	case deepdoc.StageReadme:
		fm.Title = name + " - Documentation"
	case deepdoc.StageArchitecture:
		fm.Title = name + " Architecture Guide"
	case deepdoc.StageAPIReference:
		fm.Title = name + " API Reference"
	}
	return fm
}

// Render returns the front matter delimited by "---" lines.
func (fm FrontMatter) Render() (string, error) {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}
	return "---\n" + string(data) + "---\n\n", nil
}

// describe returns the first paragraph after the title, cut to a search
// snippet length, or a sentence built from the digest statistics.
func describe(d *deepdoc.ProjectDigest, content string) string {
	var parts []string
	seenTitle := false
	fenced := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			fenced = !fenced
			continue
		}
		if fenced {
			continue
		}
		if strings.HasPrefix(line, "# ") {
			seenTitle = true
			continue
		}
		if !seenTitle {
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			if len(parts) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(trimmed, ">") || strings.HasPrefix(trimmed, "[!") || strings.HasPrefix(trimmed, "![") {
			continue
		}
		parts = append(parts, trimmed)
		if len(strings.Join(parts, " ")) > maxDescriptionChars-10 {
			break
		}
	}

	desc := strings.Join(parts, " ")
	if len(desc) > maxDescriptionChars {
		desc = strings.TrimSpace(desc[:maxDescriptionChars-3]) + "..."
	}
	if desc != "" {
		return desc
	}

	if langs := head(d.DetectedLanguages, 3); len(langs) > 0 {
		return fmt.Sprintf("A %s project with %d files and %d lines of code.", strings.Join(langs, ", "), d.TotalFiles, d.TotalLines)
	}
	return fmt.Sprintf("A project with %d files and %d lines of code.", d.TotalFiles, d.TotalLines)
}

func extractKeywords(d *deepdoc.ProjectDigest, content string) []string {
	set := make(map[string]struct{})
	for _, l := range d.DetectedLanguages {
		set[l] = struct{}{}
	}
	for _, f := range d.DetectedFrameworks {
		set[f] = struct{}{}
	}

	lower := strings.ToLower(content)
	for _, term := range techTerms {
		if containsWord(lower, term) {
			set[term] = struct{}{}
		}
	}

	counts := make(map[string]int)
	for _, w := range capitalizedWord.FindAllString(content, -1) {
		counts[w]++
	}
	for w, n := range counts {
		if n > 2 && len(w) > 3 {
			set[strings.ToLower(w)] = struct{}{}
		}
	}

	keywords := make([]string, 0, len(set))
	for k := range set {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	return keywords
}

// containsWord reports whether term occurs in s delimited by non-letters.
func containsWord(s, term string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], term)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(term)
		if (start == 0 || !isWordByte(s[start-1])) && (end == len(s) || !isWordByte(s[end])) {
			return true
		}
		i = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func tags(langs, frameworks, keywords []string) []string {
	set := make(map[string]struct{})
	for _, l := range langs {
		set[strings.ToLower(l)] = struct{}{}
	}
	for _, f := range frameworks {
		set[strings.ToLower(f)] = struct{}{}
	}
	for _, kw := range tagKeywords {
		for _, k := range keywords {
			if k == kw {
				set[kw] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return head(out, maxTags)
}

// EnhanceMarkdown tags bare code fences with an inferred language and folds
// long dependency, requirement and configuration sections into
// collapsible blocks.
func EnhanceMarkdown(body string) string {
	return collapseSections(tagCodeFences(body))
}

// tagCodeFences adds a language to opening fences that have none, judged by
// the three lines before the fence.
func tagCodeFences(body string) string {
	lines := strings.Split(body, "\n")
	fenced := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "```") {
			continue
		}
		if fenced {
			fenced = false
			continue
		}
		fenced = true
		if trimmed != "```" {
			continue
		}
		prev := strings.ToLower(strings.Join(lines[max(0, i-3):i], " "))
		if lang := inferLanguage(prev); lang != "" {
			lines[i] = strings.Replace(line, "```", "```"+lang, 1)
		}
	}
	return strings.Join(lines, "\n")
}

func inferLanguage(prev string) string {
	switch {
	case strings.Contains(prev, "python") || strings.Contains(prev, "pip install"):
		return "python"
	case strings.Contains(prev, "javascript") || strings.Contains(prev, "npm"):
		return "javascript"
	case strings.Contains(prev, "bash") || strings.Contains(prev, "shell") || strings.Contains(prev, "$"):
		return "bash"
	}
	return ""
}

// collapseSections wraps the bodies of long sections whose heading names
// dependencies, requirements or configuration in a <details> block. A
// section ends at the next heading of the same or a higher level.
func collapseSections(body string) string {
	lines := strings.Split(body, "\n")
	levels := headingLevels(lines)

	out := make([]string, 0, len(lines)+6)
	for i := 0; i < len(lines); i++ {
		out = append(out, lines[i])
		level := levels[i]
		if level < 2 || !collapsible(lines[i]) {
			continue
		}

		end := i + 1
		for end < len(lines) && (levels[end] == 0 || levels[end] > level) {
			end++
		}
		section := trimBlank(lines[i+1 : end])
		if len(section) <= collapseMinLines {
			continue
		}

		out = append(out, "", "<details>", "<summary>Click to expand</summary>", "")
		out = append(out, section...)
		out = append(out, "", "</details>")
		if end < len(lines) {
			out = append(out, "")
		}
		i = end - 1
	}
	return strings.Join(out, "\n")
}

// headingLevels returns the heading level of each line, 0 for lines that are
// not headings or sit inside a code fence.
func headingLevels(lines []string) []int {
	levels := make([]int, len(lines))
	fenced := false
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "```") {
			fenced = !fenced
			continue
		}
		if !fenced && isHeading(l) {
			levels[i] = len(l) - len(strings.TrimLeft(l, "#"))
		}
	}
	return levels
}

func collapsible(heading string) bool {
	return strings.Contains(heading, "Dependencies") ||
		strings.Contains(heading, "Requirements") ||
		strings.Contains(heading, "Configuration")
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// quickStats renders the statistics block appended to the summary.
func quickStats(d *deepdoc.ProjectDigest) string {
	var sb strings.Builder
	sb.WriteString("\n## Quick Stats\n\n")
	fmt.Fprintf(&sb, "- **Total Files**: %d\n", d.TotalFiles)
	fmt.Fprintf(&sb, "- **Lines of Code**: %d\n", d.TotalLines)
	fmt.Fprintf(&sb, "- **Primary Languages**: %s\n", listOr(head(d.DetectedLanguages, 3), "None detected"))
	if len(d.DetectedFrameworks) > 0 {
		fmt.Fprintf(&sb, "- **Frameworks**: %s\n", strings.Join(d.DetectedFrameworks, ", "))
	}
	return sb.String()
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
