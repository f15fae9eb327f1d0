package deepdoc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	headingRe   = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+?)(?:[ \t]+#+)?[ \t]*$`)
	codeFenceRe = regexp.MustCompile("(?s)```.*?```")
)

// Section is a heading in a Markdown document.
type Section struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// ExtractSections returns every ATX heading in markdown outside fenced code
// blocks. Anchors follow the GitHub convention; repeated anchors get a
// numeric suffix.
func ExtractSections(markdown string) []Section {
	if markdown == "" {
		return nil
	}

	matches := headingRe.FindAllStringSubmatch(codeFenceRe.ReplaceAllString(markdown, ""), -1)
	if len(matches) == 0 {
		return nil
	}

	sections := make([]Section, 0, len(matches))
	seen := make(map[string]int)
	for _, m := range matches {
		title := strings.TrimSpace(m[2])
		anchor := Anchor(title)
		if n, ok := seen[anchor]; ok {
			seen[anchor] = n + 1
			anchor += "-" + strconv.Itoa(n)
		} else {
			seen[anchor] = 1
		}
		sections = append(sections, Section{Level: len(m[1]), Title: title, Anchor: anchor})
	}
	return sections
}

// TableOfContents renders a nested Markdown list linking to the headings of
// markdown between minLevel and maxLevel inclusive. Returns "" when fewer
// than two headings qualify.
func TableOfContents(markdown string, minLevel, maxLevel int) string {
	var picked []Section
	for _, s := range ExtractSections(markdown) {
		if s.Level >= minLevel && s.Level <= maxLevel {
			picked = append(picked, s)
		}
	}
	if len(picked) < 2 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Table of Contents\n\n")
	for _, s := range picked {
		fmt.Fprintf(&b, "%s- [%s](#%s)\n", strings.Repeat("  ", s.Level-minLevel), s.Title, s.Anchor)
	}
	return b.String()
}

// Anchor converts a heading title into a URL fragment: lowercase letters and
// digits, with runs of spaces and hyphens collapsed to a single hyphen.
func Anchor(title string) string {
	var sb strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			hyphen = false
		case (unicode.IsSpace(r) || r == '-') && !hyphen && sb.Len() > 0:
			sb.WriteRune('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
