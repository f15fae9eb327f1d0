package deepdoc

import (
	"fmt"
	"strings"
)

// FormatDigest renders a digest as prompt context. The output depends only on
// the digest, so it doubles as the digest's identity for fingerprinting.
func FormatDigest(d *ProjectDigest) string {
	if d == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<project>\n<name>%s</name>\n", d.Name)
	fmt.Fprintf(&sb, "<total_files>%d</total_files>\n", d.TotalFiles)
	fmt.Fprintf(&sb, "<total_lines>%d</total_lines>\n", d.TotalLines)
	fmt.Fprintf(&sb, "<languages>%s</languages>\n", joinOr(d.DetectedLanguages, "None detected"))
	fmt.Fprintf(&sb, "<primary_language>%s</primary_language>\n", orDefault(d.PrimaryLanguage, "Unknown"))
	fmt.Fprintf(&sb, "<frameworks>%s</frameworks>\n", joinOr(d.DetectedFrameworks, "None detected"))
	if dirs := d.Directories(); len(dirs) > 0 {
		fmt.Fprintf(&sb, "<directories>%s</directories>\n", strings.Join(dirs, ", "))
	}
	if !d.Dependencies.Empty() {
		sb.WriteString("<dependencies>\n")
		sb.WriteString(FormatDependencies(d.Dependencies))
		sb.WriteString("</dependencies>\n")
	}
	sb.WriteString("</project>\n")

	sb.WriteString("<files>\n")
	for _, f := range d.Files {
		fmt.Fprintf(&sb, "<file path=%q language=%q lines=\"%d\" bytes=\"%d\">\n",
			f.Path, f.Language, f.LineCount, f.SizeBytes)
		sb.WriteString(f.Excerpt)
		if f.Excerpt != "" && !strings.HasSuffix(f.Excerpt, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("</file>\n")
	}
	sb.WriteString("</files>\n")

	if len(d.Omitted) > 0 {
		fmt.Fprintf(&sb, "<omitted count=\"%d\">%s</omitted>\n", len(d.Omitted), strings.Join(d.Omitted, ", "))
	}
	return sb.String()
}

// FormatDependencies renders dependency information as a compact list, one
// manifest per line.
func FormatDependencies(info *DependencyInfo) string {
	if info.Empty() {
		return ""
	}

	var sb strings.Builder
	for _, m := range info.Manifests {
		names := make([]string, 0, len(m.Dependencies))
		for _, dep := range m.Dependencies {
			if dep.Version != "" {
				names = append(names, dep.Name+"@"+dep.Version)
			} else {
				names = append(names, dep.Name)
			}
		}
		fmt.Fprintf(&sb, "- %s (%s): %s\n", m.Path, m.Ecosystem, joinOr(names, "no dependencies"))
	}
	if len(info.EnvVars) > 0 {
		fmt.Fprintf(&sb, "- environment (%s): %s\n", info.EnvVarsFile, strings.Join(info.EnvVars, ", "))
	}
	return sb.String()
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
