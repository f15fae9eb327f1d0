package docgen

import (
	"regexp"
	"strings"

	"github.com/alqudimi/deepdoc"
)

var (
	templateMarkerRe = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	placeholderRe    = regexp.MustCompile(`(?i)\[(?:insert|placeholder)\b[^\]]*\]`)
)

// ValidateOutput rejects model output that is empty or still contains
// unresolved template markers such as "{{name}}" or "[Insert description]".
func ValidateOutput(text string) error {
	if strings.TrimSpace(text) == "" {
		return deepdoc.Errorf(deepdoc.EMODEL, "empty model output")
	}
	prose := stripCode(text)
	if m := templateMarkerRe.FindString(prose); m != "" {
		return deepdoc.Errorf(deepdoc.EMODEL, "unresolved template marker %q", m)
	}
	if m := placeholderRe.FindString(prose); m != "" {
		return deepdoc.Errorf(deepdoc.EMODEL, "unresolved placeholder %q", m)
	}
	return nil
}

var codeRe = regexp.MustCompile("(?s)```.*?```|`[^`\n]*`")

// stripCode removes code spans and fences, where template syntax is
// legitimate content.
func stripCode(s string) string {
	return codeRe.ReplaceAllString(s, "")
}
