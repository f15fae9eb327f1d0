package docgen

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/alqudimi/deepdoc"
	"github.com/cespare/xxhash/v2"
)

// HashText returns the hex encoded xxhash64 of s.
func HashText(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}

// DigestHash hashes the rendered form of a digest, so two digests that
// render identically share cache entries.
func DigestHash(d *deepdoc.ProjectDigest) string {
	return HashText(deepdoc.FormatDigest(d))
}

// FingerprintInput lists everything a stage response depends on.
type FingerprintInput struct {
	Stage         deepdoc.StageName
	PromptVersion string
	Model         string
	Temperature   float64
	DigestHash    string

	// Dependencies maps each declared dependency to the hash of its output.
	Dependencies map[deepdoc.StageName]string
}

// Fingerprint returns the cache key for a stage invocation. Map iteration
// order does not affect the result.
func Fingerprint(in FingerprintInput) string {
	h := xxhash.New()
	write := func(field, value string) {
		_, _ = h.WriteString(field)
		_, _ = h.WriteString("=")
		_, _ = h.WriteString(strconv.Itoa(len(value)))
		_, _ = h.WriteString(":")
		_, _ = h.WriteString(value)
		_, _ = h.WriteString(";")
	}

	write("stage", string(in.Stage))
	write("prompt", in.PromptVersion)
	write("model", in.Model)
	write("temperature", strconv.FormatFloat(in.Temperature, 'f', 3, 64))
	write("digest", in.DigestHash)

	deps := make([]string, 0, len(in.Dependencies))
	for name := range in.Dependencies {
		deps = append(deps, string(name))
	}
	sort.Strings(deps)
	for _, name := range deps {
		write("dep:"+name, in.Dependencies[deepdoc.StageName(name)])
	}

	return fmt.Sprintf("%s-%016x", in.Stage, h.Sum64())
}

// OutputHash hashes a dependency output for use in a fingerprint. The
// status is included so that a degraded fallback never shares a key with a
// genuine response of the same text.
func OutputHash(out deepdoc.StageOutput) string {
	return HashText(string(out.Status) + "\x00" + out.RawText)
}
