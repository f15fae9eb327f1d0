// Package deepdoc generates Markdown documentation for a source tree with a
// locally hosted LLM. It scans a project, condenses it into a bounded digest,
// drives a small graph of generation stages through a retrying, rate-limited
// model gateway with a response cache, and assembles the stage outputs into a
// cross-referenced document set.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, ollama/, gemini/) or the
// concern they orchestrate (docgen/, gateway/).
package deepdoc
