package deepdoc

import (
	"context"
	"strings"
)

// Document is a single Markdown file produced by a run.
type Document struct {
	Name    string `json:"name"` // File name, e.g. "README.md"
	Title   string `json:"title"`
	Content string `json:"content"`

	// Stage and Status are set for documents generated from a stage output.
	Stage  StageName   `json:"stage,omitempty"`
	Status StageStatus `json:"status,omitempty"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Name == "" {
		return Errorf(EINVALID, "document name required")
	}
	if strings.ContainsAny(d.Name, `/\`) || d.Name == "." || d.Name == ".." {
		return Errorf(EINVALID, "document name must be a plain file name: %q", d.Name)
	}
	return nil
}

// DocumentSet is the aggregate output of a completed run.
type DocumentSet struct {
	Documents []*Document `json:"documents"`
}

// Find returns the document with the given name, or nil.
func (s *DocumentSet) Find(name string) *Document {
	if s == nil {
		return nil
	}
	for _, d := range s.Documents {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Names returns the document names in order.
func (s *DocumentSet) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Documents))
	for _, d := range s.Documents {
		names = append(names, d.Name)
	}
	return names
}

// WriteResult reports which documents a DocumentWriter persisted.
type WriteResult struct {
	Written []string `json:"written"`
	Skipped []string `json:"skipped,omitempty"` // Existing files that were kept
}

// DocumentWriter persists a document set.
type DocumentWriter interface {
	WriteDocuments(ctx context.Context, set *DocumentSet) (*WriteResult, error)
}
