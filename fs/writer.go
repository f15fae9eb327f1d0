// Package fs implements the filesystem side of deepdoc: a project Scanner
// with ignore rules, language and framework detection, dependency manifest
// parsing, and a Markdown DocumentWriter.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alqudimi/deepdoc"
)

// Ensure Writer implements deepdoc.DocumentWriter at compile time.
var _ deepdoc.DocumentWriter = (*Writer)(nil)

// Writer writes documents as markdown files to a directory.
type Writer struct {
	baseDir string

	// Overwrite replaces existing files. When false, existing files are kept
	// and reported as skipped.
	Overwrite bool
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string, overwrite bool) *Writer {
	return &Writer{baseDir: baseDir, Overwrite: overwrite}
}

// WriteDocuments writes every document in set to the base directory. Each
// file is written to a temporary name and renamed into place, so readers
// never observe a partially written document.
func (w *Writer) WriteDocuments(ctx context.Context, set *deepdoc.DocumentSet) (*deepdoc.WriteResult, error) {
	if set == nil {
		return nil, deepdoc.Errorf(deepdoc.EINVALID, "document set required")
	}
	for _, doc := range set.Documents {
		if err := doc.Validate(); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	result := &deepdoc.WriteResult{}
	for _, doc := range set.Documents {
		if err := ctx.Err(); err != nil {
			return result, deepdoc.Errorf(deepdoc.ECANCELED, "write canceled")
		}

		fullPath := filepath.Join(w.baseDir, doc.Name)
		if !w.Overwrite {
			if _, err := os.Stat(fullPath); err == nil {
				result.Skipped = append(result.Skipped, doc.Name)
				continue
			} else if !errors.Is(err, iofs.ErrNotExist) {
				return result, fmt.Errorf("stat %s: %w", doc.Name, err)
			}
		}

		if err := writeAtomic(fullPath, FormatDocument(doc)); err != nil {
			return result, fmt.Errorf("write %s: %w", doc.Name, err)
		}
		result.Written = append(result.Written, doc.Name)
	}
	return result, nil
}

// FormatDocument returns the file content of doc, ending in exactly one
// newline.
func FormatDocument(doc *deepdoc.Document) string {
	return strings.TrimRight(doc.Content, "\n") + "\n"
}

func writeAtomic(path, content string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
