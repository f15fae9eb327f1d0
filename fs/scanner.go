package fs

import (
	"bytes"
	"context"
	"errors"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/alqudimi/deepdoc"
	"github.com/alqudimi/deepdoc/bloom"
	"github.com/alqudimi/deepdoc/htmltomarkdown"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultMaxContentBytes bounds how much of each file is kept as excerpt
// source.
const DefaultMaxContentBytes = 64 << 10

// binarySniffLen is how many leading bytes are checked for NUL to detect
// binary files.
const binarySniffLen = 8000

var _ deepdoc.Scanner = (*Scanner)(nil)

// Scanner implements deepdoc.Scanner over the local filesystem.
type Scanner struct {
	// IgnorePatterns use .gitignore syntax and are applied together with the
	// project's own .gitignore.
	IgnorePatterns []string

	// MaxDepth is the deepest directory level that is entered; files directly
	// in the root are at level 0.
	MaxDepth int

	// Files larger than MaxFileSize bytes are skipped. Zero means no limit.
	MaxFileSize int64

	MaxContentBytes int

	// Converter, when set, turns HTML files into Markdown before they are
	// kept as excerpt source.
	Converter deepdoc.Converter

	Logger *slog.Logger
}

// NewScanner creates a Scanner from the scanning configuration.
func NewScanner(cfg deepdoc.ScanConfig, conv deepdoc.Converter, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{
		IgnorePatterns:  cfg.IgnorePatterns,
		MaxDepth:        cfg.MaxDepth,
		MaxFileSize:     cfg.MaxFileSize(),
		MaxContentBytes: DefaultMaxContentBytes,
		Converter:       conv,
		Logger:          logger,
	}
}

// Scan walks the project rooted at root.
func (s *Scanner) Scan(ctx context.Context, root string) (*deepdoc.ScanResult, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, deepdoc.Errorf(deepdoc.EINVALID, "invalid project path %q", root)
	}
	info, err := os.Stat(abs)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, deepdoc.Errorf(deepdoc.ENOTFOUND, "project path does not exist: %s", abs)
	} else if err != nil {
		return nil, deepdoc.Errorf(deepdoc.EINVALID, "cannot access project path: %v", err)
	} else if !info.IsDir() {
		return nil, deepdoc.Errorf(deepdoc.EINVALID, "project path is not a directory: %s", abs)
	}

	w := &walk{
		scanner: s,
		root:    abs,
		rules:   s.ignoreRules(abs),
		dedup:   bloom.NewFilter(4096, 0.001),
		paths:   make(map[string]bool),
		langs:   make(map[string]bool),
		result:  &deepdoc.ScanResult{Root: abs, Name: filepath.Base(abs)},
	}
	if err := filepath.WalkDir(abs, func(p string, d iofs.DirEntry, err error) error {
		return w.visit(ctx, p, d, err)
	}); err != nil {
		if ctx.Err() != nil {
			return nil, deepdoc.Errorf(deepdoc.ECANCELED, "scan canceled")
		}
		return nil, deepdoc.Errorf(deepdoc.EINVALID, "cannot read project: %v", err)
	}

	deps, err := ParseDependencies(abs)
	if err != nil {
		s.Logger.Warn("dependency manifest skipped", "err", err)
	}

	r := w.result
	r.Dependencies = deps
	r.TotalFiles = len(r.Files)
	for lang := range w.langs {
		r.DetectedLanguages = append(r.DetectedLanguages, lang)
	}
	r.DetectedFrameworks = DetectFrameworks(w.paths, deps)
	return r, nil
}

// ignoreRules combines the configured patterns with the project .gitignore.
func (s *Scanner) ignoreRules(root string) *ignore.GitIgnore {
	lines := append([]string(nil), s.IgnorePatterns...)
	if data, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
		lines = append(lines, strings.Split(string(data), "\n")...)
	}
	return ignore.CompileIgnoreLines(lines...)
}

// walk is the state of one Scan call.
type walk struct {
	scanner *Scanner
	root    string
	rules   *ignore.GitIgnore
	dedup   *bloom.Filter
	paths   map[string]bool
	langs   map[string]bool
	result  *deepdoc.ScanResult
}

func (w *walk) visit(ctx context.Context, p string, d iofs.DirEntry, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		if p == w.root {
			return err
		}
		w.scanner.Logger.Warn("skipping unreadable path", "path", p, "err", err)
		if d != nil && d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}
	if p == w.root {
		return nil
	}

	rel, err := filepath.Rel(w.root, p)
	if err != nil {
		return nil
	}
	rel = filepath.ToSlash(rel)

	if d.IsDir() {
		if w.rules.MatchesPath(rel+"/") || strings.Count(rel, "/")+1 > w.scanner.MaxDepth {
			return filepath.SkipDir
		}
		return nil
	}
	if !d.Type().IsRegular() || w.rules.MatchesPath(rel) {
		return nil
	}

	info, err := d.Info()
	if err != nil {
		return nil
	}
	if w.scanner.MaxFileSize > 0 && info.Size() > w.scanner.MaxFileSize {
		w.scanner.Logger.Debug("skipping large file", "path", rel, "bytes", info.Size())
		return nil
	}

	f, err := w.scanner.readFile(p, rel, info.Size(), w.dedup)
	if err != nil {
		w.scanner.Logger.Warn("skipping unreadable file", "path", rel, "err", err)
		return nil
	}
	w.paths[rel] = true
	if f.Language != "" {
		w.langs[f.Language] = true
	}
	w.result.TotalLines += f.LineCount
	w.result.Files = append(w.result.Files, f)
	return nil
}

func (s *Scanner) readFile(p, rel string, size int64, dedup *bloom.Filter) (*deepdoc.ScannedFile, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}

	f := &deepdoc.ScannedFile{
		Path:      rel,
		Language:  LanguageFor(rel),
		SizeBytes: size,
	}
	if isBinary(data) {
		return f, nil
	}
	f.LineCount = CountLines(data)

	// Identical content is excerpted once; later copies keep their stats.
	if len(data) > 0 && dedup.Seen(data) {
		return f, nil
	}

	content := string(data)
	if s.Converter != nil && htmltomarkdown.IsHTML(rel) {
		if md, err := s.Converter.Convert(content); err == nil {
			content = md
		} else {
			s.Logger.Debug("html conversion failed", "path", rel, "err", err)
		}
	}
	f.Content = truncateUTF8(content, s.MaxContentBytes)
	return f, nil
}

// CountLines counts newline terminated lines plus a final unterminated one.
func CountLines(data []byte) int {
	n := bytes.Count(data, []byte{'\n'})
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}
	return n
}

func isBinary(data []byte) bool {
	if len(data) > binarySniffLen {
		data = data[:binarySniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

func truncateUTF8(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return strings.ToValidUTF8(s, "")
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.ToValidUTF8(s[:cut], "")
}
