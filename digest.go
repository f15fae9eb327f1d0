package deepdoc

import (
	"path"
	"sort"
	"strings"
)

// Relevance weights used to rank files for inclusion in a digest.
const (
	entryPointWeight      = 10
	testFilePenalty       = 5
	primaryLanguageWeight = 3
)

// BudgetConfig bounds the size of a ProjectDigest.
type BudgetConfig struct {
	MaxTotalChars   int `json:"maxTotalChars"`
	MaxCharsPerFile int `json:"maxCharsPerFile"`
}

// Validate returns an error if either limit is not positive.
func (b BudgetConfig) Validate() error {
	if b.MaxTotalChars <= 0 {
		return Errorf(EINVALID, "max total chars must be positive")
	}
	if b.MaxCharsPerFile <= 0 {
		return Errorf(EINVALID, "max chars per file must be positive")
	}
	return nil
}

// FileSummary is a file as it appears in a digest.
type FileSummary struct {
	Path      string `json:"path"`
	Language  string `json:"language"`
	SizeBytes int64  `json:"sizeBytes"`
	LineCount int    `json:"lineCount"`
	Excerpt   string `json:"excerpt"`
}

// ProjectDigest is a bounded, deterministic summary of a scanned project.
// It is built once per run and must not be modified afterwards.
type ProjectDigest struct {
	Name string `json:"name"`

	// Files in relevance order. Omitted lists, in the same order, the files
	// that did not fit into the character budget.
	Files   []FileSummary `json:"files"`
	Omitted []string      `json:"omitted,omitempty"`

	TotalFiles         int      `json:"totalFiles"`
	TotalLines         int      `json:"totalLines"`
	DetectedLanguages  []string `json:"detectedLanguages"`
	DetectedFrameworks []string `json:"detectedFrameworks"`
	PrimaryLanguage    string   `json:"primaryLanguage,omitempty"`

	Dependencies *DependencyInfo `json:"dependencies,omitempty"`
}

// ExcerptChars returns the combined length of all excerpts.
func (d *ProjectDigest) ExcerptChars() int {
	n := 0
	for _, f := range d.Files {
		n += len(f.Excerpt)
	}
	return n
}

// Empty reports whether the digest describes a project without files.
func (d *ProjectDigest) Empty() bool {
	return d == nil || d.TotalFiles == 0
}

// Directories returns the sorted top-level directories of the digest files.
func (d *ProjectDigest) Directories() []string {
	seen := make(map[string]bool)
	for _, f := range d.Files {
		if i := strings.IndexByte(f.Path, '/'); i > 0 {
			seen[f.Path[:i]] = true
		}
	}
	return sortedKeys(seen)
}

// BuildDigest ranks the scanned files by relevance and packs their excerpts
// into the budget. Output is fully determined by its inputs.
func BuildDigest(scan *ScanResult, budget BudgetConfig) (*ProjectDigest, error) {
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	if err := scan.Validate(); err != nil {
		return nil, err
	}

	primary := primaryLanguage(scan.Files)

	type ranked struct {
		file  *ScannedFile
		score int
	}
	files := make([]ranked, 0, len(scan.Files))
	for _, f := range scan.Files {
		files = append(files, ranked{file: f, score: RelevanceScore(f, primary)})
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].score != files[j].score {
			return files[i].score > files[j].score
		}
		return files[i].file.Path < files[j].file.Path
	})

	digest := &ProjectDigest{
		Name:               scan.Name,
		Files:              []FileSummary{},
		TotalFiles:         scan.TotalFiles,
		TotalLines:         scan.TotalLines,
		DetectedLanguages:  sortedSet(scan.DetectedLanguages),
		DetectedFrameworks: sortedSet(scan.DetectedFrameworks),
		PrimaryLanguage:    primary,
		Dependencies:       scan.Dependencies,
	}
	if digest.TotalFiles < len(scan.Files) {
		digest.TotalFiles = len(scan.Files)
	}

	used := 0
	for i, r := range files {
		excerpt := TruncateExcerpt(r.file.Content, budget.MaxCharsPerFile)
		if used+len(excerpt) > budget.MaxTotalChars {
			for _, rest := range files[i:] {
				digest.Omitted = append(digest.Omitted, rest.file.Path)
			}
			break
		}
		used += len(excerpt)
		digest.Files = append(digest.Files, FileSummary{
			Path:      r.file.Path,
			Language:  r.file.Language,
			SizeBytes: r.file.SizeBytes,
			LineCount: r.file.LineCount,
			Excerpt:   excerpt,
		})
	}

	return digest, nil
}

// RelevanceScore ranks a file for digest inclusion: entry points and files in
// the primary language score higher, larger files score higher on a log
// scale, and tests score lower.
func RelevanceScore(f *ScannedFile, primaryLanguage string) int {
	score := 0
	if IsEntryPoint(f.Path) {
		score += entryPointWeight
	}
	if IsTestFile(f.Path) {
		score -= testFilePenalty
	}
	score += sizeBucket(f.SizeBytes)
	if primaryLanguage != "" && f.Language == primaryLanguage {
		score += primaryLanguageWeight
	}
	return score
}

// TruncateExcerpt cuts content at the last line boundary that keeps the
// result within limit bytes. A first line longer than limit yields "".
func TruncateExcerpt(content string, limit int) string {
	if len(content) <= limit {
		return content
	}
	cut := strings.LastIndexByte(content[:limit], '\n')
	if cut < 0 {
		return ""
	}
	return content[:cut+1]
}

var entryPointNames = map[string]bool{
	"main.go":        true,
	"main.py":        true,
	"__main__.py":    true,
	"app.py":         true,
	"manage.py":      true,
	"wsgi.py":        true,
	"index.js":       true,
	"index.ts":       true,
	"main.js":        true,
	"main.ts":        true,
	"server.js":      true,
	"server.ts":      true,
	"app.js":         true,
	"app.ts":         true,
	"main.rs":        true,
	"lib.rs":         true,
	"main.c":         true,
	"main.cpp":       true,
	"main.java":      true,
	"program.cs":     true,
	"main.swift":     true,
	"main.kt":        true,
	"application.rb": true,
	"index.php":      true,
}

// IsEntryPoint reports whether the file name is a conventional program or
// library entry point.
func IsEntryPoint(p string) bool {
	return entryPointNames[strings.ToLower(path.Base(p))]
}

// IsTestFile reports whether the path looks like a test file or lives in a
// test directory.
func IsTestFile(p string) bool {
	lower := strings.ToLower(p)
	base := path.Base(lower)
	switch {
	case strings.HasSuffix(base, "_test.go"),
		strings.HasPrefix(base, "test_") && strings.HasSuffix(base, ".py"),
		strings.HasSuffix(base, "_test.py"),
		strings.Contains(base, ".test."),
		strings.Contains(base, ".spec."),
		strings.HasSuffix(base, "test.java"),
		strings.HasSuffix(base, "_spec.rb"):
		return true
	}
	for _, dir := range strings.Split(path.Dir(lower), "/") {
		switch dir {
		case "test", "tests", "__tests__", "testdata", "spec":
			return true
		}
	}
	return false
}

// sizeBucket returns floor(log10(size+1)).
func sizeBucket(size int64) int {
	bucket := 0
	for n := size + 1; n >= 10; n /= 10 {
		bucket++
	}
	return bucket
}

// primaryLanguage returns the most common language among files, breaking
// ties alphabetically.
func primaryLanguage(files []*ScannedFile) string {
	counts := make(map[string]int)
	for _, f := range files {
		if f.Language != "" {
			counts[f.Language]++
		}
	}
	best, bestCount := "", 0
	for _, lang := range sortedKeys(counts) {
		if counts[lang] > bestCount {
			best, bestCount = lang, counts[lang]
		}
	}
	return best
}

func sortedSet(values []string) []string {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			seen[v] = true
		}
	}
	return sortedKeys(seen)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
