package deepdoc

import "context"

// ScannedFile is a single file reported by a Scanner.
type ScannedFile struct {
	Path      string `json:"path"` // Slash-separated, relative to the project root
	Language  string `json:"language"`
	SizeBytes int64  `json:"sizeBytes"`
	LineCount int    `json:"lineCount"`

	// Content is the file text (or a prefix of it) the digest excerpt is cut
	// from. Empty for binary or unreadable files.
	Content string `json:"content,omitempty"`
}

// ScanResult is the raw output of scanning a project directory.
type ScanResult struct {
	Root string `json:"root"`
	Name string `json:"name"`

	Files []*ScannedFile `json:"files"`

	DetectedLanguages  []string `json:"detectedLanguages"`
	DetectedFrameworks []string `json:"detectedFrameworks"`
	TotalFiles         int      `json:"totalFiles"`
	TotalLines         int      `json:"totalLines"`

	Dependencies *DependencyInfo `json:"dependencies,omitempty"`
}

// Validate returns an error if the scan result is unusable.
func (r *ScanResult) Validate() error {
	if r == nil {
		return Errorf(EINVALID, "scan result required")
	}
	for _, f := range r.Files {
		if f == nil || f.Path == "" {
			return Errorf(EINVALID, "scanned file path required")
		}
	}
	return nil
}

// Scanner walks a project directory and reports its files.
type Scanner interface {
	// Scan inspects the project rooted at root.
	// Returns ENOTFOUND if root does not exist and EINVALID if it is not a
	// readable directory.
	Scan(ctx context.Context, root string) (*ScanResult, error)
}

// Dependency is a single declared package dependency.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Dev     bool   `json:"dev,omitempty"`
}

// Manifest is a dependency declaration file found in the project.
type Manifest struct {
	Path         string       `json:"path"`
	Ecosystem    string       `json:"ecosystem"` // "go", "npm", "pip", "maven"
	Dependencies []Dependency `json:"dependencies"`
}

// DependencyInfo summarizes the dependency manifests and environment
// variables declared by a project.
type DependencyInfo struct {
	Manifests   []Manifest `json:"manifests,omitempty"`
	EnvVars     []string   `json:"envVars,omitempty"`
	EnvVarsFile string     `json:"envVarsFile,omitempty"`
}

// Empty reports whether no manifests or environment variables were found.
func (d *DependencyInfo) Empty() bool {
	return d == nil || (len(d.Manifests) == 0 && len(d.EnvVars) == 0)
}

// Count returns the total number of declared dependencies.
func (d *DependencyInfo) Count() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, m := range d.Manifests {
		n += len(m.Dependencies)
	}
	return n
}
