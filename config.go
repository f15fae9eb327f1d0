package deepdoc

import (
	"time"
)

// Model backends.
const (
	BackendOllama = "ollama"
	BackendGemini = "gemini"
)

// Config holds every option recognized by a documentation run.
type Config struct {
	Backend        string  `yaml:"backend"`
	BaseURL        string  `yaml:"baseUrl"`
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeoutSeconds"`

	RetryAttempts         int     `yaml:"retryAttempts"`
	RetryBaseDelayMs      int     `yaml:"retryBaseDelayMs"`
	RetryMaxDelayMs       int     `yaml:"retryMaxDelayMs"`
	MaxConcurrentRequests int     `yaml:"maxConcurrentRequests"`
	RequestsPerSecond     float64 `yaml:"requestsPerSecond"` // 0 disables rate limiting

	ChunkSizeChars      int `yaml:"chunkSizeChars"`
	MaxTotalDigestChars int `yaml:"maxTotalDigestChars"`

	CacheEnabled    bool `yaml:"cacheEnabled"`
	CacheTTLHours   int  `yaml:"cacheTtlHours"`
	CachePersistent bool `yaml:"cachePersistent"` // False keeps responses for one process only

	GenerateSummary bool        `yaml:"generateSummary"`
	RequiredStages  []StageName `yaml:"requiredStages,omitempty"`

	Scanning      ScanConfig         `yaml:"scanning"`
	Output        OutputConfig       `yaml:"output"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// ScanConfig controls project traversal.
type ScanConfig struct {
	IgnorePatterns []string `yaml:"ignorePatterns"`
	MaxDepth       int      `yaml:"maxDepth"`
	MaxFileSizeMB  int      `yaml:"maxFileSizeMB"`
}

// MaxFileSize returns the size limit in bytes.
func (c ScanConfig) MaxFileSize() int64 {
	return int64(c.MaxFileSizeMB) << 20
}

// OutputConfig controls where documents are written.
type OutputConfig struct {
	Directory         string `yaml:"directory"`
	OverwriteExisting bool   `yaml:"overwriteExisting"`
	Contributing      bool   `yaml:"contributing"`
	TableOfContents   bool   `yaml:"tableOfContents"`

	// MarkdownEnhancements tags bare code fences and folds long
	// dependency, requirement and configuration sections.
	MarkdownEnhancements bool `yaml:"markdownEnhancements"`

	// FrontMatter prefixes README, ARCHITECTURE and API documents with
	// YAML metadata for static site generators and search indexing.
	FrontMatter bool `yaml:"frontMatter"`
}

// NotificationConfig controls what generate prints once documents are written.
type NotificationConfig struct {
	CompletionMessage bool `yaml:"completionMessage"`
	Sound             bool `yaml:"sound"` // Terminal bell, only with the completion message
}

// DefaultIgnorePatterns are skipped by the scanner in addition to .gitignore.
var DefaultIgnorePatterns = []string{
	"*.log", "*.tmp", "*.cache",
	".git/", ".svn/", "node_modules/",
	"__pycache__/", "venv/", ".venv/",
	"dist/", "build/", "target/",
	".next/", ".nuxt/", "coverage/", ".pytest_cache/",
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Backend:               BackendOllama,
		BaseURL:               "http://localhost:11434",
		Model:                 "llama3.2",
		Temperature:           0.3,
		TimeoutSeconds:        120,
		RetryAttempts:         3,
		RetryBaseDelayMs:      1000,
		RetryMaxDelayMs:       30000,
		MaxConcurrentRequests: 3,
		ChunkSizeChars:        4000,
		MaxTotalDigestChars:   48000,
		CacheEnabled:          true,
		CacheTTLHours:         24,
		CachePersistent:       true,
		GenerateSummary:       true,
		Scanning: ScanConfig{
			IgnorePatterns: append([]string(nil), DefaultIgnorePatterns...),
			MaxDepth:       10,
			MaxFileSizeMB:  5,
		},
		Output: OutputConfig{
			Directory:            "docs",
			Contributing:         true,
			TableOfContents:      true,
			MarkdownEnhancements: true,
			FrontMatter:          true,
		},
		Notifications: NotificationConfig{
			Sound: true,
		},
	}
}

// Validate returns an error if any option is out of range.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendOllama, BackendGemini:
	default:
		return Errorf(EINVALID, "unknown backend %q", c.Backend)
	}
	if err := c.ModelConfig().Validate(); err != nil {
		return err
	}
	if c.RetryAttempts < 1 {
		return Errorf(EINVALID, "retryAttempts must be at least 1")
	}
	if c.RetryBaseDelayMs < 0 || c.RetryMaxDelayMs < c.RetryBaseDelayMs {
		return Errorf(EINVALID, "retry delays must satisfy 0 <= retryBaseDelayMs <= retryMaxDelayMs")
	}
	if c.MaxConcurrentRequests < 1 {
		return Errorf(EINVALID, "maxConcurrentRequests must be at least 1")
	}
	if c.RequestsPerSecond < 0 {
		return Errorf(EINVALID, "requestsPerSecond must not be negative")
	}
	if err := c.Budget().Validate(); err != nil {
		return err
	}
	if c.CacheEnabled && c.CacheTTLHours <= 0 {
		return Errorf(EINVALID, "cacheTtlHours must be positive when caching is enabled")
	}
	for _, s := range c.RequiredStages {
		if !s.Valid() {
			return Errorf(EINVALID, "unknown required stage %q", s)
		}
	}
	if c.Scanning.MaxDepth < 1 {
		return Errorf(EINVALID, "scanning.maxDepth must be at least 1")
	}
	if c.Scanning.MaxFileSizeMB < 1 {
		return Errorf(EINVALID, "scanning.maxFileSizeMB must be at least 1")
	}
	if c.Output.Directory == "" {
		return Errorf(EINVALID, "output.directory required")
	}
	return nil
}

// ModelConfig returns the per-call model settings.
func (c *Config) ModelConfig() ModelConfig {
	return ModelConfig{
		Model:       c.Model,
		Temperature: c.Temperature,
		Timeout:     time.Duration(c.TimeoutSeconds) * time.Second,
	}
}

// Budget returns the digest budget. chunkSizeChars bounds each file excerpt.
func (c *Config) Budget() BudgetConfig {
	return BudgetConfig{
		MaxTotalChars:   c.MaxTotalDigestChars,
		MaxCharsPerFile: c.ChunkSizeChars,
	}
}

// CacheTTL returns how long cached responses stay valid.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// RetryDelays returns the base and maximum backoff delays.
func (c *Config) RetryDelays() (base, maxDelay time.Duration) {
	return time.Duration(c.RetryBaseDelayMs) * time.Millisecond,
		time.Duration(c.RetryMaxDelayMs) * time.Millisecond
}

// IsRequired reports whether a failure of stage must abort the run.
func (c *Config) IsRequired(stage StageName) bool {
	for _, s := range c.RequiredStages {
		if s == stage {
			return true
		}
	}
	return false
}
