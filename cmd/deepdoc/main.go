package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/alqudimi/deepdoc"
	"github.com/alqudimi/deepdoc/docgen"
	"github.com/alqudimi/deepdoc/fs"
	"github.com/alqudimi/deepdoc/gateway"
	"github.com/alqudimi/deepdoc/gemini"
	"github.com/alqudimi/deepdoc/htmltomarkdown"
	"github.com/alqudimi/deepdoc/memory"
	"github.com/alqudimi/deepdoc/ollama"
	docslog "github.com/alqudimi/deepdoc/slog"
	"github.com/alqudimi/deepdoc/sqlite"
	"github.com/alqudimi/deepdoc/yaml"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", FormatError(err))
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path for the response cache and run history. Set before
	// calling Run(). DEEPDOC_DB and --db take precedence.
	DBPath string

	// EnvFile is read for variables not set in the process environment.
	EnvFile string

	// Getenv looks up process environment variables.
	Getenv func(string) string

	// SQLite database used by the persistent cache and run history.
	DB *sqlite.DB

	// Backend replaces the configured model backend when set.
	Backend deepdoc.ModelBackend
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:  defaultDBPath(),
		EnvFile: ".env",
		Getenv:  os.Getenv,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("deepdoc"),
		kong.Description("Generate project documentation with a language model."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'deepdoc --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	logger, closeLog := newLogger(stderr, cli.Verbose, cli.LogFile)
	defer closeLog()
	deps.Logger = logger

	deps.ConfigPath = cli.Config
	if deps.ConfigPath == "" {
		deps.ConfigPath = yaml.DefaultPath
	}
	if cmd == "init" {
		return kongCtx.Run(deps)
	}

	getenv := m.env(logger)
	cfg, err := LoadConfig(deps.ConfigPath, cli.Config != "", getenv)
	if err != nil {
		return err
	}
	if cmd == "generate" {
		cli.Generate.apply(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	deps.Config = cfg

	dbPath := m.DBPath
	if p := getenv("DEEPDOC_DB"); p != "" {
		dbPath = p
	}
	if cli.DB != "" {
		dbPath = cli.DB
	}
	if dbPath != ":memory:" {
		_ = os.MkdirAll(filepath.Dir(dbPath), 0o755)
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DEEPDOC_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	cache := sqlite.NewCache(m.DB)
	deps.Runs = sqlite.NewRunService(m.DB)
	deps.Cache = cache

	if cmd == "generate" {
		if err := m.wireGenerate(ctx, deps, &cli.Generate, cache, getenv); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wireGenerate builds the documentation workflow for the generate command.
func (m *Main) wireGenerate(ctx context.Context, deps *Dependencies, c *GenerateCmd, persistent deepdoc.ResponseCache, getenv func(string) string) error {
	cfg := deps.Config
	logger := deps.Logger

	root, err := filepath.Abs(c.Path)
	if err != nil {
		return deepdoc.Errorf(deepdoc.EINVALID, "invalid project path %q", c.Path)
	}
	c.Path = root

	if cfg.Backend == deepdoc.BackendGemini && cfg.Model == deepdoc.DefaultConfig().Model {
		cfg.Model = gemini.DefaultModel
	}
	backend, err := m.newBackend(ctx, cfg, getenv)
	if err != nil {
		return err
	}

	base, maxDelay := cfg.RetryDelays()
	gw := gateway.NewGateway(
		docslog.NewLoggingBackend(backend, logger),
		gateway.NewLimiter(cfg.MaxConcurrentRequests, cfg.RequestsPerSecond),
		gateway.RetryPolicy{MaxAttempts: cfg.RetryAttempts, BaseDelay: base, MaxDelay: maxDelay},
		logger,
	)

	var cache deepdoc.ResponseCache
	if cfg.CacheEnabled {
		if cfg.CachePersistent {
			cache = docslog.NewLoggingCache(persistent, logger)
		} else {
			cache = docslog.NewLoggingCache(memory.NewCache(), logger)
		}
	}

	stages := docgen.DefaultStages(cfg.GenerateSummary)
	exec := docgen.NewExecutor(gw, cache, stages, cfg.ModelConfig(), cfg.CacheTTL(), logger)
	scheduler, err := docgen.NewScheduler(stages, exec, cfg.MaxConcurrentRequests)
	if err != nil {
		return err
	}
	scheduler.Required = make(map[deepdoc.StageName]bool)
	for _, s := range stages {
		scheduler.Required[s.Name] = cfg.IsRequired(s.Name)
	}

	outDir := cfg.Output.Directory
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(root, outDir)
	}
	scanCfg := cfg.Scanning
	scanCfg.IgnorePatterns = append([]string(nil), cfg.Scanning.IgnorePatterns...)
	if pattern, ok := ExcludePattern(root, outDir); ok {
		scanCfg.IgnorePatterns = append(scanCfg.IgnorePatterns, pattern)
	}
	scanner := fs.NewScanner(scanCfg, htmltomarkdown.NewConverter(), logger)

	deps.Runner = &docgen.Workflow{
		Scanner:   docslog.NewLoggingScanner(scanner, logger),
		Scheduler: scheduler,
		Budget:    cfg.Budget(),
		Assemble: docgen.AssembleOptions{
			Contributing:    cfg.Output.Contributing,
			TableOfContents: cfg.Output.TableOfContents,
			Enhance:         cfg.Output.MarkdownEnhancements,
			FrontMatter:     cfg.Output.FrontMatter,
		},
		Runs:   deps.Runs,
		Logger: logger,
	}
	deps.Writer = docslog.NewLoggingWriter(fs.NewWriter(outDir, cfg.Output.OverwriteExisting), logger)
	deps.OutputDir = outDir
	return nil
}

func (m *Main) newBackend(ctx context.Context, cfg deepdoc.Config, getenv func(string) string) (deepdoc.ModelBackend, error) {
	if m.Backend != nil {
		return m.Backend, nil
	}

	switch cfg.Backend {
	case deepdoc.BackendGemini:
		apiKey := getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, deepdoc.Errorf(deepdoc.EINVALID, "GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewBackend(client), nil
	default:
		backend, err := ollama.NewBackend(cfg.BaseURL, nil)
		if err != nil {
			return nil, err
		}
		return backend, nil
	}
}

// env returns a lookup that prefers the process environment and falls back
// to the variables of EnvFile.
func (m *Main) env(logger *slog.Logger) func(string) string {
	getenv := m.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	var file map[string]string
	if m.EnvFile != "" {
		vars, err := godotenv.Read(m.EnvFile)
		switch {
		case err == nil:
			file = vars
		case !errors.Is(err, os.ErrNotExist):
			logger.Warn("ignoring env file", "path", m.EnvFile, "err", err)
		}
	}

	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return file[key]
	}
}

// ExcludePattern returns an ignore pattern for dir when it lies inside root,
// so that generated documents never feed back into the next scan.
func ExcludePattern(root, dir string) (string, bool) {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return "/" + filepath.ToSlash(rel) + "/", true
}

// newLogger writes text logs to stderr and, when logFile is set, to a
// rotating file as well.
func newLogger(stderr io.Writer, verbose bool, logFile string) (*slog.Logger, func()) {
	level := slog.LevelWarn
	if logFile != "" {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	w, closeLog := stderr, func() {}
	if logFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		w = io.MultiWriter(stderr, rotating)
		closeLog = func() { _ = rotating.Close() }
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeLog
}

// FormatError returns the single line printed for a fatal error.
func FormatError(err error) string {
	if deepdoc.ErrorCode(err) == deepdoc.EINTERNAL {
		return err.Error()
	}
	return deepdoc.ErrorMessage(err)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "deepdoc.db"
	}
	return filepath.Join(home, ".deepdoc", "deepdoc.db")
}
