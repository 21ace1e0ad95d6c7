// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"gitscan/internal/config"
	"gitscan/internal/discovery"
	"gitscan/internal/logging"
	"gitscan/internal/report"
)

const logFileName = "gitscan.log"

// lookPath finds the git binary; tests replace it.
var lookPath config.LookPathFunc

// ResolveDataDir returns the directory holding the log and lock files.
// If configDir is specified, uses that; otherwise the default config dir.
func ResolveDataDir(configDir string) string {
	if configDir != "" {
		return configDir
	}
	return config.DefaultDir()
}

func loadConfig(configDir string) (config.Config, error) {
	if configDir != "" {
		return config.LoadFromDir(configDir)
	}
	return config.Load()
}

// Run executes gitscan with args (without the program name). Fatal problems
// are returned; the caller prints them and exits non-zero.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, version string) error {
	opts, err := ParseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.Version {
		fmt.Fprintln(stdout, version)
		return nil
	}

	home, err := config.Home()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.ConfigDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = opts.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	roots, err := ResolveRoots(opts.Paths, cfg, home)
	if err != nil {
		return err
	}

	dataDir := ResolveDataDir(opts.ConfigDir)
	logCfg := logging.Config{
		FilePath: filepath.Join(dataDir, logFileName),
		Level:    cfg.LogLevel,
	}
	if opts.Verbose {
		logCfg.Console = stderr
	}
	logManager, err := logging.NewManager(logCfg)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() { _ = logManager.Close() }()

	s := newScanner(cfg, roots, stdout, logManager)
	if err := s.scan(); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}
	return watch(ctx, s, dataDir, stdout, logManager.For("watch"))
}

// newBackend picks the probe implementation named by cfg.Backend.
func newBackend(cfg config.Config, logs logging.LoggerProvider) discovery.Backend {
	logger := logs.For("probe")
	if cfg.Backend == config.BackendGoGit {
		return discovery.NewGoGit(logger)
	}
	if !cfg.GitAvailable(lookPath) {
		logs.For("app").Warn("git binary not found; every directory will be reported as plain", "git_binary", cfg.GitBinary)
	}
	return discovery.NewGitCLI(cfg.GitBinary, logger)
}

// scanner walks every root in order and reports each one.
type scanner struct {
	walker   *discovery.Walker
	reporter *report.Reporter
	roots    []string
	depth    int
	dedupe   bool
	logger   *logging.ScopedLogger
}

func newScanner(cfg config.Config, roots []string, stdout io.Writer, logs logging.LoggerProvider) *scanner {
	return &scanner{
		walker:   discovery.NewWalker(newBackend(cfg, logs), logs.For("walker")),
		reporter: report.New(stdout, report.Format(cfg.Format), cfg.Theme),
		roots:    roots,
		depth:    cfg.Depth,
		dedupe:   cfg.Dedupe,
		logger:   logs.For("app"),
	}
}

func (s *scanner) scan() error {
	for _, root := range s.roots {
		s.logger.Info("scan started", "root", root, "depth", s.depth)
		entries := s.walker.Walk(root, s.depth)
		if s.dedupe {
			entries = discovery.Dedupe(entries)
		}
		s.logger.Info("scan finished", "root", root, "entries", len(entries))
		if err := s.reporter.Write(entries); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}
