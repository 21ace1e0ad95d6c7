// pattern: Functional Core
package cli

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"gitscan/internal/config"
)

// ErrNoPaths is returned when neither arguments nor config roots name a path.
var ErrNoPaths = errors.New("no paths given (pass at least one path or set roots in config.yaml)")

// Options holds the parsed command line.
type Options struct {
	ConfigDir string
	Depth     int
	Format    string
	Backend   string
	Dedupe    bool
	Watch     bool
	Verbose   bool
	Version   bool
	Paths     []string

	changed map[string]bool
}

// ParseArgs parses args (without the program name). Usage and flag errors
// are written to stderr. --help returns flag.ErrHelp.
func ParseArgs(args []string, stderr io.Writer) (Options, error) {
	var opts Options

	fs := flag.NewFlagSet("gitscan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVarP(&opts.Depth, "depth", "d", 1, "how many directory levels below each path to classify")
	fs.StringVarP(&opts.ConfigDir, "config-dir", "c", "", "config directory (default: ~/.config/gitscan)")
	fs.StringVarP(&opts.Format, "format", "f", config.FormatText, "output format: text, json or yaml")
	fs.StringVar(&opts.Backend, "backend", config.BackendCLI, "repository probe: cli (git binary) or gogit (in-process)")
	fs.BoolVar(&opts.Dedupe, "dedupe", false, "report each directory once, keeping its most specific kind")
	fs.BoolVarP(&opts.Watch, "watch", "w", false, "rescan when directories are created, removed or renamed")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false, "write debug logs to stderr")
	fs.BoolVar(&opts.Version, "version", false, "print version and exit")
	fs.Usage = func() {
		printUsage(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}

	opts.Paths = fs.Args()
	opts.changed = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		opts.changed[f.Name] = true
	})
	return opts, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: gitscan [options] <path>...\n\n")
	fmt.Fprintf(w, "Lists the directories below each path and classifies them as\n")
	fmt.Fprintf(w, "bare repositories (bare), linked worktrees (wt), git work trees (git)\n")
	fmt.Fprintf(w, "or plain directories (dir). Relative paths resolve under $HOME.\n\n")
	fmt.Fprintf(w, "Options:\n")
}

// Changed reports whether the named flag was set on the command line.
func (o Options) Changed(name string) bool {
	return o.changed[name]
}

// Apply overlays explicitly set flags onto cfg.
func (o Options) Apply(cfg config.Config) config.Config {
	if o.Changed("depth") {
		cfg.Depth = o.Depth
	}
	if o.Changed("format") {
		cfg.Format = o.Format
	}
	if o.Changed("backend") {
		cfg.Backend = o.Backend
	}
	if o.Changed("dedupe") {
		cfg.Dedupe = o.Dedupe
	}
	if cfg.Depth < 1 {
		cfg.Depth = 1
	}
	if o.Verbose {
		cfg.LogLevel = "debug"
	}
	return cfg
}

// ResolveRoots returns the positional paths, or the config roots when none
// were given, expanded against home.
func ResolveRoots(paths []string, cfg config.Config, home string) ([]string, error) {
	if len(paths) == 0 {
		paths = cfg.Roots
	}
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}
	return config.ExpandPaths(paths, home), nil
}
