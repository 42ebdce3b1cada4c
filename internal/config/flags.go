package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into conversion, behavior, display, and utility.
// Negated flags (e.g. --no-progress) are applied after Parse so Config
// defaults hold unless set.

import (
	"flag"
	"fmt"
	"os"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and exits.
// On error it returns non-nil (e.g. unknown flag, too many positional args).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("audiorip", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	// Negated/override flags: we capture bools then apply to cfg after Parse,
	// so that defaults from DefaultConfig() hold unless the user passes the flag.
	var negated negatedFlags

	defineConversionFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg, &negated)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "audiorip v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. noProgress -> ShowProgress=false) or
// trigger exit (showHelp, showVersion).
type negatedFlags struct {
	noProgress  bool
	force       bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineConversionFlags registers -j/--workers and -q/--quality.
func defineConversionFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Parallel conversions (0 = number of CPUs)")
	fs.IntVar(&cfg.Workers, "j", cfg.Workers, "Same as --workers")
	fs.IntVar(&cfg.AudioQuality, "quality", cfg.AudioQuality, "AAC VBR quality, 0 (best) to 9")
	fs.IntVar(&cfg.AudioQuality, "q", cfg.AudioQuality, "Same as --quality")
}

// defineBehaviorFlags registers dry-run, keep, force.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not convert or delete")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&cfg.KeepSource, "keep", false, "Keep source files after conversion")
	fs.BoolVar(&cfg.KeepSource, "k", false, "Same as --keep")
	fs.BoolVar(&n.force, "force", false, "Overwrite existing output files")
	fs.BoolVar(&n.force, "f", false, "Same as --force")
}

// defineDisplayFlags registers --no-progress, --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.noProgress, "no-progress", false, "Disable the live progress line")
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg
// (e.g. noProgress -> ShowProgress=false).
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noProgress {
		cfg.ShowProgress = false
	}
	if n.force {
		cfg.SkipExisting = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputDir from the optional positional arg.
// With no args the default (current directory) holds, matching the legacy script.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	switch len(args) {
	case 0:
		return nil
	case 1:
		cfg.InputDir = NormalizeDirArg(args[0])
		return nil
	default:
		return fmt.Errorf("too many arguments (want at most one input directory, got %d)", len(args))
	}
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "audiorip v" + version + " — parallel MP4 to M4A audio extraction"},
		{"", ""},
		{"  audiorip [OPTIONS] [input_dir]", ""},
		{"", ""},
		{"Conversion", ""},
		{"  -j, --workers <n>", "Parallel conversions (default: number of CPUs)"},
		{"  -q, --quality <0-9>", "AAC VBR quality, lower is better (default: 2)"},
		{"", ""},
		{"Behavior", ""},
		{"  -d, --dry-run", "Preview only; do not convert or delete"},
		{"  -k, --keep", "Keep source files after conversion"},
		{"  -f, --force", "Overwrite existing output files"},
		{"", ""},
		{"Display", ""},
		{"  --no-progress", "Disable the live progress line"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (ffmpeg, ffprobe, AAC)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
