// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. Defaults match the legacy conversion script where behavior
// carries over.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Input directory (positional arg; defaults to the current directory).
	InputDir string

	// Concurrency. 0 means auto (number of CPUs); see [Config.EffectiveWorkers].
	Workers int

	// Audio encoding.
	AudioCodec   string // Fixed default: "aac".
	AudioQuality int    // ffmpeg -q:a VBR quality, 0 (best) to 9. Default: 2.
	OutputExt    string // Fixed: ".m4a".

	// Behavior flags.
	DryRun       bool
	KeepSource   bool // Default: false. Source files are deleted after success.
	SkipExisting bool // Default: true. Cleared by --force.

	// Display and logging.
	Verbose      bool
	ShowProgress bool      // Default: true. Live overall progress line on a TTY.
	ColorMode    ColorMode // Default: "auto".
	LogFile      string    // Optional log file path.
	CheckOnly    bool      // Run --check diagnostics and exit.

	// External tool binaries. Overridable for testing with stub encoders.
	FFmpegBin  string
	FFprobeBin string
}

// DefaultConfig returns a Config with all defaults matching the legacy
// script's behavior. Used as the base before [ParseFlags] applies
// CLI overrides.
func DefaultConfig() Config {
	return Config{
		InputDir:     ".",
		Workers:      0,
		AudioCodec:   "aac",
		AudioQuality: 2,
		OutputExt:    ".m4a",
		DryRun:       false,
		KeepSource:   false,
		SkipExisting: true,
		Verbose:      false,
		ShowProgress: true,
		ColorMode:    ColorAuto,
		CheckOnly:    false,
		FFmpegBin:    "ffmpeg",
		FFprobeBin:   "ffprobe",
	}
}

// EffectiveWorkers resolves the worker count: the configured value when
// positive, otherwise the number of available CPUs, never less than 1.
func (c *Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return n
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks numeric ranges and enum fields. When not in CheckOnly mode,
// it also requires a non-empty input directory.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	if c.AudioQuality < 0 || c.AudioQuality > 9 {
		return fmt.Errorf("invalid audio quality %d (use 0-9, lower is better)", c.AudioQuality)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" {
		return errors.New("input directory must not be empty")
	}
	return nil
}
