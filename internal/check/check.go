// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg, ffprobe, and the AAC encoder.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/Yuyan-Li1/audiorip/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrAACEncodeFailed = errors.New("AAC test encode failed")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability and version
// of ffmpeg and ffprobe, and runs a short AAC encode test. Informational
// only; returns false when anything failed.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkTool(log, cfg.FFmpegBin)
	ok = checkTool(log, cfg.FFprobeBin) && ok
	ok = checkAAC(cfg, log) && ok
	return ok
}

// checkTool verifies a binary is on PATH and logs its version string.
func checkTool(log Logger, bin string) bool {
	if _, err := exec.LookPath(bin); err != nil {
		log.Error("%s not found", bin)
		return false
	}
	cmd := exec.Command(bin, "-version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", bin, err)
		return false
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", bin, firstLine)
	return true
}

// checkAAC runs a minimal AAC encode to verify the audio encoder works.
func checkAAC(cfg *config.Config, log Logger) bool {
	log.Info("Testing AAC encoder...")
	if runSilent(cfg.FFmpegBin, aacTestArgs()...) {
		log.Success("AAC encoder works")
		return true
	}
	log.Error("AAC encoder test failed")
	return false
}

// CheckDeps is the pre-pipeline validation: it verifies that ffmpeg and
// ffprobe are on PATH and that a short AAC encode succeeds. Returns a
// sentinel error on failure so the pipeline can fail fast.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FFmpegBin); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath(cfg.FFprobeBin); err != nil {
		return ErrFfprobeNotFound
	}
	if !runSilent(cfg.FFmpegBin, aacTestArgs()...) {
		return ErrAACEncodeFailed
	}
	return nil
}

// aacTestArgs returns the ffmpeg arguments for a minimal AAC test encode.
// Shared by checkAAC and CheckDeps to avoid duplicating the argument list.
func aacTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
