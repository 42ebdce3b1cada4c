// Command audiorip is the CLI entrypoint for the parallel MP4 to M4A
// batch converter.
//
// It parses flags, validates configuration and paths, and either runs
// system diagnostics (--check) or the conversion pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Yuyan-Li1/audiorip/internal/check"
	"github.com/Yuyan-Li1/audiorip/internal/config"
	"github.com/Yuyan-Li1/audiorip/internal/display"
	"github.com/Yuyan-Li1/audiorip/internal/logging"
	"github.com/Yuyan-Li1/audiorip/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" (no make), these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

// Exit codes: 0 all-success, 1 any failure, 130 interrupted by the user.
const exitInterrupted = 130

func main() {
	os.Exit(run())
}

func run() int {
	// The logger doesn't exist yet, so early errors go directly to stderr.
	// Once NewLogger succeeds, all output goes through the logger for
	// consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "audiorip: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "audiorip: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audiorip: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	fi, err := os.Stat(cfg.InputDir)
	if err != nil || !fi.IsDir() {
		log.Error("Input directory not found: %s", cfg.InputDir)
		return 1
	}

	log.Info("=== audiorip v%s (%s) ===", version, commit)
	log.Info("In: %s", cfg.InputDir)
	if cfg.DryRun {
		log.Warn("DRY RUN - no files will be written or deleted")
	}
	log.Info("")

	// Fail fast if ffmpeg/ffprobe or the AAC encoder are unavailable.
	// Dry runs never invoke the tools, so missing deps are not fatal there.
	if !cfg.DryRun {
		if err := check.CheckDeps(&cfg); err != nil {
			log.Error("%v", err)
			return 1
		}
	}

	// Cancel the context on SIGINT/SIGTERM so workers stop pulling jobs
	// and running encoder children get terminated.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, stopping conversions...")
		cancel()
	}()

	summary, err := pipeline.Run(ctx, &cfg, log)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	if ctx.Err() != nil {
		return exitInterrupted
	}
	if summary.Failed > 0 {
		return 1
	}
	return 0
}
