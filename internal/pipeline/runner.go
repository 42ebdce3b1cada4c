// Package pipeline orchestrates file discovery, parallel per-file conversion,
// progress aggregation, and batch summary reporting.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Yuyan-Li1/audiorip/internal/config"
	"github.com/Yuyan-Li1/audiorip/internal/display"
	"github.com/Yuyan-Li1/audiorip/internal/encoder"
	"github.com/Yuyan-Li1/audiorip/internal/logging"
	"github.com/Yuyan-Li1/audiorip/internal/probe"
	"github.com/Yuyan-Li1/audiorip/internal/progress"
	"github.com/Yuyan-Li1/audiorip/internal/term"
)

// Run is the top-level batch entry point. It discovers files, dispatches
// conversions across the worker pool, and returns the finalized summary.
// A cancelled ctx stops new jobs from launching and terminates running
// encoder children; their jobs surface as cancelled in the summary.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (*Summary, error) {
	files, err := Discover(cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("file discovery: %w", err)
	}

	if len(files) == 0 {
		log.Warn("No video files found in %s", cfg.InputDir)
		return &Summary{}, nil
	}

	jobs := make([]Job, len(files))
	for i, path := range files {
		jobs[i] = NewJob(path, cfg.OutputExt)
	}

	workers := cfg.EffectiveWorkers()
	logBatchHeader(cfg, log, len(jobs), workers)

	agg := progress.NewAggregator(len(jobs))
	rep := NewReporter(len(jobs))
	prober := probe.NewProber(cfg.FFprobeBin)
	exec := encoder.NewExecutor(cfg.FFmpegBin)

	printer := newProgressPrinter(cfg)
	stopRender := printer.renderLoop(agg)

	start := time.Now()

	run := func(ctx context.Context, job Job) Result {
		res := runJob(ctx, cfg, log, prober, exec, agg, printer, job)
		logCompletion(cfg, log, printer, res)
		return res
	}

	results := NewDispatcher(workers, run).Run(ctx, jobs)

	stopRender()
	printer.clear()

	for _, res := range results {
		rep.Record(res)
	}
	summary, err := rep.Finalize(time.Since(start))
	if err != nil {
		return nil, err
	}

	logSummary(cfg, log, summary)
	return summary, nil
}

// runJob handles one media file: probe duration, then stream the conversion.
// Probe failures degrade to indeterminate progress; only the encoder decides
// success or failure. Terminal statuses are final.
func runJob(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	prober *probe.Prober,
	exec *encoder.Executor,
	agg *progress.Aggregator,
	printer *progressPrinter,
	job Job,
) Result {
	if ctx.Err() != nil {
		return Result{Job: job, Status: StatusCancelled}
	}

	start := time.Now()
	basename := filepath.Base(job.Source)

	if cfg.SkipExisting && !cfg.DryRun {
		if _, err := os.Stat(job.Dest); err == nil {
			agg.Complete(job.ID)
			return Result{Job: job, Status: StatusSkipped, Elapsed: time.Since(start)}
		}
	}

	if cfg.DryRun {
		agg.Complete(job.ID)
		return Result{Job: job, Status: StatusSucceeded, Elapsed: time.Since(start)}
	}

	// --- Probe (duration drives the progress percentage) ---
	pr, err := prober.Probe(ctx, job.Source)
	switch {
	case ctx.Err() != nil:
		return Result{Job: job, Status: StatusCancelled, Elapsed: time.Since(start)}
	case err != nil:
		printer.clear()
		log.Warn("Cannot determine duration of %s, progress will be indeterminate", basename)
	default:
		job.Duration = pr.Duration()
		if pr.PrimaryAudio != nil {
			log.Debug(cfg.Verbose, "%s: audio %s | %d ch | %s", basename,
				pr.PrimaryAudio.Codec, pr.PrimaryAudio.Channels,
				display.FormatBitrateLabel(pr.AudioBitRate()/1000))
		}
	}

	// --- Convert ---
	args := encoder.BuildArgs(cfg, job.Source, job.Dest)
	err = exec.Run(ctx, args, job.Duration, func(fraction float64) {
		agg.Update(job.ID, fraction)
	})

	elapsed := time.Since(start)

	if errors.Is(err, encoder.ErrCancelled) {
		os.Remove(job.Dest)
		return Result{Job: job, Status: StatusCancelled, Elapsed: elapsed}
	}
	if err != nil {
		os.Remove(job.Dest)
		errText := err.Error()
		var encErr *encoder.EncodeError
		if errors.As(err, &encErr) && encErr.Stderr != "" {
			errText = encErr.Stderr
		}
		return Result{Job: job, Status: StatusFailed, Elapsed: elapsed, ErrText: errText}
	}

	// --- Success: record sizes, drop the source ---
	agg.Complete(job.ID)

	var inBytes, outBytes int64
	if fi, err := os.Stat(job.Source); err == nil {
		inBytes = fi.Size()
	}
	if fi, err := os.Stat(job.Dest); err == nil {
		outBytes = fi.Size()
	}

	if !cfg.KeepSource {
		if err := os.Remove(job.Source); err != nil {
			printer.clear()
			log.Warn("Cannot remove source %s: %v", basename, err)
		}
	}

	return Result{
		Job:         job,
		Status:      StatusSucceeded,
		Elapsed:     elapsed,
		InputBytes:  inBytes,
		OutputBytes: outBytes,
	}
}

// logCompletion emits the per-job terminal log line as results arrive.
func logCompletion(cfg *config.Config, log *logging.Logger, printer *progressPrinter, res Result) {
	printer.clear()
	basename := filepath.Base(res.Job.Source)
	elapsed := display.FormatDuration(res.Elapsed)

	switch res.Status {
	case StatusSucceeded:
		if cfg.DryRun {
			log.Success("[DRY] Would convert %s -> %s", basename, filepath.Base(res.Job.Dest))
			return
		}
		log.Success("%s (%s)", basename, elapsed)
	case StatusFailed:
		log.Error("%s: %s (%s)", basename, encoder.FirstDiagnosticLine(res.ErrText), elapsed)
	case StatusCancelled:
		log.Warn("%s: cancelled", basename)
	case StatusSkipped:
		log.Warn("Skip (exists): %s", filepath.Base(res.Job.Dest))
	}
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, total, workers int) {
	log.Info("Found %d video file(s) to convert", total)
	log.Info("Using %d parallel worker(s)", workers)
	log.Info("Audio: %s at VBR quality %d -> %s", cfg.AudioCodec, cfg.AudioQuality, cfg.OutputExt)
	if cfg.KeepSource {
		log.Info("Source files: kept after conversion")
	} else {
		log.Info("Source files: deleted after successful conversion")
	}
	if cfg.DryRun {
		log.Warn("DRY RUN - nothing will be converted or deleted")
	}
	fmt.Println()
}

func logSummary(cfg *config.Config, log *logging.Logger, s *Summary) {
	fmt.Println()
	log.Info("==============================")
	log.Info("Conversion summary:")
	log.Info("  Successful: %d", s.Succeeded)
	log.Info("  Failed: %d", s.Failed)
	if s.Cancelled > 0 {
		log.Warn("  Cancelled: %d", s.Cancelled)
	}
	if s.Skipped > 0 {
		log.Info("  Skipped (exists): %d", s.Skipped)
	}
	log.Info("  Total time: %s", display.FormatDuration(s.TotalElapsed))

	if len(s.Successes) > 0 {
		log.Info("  Avg time per file: %s", display.FormatDuration(s.AvgElapsed()))
		if fastest := s.Fastest(); fastest != nil {
			log.Info("  Fastest: %s (%s)",
				filepath.Base(fastest.Job.Source), display.FormatDuration(fastest.Elapsed))
		}
		if slowest := s.Slowest(); slowest != nil {
			log.Info("  Slowest: %s (%s)",
				filepath.Base(slowest.Job.Source), display.FormatDuration(slowest.Elapsed))
		}
		if !cfg.DryRun && s.TotalInputBytes > 0 {
			log.Success("  Space saved: %s (input %s -> output %s)",
				display.FormatBytes(s.SpaceSaved()),
				display.FormatBytes(s.TotalInputBytes),
				display.FormatBytes(s.TotalOutputBytes))
		}
	}

	if cfg.DryRun {
		log.Info("Dry run complete - no files were modified")
	}

	if len(s.Failures) > 0 {
		fmt.Println()
		log.Error("Failed conversions:")
		for _, f := range s.Failures {
			log.Error("  %s:", filepath.Base(f.Job.Source))
			for _, line := range encoder.TailLines(f.ErrText, 5) {
				log.Error("    %s", line)
			}
		}
	}
}

// --- Live progress line ---

// progressPrinter redraws a single overall-progress line in place on stdout.
// Workers call clear() before logging so their lines don't collide with the
// in-place redraw. No-op when disabled (non-TTY, --no-progress, dry run).
type progressPrinter struct {
	enabled bool
	mu      sync.Mutex
	visible bool
}

func newProgressPrinter(cfg *config.Config) *progressPrinter {
	return &progressPrinter{
		enabled: cfg.ShowProgress && !cfg.DryRun && term.IsTerminal(os.Stdout),
	}
}

// renderLoop starts the periodic redraw goroutine and returns its stop func.
func (p *progressPrinter) renderLoop(agg *progress.Aggregator) func() {
	if !p.enabled {
		return func() {}
	}

	done := make(chan struct{})
	var once sync.Once
	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p.render(agg.Snapshot())
			}
		}
	}()
	return func() { once.Do(func() { close(done) }) }
}

func (p *progressPrinter) render(snap progress.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(os.Stdout, "\r\033[K%s", display.ProgressLine(snap.Completed, snap.Total, snap.Overall()))
	p.visible = true
}

func (p *progressPrinter) clear() {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.visible {
		fmt.Fprint(os.Stdout, "\r\033[K")
		p.visible = false
	}
}
