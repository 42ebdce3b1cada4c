package encoder

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// graceDefault bounds how long a cancelled ffmpeg child may take to exit
// after SIGTERM before it is killed.
const graceDefault = 5 * time.Second

// Executor runs ffmpeg conversions. Bin is the binary to invoke; tests point
// it at a stub script. Grace is the shutdown grace period on cancellation.
type Executor struct {
	Bin   string
	Grace time.Duration
}

// NewExecutor returns an Executor using the given ffmpeg binary name.
func NewExecutor(bin string) *Executor {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &Executor{Bin: bin, Grace: graceDefault}
}

// Run executes one ffmpeg invocation, streaming progress lines from stdout
// as they arrive. When duration is positive, onProgress receives
// min(1, elapsed/duration) with strictly increasing values; when duration is
// unknown (0) no intermediate fractions are reported. stdout is consumed
// continuously so the child never blocks on pipe backpressure.
//
// Returns nil on success, [ErrCancelled] when ctx was cancelled (the child is
// sent SIGTERM and given Grace to exit), or an [*EncodeError] carrying the
// captured stderr on a non-zero exit.
func (e *Executor) Run(ctx context.Context, args []string, duration float64, onProgress func(float64)) error {
	cmd := exec.CommandContext(ctx, e.Bin, args...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = e.Grace

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", e.Bin, err)
	}

	var parser progressParser
	var last float64
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		parser.consume(scanner.Text())
		if duration <= 0 || onProgress == nil {
			continue
		}
		elapsed, ok := parser.elapsed()
		if !ok {
			continue
		}
		fraction := math.Min(1.0, elapsed/duration)
		if fraction > last {
			last = fraction
			onProgress(fraction)
		}
	}

	scanErr := scanner.Err()
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return ErrCancelled
	}
	if waitErr != nil {
		exit := -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			exit = exitErr.ExitCode()
		}
		return &EncodeError{
			ExitCode: exit,
			Stderr:   strings.TrimSpace(stderrBuf.String()),
		}
	}
	// A read error on the progress stream is not the same as a clean EOF,
	// even when the child exited 0.
	if scanErr != nil {
		return fmt.Errorf("read progress stream: %w", scanErr)
	}
	return nil
}
