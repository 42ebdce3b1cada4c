package encoder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCancelled is returned when a conversion was aborted by context
// cancellation. Cancelled jobs are reported separately from failures.
var ErrCancelled = errors.New("conversion cancelled")

// EncodeError reports a non-zero ffmpeg exit, carrying the captured stderr
// diagnostics for the summary.
type EncodeError struct {
	ExitCode int
	Stderr   string
}

func (e *EncodeError) Error() string {
	msg := FirstDiagnosticLine(e.Stderr)
	if msg == "" {
		msg = "ffmpeg error"
	}
	return fmt.Sprintf("ffmpeg exited with status %d: %s", e.ExitCode, msg)
}

// FirstDiagnosticLine returns the first non-empty line of captured stderr,
// for compact one-line reporting.
func FirstDiagnosticLine(stderr string) string {
	for _, line := range strings.Split(stderr, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			return l
		}
	}
	return ""
}

// TailLines returns at most n trailing lines of text, for bounded diagnostic
// output in the failure summary.
func TailLines(text string, n int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
