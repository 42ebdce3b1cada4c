package pipeline

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a conversion job. Succeeded, Failed and
// Cancelled are terminal; a terminal job never transitions again.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
	StatusCancelled
	StatusSkipped // Output already exists and --force was not given.
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Job is one source-file-to-output-file conversion task. Duration is filled
// in by the prober at run time; 0 means unknown (indeterminate progress).
type Job struct {
	ID       string
	Source   string
	Dest     string
	Duration float64
}

// NewJob creates a Job for a source file. The destination sits next to the
// source with the extension replaced (e.g. video.mp4 -> video.m4a).
func NewJob(source, outputExt string) Job {
	return Job{
		ID:     uuid.New().String(),
		Source: source,
		Dest:   replaceExt(source, outputExt),
	}
}

// Result is the immutable terminal outcome of one job.
type Result struct {
	Job     Job
	Status  Status
	Elapsed time.Duration
	ErrText string // Diagnostic text for failed jobs.

	// Byte sizes captured on success, for the space-saved summary.
	InputBytes  int64
	OutputBytes int64
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
