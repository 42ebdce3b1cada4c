package pipeline

import (
	"errors"
	"sync"
	"time"
)

// ErrIncomplete is returned by Finalize when fewer results were recorded
// than jobs dispatched, which would make the summary lie about the batch.
var ErrIncomplete = errors.New("summary finalized before all jobs reported")

// Reporter accumulates terminal job outcomes from concurrent workers.
// Finalize requires the exact expected job count so an early or partial
// summary cannot be produced by accident.
type Reporter struct {
	mu       sync.Mutex
	expected int
	results  []Result
}

// NewReporter returns a Reporter expecting `expected` terminal results.
func NewReporter(expected int) *Reporter {
	return &Reporter{expected: expected}
}

// Record accumulates one terminal job outcome. Safe for concurrent use.
func (r *Reporter) Record(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

// Finalize computes the Summary over all recorded outcomes. It fails with
// [ErrIncomplete] unless exactly the expected number of results was recorded.
func (r *Reporter) Finalize(totalElapsed time.Duration) (*Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.results) != r.expected {
		return nil, ErrIncomplete
	}

	s := &Summary{TotalElapsed: totalElapsed}
	for _, res := range r.results {
		switch res.Status {
		case StatusSucceeded:
			s.Succeeded++
			s.Successes = append(s.Successes, res)
			s.TotalInputBytes += res.InputBytes
			s.TotalOutputBytes += res.OutputBytes
		case StatusFailed:
			s.Failed++
			s.Failures = append(s.Failures, res)
		case StatusCancelled:
			s.Cancelled++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s, nil
}

// Summary holds the aggregate statistics of a finished batch.
type Summary struct {
	Succeeded int
	Failed    int
	Cancelled int
	Skipped   int

	TotalElapsed time.Duration

	// Successes in completion order, each carrying its elapsed time.
	Successes []Result
	// Failures with their captured diagnostic text.
	Failures []Result

	TotalInputBytes  int64
	TotalOutputBytes int64
}

// Total returns the number of jobs that reached a terminal state.
func (s *Summary) Total() int {
	return s.Succeeded + s.Failed + s.Cancelled + s.Skipped
}

// AvgElapsed returns the mean elapsed time among successful jobs,
// or 0 when there were none.
func (s *Summary) AvgElapsed() time.Duration {
	if len(s.Successes) == 0 {
		return 0
	}
	var total time.Duration
	for _, res := range s.Successes {
		total += res.Elapsed
	}
	return total / time.Duration(len(s.Successes))
}

// Fastest returns the successful job with the smallest elapsed time,
// or nil when there were no successes.
func (s *Summary) Fastest() *Result {
	var best *Result
	for i := range s.Successes {
		if best == nil || s.Successes[i].Elapsed < best.Elapsed {
			best = &s.Successes[i]
		}
	}
	return best
}

// Slowest returns the successful job with the largest elapsed time,
// or nil when there were no successes.
func (s *Summary) Slowest() *Result {
	var worst *Result
	for i := range s.Successes {
		if worst == nil || s.Successes[i].Elapsed > worst.Elapsed {
			worst = &s.Successes[i]
		}
	}
	return worst
}

// SpaceSaved returns the aggregate byte difference between inputs and outputs
// of successful jobs. Positive means the audio outputs are smaller.
func (s *Summary) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}
