// Package progress tracks per-job and overall conversion progress. Runners
// push fraction updates concurrently; a presentation layer polls snapshots.
package progress

import "sync"

// Snapshot is a read-only copy of the aggregate progress state.
type Snapshot struct {
	PerJob    map[string]float64 // Fractional completion in [0,1] per job ID.
	Completed int                // Jobs that reached terminal completion (success or skip).
	Total     int
}

// Overall returns the mean fractional completion across all jobs, in [0,1].
// Jobs that have not reported yet count as 0.
func (s Snapshot) Overall() float64 {
	if s.Total == 0 {
		return 1
	}
	var sum float64
	for _, f := range s.PerJob {
		sum += f
	}
	return sum / float64(s.Total)
}

// Aggregator is the single owner of shared progress counters. All mutation
// goes through Update and Complete; raw counters are never exposed to runner
// code.
type Aggregator struct {
	mu        sync.Mutex
	perJob    map[string]float64
	done      map[string]bool
	completed int
	total     int
}

// NewAggregator returns an Aggregator expecting total jobs.
func NewAggregator(total int) *Aggregator {
	return &Aggregator{
		perJob: make(map[string]float64),
		done:   make(map[string]bool),
		total:  total,
	}
}

// Update records a fractional progress value for a job. Values are clamped
// to [0,1] and applied only when they increase, so progress is monotonically
// non-decreasing regardless of update interleaving. Intermediate values that
// happen to equal 1.0 never count the job as completed; that requires an
// explicit [Aggregator.Complete].
func (a *Aggregator) Update(jobID string, fraction float64) {
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if fraction > a.perJob[jobID] {
		a.perJob[jobID] = fraction
	}
}

// Complete marks a job's terminal completion: its fraction becomes exactly
// 1.0 and the completed count increments. Callers invoke it for successes
// and for skipped jobs alike, so a batch of pre-existing outputs still
// reaches 100% on the overall line. Idempotent; a job is counted once no
// matter how many times Complete is called.
func (a *Aggregator) Complete(jobID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done[jobID] {
		return
	}
	a.done[jobID] = true
	a.perJob[jobID] = 1.0
	a.completed++
}

// Snapshot returns a copy of the current state, safe to read while runners
// keep updating.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	perJob := make(map[string]float64, len(a.perJob))
	for id, f := range a.perJob {
		perJob[id] = f
	}
	return Snapshot{
		PerJob:    perJob,
		Completed: a.completed,
		Total:     a.total,
	}
}
