package progress

import (
	"math"
	"sync"
	"testing"
)

func TestAggregator_UpdateMonotonic(t *testing.T) {
	a := NewAggregator(1)

	a.Update("job", 0.5)
	a.Update("job", 0.3) // stale update must not regress
	if got := a.Snapshot().PerJob["job"]; got != 0.5 {
		t.Errorf("fraction = %v, want 0.5 after stale update", got)
	}

	a.Update("job", 0.8)
	if got := a.Snapshot().PerJob["job"]; got != 0.8 {
		t.Errorf("fraction = %v, want 0.8", got)
	}
}

func TestAggregator_UpdateClamps(t *testing.T) {
	a := NewAggregator(2)

	a.Update("over", 1.7)
	a.Update("under", -0.3)

	snap := a.Snapshot()
	if snap.PerJob["over"] != 1.0 {
		t.Errorf("over = %v, want clamped 1.0", snap.PerJob["over"])
	}
	if snap.PerJob["under"] != 0 {
		t.Errorf("under = %v, want clamped 0", snap.PerJob["under"])
	}
}

func TestAggregator_UpdateAtOneDoesNotComplete(t *testing.T) {
	a := NewAggregator(1)

	a.Update("job", 1.0)
	if got := a.Snapshot().Completed; got != 0 {
		t.Errorf("Completed = %d after Update(1.0), want 0", got)
	}

	a.Complete("job")
	if got := a.Snapshot().Completed; got != 1 {
		t.Errorf("Completed = %d after Complete, want 1", got)
	}
}

func TestAggregator_CompleteIdempotent(t *testing.T) {
	a := NewAggregator(3)

	a.Complete("job")
	a.Complete("job")
	a.Complete("job")

	snap := a.Snapshot()
	if snap.Completed != 1 {
		t.Errorf("Completed = %d, want 1", snap.Completed)
	}
	if snap.PerJob["job"] != 1.0 {
		t.Errorf("fraction = %v, want 1.0", snap.PerJob["job"])
	}
}

func TestAggregator_SnapshotIsolation(t *testing.T) {
	a := NewAggregator(1)
	a.Update("job", 0.5)

	snap := a.Snapshot()
	snap.PerJob["job"] = 0.1

	if got := a.Snapshot().PerJob["job"]; got != 0.5 {
		t.Errorf("mutating a snapshot leaked into the aggregator: %v", got)
	}
}

func TestAggregator_ConcurrentUpdates(t *testing.T) {
	const jobs = 8
	a := NewAggregator(jobs)

	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func(id byte) {
			defer wg.Done()
			jobID := string([]byte{'a' + id})
			for step := 1; step <= 100; step++ {
				a.Update(jobID, float64(step)/100)
			}
			a.Complete(jobID)
		}(byte(i))
	}
	wg.Wait()

	snap := a.Snapshot()
	if snap.Completed != jobs {
		t.Errorf("Completed = %d, want %d", snap.Completed, jobs)
	}
	if got := snap.Overall(); got != 1.0 {
		t.Errorf("Overall() = %v, want 1.0", got)
	}
}

func TestSnapshot_Overall(t *testing.T) {
	a := NewAggregator(4)
	a.Update("a", 1.0)
	a.Update("b", 0.5)
	// c and d have not reported and count as 0.

	got := a.Snapshot().Overall()
	want := 1.5 / 4
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Overall() = %v, want %v", got, want)
	}
}

func TestSnapshot_OverallEmpty(t *testing.T) {
	a := NewAggregator(0)
	if got := a.Snapshot().Overall(); got != 1 {
		t.Errorf("Overall() with zero jobs = %v, want 1", got)
	}
}
