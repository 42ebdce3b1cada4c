package pipeline

import (
	"context"
	"sync"
)

// RunFunc executes a single job to a terminal result. It must honor ctx and
// return a Cancelled result rather than blocking past cancellation.
type RunFunc func(ctx context.Context, job Job) Result

// Dispatcher fans a job list out across a bounded pool of workers. The pool
// size is explicit (never ambient global state) so tests can pin it.
type Dispatcher struct {
	workers int
	run     RunFunc
}

// NewDispatcher returns a Dispatcher with the given worker count (minimum 1).
func NewDispatcher(workers int, run RunFunc) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{workers: workers, run: run}
}

// Run executes all jobs, at most `workers` concurrently, and returns once
// every job has a terminal result. Completion order is not preserved; the
// result slice order is arrival order. Guarantees: no job starts twice, a
// failing job never blocks its siblings, and after cancellation unstarted
// jobs come back StatusCancelled instead of being dropped.
// Zero jobs returns immediately with no workers spawned.
func (d *Dispatcher) Run(ctx context.Context, jobs []Job) []Result {
	if len(jobs) == 0 {
		return nil
	}

	jobCh := make(chan Job, len(jobs))
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)

	resultCh := make(chan Result, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				if ctx.Err() != nil {
					resultCh <- Result{Job: job, Status: StatusCancelled}
					continue
				}
				resultCh <- d.run(ctx, job)
			}
		}()
	}

	wg.Wait()
	close(resultCh)

	results := make([]Result, 0, len(jobs))
	for res := range resultCh {
		results = append(results, res)
	}
	return results
}
