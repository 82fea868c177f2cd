package sim

import (
	"context"
	"sync"
)

// Job is one independent headless run. Jobs in an ensemble must not share a
// scene, an engine or a state path.
type Job struct {
	Name   string
	Driver *Driver
	Input  InputSource
}

type Ensemble struct {
	jobs []Job
}

func NewEnsemble(jobs ...Job) *Ensemble {
	return &Ensemble{jobs: jobs}
}

func (e *Ensemble) Add(j Job) { e.jobs = append(e.jobs, j) }
func (e *Ensemble) Len() int  { return len(e.jobs) }

// Run executes every job concurrently. Results are indexed like the jobs; the
// first error encountered in job order is returned.
func (e *Ensemble) Run(ctx context.Context, dt, duration float32) ([]*Result, error) {
	results := make([]*Result, len(e.jobs))
	errs := make([]error, len(e.jobs))

	var wg sync.WaitGroup
	for i := range e.jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			j := e.jobs[idx]
			results[idx], errs[idx] = j.Driver.Run(ctx, j.Input, dt, duration)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
