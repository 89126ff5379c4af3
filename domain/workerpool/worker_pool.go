package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Job represents the job to be run
type Job[T any] struct {
	Task func(ctx context.Context) (T, error)
}

// JobResult represents the result of a job
type JobResult[T any] struct {
	Result T
	Err    error
	// Started is false for jobs skipped because the context was done.
	Started bool
}

// Dispatcher runs batches of jobs with a bound on the number of jobs in flight.
type Dispatcher[T any] struct {
	MaxWorkers int
}

// NewDispatcher creates a dispatcher. maxWorkers <= 0 means one worker per job.
func NewDispatcher[T any](maxWorkers int) *Dispatcher[T] {
	return &Dispatcher[T]{MaxWorkers: maxWorkers}
}

// Run executes the jobs and waits for all started jobs to finish.
// Job errors are reported per result and never stop other jobs.
// Once ctx is done no further jobs are started; skipped jobs carry ctx.Err()
// and Run returns ctx.Err() alongside the results gathered so far.
// Results are in job order.
func (d *Dispatcher[T]) Run(ctx context.Context, jobs []Job[T]) ([]JobResult[T], error) {
	results := make([]JobResult[T], len(jobs))
	if len(jobs) == 0 {
		return results, ctx.Err()
	}

	g := new(errgroup.Group)
	if d.MaxWorkers > 0 {
		g.SetLimit(d.MaxWorkers)
	}

	for i := range jobs {
		if ctx.Err() != nil {
			break
		}

		i := i
		g.Go(func() error {
			// The context may have been cancelled while waiting for a free worker.
			if err := ctx.Err(); err != nil {
				results[i] = JobResult[T]{Err: err}
				return nil
			}

			result, err := jobs[i].Task(ctx)
			results[i] = JobResult[T]{Result: result, Err: err, Started: true}
			return nil
		})
	}

	// Jobs never return errors to the group.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		for i := range results {
			if !results[i].Started && results[i].Err == nil {
				results[i].Err = err
			}
		}
		return results, err
	}

	return results, nil
}
