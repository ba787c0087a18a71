package lzt

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

type JobResult struct {
	Job GenJob
	Err error
}

// JobFunc runs a single job to completion.
type JobFunc func(ctx context.Context, job GenJob) error

func worker(ctx context.Context, id int, jobs <-chan GenJob, results chan<- JobResult, fn JobFunc) {
	for job := range jobs {
		if configuration.Verbosity > 0 {
			logger.Info(fmt.Sprintf("Worker %d processing job %d (%d events)", id, job.Index, len(job.Events)), "workers")
		}
		results <- runJob(ctx, id, job, fn)
	}
}

func runJob(ctx context.Context, id int, job GenJob, fn JobFunc) (result JobResult) {
	result.Job = job
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("worker %d recovered from panic on job %d: %v", id, job.Index, r)
		}
	}()
	result.Err = fn(ctx, job)
	return result
}

func sendJobsToWorkers(jobs []GenJob, queue chan<- GenJob) {
	for _, job := range jobs {
		queue <- job
	}
	close(queue)
}

// RunJobs runs every job on nWorkers goroutines. A failing job does not stop
// the others; the returned error joins every failure in job order.
func RunJobs(ctx context.Context, nWorkers int, jobs []GenJob, fn JobFunc) ([]JobResult, error) {
	if nWorkers < 1 {
		nWorkers = 1
	}
	nWorkers = min(nWorkers, max(len(jobs), 1))

	queue := make(chan GenJob, nWorkers)
	results := make(chan JobResult, len(jobs))

	for w := 1; w <= nWorkers; w++ {
		go worker(ctx, w, queue, results, fn)
	}
	go sendJobsToWorkers(jobs, queue)

	collected := make([]JobResult, 0, len(jobs))
	for range jobs {
		collected = append(collected, <-results)
	}
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].Job.Index < collected[j].Job.Index
	})

	var errs []error
	for _, r := range collected {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("job %d (%s): %w", r.Job.Index, r.Job.OutputFile, r.Err))
		}
	}
	return collected, errors.Join(errs...)
}
