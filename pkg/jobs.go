package lzt

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// GenJob is one independent generation job: its own events, seed and output.
type GenJob struct {
	Index      int
	Events     []int
	OutputFile string
	Seed       int
}

// EventsPerJob is override when positive, ceil(nEvents/nThreads) otherwise.
func EventsPerJob(nEvents, nThreads, override int) (int, error) {
	if override > 0 {
		return override, nil
	}
	if override < 0 {
		return 0, fmt.Errorf("invalid number of events per job %d", override)
	}
	if nThreads < 1 {
		return 0, fmt.Errorf("invalid number of threads %d", nThreads)
	}
	return (nEvents + nThreads - 1) / nThreads, nil
}

// PartitionEvents splits [0, n) into consecutive chunks of perJob events.
func PartitionEvents(n, perJob int) [][]int {
	numbers := make([]int, n)
	for i := range numbers {
		numbers[i] = i
	}
	return PartitionEventNumbers(numbers, perJob)
}

// PartitionEventNumbers splits numbers into consecutive chunks of perJob
// entries, the last one possibly shorter.
func PartitionEventNumbers(numbers []int, perJob int) [][]int {
	if perJob <= 0 || len(numbers) == 0 {
		return nil
	}
	chunks := make([][]int, 0, (len(numbers)+perJob-1)/perJob)
	for start := 0; start < len(numbers); start += perJob {
		end := min(start+perJob, len(numbers))
		chunks = append(chunks, numbers[start:end:end])
	}
	return chunks
}

// ParseEventNumbers parses a comma separated list such as "0,1,2,3".
func ParseEventNumbers(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	numbers := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid event number %q: %w", f, err)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

// JobOutputFile inserts the job index before the last dot separated part of
// base: "zee.root" becomes "zee.3.root". A name without dots gets the index
// as prefix ("zee" becomes "3.zee").
func JobOutputFile(base string, index int) string {
	parts := strings.Split(base, ".")
	last := len(parts) - 1
	out := make([]string, 0, len(parts)+1)
	out = append(out, parts[:last]...)
	out = append(out, strconv.Itoa(index), parts[last])
	return strings.Join(out, ".")
}

// JobSeed gives every job its own seed. Zero keeps the system clock seeding.
func JobSeed(seed, index int) int {
	if seed == 0 {
		return 0
	}
	return seed + index
}

type PlanOptions struct {
	OutputFile   string
	NumberEvents int
	EventNumbers []int
	NumThreads   int
	EventsPerJob int
	Seed         int
}

// PlanJobs partitions the requested events into jobs. Jobs whose output file
// already exists are returned in skipped instead of jobs.
func PlanJobs(opts PlanOptions) (jobs []GenJob, skipped []GenJob, err error) {
	if opts.OutputFile == "" {
		return nil, nil, errors.New("no output file given")
	}
	var chunks [][]int
	if len(opts.EventNumbers) > 0 {
		perJob, err := EventsPerJob(len(opts.EventNumbers), opts.NumThreads, opts.EventsPerJob)
		if err != nil {
			return nil, nil, err
		}
		chunks = PartitionEventNumbers(opts.EventNumbers, perJob)
	} else {
		if opts.NumberEvents < 0 {
			return nil, nil, fmt.Errorf("invalid number of events %d", opts.NumberEvents)
		}
		perJob, err := EventsPerJob(opts.NumberEvents, opts.NumThreads, opts.EventsPerJob)
		if err != nil {
			return nil, nil, err
		}
		chunks = PartitionEvents(opts.NumberEvents, perJob)
	}

	for i, events := range chunks {
		job := GenJob{
			Index:      i,
			Events:     events,
			OutputFile: JobOutputFile(opts.OutputFile, i),
			Seed:       JobSeed(opts.Seed, i),
		}
		if _, err := os.Stat(job.OutputFile); err == nil {
			logger.Info(fmt.Sprintf("%d - Output file %s already exists. Skipping.", i, job.OutputFile), "jobs")
			skipped = append(skipped, job)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, skipped, nil
}
