package lzt

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const (
	maxLineLength = 1024 * 1024
	// runnerWaitDelay bounds the wait for output after the child exits or
	// the context is cancelled.
	runnerWaitDelay = 10 * time.Second
)

// Runner executes a pipeline inside the external framework.
type Runner interface {
	Execute(ctx context.Context, job *JobOptions) error
}

// ExecRunner writes the job options to JobDir and runs
// "Command Args... <jobfile>", streaming its output into the logger.
type ExecRunner struct {
	Command string
	Args    []string
	JobDir  string
	// KeepJobFile leaves the job options on disk after a successful run.
	KeepJobFile bool
}

func NewExecRunner(config Configuration) *ExecRunner {
	return &ExecRunner{
		Command: config.Runner,
		Args:    config.RunnerArgs,
		JobDir:  config.JobDir,
	}
}

func (r *ExecRunner) writeJobFile(job *JobOptions) (string, error) {
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding job options: %w", err)
	}
	f, err := os.CreateTemp(r.JobDir, sanitizeName(job.Name)+"-*.json")
	if err != nil {
		return "", &ErrCreateFile{Filename: r.JobDir, Err: err}
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return "", &ErrCreateFile{Filename: f.Name(), Err: err}
	}
	return f.Name(), f.Close()
}

func (r *ExecRunner) Execute(ctx context.Context, job *JobOptions) error {
	if r.Command == "" {
		return &ErrRunner{Job: job.Name, Err: fmt.Errorf("no runner command configured")}
	}
	jobFile, err := r.writeJobFile(job)
	if err != nil {
		return &ErrRunner{Job: job.Name, Err: err}
	}
	if configuration.Verbosity > 1 {
		logger.Info(fmt.Sprintf("Job options written to %s", jobFile), "runner")
	}

	args := append(append([]string{}, r.Args...), jobFile)
	cmd := exec.CommandContext(ctx, r.Command, args...)
	cmd.WaitDelay = runnerWaitDelay

	// the readers drain both streams to EOF so the child never blocks on a write
	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := streamLines(stdoutR, func(line string) { logger.Info(line, job.Name) }); err != nil {
			logger.Error(fmt.Sprintf("%s: stdout truncated: %v", job.Name, err))
		}
	}()
	go func() {
		defer wg.Done()
		if err := streamLines(stderrR, func(line string) { logger.Error(fmt.Sprintf("%s: %s", job.Name, line)) }); err != nil {
			logger.Error(fmt.Sprintf("%s: stderr truncated: %v", job.Name, err))
		}
	}()

	err = cmd.Run()
	stdoutW.Close()
	stderrW.Close()
	wg.Wait()

	if err != nil {
		return &ErrRunner{Job: job.Name, Err: err}
	}
	if !r.KeepJobFile {
		os.Remove(jobFile)
	}
	return nil
}

// streamLines hands every line of rd to fn. Lines longer than
// maxLineLength stop the scan; the rest of rd is then discarded.
func streamLines(rd io.Reader, fn func(string)) error {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	err := scanner.Err()
	io.Copy(io.Discard, rd)
	return err
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
