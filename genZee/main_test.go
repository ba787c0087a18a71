package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lzt "github.com/lorenzetti/lzt_go/pkg"
)

type fakeRunner struct {
	mu   sync.Mutex
	jobs []*lzt.JobOptions
	err  error
}

func (r *fakeRunner) Execute(ctx context.Context, job *lzt.JobOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
	if r.err != nil {
		return r.err
	}
	// the framework creates the output file
	return os.WriteFile(job.OutputFile, []byte("root"), 0o644)
}

func (r *fakeRunner) sorted() []*lzt.JobOptions {
	r.mu.Lock()
	defer r.mu.Unlock()
	sort.Slice(r.jobs, func(i, j int) bool { return r.jobs[i].OutputFile < r.jobs[j].OutputFile })
	return r.jobs
}

func useFakeRunner(t *testing.T, runner *fakeRunner) {
	t.Helper()
	t.Setenv("LZT_PATH", "/opt/lorenzetti")
	previous := newRunner
	newRunner = func(lzt.Configuration) lzt.Runner { return runner }
	t.Cleanup(func() { newRunner = previous })
}

func TestRun_NoArguments(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), nil, &out)
	assert.ErrorIs(t, err, lzt.ErrNoArguments)
	assert.Contains(t, out.String(), "usage: genZee [options]")
	assert.Contains(t, out.String(), "-output-file")
}

func TestRun_MissingOutputFile(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"--nov", "3"}, &out)
	var missing *lzt.ErrMissingFlag
	assert.True(t, errors.As(err, &missing))
}

func TestRun_GeneratesOneJobPerChunk(t *testing.T) {
	runner := &fakeRunner{}
	useFakeRunner(t, runner)
	output := filepath.Join(t.TempDir(), "zee.root")

	var out bytes.Buffer
	err := run(context.Background(), []string{
		"-o", output, "--nov", "5", "-nt", "2", "-s", "10",
		"--pileup-avg", "40", "--output-level", "WARNING", "--bc-duration", "50",
	}, &out)
	require.NoError(t, err)

	jobs := runner.sorted()
	require.Len(t, jobs, 2)
	assert.Equal(t, filepath.Join(filepath.Dir(output), "zee.0.root"), jobs[0].OutputFile)
	assert.Equal(t, []int{0, 1, 2}, jobs[0].Events.Numbers)
	assert.Equal(t, []int{3, 4}, jobs[1].Events.Numbers)

	require.Len(t, jobs[1].Sequence, 2)
	zee := jobs[1].Sequence[0]
	assert.Equal(t, "Zee", zee.Kind)
	minPt, _ := zee.Property("MinPt")
	assert.Equal(t, 15*lzt.GeV, minPt)

	gen := zee.Child("Generator")
	require.NotNil(t, gen)
	seed, _ := gen.Property("Seed")
	assert.Equal(t, 11, seed)
	file, _ := gen.Property("File")
	assert.Equal(t, "/opt/lorenzetti/"+lzt.ZeeConfigFile, file)

	pileup := jobs[1].Sequence[1]
	assert.Equal(t, "Pileup", pileup.Kind)
	avg, _ := pileup.Property("PileupAvg")
	assert.Equal(t, 40.0, avg)
	duration, _ := pileup.Property("BunchDuration")
	assert.Equal(t, 50, duration)
}

func TestRun_SkipsExistingOutputs(t *testing.T) {
	runner := &fakeRunner{}
	useFakeRunner(t, runner)
	output := filepath.Join(t.TempDir(), "zee.root")
	require.NoError(t, os.WriteFile(lzt.JobOutputFile(output, 0), nil, 0o644))

	err := run(context.Background(), []string{"-o", output, "--nov", "4", "-nt", "2"}, &bytes.Buffer{})
	require.NoError(t, err)

	jobs := runner.sorted()
	require.Len(t, jobs, 1)
	assert.Equal(t, lzt.JobOutputFile(output, 1), jobs[0].OutputFile)
	assert.Len(t, jobs[0].Sequence, 1, "no pileup stage without --pileup-avg")
}

func TestRun_EventNumbers(t *testing.T) {
	runner := &fakeRunner{}
	useFakeRunner(t, runner)
	output := filepath.Join(t.TempDir(), "zee.root")

	err := run(context.Background(), []string{"-o", output, "-e", "7,8,9", "--events-per-job", "2"}, &bytes.Buffer{})
	require.NoError(t, err)

	jobs := runner.sorted()
	require.Len(t, jobs, 2)
	assert.Equal(t, lzt.EventNumbers([]int{7, 8}), jobs[0].Events)
	assert.Equal(t, lzt.EventNumbers([]int{9}), jobs[1].Events)
}

func TestRun_RecordsJobsInCatalog(t *testing.T) {
	runner := &fakeRunner{}
	useFakeRunner(t, runner)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "jobs.db")
	configFile := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(configFile,
		[]byte(fmt.Sprintf(`{"no_db": false, "db_driver": "sqlite", "db_path": %q}`, dbPath)), 0o644))

	output := filepath.Join(dir, "zee.root")
	err := run(context.Background(), []string{
		"-o", output, "--nov", "4", "-nt", "2", "--run-number", "12", "--config", configFile,
	}, &bytes.Buffer{})
	require.NoError(t, err)

	config, err := lzt.LoadConfiguration(configFile)
	require.NoError(t, err)
	catalog, err := lzt.OpenCatalog(config)
	require.NoError(t, err)
	defer catalog.Close()

	records, err := catalog.Jobs(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, lzt.JobDone, rec.Status)
	}
}

func TestRun_RunnerFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("framework crashed")}
	useFakeRunner(t, runner)
	output := filepath.Join(t.TempDir(), "zee.root")

	err := run(context.Background(), []string{"-o", output, "--nov", "2", "-nt", "2"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "job 0")
	assert.ErrorContains(t, err, "job 1")
	assert.ErrorContains(t, err, "framework crashed")
}

func TestRun_WithoutLztPath(t *testing.T) {
	runner := &fakeRunner{}
	useFakeRunner(t, runner)
	t.Setenv("LZT_PATH", "")
	os.Unsetenv("LZT_PATH")

	err := run(context.Background(), []string{"-o", filepath.Join(t.TempDir(), "zee.root")}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "LZT_PATH is not set")
	assert.Empty(t, runner.jobs)
}

// TestMain_ExitCodes runs the command in a subprocess because os.Exit cannot
// be intercepted in-process.
func TestMain_ExitCodes(t *testing.T) {
	if args := os.Getenv("TEST_GENZEE_ARGS"); args != "" || os.Getenv("TEST_GENZEE_SUBPROCESS") == "1" {
		os.Args = append([]string{"genZee"}, strings.Fields(args)...)
		main()
		return
	}

	tests := []struct {
		name string
		args string
		code int
		want string
	}{
		{"no arguments", "", 1, "usage: genZee"},
		{"help", "-h", 0, "usage: genZee"},
		{"missing output", "--nov 2", 1, "the following argument is required: -o/--output-file"},
		{"bad level", "-o zee.root --output-level LOUD", 1, `invalid output level "LOUD"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(os.Args[0], "-test.run=^TestMain_ExitCodes$")
			cmd.Env = append(os.Environ(), "TEST_GENZEE_SUBPROCESS=1", "TEST_GENZEE_ARGS="+tt.args)
			out, err := cmd.CombinedOutput()

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.code, code, string(out))
			assert.Contains(t, string(out), tt.want)
		})
	}
}
