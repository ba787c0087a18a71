package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lzt "github.com/lorenzetti/lzt_go/pkg"
)

type fakeRunner struct {
	jobs []*lzt.JobOptions
	err  error
}

func (r *fakeRunner) Execute(ctx context.Context, job *lzt.JobOptions) error {
	r.jobs = append(r.jobs, job)
	return r.err
}

func useFakeRunner(t *testing.T, runner *fakeRunner) {
	t.Helper()
	previous := newRunner
	newRunner = func(lzt.Configuration) lzt.Runner { return runner }
	t.Cleanup(func() { newRunner = previous })
}

func TestRun_NoArguments(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), nil, &out)
	assert.ErrorIs(t, err, lzt.ErrNoArguments)
	assert.Contains(t, out.String(), "usage: simuTrf [options]")
}

func TestRun_Simulation(t *testing.T) {
	runner := &fakeRunner{}
	useFakeRunner(t, runner)

	err := run(context.Background(), []string{
		"-i", "zee.root", "-o", "hits.root", "-nt", "8", "--evt", "100", "-t", "10", "-m",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, runner.jobs, 1)

	job := runner.jobs[0]
	assert.Equal(t, "hits.root", job.OutputFile)
	assert.Equal(t, lzt.EventCount(100), job.Events)

	for key, want := range map[string]any{
		"RunVis":           false,
		"NumberOfThreads":  8,
		"MergeOutputFiles": true,
		"Seed":             512,
		"Timeout":          600,
	} {
		v, ok := job.Properties.Property(key)
		require.True(t, ok, key)
		assert.Equal(t, want, v, key)
	}

	require.NotNil(t, job.Detector)
	assert.Equal(t, "GenericATLASDetector", job.Detector.Name)
	magnetic, _ := job.Detector.Property("UseMagneticField")
	assert.Equal(t, false, magnetic)

	require.Len(t, job.Sequence, 3)
	assert.Equal(t, "EventReader", job.Sequence[0].Kind)
	fileName, _ := job.Sequence[0].Property("FileName")
	assert.Equal(t, "zee.root", fileName)
	assert.Equal(t, "CaloHitBuilder", job.Sequence[1].Kind)

	hits := job.Sequence[2]
	assert.Equal(t, "RootStreamHITMaker", hits.Kind)
	onlyRoI, _ := hits.Property("OnlyRoI")
	assert.Equal(t, true, onlyRoI)
	level, _ := hits.Property("OutputLevel")
	assert.Equal(t, int(lzt.WARNING), level)
}

func TestRun_DebugAndAllHits(t *testing.T) {
	runner := &fakeRunner{}
	useFakeRunner(t, runner)

	err := run(context.Background(), []string{
		"-i", "zee.root", "-o", "hits.root", "-d", "--saveAllHits", "--enableMagneticField",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	job := runner.jobs[0]
	assert.Equal(t, lzt.AllEvents(), job.Events)
	hits := job.Sequence[2]
	onlyRoI, _ := hits.Property("OnlyRoI")
	assert.Equal(t, false, onlyRoI)
	level, _ := hits.Property("OutputLevel")
	assert.Equal(t, int(lzt.VERBOSE), level)
	magnetic, _ := job.Detector.Property("UseMagneticField")
	assert.Equal(t, true, magnetic)
}

func TestRun_VisualizationWaitsForEnter(t *testing.T) {
	runner := &fakeRunner{}
	useFakeRunner(t, runner)
	previous := stdin
	stdin = strings.NewReader("\n")
	t.Cleanup(func() { stdin = previous })

	var out bytes.Buffer
	err := run(context.Background(), []string{"-i", "zee.root", "-o", "hits.root", "--visualization"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Press Enter to quit...")

	vis, _ := runner.jobs[0].Properties.Property("RunVis")
	assert.Equal(t, true, vis)
}

func TestRun_RunnerFailure(t *testing.T) {
	boom := errors.New("geant4 aborted")
	useFakeRunner(t, &fakeRunner{err: boom})

	err := run(context.Background(), []string{"-i", "zee.root", "-o", "hits.root"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, boom)
}
