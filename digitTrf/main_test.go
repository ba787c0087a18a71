package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lzt "github.com/lorenzetti/lzt_go/pkg"
)

type fakeRunner struct {
	jobs []*lzt.JobOptions
}

func (r *fakeRunner) Execute(ctx context.Context, job *lzt.JobOptions) error {
	r.jobs = append(r.jobs, job)
	return nil
}

func TestRun_NoArguments(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), nil, &out)
	assert.ErrorIs(t, err, lzt.ErrNoArguments)
	assert.Contains(t, out.String(), "usage: digitTrf [options]")
}

func TestRun_MissingInput(t *testing.T) {
	err := run(context.Background(), []string{"-o", "esd.root"}, &bytes.Buffer{})
	var missing *lzt.ErrMissingFlag
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "-i/--inputFile", missing.Flag)
}

func TestRun_Digitization(t *testing.T) {
	runner := &fakeRunner{}
	previous := newRunner
	newRunner = func(lzt.Configuration) lzt.Runner { return runner }
	t.Cleanup(func() { newRunner = previous })

	err := run(context.Background(), []string{"-i", "hits.root", "-o", "esd.root", "--evt", "50"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, runner.jobs, 1)

	job := runner.jobs[0]
	assert.Equal(t, "esd.root", job.OutputFile)
	assert.Equal(t, lzt.EventCount(50), job.Events)
	assert.Nil(t, job.Detector)

	require.Len(t, job.Sequence, 3)
	reader := job.Sequence[0]
	assert.Equal(t, "RootStreamHITReader", reader.Kind)
	assert.Equal(t, "HITReader", reader.Name)
	input, _ := reader.Property("InputFile")
	assert.Equal(t, "hits.root", input)
	ntuple, _ := reader.Property("NtupleName")
	assert.Equal(t, lzt.NtupleName, ntuple)

	cells := job.Sequence[1]
	assert.Equal(t, "CaloCellBuilder", cells.Kind)
	path, _ := cells.Property("HistogramPath")
	assert.Equal(t, "Expert/Cells", path)

	esd := job.Sequence[2]
	assert.Equal(t, "RootStreamESDMaker", esd.Kind)
	key, _ := esd.Property("OutputCellsKey")
	assert.Equal(t, lzt.KeyCells, key)
	_, hasHits := esd.Property("InputHitsKey")
	assert.False(t, hasHits)
}

func TestRun_DebugOverridesLevel(t *testing.T) {
	runner := &fakeRunner{}
	previous := newRunner
	newRunner = func(lzt.Configuration) lzt.Runner { return runner }
	t.Cleanup(func() { newRunner = previous })

	err := run(context.Background(), []string{"-i", "hits.root", "-o", "esd.root", "--outputLevel", "4", "-d"}, &bytes.Buffer{})
	require.NoError(t, err)

	level, _ := runner.jobs[0].Sequence[1].Property("OutputLevel")
	assert.Equal(t, int(lzt.VERBOSE), level)
}
