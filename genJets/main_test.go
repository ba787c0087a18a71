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

func useFakeRunner(t *testing.T) *fakeRunner {
	t.Helper()
	t.Setenv("LZT_PATH", "/opt/lorenzetti")
	runner := &fakeRunner{}
	previous := newRunner
	newRunner = func(lzt.Configuration) lzt.Runner { return runner }
	t.Cleanup(func() { newRunner = previous })
	return runner
}

func TestRun_NoArguments(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), nil, &out)
	assert.ErrorIs(t, err, lzt.ErrNoArguments)
	assert.Contains(t, out.String(), "usage: genJets [options]")
}

func TestRun_Defaults(t *testing.T) {
	runner := useFakeRunner(t)

	err := run(context.Background(), []string{"-o", "jets.root", "--nov", "20", "--outputLevel", "3"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, runner.jobs, 1)

	job := runner.jobs[0]
	assert.Equal(t, "jets.root", job.OutputFile)
	assert.Equal(t, lzt.EventCount(20), job.Events)
	require.Len(t, job.Sequence, 2)

	jets := job.Sequence[0]
	assert.Equal(t, "JF17", jets.Kind)
	minPt, _ := jets.Property("MinPt")
	assert.Equal(t, 17*lzt.GeV, minPt)
	etaWindow, _ := jets.Property("EtaWindow")
	assert.Equal(t, 0.4, etaWindow)
	selection, _ := jets.Property("Select")
	assert.Equal(t, 2, selection)

	gen := jets.Child("MainGenerator")
	require.NotNil(t, gen)
	file, _ := gen.Property("File")
	assert.Equal(t, "/opt/lorenzetti/"+lzt.JetConfigFile, file)
	_, hasNumbers := gen.Property("EventNumber")
	assert.False(t, hasNumbers)

	pileup := job.Sequence[1]
	assert.Equal(t, "MinimumBias", pileup.Name)
	avg, _ := pileup.Property("PileupAvg")
	assert.Equal(t, 40.0, avg)
	duration, _ := pileup.Property("BunchDuration")
	assert.Equal(t, lzt.DefaultBunchDurationNs, duration)
	mb := pileup.Child("MBGenerator")
	require.NotNil(t, mb)
	file, _ = mb.Property("File")
	assert.Equal(t, "/opt/lorenzetti/"+lzt.GunsMinBiasConfigFile, file)
}

func TestRun_EventNumbersWithoutPileup(t *testing.T) {
	runner := useFakeRunner(t)

	err := run(context.Background(), []string{
		"-o", "jets.root", "--event_number", "4,5", "--event_number", "9",
		"--pileupAvg", "0", "--energy_min", "25", "--maxEta", "2.5",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, runner.jobs, 1)

	job := runner.jobs[0]
	require.Len(t, job.Sequence, 1)
	jets := job.Sequence[0]
	minPt, _ := jets.Property("MinPt")
	assert.Equal(t, 25*lzt.GeV, minPt)
	etaMax, _ := jets.Property("EtaMax")
	assert.Equal(t, 2.5, etaMax)

	numbers, _ := jets.Child("MainGenerator").Property("EventNumber")
	assert.Equal(t, []int{4, 5, 9}, numbers)
}

func TestRun_InvalidOutputLevel(t *testing.T) {
	useFakeRunner(t)
	err := run(context.Background(), []string{"-o", "jets.root", "--outputLevel", "8"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid output level 8")
}
