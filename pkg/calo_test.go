package lzt

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaloLayerNames(t *testing.T) {
	for _, layer := range CaloLayers {
		parsed, err := ParseCaloLayer(layer.String())
		require.NoError(t, err)
		assert.Equal(t, layer, parsed)
	}
	assert.Equal(t, "em2", EM2.String())
	assert.Equal(t, "UNKNOWN", CaloLayer(42).String())

	_, err := ParseCaloLayer("EM7")
	assert.Error(t, err)
}

func TestCropSize(t *testing.T) {
	tests := []struct {
		layer      CaloLayer
		rows, cols int
	}{
		{PS, 3, 13},
		{EM1, 3, 85},
		{EM2, 13, 13},
		{EM3, 13, 7},
		{HAD1, 3, 5},
		{HAD2, 3, 5},
		{HAD3, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.layer.String(), func(t *testing.T) {
			crop := CropSize(tt.layer)
			assert.Equal(t, tt.rows, crop.Rows())
			assert.Equal(t, tt.cols, crop.Cols())
		})
	}
}

func TestFixPhi(t *testing.T) {
	assert.InDelta(t, 0.5, FixPhi(0.5), 1e-12)
	assert.InDelta(t, -math.Pi+0.5, FixPhi(math.Pi+0.5), 1e-12)
	assert.InDelta(t, math.Pi-0.5, FixPhi(-math.Pi-0.5), 1e-12)
	assert.InDelta(t, 1, FixPhi(1+4*math.Pi), 1e-12)
}

func TestFixPhi_NonFiniteAndLarge(t *testing.T) {
	assert.True(t, math.IsNaN(FixPhi(math.Inf(1))))
	assert.True(t, math.IsNaN(FixPhi(math.Inf(-1))))
	assert.True(t, math.IsNaN(FixPhi(math.NaN())))

	large := FixPhi(1e300)
	assert.LessOrEqual(t, math.Abs(large), math.Pi)
}

// reshapeWithin fails the test when ReshapeCells does not return in time.
func reshapeWithin(t *testing.T, cluster *Cluster, layer CaloLayer) error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		_, err := ReshapeCells(cluster, layer)
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("ReshapeCells did not return")
		return nil
	}
}

func TestReshapeCells_NonFiniteAngles(t *testing.T) {
	cell := Cell{Phi: math.Inf(1), DeltaEta: 0.025, DeltaPhi: 0.0245, Layer: EM2}
	err := reshapeWithin(t, &Cluster{Cells: []Cell{cell}}, EM2)
	assert.ErrorContains(t, err, "is not finite")

	cell = Cell{Eta: math.NaN(), DeltaEta: 0.025, DeltaPhi: 0.0245, Layer: EM2}
	err = reshapeWithin(t, &Cluster{Cells: []Cell{cell}}, EM2)
	assert.ErrorContains(t, err, "is not finite")

	err = reshapeWithin(t, &Cluster{Phi: math.Inf(-1)}, EM2)
	assert.ErrorContains(t, err, "cluster position")
}

func TestReshapeCells_LargeAngles(t *testing.T) {
	// a huge phi wraps into range, a huge eta is off the canvas
	cell := Cell{Phi: 1e300, DeltaEta: 0.025, DeltaPhi: 0.0245, Energy: 1, Layer: EM2}
	err := reshapeWithin(t, &Cluster{Cells: []Cell{cell}}, EM2)
	assert.NoError(t, err)

	cell = Cell{Eta: 1e300, DeltaEta: 0.025, DeltaPhi: 0.0245, Energy: 1, Layer: EM2}
	err = reshapeWithin(t, &Cluster{Cells: []Cell{cell}}, EM2)
	var indexErr *ErrCanvasIndex
	require.True(t, errors.As(err, &indexErr))
	assert.Equal(t, CanvasCenter+CanvasSize, indexErr.J)
}

func TestPhiDiff_WrapsAroundPi(t *testing.T) {
	assert.InDelta(t, 0.1, PhiDiff(-math.Pi+0.05, math.Pi-0.05), 1e-9)
	assert.InDelta(t, -0.1, PhiDiff(math.Pi-0.05, -math.Pi+0.05), 1e-9)
	assert.InDelta(t, 0.3, PhiDiff(0.5, 0.2), 1e-12)
}

func TestCanvasIndex(t *testing.T) {
	cell := Cell{Eta: 0.5, Phi: 1.0, DeltaEta: 0.25, DeltaPhi: 0.25}
	i, j := CanvasIndex(cell, 0, 0.5)
	assert.Equal(t, CanvasCenter+2, i)
	assert.Equal(t, CanvasCenter+2, j)

	// half way positions round to the even neighbour
	_, j = CanvasIndex(Cell{Eta: 0.125, DeltaEta: 0.25, DeltaPhi: 1}, 0, 0)
	assert.Equal(t, CanvasCenter, j)
	_, j = CanvasIndex(Cell{Eta: 0.375, DeltaEta: 0.25, DeltaPhi: 1}, 0, 0)
	assert.Equal(t, CanvasCenter+2, j)
	_, j = CanvasIndex(Cell{Eta: -0.125, DeltaEta: 0.25, DeltaPhi: 1}, 0, 0)
	assert.Equal(t, CanvasCenter, j)
}

func TestReshapeCells(t *testing.T) {
	cluster := &Cluster{
		Eta: 0.1,
		Phi: 0.2,
		Cells: []Cell{
			{Eta: 0.1, Phi: 0.2, DeltaEta: 0.025, DeltaPhi: 0.025, Energy: 5, Layer: EM2},
			{Eta: 0.15, Phi: 0.225, DeltaEta: 0.025, DeltaPhi: 0.025, Energy: 3, Layer: EM2},
			{Eta: 0.05, Phi: 0.15, DeltaEta: 0.025, DeltaPhi: 0.025, Energy: 1, Layer: EM2},
			// outside the 13×13 frame, inside the canvas
			{Eta: 0.4, Phi: 0.2, DeltaEta: 0.025, DeltaPhi: 0.025, Energy: 100, Layer: EM2},
			// other layer
			{Eta: 0.1, Phi: 0.2, DeltaEta: 0.1, DeltaPhi: 0.1, Energy: 7, Layer: HAD1},
		},
	}

	frame, err := ReshapeCells(cluster, EM2)
	require.NoError(t, err)
	r, c := frame.Dims()
	assert.Equal(t, 13, r)
	assert.Equal(t, 13, c)
	assert.Equal(t, 5.0, frame.At(6, 6))
	assert.Equal(t, 3.0, frame.At(7, 8))
	assert.Equal(t, 1.0, frame.At(4, 4))

	total := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			total += frame.At(i, j)
		}
	}
	assert.Equal(t, 9.0, total)

	had, err := ReshapeCells(cluster, HAD1)
	require.NoError(t, err)
	assert.Equal(t, 7.0, had.At(1, 2))

	empty, err := ReshapeCells(cluster, PS)
	require.NoError(t, err)
	r, c = empty.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 13, c)
}

func TestReshapeCells_FrameIsIndependentOfCanvas(t *testing.T) {
	cluster := &Cluster{Cells: []Cell{{DeltaEta: 0.1, DeltaPhi: 0.1, Energy: 2, Layer: HAD3}}}
	frame, err := ReshapeCells(cluster, HAD3)
	require.NoError(t, err)
	frame.Set(1, 1, 10)

	again, err := ReshapeCells(cluster, HAD3)
	require.NoError(t, err)
	assert.Equal(t, 2.0, again.At(1, 1))
}

func TestReshapeCells_OutOfCanvas(t *testing.T) {
	cluster := &Cluster{Cells: []Cell{{Eta: 1, DeltaEta: 0.003125, DeltaPhi: 0.1, Energy: 1, Layer: EM1}}}
	_, err := ReshapeCells(cluster, EM1)
	require.Error(t, err)

	var indexErr *ErrCanvasIndex
	require.True(t, errors.As(err, &indexErr))
	assert.Equal(t, EM1, indexErr.Layer)
	assert.Equal(t, CanvasCenter+320, indexErr.J)
}

func TestReshapeCells_CellWithoutSize(t *testing.T) {
	cluster := &Cluster{Cells: []Cell{{Eta: 0, DeltaEta: 0, DeltaPhi: 0.1, Layer: EM3}}}
	_, err := ReshapeCells(cluster, EM3)
	assert.ErrorContains(t, err, "has no size")
}
