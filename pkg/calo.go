package lzt

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

type CaloLayer int

const (
	PS CaloLayer = iota
	EM1
	EM2
	EM3
	HAD1
	HAD2
	HAD3
)

var caloLayerStrings = []string{
	"ps",
	"em1",
	"em2",
	"em3",
	"had1",
	"had2",
	"had3",
}

// CaloLayers lists the layers in archive order.
var CaloLayers = []CaloLayer{PS, EM1, EM2, EM3, HAD1, HAD2, HAD3}

func (l CaloLayer) String() string {
	if l < PS || l > HAD3 {
		return "UNKNOWN"
	}
	return caloLayerStrings[l]
}

func ParseCaloLayer(s string) (CaloLayer, error) {
	for i, v := range caloLayerStrings {
		if v == s {
			return CaloLayer(i), nil
		}
	}
	return 0, fmt.Errorf("invalid calorimeter layer %q", s)
}

// Crop is the half size, in cells, of the frame kept around the cluster.
type Crop struct {
	NPhi int
	NEta int
}

func (c Crop) Rows() int { return 2*c.NPhi + 1 }
func (c Crop) Cols() int { return 2*c.NEta + 1 }

// ATLAS barrel granularity.
var cropTable = map[CaloLayer]Crop{
	PS:   {NPhi: 1, NEta: 6},
	EM1:  {NPhi: 1, NEta: 42},
	EM2:  {NPhi: 6, NEta: 6},
	EM3:  {NPhi: 6, NEta: 3},
	HAD1: {NPhi: 1, NEta: 2},
	HAD2: {NPhi: 1, NEta: 2},
	HAD3: {NPhi: 1, NEta: 1},
}

func CropSize(layer CaloLayer) Crop {
	return cropTable[layer]
}

const (
	CanvasSize   = 501
	CanvasCenter = 250
)

// FixPhi brings phi into [-π, π]. Non-finite angles give NaN.
func FixPhi(phi float64) float64 {
	return math.Remainder(phi, 2*math.Pi)
}

// PhiDiff is phi1 - phi2 wrapped into [-π, π].
func PhiDiff(phi1, phi2 float64) float64 {
	return FixPhi(FixPhi(phi1) - FixPhi(phi2))
}

// CanvasIndex places cell on the canvas centred on the cluster position.
// Half-way positions round to even.
func CanvasIndex(cell Cell, clusterEta, clusterPhi float64) (int, int) {
	i := canvasIndex(PhiDiff(cell.Phi, clusterPhi) / cell.DeltaPhi)
	j := canvasIndex((cell.Eta - clusterEta) / cell.DeltaEta)
	return i, j
}

// canvasIndex offsets the rounded cell distance from the centre. Distances
// far off the canvas are clamped so the conversion to int stays defined.
func canvasIndex(offset float64) int {
	if math.IsNaN(offset) {
		return -1
	}
	r := math.Max(-CanvasSize, math.Min(CanvasSize, math.RoundToEven(offset)))
	return CanvasCenter + int(r)
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func inCanvas(i int) bool {
	return i >= 0 && i < CanvasSize
}

// ReshapeCells paints the layer cells of cluster on a 501×501 canvas and
// returns the (2*nphi+1)×(2*neta+1) frame around its centre.
func ReshapeCells(cluster *Cluster, layer CaloLayer) (*mat.Dense, error) {
	crop, ok := cropTable[layer]
	if !ok {
		return nil, fmt.Errorf("no frame definition for layer %s", layer)
	}

	if !finite(cluster.Eta, cluster.Phi) {
		return nil, fmt.Errorf("cluster position (eta=%g, phi=%g) is not finite", cluster.Eta, cluster.Phi)
	}

	canvas := mat.NewDense(CanvasSize, CanvasSize, nil)
	for _, cell := range cluster.CellsIn(layer) {
		if !finite(cell.Eta, cell.Phi) {
			return nil, fmt.Errorf("cell at (eta=%g, phi=%g) in layer %s is not finite", cell.Eta, cell.Phi, layer)
		}
		if !(cell.DeltaEta > 0) || !(cell.DeltaPhi > 0) {
			return nil, fmt.Errorf("cell at (eta=%g, phi=%g) in layer %s has no size", cell.Eta, cell.Phi, layer)
		}
		i, j := CanvasIndex(cell, cluster.Eta, cluster.Phi)
		if !inCanvas(i) || !inCanvas(j) {
			return nil, &ErrCanvasIndex{Layer: layer, I: i, J: j}
		}
		canvas.Set(i, j, cell.Energy)
	}

	view := canvas.Slice(
		CanvasCenter-crop.NPhi, CanvasCenter+crop.NPhi+1,
		CanvasCenter-crop.NEta, CanvasCenter+crop.NEta+1,
	)
	return mat.DenseCopyOf(view), nil
}
