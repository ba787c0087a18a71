package lzt

// NumberOfRings is the length of the ring energy shape descriptor.
const NumberOfRings = 100

type Event struct {
	EventNumber int
	AvgMu       float64
	Cluster     *Cluster
	// Rings is nil when the ring builder did not produce a valid descriptor.
	Rings []float64
}

type Cluster struct {
	Et     float64
	Eta    float64
	Phi    float64
	Eratio float64
	Reta   float64
	Rphi   float64
	Rhad   float64
	F1     float64
	F3     float64
	Weta2  float64
	Ehad1  float64
	Ehad2  float64
	Ehad3  float64
	Cells  []Cell
}

// Cell is a calorimeter cell: its centre, its angular size and its energy.
type Cell struct {
	Eta      float64
	Phi      float64
	DeltaEta float64
	DeltaPhi float64
	Energy   float64
	Layer    CaloLayer
}

// CellsIn returns the cells of the cluster that belong to layer.
func (c *Cluster) CellsIn(layer CaloLayer) []Cell {
	var cells []Cell
	for _, cell := range c.Cells {
		if cell.Layer == layer {
			cells = append(cells, cell)
		}
	}
	return cells
}

// Valid reports whether the event carries both a cluster and its rings.
func (e *Event) Valid() bool {
	return e.Cluster != nil && len(e.Rings) > 0
}
