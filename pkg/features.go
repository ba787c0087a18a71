package lzt

import "fmt"

var clusterLabels = []string{
	"et",
	"eta",
	"phi",
	"eratio",
	"reta",
	"rphi",
	"rhad",
	"f1",
	"f3",
	"weta2",
	"ehad1",
	"ehad2",
	"ehad3",
}

// FeatureLabels names the columns of a feature row.
func FeatureLabels() []string {
	labels := make([]string, 0, 1+NumberOfRings+len(clusterLabels))
	labels = append(labels, "avgmu")
	for r := 0; r < NumberOfRings; r++ {
		labels = append(labels, fmt.Sprintf("ring_%d", r))
	}
	return append(labels, clusterLabels...)
}

// FeatureRow flattens a valid event in FeatureLabels order.
func FeatureRow(evt *Event) ([]float64, error) {
	if !evt.Valid() {
		return nil, fmt.Errorf("event %d has no valid cluster and rings", evt.EventNumber)
	}
	if len(evt.Rings) != NumberOfRings {
		return nil, fmt.Errorf("event %d has %d rings, expected %d", evt.EventNumber, len(evt.Rings), NumberOfRings)
	}
	c := evt.Cluster
	row := make([]float64, 0, 1+NumberOfRings+len(clusterLabels))
	row = append(row, evt.AvgMu)
	row = append(row, evt.Rings...)
	return append(row,
		c.Et,
		c.Eta,
		c.Phi,
		c.Eratio,
		c.Reta,
		c.Rphi,
		c.Rhad,
		c.F1,
		c.F3,
		c.Weta2,
		c.Ehad1,
		c.Ehad2,
		c.Ehad3,
	), nil
}
