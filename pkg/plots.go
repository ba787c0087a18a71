package lzt

import (
	"fmt"
	"os"
	"path/filepath"

	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"
)

// SavePlots renders one PNG per non-empty histogram into dir.
func (m *Monitor) SavePlots(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ErrCreateFile{Filename: dir, Err: err}
	}
	for _, name := range m.Names() {
		h := m.histos[name]
		if h.Entries() == 0 {
			continue
		}

		p := hplot.New()
		p.Title.Text = name
		p.X.Label.Text = m.titles[name]
		p.Y.Label.Text = "Events"
		p.X.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}
		hp := hplot.NewH1D(h)
		hp.Infos.Style = hplot.HInfoSummary
		p.Add(hp)

		fname := filepath.Join(dir, name+".png")
		if err := p.Save(15*vg.Centimeter, 10*vg.Centimeter, fname); err != nil {
			return fmt.Errorf("error saving plot %q: %w", fname, err)
		}
	}
	return nil
}
