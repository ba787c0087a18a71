package lzt

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/hbook"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

const MonitoringPath = "Expert/Convert"

type histoDef struct {
	name   string
	title  string
	nbins  int
	lo, hi float64
	value  func(evt *Event) float64
}

var clusterHistos = []histoDef{
	{"avgmu", "<#mu>", 100, 0, 100, func(e *Event) float64 { return e.AvgMu }},
	{"et", "E_{T} [GeV]", 100, 0, 200, func(e *Event) float64 { return e.Cluster.Et / GeV }},
	{"eta", "#eta", 50, -2.5, 2.5, func(e *Event) float64 { return e.Cluster.Eta }},
	{"phi", "#phi", 64, -math.Pi, math.Pi, func(e *Event) float64 { return e.Cluster.Phi }},
	{"eratio", "E_{ratio}", 100, 0, 1.05, func(e *Event) float64 { return e.Cluster.Eratio }},
	{"reta", "R_{#eta}", 100, 0, 1.2, func(e *Event) float64 { return e.Cluster.Reta }},
	{"rphi", "R_{#phi}", 100, 0, 1.2, func(e *Event) float64 { return e.Cluster.Rphi }},
	{"rhad", "R_{had}", 100, -0.1, 0.5, func(e *Event) float64 { return e.Cluster.Rhad }},
	{"f1", "f_{1}", 100, 0, 1, func(e *Event) float64 { return e.Cluster.F1 }},
	{"f3", "f_{3}", 100, 0, 0.2, func(e *Event) float64 { return e.Cluster.F3 }},
	{"weta2", "W_{#eta 2}", 100, 0, 0.03, func(e *Event) float64 { return e.Cluster.Weta2 }},
}

// Monitor books the control histograms of the conversion.
type Monitor struct {
	histos map[string]*hbook.H1D
	titles map[string]string
}

func NewMonitor() *Monitor {
	m := &Monitor{
		histos: make(map[string]*hbook.H1D),
		titles: make(map[string]string),
	}
	for _, def := range clusterHistos {
		m.book(def.name, def.title, def.nbins, def.lo, def.hi)
	}
	for _, layer := range CaloLayers {
		m.book(layerHistoName(layer), fmt.Sprintf("E_{%s} frame [GeV]", layer), 100, 0, 100)
	}
	return m
}

func layerHistoName(layer CaloLayer) string {
	return "energy_" + layer.String()
}

func (m *Monitor) book(name, title string, nbins int, lo, hi float64) {
	h := hbook.NewH1D(nbins, lo, hi)
	h.Annotation()["name"] = name
	h.Annotation()["title"] = title
	m.histos[name] = h
	m.titles[name] = title
}

// Fill expects a valid event and its frames.
func (m *Monitor) Fill(evt *Event, frames map[CaloLayer]*mat.Dense) {
	for _, def := range clusterHistos {
		m.histos[def.name].Fill(def.value(evt), 1)
	}
	for layer, frame := range frames {
		m.histos[layerHistoName(layer)].Fill(mat.Sum(frame)/GeV, 1)
	}
}

func (m *Monitor) Histogram(name string) *hbook.H1D {
	return m.histos[name]
}

// Names returns the booked histogram names, sorted.
func (m *Monitor) Names() []string {
	names := make([]string, 0, len(m.histos))
	for name := range m.histos {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// WriteROOT stores every histogram under MonitoringPath in a new ROOT file.
func (m *Monitor) WriteROOT(fname string) error {
	f, err := groot.Create(fname)
	if err != nil {
		return &ErrCreateFile{Filename: fname, Err: err}
	}
	defer f.Close()

	dir, err := riofs.Dir(f).Mkdir(MonitoringPath)
	if err != nil {
		return fmt.Errorf("error creating directory %s in %q: %w", MonitoringPath, fname, err)
	}
	for _, name := range m.Names() {
		if err := dir.Put(name, rhist.NewH1DFrom(m.histos[name])); err != nil {
			return fmt.Errorf("error writing histogram %s to %q: %w", name, fname, err)
		}
	}
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Wrote %d histograms to %s", len(m.histos), fname), "monitoring")
	}
	return f.Close()
}
