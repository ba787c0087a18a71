package lzt

import (
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rtree"
)

const ESDTreeName = "physics"

// ESDEntry is one entry of the flat "physics" tree written by the ESD maker.
type ESDEntry struct {
	EventNumber  int32                  `groot:"event_number"`
	AvgMu        float32                `groot:"avgmu"`
	ClusterValid bool                   `groot:"cluster_valid"`
	RingsValid   bool                   `groot:"rings_valid"`
	Et           float32                `groot:"cluster_et"`
	Eta          float32                `groot:"cluster_eta"`
	Phi          float32                `groot:"cluster_phi"`
	Eratio       float32                `groot:"cluster_eratio"`
	Reta         float32                `groot:"cluster_reta"`
	Rphi         float32                `groot:"cluster_rphi"`
	Rhad         float32                `groot:"cluster_rhad"`
	F1           float32                `groot:"cluster_f1"`
	F3           float32                `groot:"cluster_f3"`
	Weta2        float32                `groot:"cluster_weta2"`
	Ehad1        float32                `groot:"cluster_ehad1"`
	Ehad2        float32                `groot:"cluster_ehad2"`
	Ehad3        float32                `groot:"cluster_ehad3"`
	Rings        [NumberOfRings]float32 `groot:"rings"`
	NCells       int32                  `groot:"ncells"`
	CellEta      []float32              `groot:"cell_eta[ncells]"`
	CellPhi      []float32              `groot:"cell_phi[ncells]"`
	CellDeta     []float32              `groot:"cell_deta[ncells]"`
	CellDphi     []float32              `groot:"cell_dphi[ncells]"`
	CellE        []float32              `groot:"cell_e[ncells]"`
	CellLayer    []int32                `groot:"cell_layer[ncells]"`
}

// Event converts the entry into the in-memory event model.
func (e *ESDEntry) Event() (*Event, error) {
	evt := &Event{
		EventNumber: int(e.EventNumber),
		AvgMu:       float64(e.AvgMu),
	}
	if e.RingsValid {
		evt.Rings = make([]float64, NumberOfRings)
		for i, r := range e.Rings {
			evt.Rings[i] = float64(r)
		}
	}
	if !e.ClusterValid {
		return evt, nil
	}

	n := int(e.NCells)
	for _, s := range [][]float32{e.CellEta, e.CellPhi, e.CellDeta, e.CellDphi, e.CellE} {
		if len(s) != n {
			return nil, fmt.Errorf("event %d: cell branch has %d entries, expected %d", e.EventNumber, len(s), n)
		}
	}
	if len(e.CellLayer) != n {
		return nil, fmt.Errorf("event %d: cell_layer has %d entries, expected %d", e.EventNumber, len(e.CellLayer), n)
	}

	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = Cell{
			Eta:      float64(e.CellEta[i]),
			Phi:      float64(e.CellPhi[i]),
			DeltaEta: float64(e.CellDeta[i]),
			DeltaPhi: float64(e.CellDphi[i]),
			Energy:   float64(e.CellE[i]),
			Layer:    CaloLayer(e.CellLayer[i]),
		}
	}
	evt.Cluster = &Cluster{
		Et:     float64(e.Et),
		Eta:    float64(e.Eta),
		Phi:    float64(e.Phi),
		Eratio: float64(e.Eratio),
		Reta:   float64(e.Reta),
		Rphi:   float64(e.Rphi),
		Rhad:   float64(e.Rhad),
		F1:     float64(e.F1),
		F3:     float64(e.F3),
		Weta2:  float64(e.Weta2),
		Ehad1:  float64(e.Ehad1),
		Ehad2:  float64(e.Ehad2),
		Ehad3:  float64(e.Ehad3),
		Cells:  cells,
	}
	return evt, nil
}

// Algorithm is executed on every event of an EventLoop.
type Algorithm interface {
	Execute(evt *Event) error
}

// EventLoop reads the ESD tree of every input file in turn and hands each
// entry to the algorithm. A negative maxEvents reads everything.
type EventLoop struct {
	InputFiles []string
	TreeName   string
	MaxEvents  int
}

func NewEventLoop(inputFiles []string, maxEvents int) *EventLoop {
	return &EventLoop{InputFiles: inputFiles, TreeName: ESDTreeName, MaxEvents: maxEvents}
}

// Run returns the number of entries processed.
func (l *EventLoop) Run(alg Algorithm) (int, error) {
	processed := 0
	for _, fname := range l.InputFiles {
		if l.MaxEvents >= 0 && processed >= l.MaxEvents {
			break
		}
		n, err := l.readFile(fname, alg, processed)
		processed += n
		if err != nil {
			return processed, err
		}
	}
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Processed %d events from %d files", processed, len(l.InputFiles)), "eventLoop")
	}
	return processed, nil
}

func (l *EventLoop) readFile(fname string, alg Algorithm, processed int) (int, error) {
	f, err := groot.Open(fname)
	if err != nil {
		return 0, &ErrOpenFile{Filename: fname, Err: err}
	}
	defer f.Close()

	obj, err := f.Get(l.TreeName)
	if err != nil {
		return 0, fmt.Errorf("could not find tree %q in %q: %w", l.TreeName, fname, err)
	}
	tree, ok := obj.(rtree.Tree)
	if !ok {
		return 0, fmt.Errorf("object %q in %q is not a tree", l.TreeName, fname)
	}

	end := tree.Entries()
	if l.MaxEvents >= 0 {
		end = min(end, int64(l.MaxEvents-processed))
	}
	if end <= 0 {
		return 0, nil
	}

	var entry ESDEntry
	r, err := rtree.NewReader(tree, rtree.ReadVarsFromStruct(&entry), rtree.WithRange(0, end))
	if err != nil {
		return 0, fmt.Errorf("could not create reader for %q: %w", fname, err)
	}
	defer r.Close()

	n := 0
	err = r.Read(func(ctx rtree.RCtx) error {
		evt, err := entry.Event()
		if err != nil {
			return err
		}
		if configuration.Verbosity > 2 {
			logger.Info(fmt.Sprintf("Reading entry %d (event %d) of %s", ctx.Entry, evt.EventNumber, fname), "eventLoop")
		}
		n++
		return alg.Execute(evt)
	})
	if err != nil {
		return n, fmt.Errorf("error reading %q: %w", fname, err)
	}
	return n, nil
}
