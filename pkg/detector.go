package lzt

// ATLASOptions switches the sub-detectors of the generic ATLAS geometry.
type ATLASOptions struct {
	UseMagneticField bool
	UseDeadMaterial  bool
	UseBarrel        bool // PS, EM1, EM2, EM3
	UseTile          bool // HAD1, HAD2, HAD3
	UseTileExt       bool
	UseEMEC          bool
	UseHEC           bool
	UseCrack         bool
	CutOnPhi         bool
}

func FullATLASOptions() ATLASOptions {
	return ATLASOptions{
		UseDeadMaterial: true,
		UseBarrel:       true,
		UseTile:         true,
		UseTileExt:      true,
		UseEMEC:         true,
		UseHEC:          true,
		UseCrack:        true,
	}
}

func ATLASDetector(name string, opts ATLASOptions) *Component {
	return NewComponent("DetectorConstruction", name).
		SetProperty("UseMagneticField", opts.UseMagneticField).
		SetProperty("UseDeadMaterial", opts.UseDeadMaterial).
		SetProperty("UseBarrel", opts.UseBarrel).
		SetProperty("UseTile", opts.UseTile).
		SetProperty("UseTileExt", opts.UseTileExt).
		SetProperty("UseEMEC", opts.UseEMEC).
		SetProperty("UseHEC", opts.UseHEC).
		SetProperty("UseCrack", opts.UseCrack).
		SetProperty("CutOnPhi", opts.CutOnPhi)
}

// EventReader feeds the Geant4 stepping with the generated events.
type EventReader struct {
	Name          string
	EventKey      string
	TruthKey      string
	FileName      string
	BunchDuration float64
}

func (t EventReader) Merge(acc *ComponentAccumulator) {
	acc.AddReader(NewComponent("EventReader", t.Name).
		SetProperty("EventKey", t.EventKey).
		SetProperty("TruthKey", t.TruthKey).
		SetProperty("FileName", t.FileName).
		SetProperty("BunchDuration", t.BunchDuration))
}

// CaloHitBuilder collects the Geant4 energy deposits into calorimeter hits.
type CaloHitBuilder struct {
	Name          string
	HistogramPath string
	OutputLevel   LoggingLevel
}

func (t CaloHitBuilder) Merge(acc *ComponentAccumulator) {
	acc.Add(NewComponent("CaloHitBuilder", t.Name).
		SetProperty("HistogramPath", t.HistogramPath).
		SetProperty("OutputLevel", t.OutputLevel.ToC()))
}

// CaloCellBuilder digitizes hits into calorimeter cells.
type CaloCellBuilder struct {
	Name          string
	HistogramPath string
	OutputLevel   LoggingLevel
	HitsKey       string
}

func (t CaloCellBuilder) Merge(acc *ComponentAccumulator) {
	acc.Add(NewComponent("CaloCellBuilder", t.Name).
		SetProperty("HistogramPath", t.HistogramPath).
		SetProperty("OutputLevel", t.OutputLevel.ToC()).
		SetProperty("HitsKey", t.HitsKey))
}

// StreamKeys are the input and output data product keys of a ROOT stream tool.
type StreamKeys struct {
	InputHitsKey   string
	InputCellsKey  string
	InputEventKey  string
	InputTruthKey  string
	OutputHitsKey  string
	OutputCellsKey string
	OutputEventKey string
	OutputTruthKey string
}

func (k StreamKeys) apply(c *Component) {
	set := func(name, value string) {
		if value != "" {
			c.SetProperty(name, value)
		}
	}
	set("InputHitsKey", k.InputHitsKey)
	set("InputCellsKey", k.InputCellsKey)
	set("InputEventKey", k.InputEventKey)
	set("InputTruthKey", k.InputTruthKey)
	set("OutputHitsKey", k.OutputHitsKey)
	set("OutputCellsKey", k.OutputCellsKey)
	set("OutputEventKey", k.OutputEventKey)
	set("OutputTruthKey", k.OutputTruthKey)
}

// RootStreamHITMaker writes hits around the regions of interest, or every
// hit when OnlyRoI is false.
func RootStreamHITMaker(name string, keys StreamKeys, etaWindow, phiWindow float64, onlyRoI bool, level LoggingLevel) *Component {
	c := NewComponent("RootStreamHITMaker", name)
	keys.apply(c)
	return c.SetProperty("EtaWindow", etaWindow).
		SetProperty("PhiWindow", phiWindow).
		SetProperty("OnlyRoI", onlyRoI).
		SetProperty("OutputLevel", level.ToC())
}

// RootStreamHITReader reads hits written by RootStreamHITMaker.
type RootStreamHITReader struct {
	Name       string
	InputFile  string
	HitsKey    string
	EventKey   string
	TruthKey   string
	NtupleName string
}

func (t RootStreamHITReader) Merge(acc *ComponentAccumulator) {
	acc.AddReader(NewComponent("RootStreamHITReader", t.Name).
		SetProperty("InputFile", t.InputFile).
		SetProperty("HitsKey", t.HitsKey).
		SetProperty("EventKey", t.EventKey).
		SetProperty("TruthKey", t.TruthKey).
		SetProperty("NtupleName", t.NtupleName))
}

func RootStreamESDMaker(name string, keys StreamKeys, ntuple string, level LoggingLevel) *Component {
	c := NewComponent("RootStreamESDMaker", name)
	keys.apply(c)
	return c.SetProperty("NtupleName", ntuple).
		SetProperty("OutputLevel", level.ToC())
}
