package lzt

// Generator configuration files, relative to LZT_PATH.
const (
	ZeeConfigFile          = "generator/evtgen/data/zee_config.cmnd"
	MinBiasConfigFile      = "generator/evtgen/data/minbias_config.cmnd"
	JetConfigFile          = "generator/guns/data/jet_config.cmnd"
	GunsMinBiasConfigFile  = "generator/guns/data/minbias_config.cmnd"
	DefaultPileupDeltaEta  = 0.22
	DefaultPileupDeltaPhi  = 0.22
	DefaultPileupSelect    = 2
	DefaultBunchIdStart    = -21
	DefaultBunchIdEnd      = 4
	DefaultBunchDurationNs = 25
)

// Pythia8 configures the Pythia8 event generator binding. A zero seed lets
// Pythia use the system clock.
func Pythia8(name, file string, seed int, eventNumbers []int) *Component {
	c := NewComponent("Pythia8", name).
		SetProperty("File", file).
		SetProperty("Seed", seed)
	if len(eventNumbers) > 0 {
		c.SetProperty("EventNumber", eventNumbers)
	}
	return c
}

type ZeeOptions struct {
	EtaMax               float64
	MinPt                float64
	ZeroVertexParticles  bool
	ForceForwardElectron bool
	// ZParentId is only set on the component when non-nil.
	ZParentId   *int
	OutputLevel LoggingLevel
}

func DefaultZeeOptions() ZeeOptions {
	return ZeeOptions{EtaMax: 1.4, OutputLevel: INFO}
}

// Zee selects Z→ee decays produced by gen.
func Zee(name string, gen *Component, opts ZeeOptions) *Component {
	c := NewComponent("Zee", name).
		SetProperty("EtaMax", opts.EtaMax).
		SetProperty("MinPt", opts.MinPt).
		SetProperty("ZeroVertexParticles", opts.ZeroVertexParticles).
		SetProperty("ForceForwardElectron", opts.ForceForwardElectron)
	if opts.ZParentId != nil {
		c.SetProperty("ZParentId", *opts.ZParentId)
	}
	c.SetProperty("OutputLevel", opts.OutputLevel.ToC())
	c.Children = []*Component{gen}
	return c
}

type JF17Options struct {
	EtaMax      float64
	MinPt       float64
	Select      int
	EtaWindow   float64
	PhiWindow   float64
	OutputLevel LoggingLevel
}

// JF17 selects jets above MinPt produced by gen.
func JF17(name string, gen *Component, opts JF17Options) *Component {
	c := NewComponent("JF17", name).
		SetProperty("EtaMax", opts.EtaMax).
		SetProperty("MinPt", opts.MinPt).
		SetProperty("Select", opts.Select).
		SetProperty("EtaWindow", opts.EtaWindow).
		SetProperty("PhiWindow", opts.PhiWindow).
		SetProperty("OutputLevel", opts.OutputLevel.ToC())
	c.Children = []*Component{gen}
	return c
}

type PileupOptions struct {
	EtaMax       float64
	Select       int
	PileupAvg    float64
	PileupSigma  float64
	BunchIdStart int
	BunchIdEnd   int
	// BunchDuration is the bunch crossing spacing in nanoseconds.
	BunchDuration int
	DeltaEta      float64
	DeltaPhi      float64
	OutputLevel   LoggingLevel
}

func DefaultPileupOptions() PileupOptions {
	return PileupOptions{
		Select:        DefaultPileupSelect,
		BunchIdStart:  DefaultBunchIdStart,
		BunchIdEnd:    DefaultBunchIdEnd,
		BunchDuration: DefaultBunchDurationNs,
		DeltaEta:      DefaultPileupDeltaEta,
		DeltaPhi:      DefaultPileupDeltaPhi,
		OutputLevel:   INFO,
	}
}

// Pileup overlays minimum bias collisions from gen on every bunch crossing
// in [BunchIdStart, BunchIdEnd].
func Pileup(name string, gen *Component, opts PileupOptions) *Component {
	c := NewComponent("Pileup", name).
		SetProperty("EtaMax", opts.EtaMax).
		SetProperty("Select", opts.Select).
		SetProperty("PileupAvg", opts.PileupAvg).
		SetProperty("PileupSigma", opts.PileupSigma).
		SetProperty("BunchIdStart", opts.BunchIdStart).
		SetProperty("BunchIdEnd", opts.BunchIdEnd).
		SetProperty("BunchDuration", opts.BunchDuration).
		SetProperty("OutputLevel", opts.OutputLevel.ToC()).
		SetProperty("DeltaEta", opts.DeltaEta).
		SetProperty("DeltaPhi", opts.DeltaPhi)
	c.Children = []*Component{gen}
	return c
}
