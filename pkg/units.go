package lzt

// Energies are in MeV, times in seconds unless stated otherwise.
const (
	MeV = 1.0
	GeV = 1000 * MeV

	Minutes = 60
)

// Data products exchanged between framework components.
const (
	KeyHits      = "Hits"
	KeyEventInfo = "EventInfo"
	KeyParticles = "Particles"
	KeyCells     = "Cells"
	KeyClusters  = "Clusters"
	KeyRings     = "Rings"
)

const NtupleName = "CollectionTree"

var recordables = map[string]bool{
	KeyHits:      true,
	KeyEventInfo: true,
	KeyParticles: true,
	KeyCells:     true,
	KeyClusters:  true,
	KeyRings:     true,
}

// Recordable returns key when it names a data product the ROOT streams know
// how to persist. Unknown keys panic: they are programming errors in the
// command wiring, never user input.
func Recordable(key string) string {
	if !recordables[key] {
		panic("lzt: unknown recordable key " + key)
	}
	return key
}
