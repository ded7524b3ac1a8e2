package domain

// KeyValueStore is the local persistence capability.
// Load reports found=false for a missing key.
type KeyValueStore interface {
	Load(key string) (value []byte, found bool, err error)
	Save(key string, value []byte) error
}

// Slice names one owned region of client state
type Slice string

const (
	SliceFilters   Slice = "filters"
	SliceGameList  Slice = "games.list"
	SliceDetail    Slice = "games.detail"
	SliceSearch    Slice = "games.search"
	SliceLibrary   Slice = "library"
	SliceFavorites Slice = "favorites"
)

// Change reports that a slice transitioned
type Change struct {
	Slice  Slice
	Status RequestStatus
	GameID int // Set for per-game transitions (detail, library mutations)
}

// ChangeObserver receives state transitions from the orchestrators
type ChangeObserver interface {
	OnChange(change Change)
}

// NoOpObserver discards changes (for testing/batch operations).
type NoOpObserver struct{}

func (NoOpObserver) OnChange(Change) {}

// ObserverFunc adapts a function to ChangeObserver
type ObserverFunc func(Change)

func (f ObserverFunc) OnChange(c Change) { f(c) }
