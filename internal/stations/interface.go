package stations

import "errors"

// ErrInvalidCoordinates is returned when a candidate's latitude or longitude
// is not a finite decimal number.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Manager defines the interface for the station directory
type Manager interface {
	// AddStation validates a single candidate and appends it to the directory
	AddStation(candidate Candidate) (Station, error)

	// AddStations appends a batch of candidates without interleaving with
	// other writers. Invalid candidates are skipped.
	AddStations(candidates []Candidate) BatchResult

	// GetAll returns the current snapshot
	GetAll() Snapshot

	// GetAllStations returns a copy of all stations in insertion order
	GetAllStations() []Station

	// Subscribe returns a channel that receives the newest snapshot after
	// every change, and a func that unsubscribes
	Subscribe() (<-chan Snapshot, func())
}

// Station represents an accepted directory entry
type Station struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Source identifies where a candidate came from
type Source int

const (
	SourceFeed Source = iota
	SourceManual
)

func (s Source) String() string {
	switch s {
	case SourceFeed:
		return "feed"
	case SourceManual:
		return "manual"
	default:
		return "unknown"
	}
}

// Candidate is a station record that has not been validated yet.
// Coordinates are kept as the raw text they arrived in.
type Candidate struct {
	Name      string
	Latitude  string
	Longitude string
	Source    Source
}

// BatchResult summarizes an AddStations call
type BatchResult struct {
	Accepted int
	Rejected int
	Version  uint64
}
