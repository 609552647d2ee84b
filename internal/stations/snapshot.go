package stations

import (
	"encoding/json"
	"iter"
)

// Snapshot is an immutable view of the directory at one point in time.
// The zero value is an empty snapshot.
type Snapshot struct {
	version  uint64
	stations []Station
}

// NewSnapshot builds a snapshot from a copy of the given stations
func NewSnapshot(version uint64, stations []Station) Snapshot {
	owned := make([]Station, len(stations))
	copy(owned, stations)
	return Snapshot{version: version, stations: owned}
}

// Version increases by one with every published change
func (s Snapshot) Version() uint64 {
	return s.version
}

// Len returns the number of stations
func (s Snapshot) Len() int {
	return len(s.stations)
}

// At returns the station at position i
func (s Snapshot) At(i int) Station {
	return s.stations[i]
}

// All iterates stations in insertion order
func (s Snapshot) All() iter.Seq2[int, Station] {
	return func(yield func(int, Station) bool) {
		for i, st := range s.stations {
			if !yield(i, st) {
				return
			}
		}
	}
}

// Stations returns a copy of the stations
func (s Snapshot) Stations() []Station {
	result := make([]Station, len(s.stations))
	copy(result, s.stations)
	return result
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	if s.stations == nil {
		return json.Marshal([]Station{})
	}
	return json.Marshal(s.stations)
}
