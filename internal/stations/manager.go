package stations

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
)

// manager implements the station directory Manager interface
type manager struct {
	// mu serializes writers; readers only touch current
	mu       sync.Mutex
	stations []Station
	current  atomic.Pointer[Snapshot]

	subsMu  sync.Mutex
	subs    map[uint64]chan Snapshot
	nextSub uint64
}

// NewManager creates an empty station directory
func NewManager() Manager {
	m := &manager{
		stations: make([]Station, 0),
		subs:     make(map[uint64]chan Snapshot),
	}
	m.current.Store(&Snapshot{stations: m.stations})
	return m
}

// AddStation validates a candidate and appends it to the directory
func (m *manager) AddStation(candidate Candidate) (Station, error) {
	station, err := toStation(candidate)
	if err != nil {
		glog.Warningf("Rejected %s station %q: %v", candidate.Source, candidate.Name, err)
		return Station{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.stations = append(m.stations, station)
	m.publishLocked()

	return station, nil
}

// AddStations appends a batch while holding the writer lock, publishing a
// single snapshot at the end
func (m *manager) AddStations(candidates []Candidate) BatchResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result BatchResult
	for _, candidate := range candidates {
		station, err := toStation(candidate)
		if err != nil {
			glog.Warningf("Rejected %s station %q: %v", candidate.Source, candidate.Name, err)
			result.Rejected++
			continue
		}
		m.stations = append(m.stations, station)
		result.Accepted++
	}

	if result.Accepted > 0 {
		m.publishLocked()
	}
	result.Version = m.current.Load().Version()

	return result
}

// GetAll returns the current snapshot
func (m *manager) GetAll() Snapshot {
	return *m.current.Load()
}

// GetAllStations returns a copy of all stations
func (m *manager) GetAllStations() []Station {
	return m.GetAll().Stations()
}

// Subscribe registers for change notifications. The channel holds at most
// one pending snapshot; a slow reader only sees the newest one. The current
// snapshot is delivered immediately.
func (m *manager) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	m.subsMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	ch <- *m.current.Load()
	m.subsMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.subsMu.Lock()
			defer m.subsMu.Unlock()
			delete(m.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// publishLocked makes the appended stations visible. Callers hold m.mu.
// The three-index slice caps the snapshot at its own length, so a later
// append never writes into memory a reader can see.
func (m *manager) publishLocked() {
	n := len(m.stations)
	snap := &Snapshot{
		version:  m.current.Load().Version() + 1,
		stations: m.stations[:n:n],
	}
	m.current.Store(snap)

	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	for _, ch := range m.subs {
		select {
		case ch <- *snap:
			continue
		default:
		}
		// Drop the stale pending snapshot and replace it
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- *snap:
		default:
		}
	}
}

func toStation(candidate Candidate) (Station, error) {
	coords, ok := ParseCoordinates(candidate.Latitude, candidate.Longitude)
	if !ok {
		return Station{}, fmt.Errorf("lat=%q lon=%q: %w", candidate.Latitude, candidate.Longitude, ErrInvalidCoordinates)
	}
	return Station{
		Name:      candidate.Name,
		Latitude:  coords.Lat,
		Longitude: coords.Lon,
	}, nil
}
