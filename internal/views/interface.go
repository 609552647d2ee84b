package views

import (
	"stationdir/internal/stations"
)

// SnapshotSource is the read side of the station directory
type SnapshotSource interface {
	GetAll() stations.Snapshot
}

// ListItem is one row of the list view, keyed by position
type ListItem struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label"`
}

// Region is the visible map area
type Region struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitude_delta"`
	LongitudeDelta float64 `json:"longitude_delta"`
}

// Default span around the user's position
const (
	RegionLatitudeDelta  = 0.0922
	RegionLongitudeDelta = 0.0421
)

// LocationStatus says whether the map could be centered on the user
type LocationStatus string

const (
	LocationAvailable   LocationStatus = "available"
	LocationUnavailable LocationStatus = "unavailable"
)

// Marker is a single station pin
type Marker struct {
	Index     int     `json:"index"`
	Title     string  `json:"title"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	InRange   bool    `json:"in_range"`
	Geohash   string  `json:"geohash,omitempty"`
}

// MapRender is the map view output. Region is nil when no position fix
// was available; markers are rendered either way.
type MapRender struct {
	Version  uint64         `json:"version"`
	Region   *Region        `json:"region"`
	Location LocationStatus `json:"location"`
	Markers  []Marker       `json:"markers"`
	Skipped  int            `json:"skipped"`
}
