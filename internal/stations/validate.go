package stations

import (
	"math"
	"strconv"
	"strings"
)

// Coordinates is a parsed latitude/longitude pair
type Coordinates struct {
	Lat float64
	Lon float64
}

// ParseCoordinate parses a single decimal coordinate. Only finite values
// are accepted; "NaN" and "Inf" spellings are rejected even though
// strconv understands them.
func ParseCoordinate(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseCoordinates is the lenient is-numeric check used at the store
// boundary. Out-of-range values are accepted.
func ParseCoordinates(lat, lon string) (Coordinates, bool) {
	latV, ok := ParseCoordinate(lat)
	if !ok {
		return Coordinates{}, false
	}
	lonV, ok := ParseCoordinate(lon)
	if !ok {
		return Coordinates{}, false
	}
	return Coordinates{Lat: latV, Lon: lonV}, true
}

// InRange reports whether the pair lies within WGS84 bounds
func InRange(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Renderable reports whether a map can place a marker at the pair.
// Out-of-range values are still renderable.
func Renderable(lat, lon float64) bool {
	return !math.IsNaN(lat) && !math.IsNaN(lon) && !math.IsInf(lat, 0) && !math.IsInf(lon, 0)
}
