// Package location supplies the device position used to center the map.
package location

import (
	"context"
	"errors"

	"stationdir/internal/stations"
)

// ErrPermissionDenied is returned by CurrentPosition when no fix may be taken
var ErrPermissionDenied = errors.New("location permission denied")

// Permission is the outcome of a permission request
type Permission int

const (
	PermissionDenied Permission = iota
	PermissionGranted
)

func (p Permission) String() string {
	if p == PermissionGranted {
		return "granted"
	}
	return "denied"
}

// Position is a single location fix
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Provider requests foreground location access and returns one fix.
// The position is only used for centering; it never filters stations.
type Provider interface {
	RequestPermission(ctx context.Context) (Permission, error)
	CurrentPosition(ctx context.Context) (Position, error)
}

// Static always grants and returns a fixed position
type Static struct {
	Position Position
}

func (s Static) RequestPermission(ctx context.Context) (Permission, error) {
	if err := ctx.Err(); err != nil {
		return PermissionDenied, err
	}
	return PermissionGranted, nil
}

func (s Static) CurrentPosition(ctx context.Context) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	return s.Position, nil
}

// Denied never grants access
type Denied struct{}

func (Denied) RequestPermission(ctx context.Context) (Permission, error) {
	return PermissionDenied, nil
}

func (Denied) CurrentPosition(ctx context.Context) (Position, error) {
	return Position{}, ErrPermissionDenied
}

// FromQuery builds a provider from a device-supplied fix. Missing or
// unparseable values behave as a denial.
func FromQuery(lat, lon string) Provider {
	if lat == "" && lon == "" {
		return Denied{}
	}
	coords, ok := stations.ParseCoordinates(lat, lon)
	if !ok || !stations.InRange(coords.Lat, coords.Lon) {
		return Denied{}
	}
	return Static{Position: Position{Latitude: coords.Lat, Longitude: coords.Lon}}
}

// FromConfig returns a Static provider when both values are set, Denied otherwise
func FromConfig(lat, lon *float64) Provider {
	if lat == nil || lon == nil {
		return Denied{}
	}
	return Static{Position: Position{Latitude: *lat, Longitude: *lon}}
}

// Fix requests permission and takes one position. ok is false on denial
// or error; callers degrade instead of failing.
func Fix(ctx context.Context, p Provider) (Position, bool, error) {
	perm, err := p.RequestPermission(ctx)
	if err != nil {
		return Position{}, false, err
	}
	if perm != PermissionGranted {
		return Position{}, false, nil
	}

	pos, err := p.CurrentPosition(ctx)
	if err != nil {
		return Position{}, false, err
	}
	return pos, true, nil
}
