// Package entry accepts stations typed in by a user.
package entry

import (
	"errors"
	"fmt"

	"github.com/golang/glog"

	"stationdir/internal/stations"
)

// ErrInvalidInput is returned when a coordinate is not a finite number
var ErrInvalidInput = errors.New("latitude and longitude must be numbers")

// Adder is the write side of the station directory
type Adder interface {
	AddStation(candidate stations.Candidate) (stations.Station, error)
}

// Form submits manual entries to the directory
type Form struct {
	adder Adder
}

// NewForm creates a form that writes to adder
func NewForm(adder Adder) *Form {
	return &Form{adder: adder}
}

// Submit parses both coordinates and adds the station only if both are
// numeric. The name may be empty.
func (f *Form) Submit(name, lat, lon string) (stations.Station, error) {
	if _, ok := stations.ParseCoordinates(lat, lon); !ok {
		glog.Warningf("Rejected manual station %q: invalid coordinates lat=%q lon=%q", name, lat, lon)
		return stations.Station{}, ErrInvalidInput
	}

	station, err := f.adder.AddStation(stations.Candidate{
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		Source:    stations.SourceManual,
	})
	if err != nil {
		return stations.Station{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	glog.Infof("Added manual station %q (%v, %v)", station.Name, station.Latitude, station.Longitude)
	return station, nil
}
