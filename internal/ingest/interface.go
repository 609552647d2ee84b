package ingest

import (
	"context"
	"errors"
	"time"

	"stationdir/pkg/feed"
)

// ErrAlreadyStarted is returned when the pipeline has already been run
var ErrAlreadyStarted = errors.New("ingestion pipeline already started")

// Manager defines the interface for the one-shot feed ingestion
type Manager interface {
	// Start runs the pipeline in the background. Only the first call
	// does anything; later calls return ErrAlreadyStarted.
	Start(ctx context.Context) error

	// Run executes the pipeline synchronously, with the same guard as Start
	Run(ctx context.Context) (Report, error)

	// Status returns the current progress
	Status() Report

	// Done is closed once the pipeline has settled
	Done() <-chan struct{}
}

// Fetcher retrieves the raw feed payload
type Fetcher interface {
	Fetch(ctx context.Context, req feed.Request) ([]byte, error)
}

// Fields names the feed columns that carry station data
type Fields struct {
	Name      string
	Latitude  string
	Longitude string
}

// DefaultFields matches the Wiener Linien stops feed
var DefaultFields = Fields{
	Name:      feed.DefaultNameField,
	Latitude:  feed.DefaultLatField,
	Longitude: feed.DefaultLonField,
}

// State is a pipeline lifecycle state
type State int32

const (
	StateIdle State = iota
	StateFetching
	StateParsing
	StateInserting
	StateSettledSuccess
	StateSettledPartialFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateParsing:
		return "parsing"
	case StateInserting:
		return "inserting"
	case StateSettledSuccess:
		return "settled-success"
	case StateSettledPartialFailure:
		return "settled-partial-failure"
	default:
		return "unknown"
	}
}

// Settled reports whether s is a terminal state
func (s State) Settled() bool {
	return s == StateSettledSuccess || s == StateSettledPartialFailure
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Report describes a pipeline run
type Report struct {
	State     State     `json:"state"`
	Rows      int       `json:"rows"`
	Accepted  int       `json:"accepted"`
	Skipped   int       `json:"skipped"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at,omitzero"`
	SettledAt time.Time `json:"settled_at,omitzero"`
}
