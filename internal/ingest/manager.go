package ingest

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"stationdir/internal/stations"
	"stationdir/pkg/feed"
)

// manager implements the ingestion Manager interface
type manager struct {
	stationMgr stations.Manager
	fetcher    Fetcher
	parser     *feed.Parser
	request    feed.Request
	fields     Fields

	// state doubles as the run-once guard: only the idle -> fetching
	// transition may start a run
	state atomic.Int32

	reportMu sync.RWMutex
	report   Report

	done chan struct{}
}

// NewManager creates a pipeline that feeds stationMgr from fetcher
func NewManager(stationMgr stations.Manager, fetcher Fetcher, parser *feed.Parser, req feed.Request, fields Fields) Manager {
	if parser == nil {
		parser = feed.NewParser()
	}
	return &manager{
		stationMgr: stationMgr,
		fetcher:    fetcher,
		parser:     parser,
		request:    req,
		fields:     fields,
		done:       make(chan struct{}),
	}
}

// Start runs the pipeline in the background
func (m *manager) Start(ctx context.Context) error {
	if !m.begin() {
		return ErrAlreadyStarted
	}

	go m.run(ctx)

	glog.Info("Ingestion pipeline started")
	return nil
}

// Run executes the pipeline synchronously
func (m *manager) Run(ctx context.Context) (Report, error) {
	if !m.begin() {
		return m.Status(), ErrAlreadyStarted
	}

	m.run(ctx)
	return m.Status(), nil
}

// Status returns a copy of the current report
func (m *manager) Status() Report {
	m.reportMu.RLock()
	defer m.reportMu.RUnlock()

	report := m.report
	report.State = State(m.state.Load())
	return report
}

// Done is closed once the pipeline has settled
func (m *manager) Done() <-chan struct{} {
	return m.done
}

func (m *manager) begin() bool {
	if !m.state.CompareAndSwap(int32(StateIdle), int32(StateFetching)) {
		return false
	}

	m.reportMu.Lock()
	m.report.StartedAt = time.Now()
	m.reportMu.Unlock()

	return true
}

// run drives fetching -> parsing -> inserting -> settled. Nothing that
// happens here may escape to the caller.
func (m *manager) run(ctx context.Context) {
	defer close(m.done)
	defer func() {
		if r := recover(); r != nil {
			glog.Errorf("Ingestion pipeline panicked: %v", r)
			m.settle(StateSettledPartialFailure, fmt.Errorf("panic: %v", r))
		}
	}()

	data, err := m.fetcher.Fetch(ctx, m.request)
	if err != nil {
		glog.Errorf("Error fetching stations feed: %v", err)
		m.settle(StateSettledPartialFailure, err)
		return
	}

	m.state.Store(int32(StateParsing))

	result, parseErr := m.parser.Parse(bytes.NewReader(data))
	if parseErr != nil {
		glog.Errorf("Error parsing stations feed: %v", parseErr)
	}
	if result == nil {
		m.settle(StateSettledPartialFailure, parseErr)
		return
	}

	m.state.Store(int32(StateInserting))

	candidates, skipped := m.collectCandidates(result.Rows)
	batch := m.stationMgr.AddStations(candidates)

	m.reportMu.Lock()
	m.report.Rows = len(result.Rows) + result.Skipped
	m.report.Accepted = batch.Accepted
	m.report.Skipped = result.Skipped + skipped + batch.Rejected
	m.reportMu.Unlock()

	glog.Infof("Ingested %d stations from feed (%d rows skipped)", batch.Accepted, result.Skipped+skipped+batch.Rejected)

	if parseErr != nil {
		m.settle(StateSettledPartialFailure, parseErr)
		return
	}
	m.settle(StateSettledSuccess, nil)
}

// collectCandidates applies the feed row rules: a non-empty name and two
// numeric coordinates. The name is kept as sent, so a whitespace-only name
// counts as present. Range is not checked.
func (m *manager) collectCandidates(rows []feed.Row) ([]stations.Candidate, int) {
	candidates := make([]stations.Candidate, 0, len(rows))
	skipped := 0

	for _, row := range rows {
		name, _ := row.Get(m.fields.Name)
		lat, _ := row.Get(m.fields.Latitude)
		lon, _ := row.Get(m.fields.Longitude)

		if name == "" {
			glog.Warningf("Invalid station data at line %d, skipping: missing %s", row.Line, m.fields.Name)
			skipped++
			continue
		}
		if _, ok := stations.ParseCoordinates(lat, lon); !ok {
			glog.Warningf("Invalid station data at line %d, skipping: %q lat=%q lon=%q", row.Line, name, lat, lon)
			skipped++
			continue
		}

		candidates = append(candidates, stations.Candidate{
			Name:      name,
			Latitude:  lat,
			Longitude: lon,
			Source:    stations.SourceFeed,
		})
	}

	return candidates, skipped
}

func (m *manager) settle(state State, err error) {
	m.reportMu.Lock()
	m.report.SettledAt = time.Now()
	if err != nil {
		m.report.Error = err.Error()
	}
	m.reportMu.Unlock()

	m.state.Store(int32(state))
	glog.Infof("Ingestion pipeline %s", state)
}
