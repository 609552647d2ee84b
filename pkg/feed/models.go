package feed

import (
	"fmt"
	"strings"
)

// Default Wiener Linien stops feed and its column names
const (
	DefaultURL       = "https://data.wien.gv.at/csv/wienerlinien-ogd-haltestellen.csv"
	DefaultNameField = "NAME"
	DefaultLatField  = "WGS84_LAT"
	DefaultLonField  = "WGS84_LON"

	DefaultMaxBytes = 32 << 20
)

// Request configures a feed fetch
type Request struct {
	// Request gzip compressed response
	UseGzip bool

	// Upper bound on the decoded body size; zero means DefaultMaxBytes
	MaxBytes int64
}

// Row is one data row keyed by header name
type Row struct {
	// Line is the 1-based line number in the payload
	Line   int
	Fields map[string]string
}

// Get returns a field value. Columns missing from the row are reported as
// absent rather than empty.
func (r Row) Get(name string) (string, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// Result is the parsed feed
type Result struct {
	Header    []string
	Delimiter rune
	Rows      []Row

	// Skipped counts rows dropped by the parser itself (broken quoting).
	// Invalid UTF-8 is replaced with U+FFFD and does not drop a row.
	Skipped int
	Errors  []error
}

// HTTPError is returned for non-200 feed responses
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("feed returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("feed returned HTTP %d: %s", e.StatusCode, body)
}
