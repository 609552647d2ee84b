package feed

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// MockHTTPClient for testing
type MockHTTPClient struct {
	Response *http.Response
	Error    error
	Requests []*http.Request
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)
	return m.Response, m.Error
}

func newResponse(status int, body string, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestQueryFetch(t *testing.T) {
	client := &MockHTTPClient{
		Response: newResponse(http.StatusOK, "NAME,WGS84_LAT,WGS84_LON\nA,48.2,16.3\n", nil),
	}
	query := NewQuery(DefaultURL, client, nil)

	data, err := query.Fetch(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "NAME,") {
		t.Errorf("Unexpected body %q", data)
	}

	if len(client.Requests) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(client.Requests))
	}
	req := client.Requests[0]
	if req.Method != http.MethodGet {
		t.Errorf("Expected GET method, got %s", req.Method)
	}
	if req.URL.String() != DefaultURL {
		t.Errorf("Expected URL %s, got %s", DefaultURL, req.URL)
	}
	if req.Header.Get("Accept-Encoding") != "" {
		t.Error("Accept-Encoding should not be set without UseGzip")
	}
}

func TestQueryFetchGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	gz.Write([]byte("NAME;WGS84_LAT;WGS84_LON\nA;48.2;16.3\n"))
	gz.Close()

	header := http.Header{}
	header.Set("Content-Encoding", "gzip")
	client := &MockHTTPClient{Response: newResponse(http.StatusOK, buf.String(), header)}
	query := NewQuery(DefaultURL, client, nil)

	result, err := query.Execute(context.Background(), Request{UseGzip: true})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if client.Requests[0].Header.Get("Accept-Encoding") != "gzip" {
		t.Error("Expected Accept-Encoding: gzip")
	}
	if len(result.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(result.Rows))
	}
	if name, _ := result.Rows[0].Get("NAME"); name != "A" {
		t.Errorf("Expected NAME 'A', got %q", name)
	}
}

func TestQueryParser(t *testing.T) {
	if NewQuery(DefaultURL, &MockHTTPClient{}, nil).Parser() == nil {
		t.Error("Expected a default parser")
	}

	parser := NewParser(WithDelimiter(';'))
	if got := NewQuery(DefaultURL, &MockHTTPClient{}, parser).Parser(); got != parser {
		t.Error("Expected the parser passed to NewQuery")
	}
}

func TestQueryHTTPError(t *testing.T) {
	client := &MockHTTPClient{
		Response: newResponse(http.StatusServiceUnavailable, "maintenance", nil),
	}
	query := NewQuery(DefaultURL, client, nil)

	_, err := query.Fetch(context.Background(), Request{})

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected *HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", httpErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "maintenance") {
		t.Errorf("Error should carry the body, got %q", err.Error())
	}
}

func TestQueryTransportError(t *testing.T) {
	boom := errors.New("dial tcp: no such host")
	query := NewQuery(DefaultURL, &MockHTTPClient{Error: boom}, nil)

	_, err := query.Execute(context.Background(), Request{})
	if !errors.Is(err, boom) {
		t.Errorf("Expected transport error to be wrapped, got %v", err)
	}
}

func TestQueryMaxBytes(t *testing.T) {
	client := &MockHTTPClient{
		Response: newResponse(http.StatusOK, strings.Repeat("x", 100), nil),
	}
	query := NewQuery(DefaultURL, client, nil)

	if _, err := query.Fetch(context.Background(), Request{MaxBytes: 10}); err == nil {
		t.Error("Expected error for oversized body")
	}
}

func TestQueryAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		io.WriteString(w, "NAME,WGS84_LAT,WGS84_LON\nA,48.2,16.3\nB,48.1,16.4\n")
	}))
	defer srv.Close()

	query := NewQuery(srv.URL, srv.Client(), nil)
	result, err := query.Execute(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(result.Rows) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(result.Rows))
	}
}

// Integration test - skipped by default
func TestQueryLiveFeed(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	query := NewQuery(DefaultURL, http.DefaultClient, nil)
	result, err := query.Execute(context.Background(), Request{UseGzip: true})
	if err != nil {
		t.Fatalf("Failed to fetch live feed: %v", err)
	}

	if len(result.Rows) == 0 {
		t.Fatal("Live feed returned no rows")
	}
	if _, ok := result.Rows[0].Get(DefaultNameField); !ok {
		t.Errorf("Live feed header %v lacks %s", result.Header, DefaultNameField)
	}
	t.Logf("Fetched %d rows (delimiter %q, skipped %d)", len(result.Rows), result.Delimiter, result.Skipped)
}
