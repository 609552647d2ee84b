package feed

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/golang/glog"
)

// HTTPClient interface for HTTP operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxErrorBody bounds how much of a failed response ends up in an error
const maxErrorBody = 512

// Query fetches and parses the bulk stations feed
type Query struct {
	url        string
	httpClient HTTPClient
	parser     *Parser
}

// NewQuery creates a new feed query. A nil parser gets the default one.
func NewQuery(url string, client HTTPClient, parser *Parser) *Query {
	if parser == nil {
		parser = NewParser()
	}
	return &Query{
		url:        url,
		httpClient: client,
		parser:     parser,
	}
}

// Fetch retrieves the whole payload. The body is read completely before
// returning so that parsing never waits on the network.
func (q *Query) Fetch(ctx context.Context, req Request) ([]byte, error) {
	httpReq, err := q.createHTTPRequest(ctx, req.UseGzip)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	glog.V(1).Infof("Fetching feed %s", q.url)

	resp, err := q.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, q.parseHTTPError(resp)
	}

	body := io.Reader(resp.Body)
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip body: %w", err)
		}
		defer gz.Close()
		body = gz
	}

	maxBytes := req.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	data, err := io.ReadAll(io.LimitReader(body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("feed body exceeds %d bytes", maxBytes)
	}

	glog.V(1).Infof("Fetched %d bytes from %s", len(data), q.url)
	return data, nil
}

// Parser returns the parser Execute uses
func (q *Query) Parser() *Parser {
	return q.parser
}

// Execute fetches and parses the feed. A parse error is returned together
// with the partial result.
func (q *Query) Execute(ctx context.Context, req Request) (*Result, error) {
	data, err := q.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	return q.parser.Parse(bytes.NewReader(data))
}

func (q *Query) createHTTPRequest(ctx context.Context, useGzip bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.url, nil)
	if err != nil {
		return nil, err
	}

	// Setting the header by hand disables the transport's transparent
	// decompression, so Fetch decodes the body itself
	if useGzip {
		req.Header.Set("Accept-Encoding", "gzip")
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	return req, nil
}

func (q *Query) parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &HTTPError{StatusCode: resp.StatusCode}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
}
