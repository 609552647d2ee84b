package feed

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/golang/glog"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// candidateDelimiters are tried in order; ties go to the earlier one
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// Parser turns a delimited text payload into rows keyed by header name
type Parser struct {
	delimiter rune
}

// Option configures a Parser
type Option func(*Parser)

// WithDelimiter disables delimiter detection
func WithDelimiter(d rune) Option {
	return func(p *Parser) {
		p.delimiter = d
	}
}

// NewParser creates a new feed parser
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads the whole payload. An empty payload yields an empty result
// and no error. Rows that cannot be decoded are skipped and recorded in
// Result.Errors. A non-nil error means parsing stopped early; the rows read
// up to that point are still returned.
func (p *Parser) Parse(reader io.Reader) (*Result, error) {
	result := &Result{Rows: []Row{}}

	data, err := io.ReadAll(reader)
	if err != nil {
		return result, fmt.Errorf("failed to read payload: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if len(bytes.TrimSpace(data)) == 0 {
		return result, nil
	}

	delimiter := p.delimiter
	if delimiter == 0 {
		delimiter = detectDelimiter(firstLine(data))
	}
	result.Delimiter = delimiter

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		return result, fmt.Errorf("failed to read header: %w", err)
	}

	names, columns := normalizeHeader(header)
	result.Header = names

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				glog.Warningf("Skipping malformed feed row at line %d: %v", parseErr.Line, err)
				result.Skipped++
				result.Errors = append(result.Errors, err)
				continue
			}
			return result, fmt.Errorf("failed to read row %d: %w", len(result.Rows)+result.Skipped+1, err)
		}

		line, _ := r.FieldPos(0)

		if isBlank(record) {
			continue
		}

		for i, field := range record {
			if !utf8.ValidString(field) {
				glog.Warningf("Replacing invalid UTF-8 in feed row at line %d, column %d", line, i+1)
				record[i] = strings.ToValidUTF8(field, string(utf8.RuneError))
			}
		}

		fields := make(map[string]string, len(columns))
		for name, idx := range columns {
			if idx < len(record) {
				fields[name] = record[idx]
			}
		}

		result.Rows = append(result.Rows, Row{Line: line, Fields: fields})
	}

	return result, nil
}

// normalizeHeader trims header names and maps each distinct name to the
// first column that carries it
func normalizeHeader(header []string) ([]string, map[string]int) {
	names := make([]string, len(header))
	columns := make(map[string]int, len(header))

	for i, raw := range header {
		name := strings.TrimSpace(raw)
		names[i] = name
		if name == "" {
			continue
		}
		if _, exists := columns[name]; !exists {
			columns[name] = i
		}
	}

	return names, columns
}

// detectDelimiter picks the candidate that occurs most often outside quotes
func detectDelimiter(line string) rune {
	best, bestCount := candidateDelimiters[0], 0

	for _, d := range candidateDelimiters {
		count := 0
		inQuotes := false
		for _, c := range line {
			switch {
			case c == '"':
				inQuotes = !inQuotes
			case c == d && !inQuotes:
				count++
			}
		}
		if count > bestCount {
			best, bestCount = d, count
		}
	}

	return best
}

// firstLine returns the first non-blank line
func firstLine(data []byte) string {
	for len(data) > 0 {
		line := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			data = nil
		}
		if len(bytes.TrimSpace(line)) > 0 {
			return string(line)
		}
	}
	return ""
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
