// Package tabular reads owned decoration quantities from CSV or JSON and
// writes allocation reports back out in either format.
package tabular

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/eshaffer321/homequest-decor/internal/domain/catalog"
)

// Format is a tabular file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for formats other than csv and json.
var ErrUnknownFormat = errors.New("unknown format")

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Row is one accepted input line.
type Row struct {
	Line     int               `json:"line"`
	Input    string            `json:"input"`
	Name     string            `json:"name"`
	Quantity int               `json:"quantity"`
	Match    catalog.MatchKind `json:"match"`
}

// Issue is an input line that was skipped.
type Issue struct {
	Line   int    `json:"line"`
	Input  string `json:"input"`
	Reason string `json:"reason"`
}

// Import is the outcome of reading a quantities file. Quantities for rows
// that resolve to the same decoration are summed.
type Import struct {
	Quantities map[string]int `json:"quantities"`
	Rows       []Row          `json:"rows"`
	Issues     []Issue        `json:"issues,omitempty"`
}

func newImport() *Import {
	return &Import{Quantities: make(map[string]int), Rows: []Row{}}
}

func (im *Import) add(c *catalog.Catalog, line int, input string, qty int) {
	res := c.Resolve(input)
	switch {
	case res.Kind == catalog.MatchAmbiguous:
		im.Issues = append(im.Issues, Issue{Line: line, Input: input, Reason: "ambiguous decoration name"})
	case !res.Resolved():
		im.Issues = append(im.Issues, Issue{Line: line, Input: input, Reason: "unknown decoration"})
	case qty < 0:
		im.Issues = append(im.Issues, Issue{Line: line, Input: input, Reason: "negative quantity"})
	default:
		im.Rows = append(im.Rows, Row{Line: line, Input: input, Name: res.Name, Quantity: qty, Match: res.Kind})
		im.Quantities[res.Name] += qty
	}
}

// Read parses r in the given format.
func Read(r io.Reader, format Format, c *catalog.Catalog) (*Import, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r, c)
	case FormatJSON:
		return ReadJSON(r, c)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ReadFile parses a quantities file, choosing the format by extension.
func ReadFile(path string, c *catalog.Catalog) (*Import, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	im, err := Read(f, format, c)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return im, nil
}

// ReadCSV parses name,quantity rows. A first row is treated as a header when
// its quantity column is not a number and its name is not a decoration. Blank lines and lines starting with # are
// ignored.
func ReadCSV(r io.Reader, c *catalog.Catalog) (*Import, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	im := newImport()
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < 2 {
			im.Issues = append(im.Issues, Issue{Line: line, Input: strings.Join(record, ","), Reason: "expected name,quantity"})
			first = false
			continue
		}

		name := strings.TrimSpace(record[0])
		qty, err := strconv.Atoi(strings.TrimSpace(record[1]))
		header := first && err != nil && c.Resolve(name).Kind == catalog.MatchNone
		first = false
		if header {
			continue
		}
		if err != nil {
			im.Issues = append(im.Issues, Issue{Line: line, Input: name, Reason: "invalid quantity"})
			continue
		}

		im.add(c, line, name, qty)
	}
	return im, nil
}

// ParsePairs parses NAME=QTY arguments, as given on a command line. The
// Line of each row or issue is the argument's 1-based position.
func ParsePairs(pairs []string, c *catalog.Catalog) *Import {
	im := newImport()
	for i, pair := range pairs {
		idx := strings.LastIndex(pair, "=")
		if idx < 0 {
			im.Issues = append(im.Issues, Issue{Line: i + 1, Input: pair, Reason: "expected name=quantity"})
			continue
		}
		name := strings.TrimSpace(pair[:idx])
		qty, err := strconv.Atoi(strings.TrimSpace(pair[idx+1:]))
		if err != nil {
			im.Issues = append(im.Issues, Issue{Line: i + 1, Input: name, Reason: "invalid quantity"})
			continue
		}
		im.add(c, i+1, name, qty)
	}
	return im
}

// Merge adds other's quantities, rows and issues to im.
func (im *Import) Merge(other *Import) {
	for name, qty := range other.Quantities {
		im.Quantities[name] += qty
	}
	im.Rows = append(im.Rows, other.Rows...)
	im.Issues = append(im.Issues, other.Issues...)
}

// ReadJSON parses an object mapping names to quantities. Keys are processed
// in document order.
func ReadJSON(r io.Reader, c *catalog.Catalog) (*Import, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("invalid json: expected an object of name to quantity")
	}

	im := newImport()
	entry := 0
	for dec.More() {
		entry++
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		var qty int
		if err := json.Unmarshal(raw, &qty); err != nil {
			im.Issues = append(im.Issues, Issue{Line: entry, Input: name, Reason: "invalid quantity"})
			continue
		}

		im.add(c, entry, name, qty)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return im, nil
}
