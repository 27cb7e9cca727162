package tabular

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/eshaffer321/homequest-decor/internal/domain/catalog"
	"github.com/eshaffer321/homequest-decor/internal/domain/optimizer"
)

// csvHeader is the header row written by WriteCSV.
var csvHeader = []string{"town", "decoration", "quantity", "green", "blue", "red"}

// Write encodes rep in the given format.
func Write(w io.Writer, format Format, c *catalog.Catalog, rep *optimizer.Report) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, c, rep)
	case FormatJSON:
		return WriteJSON(w, rep)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile writes rep to path, choosing the format by extension.
func WriteFile(path string, c *catalog.Catalog, rep *optimizer.Report) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, format, c, rep); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// WriteCSV writes one row per town and decoration. The heart columns hold
// what that decoration contributes to the town.
func WriteCSV(w io.Writer, c *catalog.Catalog, rep *optimizer.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, town := range rep.Towns {
		for _, total := range town.Decorations {
			var h catalog.Hearts
			if d, ok := c.Lookup(total.Name); ok {
				h = catalog.Hearts{
					Green: d.Green * total.Quantity,
					Blue:  d.Blue * total.Quantity,
					Red:   d.Red * total.Quantity,
				}
			}
			if err := cw.Write([]string{
				town.Name,
				total.Name,
				strconv.Itoa(total.Quantity),
				strconv.Itoa(h.Green),
				strconv.Itoa(h.Blue),
				strconv.Itoa(h.Red),
			}); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes rep as indented JSON.
func WriteJSON(w io.Writer, rep *optimizer.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
