package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/telespotter/internal/extract"
	"github.com/nao1215/telespotter/internal/model"
)

// CSVWriter outputs one row per correlated entity, for spreadsheets and
// quick grep-style post-processing.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// csvHeader is the fixed column set.
var csvHeader = []string{"type", "value", "platform", "confidence", "sources"}

// Write renders the session's entities as CSV rows in report order.
func (w *CSVWriter) Write(state *model.SessionState) (int, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}
	for _, e := range state.SortedEntities() {
		sources := make([]string, 0, len(e.Sources))
		for _, s := range e.Sources {
			sources = append(sources, string(s))
		}
		platform := ""
		if e.Platform != "" {
			platform = extract.PlatformDisplayName(e.Platform)
		}
		row := []string{
			string(e.Type),
			e.Display,
			platform,
			strconv.FormatFloat(e.Confidence, 'f', 2, 64),
			strings.Join(sources, ";"),
		}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
