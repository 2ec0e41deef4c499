package report

import (
	"io"

	"github.com/nao1215/telespotter/internal/model"
)

// Writer defines the interface for report output.
// Implementations render a session snapshot in some format.
//
// Design decision: We use an interface to allow different output
// formats and destinations. This enables writing to files, stdout, or
// HTTP responses with the same API.
type Writer interface {
	// Write renders the session state to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(state *model.SessionState) (int, error)
}

// Format names the supported report formats.
type Format string

// Supported report formats.
const (
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ForFormat returns the writer for a format name, defaulting to text.
func ForFormat(format Format, output io.Writer) Writer {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	case FormatCSV:
		return NewCSVWriter(output)
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	default:
		return NewTextWriter(output)
	}
}

// MultiWriter writes to multiple Writers simultaneously, which is
// useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the state to all configured Writers. It returns the
// total bytes written and stops on the first error.
func (m *MultiWriter) Write(state *model.SessionState) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(state)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
