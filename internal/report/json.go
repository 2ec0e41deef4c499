package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/telespotter/internal/model"
)

// JSONWriter outputs session reports in JSON format.
// This format is designed for tool integration and programmatic
// processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  ").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output with the given prefix
// and per-level indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport is the shape of an exported session.
//
// Design decision: We build an export struct rather than marshaling
// SessionState directly because the export orders entities by type and
// confidence, while the state's maps have no order to offer.
type JSONReport struct {
	// SessionID identifies the exported session.
	SessionID string `json:"session_id"`
	// PhoneNumber is the display form of the query number.
	PhoneNumber string `json:"phone_number"`
	// GeneratedAt is when the export was produced.
	GeneratedAt time.Time `json:"generated_at"`
	// Progress is the session progress percentage.
	Progress int `json:"progress"`
	// Cancelled records whether the session was cancelled.
	Cancelled bool `json:"cancelled"`
	// Tasks is the per-source task state.
	Tasks []model.TaskState `json:"tasks"`
	// Entities is the correlated entity list in report order.
	Entities []*model.CorrelatedEntity `json:"entities"`
	// Summary is the session wrap-up.
	Summary *model.Summary `json:"summary"`
}

// NewJSONReport builds the export shape from a session snapshot.
func NewJSONReport(state *model.SessionState) *JSONReport {
	tasks := make([]model.TaskState, 0, len(state.Tasks))
	for _, src := range model.AllSources() {
		if task, ok := state.Tasks[src]; ok {
			tasks = append(tasks, task)
		}
	}
	return &JSONReport{
		SessionID:   state.ID,
		PhoneNumber: state.PhoneDisplay,
		GeneratedAt: time.Now(),
		Progress:    state.Progress,
		Cancelled:   state.Cancelled,
		Tasks:       tasks,
		Entities:    state.SortedEntities(),
		Summary:     state.Summarize(),
	}
}

// Write renders the session in JSON format.
func (w *JSONWriter) Write(state *model.SessionState) (int, error) {
	var data []byte
	var err error

	export := NewJSONReport(state)
	if w.indent {
		data, err = json.MarshalIndent(export, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(export)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for better terminal output.
	data = append(data, '\n')
	return w.output.Write(data)
}
