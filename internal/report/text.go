package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/telespotter/internal/extract"
	"github.com/nao1215/telespotter/internal/model"
)

// TextWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because:
//  1. It works in all terminals without compatibility issues
//  2. It's easier to pipe to files or other tools
type TextWriter struct {
	baseWriter

	// showEmpty controls whether entity sections with no results are
	// shown.
	showEmpty bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.showEmpty = show
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the session in human-readable form.
func (w *TextWriter) Write(state *model.SessionState) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, state)
	w.writeTasks(&sb, state)
	w.writeEntities(&sb, state)
	w.writeSummary(&sb, state)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report banner.
func (w *TextWriter) writeHeader(sb *strings.Builder, state *model.SessionState) {
	line := strings.Repeat("=", 60)
	fmt.Fprintln(sb, line)
	fmt.Fprintf(sb, "TeleSpotter Report: %s\n", state.PhoneDisplay)
	fmt.Fprintf(sb, "Session: %s\n", state.ID)
	fmt.Fprintf(sb, "Started: %s\n", state.StartedAt.Format("2006-01-02 15:04:05 MST"))
	if state.Cancelled {
		fmt.Fprintln(sb, "Status:  cancelled")
	} else if state.Terminal {
		fmt.Fprintln(sb, "Status:  complete")
	} else {
		fmt.Fprintf(sb, "Status:  running (%d%%)\n", state.Progress)
	}
	fmt.Fprintln(sb, line)
	fmt.Fprintln(sb)
}

// writeTasks writes the per-source task table.
func (w *TextWriter) writeTasks(sb *strings.Builder, state *model.SessionState) {
	fmt.Fprintln(sb, "Sources")
	fmt.Fprintln(sb, strings.Repeat("-", 60))
	for _, src := range model.AllSources() {
		task, ok := state.Tasks[src]
		if !ok {
			continue
		}
		fmt.Fprintf(sb, "  %-18s %-10s", src.DisplayName(), task.Status)
		if task.Attempts > 1 {
			fmt.Fprintf(sb, " (%d attempts)", task.Attempts)
		}
		if task.Reason != "" {
			fmt.Fprintf(sb, "  %s", task.Reason)
		}
		fmt.Fprintln(sb)
	}
	fmt.Fprintln(sb)
}

// writeEntities writes the correlated entities grouped by type.
func (w *TextWriter) writeEntities(sb *strings.Builder, state *model.SessionState) {
	entities := state.SortedEntities()
	byType := make(map[model.EntityType][]*model.CorrelatedEntity)
	for _, e := range entities {
		byType[e.Type] = append(byType[e.Type], e)
	}

	for _, typ := range model.EntityTypes() {
		group := byType[typ]
		if len(group) == 0 && !w.showEmpty {
			continue
		}
		fmt.Fprintf(sb, "%s (%d)\n", typ.DisplayName(), len(group))
		fmt.Fprintln(sb, strings.Repeat("-", 60))
		if len(group) == 0 {
			fmt.Fprintln(sb, "  none")
		}
		for _, e := range group {
			fmt.Fprintf(sb, "  %-44s %.2f\n", entityLabel(e), e.Confidence)
			sources := make([]string, 0, len(e.Sources))
			for _, s := range e.Sources {
				sources = append(sources, string(s))
			}
			fmt.Fprintf(sb, "    sources: %s\n", strings.Join(sources, ", "))
		}
		fmt.Fprintln(sb)
	}
}

// entityLabel returns the display text for one entity row.
func entityLabel(e *model.CorrelatedEntity) string {
	if e.Type == model.EntitySocialProfile && e.Platform != "" {
		return fmt.Sprintf("%s (%s)", e.Display, extract.PlatformDisplayName(e.Platform))
	}
	return e.Display
}

// writeSummary writes the wrap-up line.
func (w *TextWriter) writeSummary(sb *strings.Builder, state *model.SessionState) {
	sum := state.Summarize()
	fmt.Fprintln(sb, strings.Repeat("=", 60))
	fmt.Fprintf(sb, "%d entities from %d sources (%d failed, %d cancelled) in %s\n",
		sum.TotalEntities(),
		sum.SourcesSucceeded,
		sum.SourcesFailed,
		sum.SourcesCancelled,
		sum.Elapsed.Round(time.Millisecond),
	)
}
