package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/telespotter/internal/extract"
	"github.com/nao1215/telespotter/internal/model"
)

// MarkdownWriter outputs session reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the session in Markdown format.
func (w *MarkdownWriter) Write(state *model.SessionState) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, state)
	w.writeSummary(md, state)
	w.writeTasks(md, state)
	w.writeEntities(md, state)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with session information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, state *model.SessionState) {
	md.H1("TeleSpotter Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Phone Number", "`" + state.PhoneDisplay + "`"},
			{"Session", "`" + state.ID + "`"},
			{"Started", state.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Status", statusText(state)},
		},
	})
	md.PlainText("")
}

// statusText returns the status cell based on session state.
func statusText(state *model.SessionState) string {
	switch {
	case state.Cancelled:
		return "⚠️ Cancelled (partial results)"
	case state.Terminal:
		return "✅ Complete"
	default:
		return fmt.Sprintf("⏳ Running (%d%%)", state.Progress)
	}
}

// writeSummary writes the entity count summary with a pie chart.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, state *model.SessionState) {
	sum := state.Summarize()

	md.H2("Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(model.EntityTypes())+1)
	for _, typ := range model.EntityTypes() {
		rows = append(rows, []string{typ.DisplayName(), strconv.Itoa(sum.EntityCounts[typ])})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(sum.TotalEntities()) + "**"})
	md.Table(markdown.TableSet{
		Header: []string{"Entity Type", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if sum.TotalEntities() > 0 {
		w.writePieChart(md, sum)
	}

	switch {
	case sum.TotalEntities() == 0:
		md.Note("No entities were found for this number.")
	case sum.SourcesFailed > 0:
		md.Warningf("%d source(s) failed or timed out; results may be incomplete.", sum.SourcesFailed)
	default:
		md.Tipf("All %d source(s) completed.", sum.SourcesSucceeded)
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the entity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, sum *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Entity Distribution"),
		piechart.WithShowData(true),
	)
	for _, typ := range model.EntityTypes() {
		if count := sum.EntityCounts[typ]; count > 0 {
			chart.LabelAndIntValue(typ.DisplayName(), uint64(count))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeTasks writes the per-source task table.
func (w *MarkdownWriter) writeTasks(md *markdown.Markdown, state *model.SessionState) {
	md.H2("Sources")
	md.PlainText("")

	rows := make([][]string, 0, len(state.Tasks))
	for _, src := range model.AllSources() {
		task, ok := state.Tasks[src]
		if !ok {
			continue
		}
		reason := task.Reason
		if reason == "" {
			reason = "-"
		}
		rows = append(rows, []string{
			src.DisplayName(),
			task.Status.String(),
			strconv.Itoa(task.Attempts),
			truncateString(reason, 60),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Source", "Status", "Attempts", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeEntities writes all entities grouped by type.
func (w *MarkdownWriter) writeEntities(md *markdown.Markdown, state *model.SessionState) {
	md.H2("Entities")
	md.PlainText("")

	entities := state.SortedEntities()
	if len(entities) == 0 {
		md.PlainText("No entities found.")
		md.PlainText("")
		return
	}

	byType := make(map[model.EntityType][]*model.CorrelatedEntity)
	for _, e := range entities {
		byType[e.Type] = append(byType[e.Type], e)
	}

	for _, typ := range model.EntityTypes() {
		group := byType[typ]
		if len(group) == 0 {
			continue
		}
		md.H3(typ.DisplayName())
		md.PlainText("")
		w.writeEntityTable(md, group)
	}
}

// writeEntityTable writes one entity type's table.
func (w *MarkdownWriter) writeEntityTable(md *markdown.Markdown, entities []*model.CorrelatedEntity) {
	rows := make([][]string, len(entities))
	for i, e := range entities {
		platform := "-"
		if e.Platform != "" {
			platform = extract.PlatformDisplayName(e.Platform)
		}
		sources := ""
		for j, s := range e.Sources {
			if j > 0 {
				sources += ", "
			}
			sources += string(s)
		}
		rows[i] = []string{
			truncateString(e.Display, 50),
			platform,
			strconv.FormatFloat(e.Confidence, 'f', 2, 64),
			sources,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Value", "Platform", "Confidence", "Sources"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [TeleSpotter](https://github.com/nao1215/telespotter)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
