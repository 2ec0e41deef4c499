package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/telespotter/internal/model"
)

// createTestSession creates a finished session with sample data for
// testing.
func createTestSession() *model.SessionState {
	phone := model.MustNewPhoneNumber("5551234567")
	sources := []model.Source{
		model.SourceGoogle,
		model.SourceBing,
		model.SourceWhitepages,
	}
	state := model.NewSessionState("sess-report-test", phone, sources)

	state.Tasks[model.SourceGoogle] = model.TaskState{
		Source:     model.SourceGoogle,
		Status:     model.TaskSucceeded,
		StatusText: model.TaskSucceeded.String(),
		Attempts:   1,
	}
	state.Tasks[model.SourceBing] = model.TaskState{
		Source:     model.SourceBing,
		Status:     model.TaskSucceeded,
		StatusText: model.TaskSucceeded.String(),
		Attempts:   2,
	}
	state.Tasks[model.SourceWhitepages] = model.TaskState{
		Source:     model.SourceWhitepages,
		Status:     model.TaskFailed,
		StatusText: model.TaskFailed.String(),
		Attempts:   3,
		Reason:     "request blocked by source",
	}

	name := &model.CorrelatedEntity{
		Type:           model.EntityName,
		Value:          "john smith",
		Display:        "John Smith",
		Sources:        []model.Source{model.SourceBing, model.SourceGoogle},
		Confidence:     0.85,
		BaseConfidence: 0.70,
		FirstSeen:      0,
	}
	email := &model.CorrelatedEntity{
		Type:           model.EntityEmail,
		Value:          "jsmith@example.com",
		Display:        "jsmith@example.com",
		Sources:        []model.Source{model.SourceGoogle},
		Confidence:     0.90,
		BaseConfidence: 0.90,
		FirstSeen:      1,
	}
	social := &model.CorrelatedEntity{
		Type:           model.EntitySocialProfile,
		Value:          "github.com/jsmith",
		Display:        "https://github.com/jsmith",
		Platform:       "github",
		Sources:        []model.Source{model.SourceBing},
		Confidence:     0.80,
		BaseConfidence: 0.80,
		FirstSeen:      2,
	}
	for _, e := range []*model.CorrelatedEntity{name, email, social} {
		state.Entities[e.Key()] = e
	}

	state.Progress = 100
	state.Terminal = true
	state.CompletedAt = state.StartedAt.Add(3 * time.Second)

	return state
}

// TestTextWriter tests the human-readable report writer.
func TestTextWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "TeleSpotter Report") {
			t.Error("expected output to contain report header")
		}
		if !strings.Contains(output, state.PhoneDisplay) {
			t.Error("expected output to contain phone number")
		}
		if !strings.Contains(output, "sess-report-test") {
			t.Error("expected output to contain session ID")
		}
		if !strings.Contains(output, "complete") {
			t.Error("expected output to contain complete status")
		}
	})

	t.Run("writes source table with failure reason", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Whitepages") {
			t.Error("expected output to contain failed source")
		}
		if !strings.Contains(output, "request blocked by source") {
			t.Error("expected output to contain failure reason")
		}
		if !strings.Contains(output, "(3 attempts)") {
			t.Error("expected output to contain attempt count")
		}
	})

	t.Run("writes entities grouped by type", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Name (1)") {
			t.Error("expected name section with count")
		}
		if !strings.Contains(output, "John Smith") {
			t.Error("expected output to contain name entity")
		}
		if !strings.Contains(output, "jsmith@example.com") {
			t.Error("expected output to contain email entity")
		}
		if !strings.Contains(output, "https://github.com/jsmith (GitHub)") {
			t.Error("expected social profile with platform display name suffix")
		}
		if !strings.Contains(output, "sources: bing, google") {
			t.Error("expected sorted source list for correlated entity")
		}
	})

	t.Run("writes summary line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "3 entities from 2 sources (1 failed, 0 cancelled)") {
			t.Errorf("expected summary line, got:\n%s", output)
		}
	})

	t.Run("hides empty sections by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(buf.String(), "Address (0)") {
			t.Error("should not show empty sections without showEmpty")
		}
	})

	t.Run("shows empty sections with showEmpty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf, WithShowEmpty(true))
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Address (0)") {
			t.Error("expected empty address section with showEmpty")
		}
		if !strings.Contains(output, "none") {
			t.Error("expected 'none' placeholder in empty section")
		}
	})

	t.Run("shows cancelled status", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf)
		state := createTestSession()
		state.Cancelled = true

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "cancelled") {
			t.Error("expected cancelled status in output")
		}
	})

	t.Run("shows running progress", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf)
		state := createTestSession()
		state.Terminal = false
		state.Progress = 66

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "running (66%)") {
			t.Error("expected running status with progress")
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed JSONReport
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if parsed.SessionID != "sess-report-test" {
			t.Errorf("SessionID = %q, want %q", parsed.SessionID, "sess-report-test")
		}
		if parsed.PhoneNumber != state.PhoneDisplay {
			t.Errorf("PhoneNumber = %q, want %q", parsed.PhoneNumber, state.PhoneDisplay)
		}
		if parsed.Progress != 100 {
			t.Errorf("Progress = %d, want 100", parsed.Progress)
		}
		if len(parsed.Tasks) != 3 {
			t.Errorf("len(Tasks) = %d, want 3", len(parsed.Tasks))
		}
		if len(parsed.Entities) != 3 {
			t.Errorf("len(Entities) = %d, want 3", len(parsed.Entities))
		}
		if parsed.Summary == nil {
			t.Fatal("expected non-nil summary")
		}
		if parsed.Summary.SourcesSucceeded != 2 {
			t.Errorf("SourcesSucceeded = %d, want 2", parsed.Summary.SourcesSucceeded)
		}
	})

	t.Run("orders entities by report order", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed JSONReport
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if parsed.Entities[0].Type != model.EntityName {
			t.Errorf("first entity type = %q, want %q", parsed.Entities[0].Type, model.EntityName)
		}
		if parsed.Entities[1].Type != model.EntityEmail {
			t.Errorf("second entity type = %q, want %q", parsed.Entities[1].Type, model.EntityEmail)
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) > 1 {
			t.Errorf("expected compact output (1 line), got %d lines", len(lines))
		}
	})

	t.Run("pretty print with indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) < 5 {
			t.Errorf("expected multi-line output, got %d lines", len(lines))
		}
	})

	t.Run("uses custom prefix and indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithIndent(">>", "\t"))
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, ">>") {
			t.Error("expected custom prefix '>>' in output")
		}
		if !strings.Contains(output, "\t") {
			t.Error("expected tab indentation in output")
		}
	})
}

// TestCSVWriter tests the CSV entity export.
func TestCSVWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and entity rows", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		records, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}

		if len(records) != 4 {
			t.Fatalf("expected 4 records (header + 3 rows), got %d", len(records))
		}
		if got := strings.Join(records[0], ","); got != "type,value,platform,confidence,sources" {
			t.Errorf("header = %q", got)
		}

		name := records[1]
		if name[0] != "name" || name[1] != "John Smith" {
			t.Errorf("first row = %v, want name entity", name)
		}
		if name[3] != "0.85" {
			t.Errorf("confidence = %q, want %q", name[3], "0.85")
		}
		if name[4] != "bing;google" {
			t.Errorf("sources = %q, want %q", name[4], "bing;google")
		}
	})

	t.Run("includes platform for social profiles", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		records, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}

		var social []string
		for _, rec := range records[1:] {
			if rec[0] == "social_profile" {
				social = rec
			}
		}
		if social == nil {
			t.Fatal("expected a social_profile row")
		}
		if social[2] != "GitHub" {
			t.Errorf("platform = %q, want %q", social[2], "GitHub")
		}
	})

	t.Run("writes only header for empty session", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf)
		phone := model.MustNewPhoneNumber("5551234567")
		state := model.NewSessionState("sess-empty", phone, []model.Source{model.SourceGoogle})

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		records, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("expected header only, got %d records", len(records))
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# TeleSpotter Report") {
			t.Error("expected output to contain H1 header")
		}
		if !strings.Contains(output, state.PhoneDisplay) {
			t.Error("expected output to contain phone number")
		}
		if !strings.Contains(output, "sess-report-test") {
			t.Error("expected output to contain session ID")
		}
	})

	t.Run("writes summary table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## Summary") {
			t.Error("expected output to contain summary header")
		}
		if !strings.Contains(output, "**Total**") {
			t.Error("expected output to contain total row")
		}
	})

	t.Run("includes pie chart when entities exist", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "pie") {
			t.Error("expected output to contain mermaid pie chart")
		}
	})

	t.Run("writes source table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## Sources") {
			t.Error("expected output to contain sources header")
		}
		if !strings.Contains(output, "request blocked by source") {
			t.Error("expected output to contain failure reason")
		}
	})

	t.Run("writes entity tables by type", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "### Name") {
			t.Error("expected per-type entity heading")
		}
		if !strings.Contains(output, "John Smith") {
			t.Error("expected name entity in output")
		}
		if !strings.Contains(output, "0.85") {
			t.Error("expected confidence in output")
		}
	})

	t.Run("warns about failed sources", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "[!WARNING]") {
			t.Error("expected WARNING alert when a source failed")
		}
	})

	t.Run("notes empty sessions", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		phone := model.MustNewPhoneNumber("5551234567")
		state := model.NewSessionState("sess-empty", phone, []model.Source{model.SourceGoogle})
		state.Tasks[model.SourceGoogle] = model.TaskState{
			Source:     model.SourceGoogle,
			Status:     model.TaskSucceeded,
			StatusText: model.TaskSucceeded.String(),
			Attempts:   1,
		}
		state.Terminal = true
		state.Progress = 100

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!NOTE]") {
			t.Error("expected NOTE alert for empty session")
		}
		if !strings.Contains(output, "No entities found") {
			t.Error("expected message about no entities")
		}
	})

	t.Run("shows cancelled status", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		state := createTestSession()
		state.Cancelled = true

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "Cancelled (partial results)") {
			t.Error("expected cancelled status in output")
		}
	})

	t.Run("writes footer with link", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		state := createTestSession()

		_, err := w.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "https://github.com/nao1215/telespotter") {
			t.Error("expected footer with repository link")
		}
	})
}

// TestForFormat tests the writer factory.
func TestForFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		want   string
	}{
		{FormatJSON, "*report.JSONWriter"},
		{FormatCSV, "*report.CSVWriter"},
		{FormatMarkdown, "*report.MarkdownWriter"},
		{FormatText, "*report.TextWriter"},
		{Format("bogus"), "*report.TextWriter"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			w := ForFormat(tt.format, &buf)

			var got string
			switch w.(type) {
			case *JSONWriter:
				got = "*report.JSONWriter"
			case *CSVWriter:
				got = "*report.CSVWriter"
			case *MarkdownWriter:
				got = "*report.MarkdownWriter"
			case *TextWriter:
				got = "*report.TextWriter"
			default:
				got = "unknown"
			}
			if got != tt.want {
				t.Errorf("ForFormat(%q) = %s, want %s", tt.format, got, tt.want)
			}
		})
	}
}

// TestMultiWriter tests writing to multiple outputs.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var buf1, buf2 bytes.Buffer
		w1 := NewTextWriter(&buf1)
		w2 := NewJSONWriter(&buf2)

		multi := NewMultiWriter(w1, w2)
		state := createTestSession()

		_, err := multi.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if buf1.Len() == 0 {
			t.Error("expected buf1 to have content")
		}
		if buf2.Len() == 0 {
			t.Error("expected buf2 to have content")
		}
		if strings.Contains(buf1.String(), `"session_id"`) {
			t.Error("expected buf1 (text) to not be JSON")
		}
		if !strings.Contains(buf2.String(), `"session_id"`) {
			t.Error("expected buf2 (JSON) to contain JSON")
		}
	})

	t.Run("handles empty writers list", func(t *testing.T) {
		t.Parallel()

		multi := NewMultiWriter()
		state := createTestSession()

		n, err := multi.Write(state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 bytes written for empty writers, got %d", n)
		}
	})
}

// TestTruncateString tests the string truncation helper.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a longer string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"ab", 5, "ab"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			result := truncateString(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncateString(%q, %d) = %q, want %q",
					tt.input, tt.maxLen, result, tt.expected)
			}
		})
	}
}

// TestPlatformDisplayNames tests that reports render social platform
// display names rather than raw platform keys.
func TestPlatformDisplayNames(t *testing.T) {
	t.Parallel()

	state := createTestSession()
	tiktok := &model.CorrelatedEntity{
		Type:           model.EntitySocialProfile,
		Value:          "tiktok.com/@jsmith",
		Display:        "https://tiktok.com/@jsmith",
		Platform:       "tiktok",
		Sources:        []model.Source{model.SourceGoogle},
		Confidence:     0.80,
		BaseConfidence: 0.80,
		FirstSeen:      3,
	}
	state.Entities[tiktok.Key()] = tiktok

	t.Run("text writer", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"(GitHub)", "(TikTok)"} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(buf.String(), "(github)") {
			t.Error("expected raw platform key to be replaced by display name")
		}
	})

	t.Run("markdown writer", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"GitHub", "TikTok"} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("csv writer", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewCSVWriter(&buf).Write(state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "TikTok") {
			t.Error("expected CSV platform column to use display name")
		}
	})
}
