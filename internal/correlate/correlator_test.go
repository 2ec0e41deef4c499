package correlate

import (
	"math"
	"testing"

	"github.com/nao1215/telespotter/internal/model"
)

const eps = 1e-9

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		base    float64
		sources int
		want    float64
	}{
		{name: "single source keeps the base", base: 0.70, sources: 1, want: 0.70},
		{name: "second source halves the gap", base: 0.70, sources: 2, want: 0.85},
		{name: "third source halves it again", base: 0.70, sources: 3, want: 0.925},
		{name: "base zero still accumulates", base: 0, sources: 2, want: 0.5},
		{name: "base one stays at one", base: 1, sources: 3, want: 1},
		{name: "negative base clamps to zero", base: -0.5, sources: 1, want: 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Score(tt.base, tt.sources); math.Abs(got-tt.want) > eps {
				t.Errorf("Score(%v, %d) = %v, want %v", tt.base, tt.sources, got, tt.want)
			}
		})
	}

	t.Run("monotone in sources and below one", func(t *testing.T) {
		t.Parallel()
		prev := Score(0.55, 1)
		for n := 2; n <= 8; n++ {
			got := Score(0.55, n)
			if got <= prev {
				t.Errorf("Score(0.55, %d) = %v, not above %v", n, got, prev)
			}
			if got >= 1 {
				t.Errorf("Score(0.55, %d) = %v, want below 1", n, got)
			}
			prev = got
		}
	})
}

func TestCorrelatorIngest(t *testing.T) {
	t.Parallel()

	t.Run("merges format variants of the same value", func(t *testing.T) {
		t.Parallel()
		c := NewCorrelator()
		first, changed := c.Ingest(model.ExtractedEntity{
			Type: model.EntityName, Value: "John Smith",
			Source: model.SourceGoogle, Confidence: 0.70,
		})
		if !changed || first == nil {
			t.Fatal("first ingest must create an entity")
		}
		second, changed := c.Ingest(model.ExtractedEntity{
			Type: model.EntityName, Value: "  john   SMITH ",
			Source: model.SourceWhitepages, Confidence: 0.50,
		})
		if !changed {
			t.Fatal("new source must count as a change")
		}
		if first != second {
			t.Error("variants of one value must merge into one record")
		}
		if c.Len() != 1 {
			t.Errorf("Len() = %d, want 1", c.Len())
		}
		if got, want := second.Confidence, Score(0.70, 2); math.Abs(got-want) > eps {
			t.Errorf("confidence = %v, want %v", got, want)
		}
		if second.Display != "John Smith" {
			t.Errorf("display = %q, want the first raw form", second.Display)
		}
	})

	t.Run("repeat ingest from the same source is a no-op", func(t *testing.T) {
		t.Parallel()
		c := NewCorrelator()
		e := model.ExtractedEntity{
			Type: model.EntityEmail, Value: "john@smith.io",
			Source: model.SourceBing, Confidence: 0.70,
		}
		c.Ingest(e)
		ent, changed := c.Ingest(e)
		if changed {
			t.Error("identical candidate must not change state")
		}
		if len(ent.Sources) != 1 {
			t.Errorf("sources = %v, want exactly one", ent.Sources)
		}
	})

	t.Run("same source never inflates confidence", func(t *testing.T) {
		t.Parallel()
		c := NewCorrelator()
		for i := 0; i < 5; i++ {
			c.Ingest(model.ExtractedEntity{
				Type: model.EntityUsername, Value: "@jsmith",
				Source: model.SourceGoogle, Confidence: 0.60,
			})
		}
		ent := c.Entities()[model.EntityKey{Type: model.EntityUsername, Value: "jsmith"}]
		if ent == nil {
			t.Fatal("entity not found under normalized key")
		}
		if math.Abs(ent.Confidence-0.60) > eps {
			t.Errorf("confidence = %v, want base 0.60 after repeats", ent.Confidence)
		}
	})

	t.Run("stronger extraction raises the base", func(t *testing.T) {
		t.Parallel()
		c := NewCorrelator()
		c.Ingest(model.ExtractedEntity{
			Type: model.EntityName, Value: "Jane Doe",
			Source: model.SourceGoogle, Confidence: 0.50,
		})
		ent, changed := c.Ingest(model.ExtractedEntity{
			Type: model.EntityName, Value: "Jane Doe",
			Source: model.SourceGoogle, Confidence: 0.70,
		})
		if !changed {
			t.Fatal("stronger score must count as a change")
		}
		if math.Abs(ent.BaseConfidence-0.70) > eps {
			t.Errorf("base = %v, want 0.70", ent.BaseConfidence)
		}
	})

	t.Run("order independence across sources", func(t *testing.T) {
		t.Parallel()
		candidates := []model.ExtractedEntity{
			{Type: model.EntityEmail, Value: "John@Smith.io", Source: model.SourceGoogle, Confidence: 0.70},
			{Type: model.EntityEmail, Value: "john@smith.io", Source: model.SourceWhitepages, Confidence: 0.70},
			{Type: model.EntityEmail, Value: "JOHN@SMITH.IO", Source: model.SourceSpokeo, Confidence: 0.55},
		}
		perms := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 2, 0}, {0, 2, 1}}
		key := model.EntityKey{Type: model.EntityEmail, Value: "john@smith.io"}

		var want *model.CorrelatedEntity
		for _, perm := range perms {
			c := NewCorrelator()
			for _, i := range perm {
				c.Ingest(candidates[i])
			}
			got := c.Entities()[key]
			if got == nil {
				t.Fatal("entity not found")
			}
			if want == nil {
				want = got.Clone()
				continue
			}
			if math.Abs(got.Confidence-want.Confidence) > eps {
				t.Errorf("perm %v: confidence = %v, want %v", perm, got.Confidence, want.Confidence)
			}
			if len(got.Sources) != len(want.Sources) {
				t.Fatalf("perm %v: sources = %v, want %v", perm, got.Sources, want.Sources)
			}
			for i := range got.Sources {
				if got.Sources[i] != want.Sources[i] {
					t.Errorf("perm %v: sources = %v, want %v", perm, got.Sources, want.Sources)
				}
			}
		}
	})

	t.Run("confidence recomputable from base and source count", func(t *testing.T) {
		t.Parallel()
		c := NewCorrelator()
		for _, src := range []model.Source{model.SourceGoogle, model.SourceBing, model.SourceSpokeo} {
			c.Ingest(model.ExtractedEntity{
				Type: model.EntityAssociatedPhone, Value: "(555) 987-6543",
				Source: src, Confidence: 0.55,
			})
		}
		ent := c.Entities()[model.EntityKey{Type: model.EntityAssociatedPhone, Value: "5559876543"}]
		if ent == nil {
			t.Fatal("entity not found")
		}
		want := Score(ent.BaseConfidence, len(ent.Sources))
		if math.Abs(ent.Confidence-want) > eps {
			t.Errorf("confidence = %v, recompute gives %v", ent.Confidence, want)
		}
	})

	t.Run("empty value and empty source are rejected", func(t *testing.T) {
		t.Parallel()
		c := NewCorrelator()
		if _, changed := c.Ingest(model.ExtractedEntity{
			Type: model.EntityName, Value: "   ", Source: model.SourceGoogle,
		}); changed {
			t.Error("blank value must be rejected")
		}
		if _, changed := c.Ingest(model.ExtractedEntity{
			Type: model.EntityName, Value: "Jane Doe",
		}); changed {
			t.Error("missing source must be rejected")
		}
		if c.Len() != 0 {
			t.Errorf("Len() = %d, want 0", c.Len())
		}
	})

	t.Run("platform fills in from a later candidate", func(t *testing.T) {
		t.Parallel()
		c := NewCorrelator()
		c.Ingest(model.ExtractedEntity{
			Type: model.EntitySocialProfile, Value: "github.com/jsmith",
			Source: model.SourceGoogle, Confidence: 0.85,
		})
		ent, _ := c.Ingest(model.ExtractedEntity{
			Type: model.EntitySocialProfile, Value: "https://github.com/jsmith",
			Source: model.SourceBing, Confidence: 0.85, Platform: "github",
		})
		if ent.Platform != "github" {
			t.Errorf("platform = %q, want github", ent.Platform)
		}
	})
}

func TestCorrelatorIngestAll(t *testing.T) {
	t.Parallel()

	c := NewCorrelator()
	got := c.IngestAll([]model.ExtractedEntity{
		{Type: model.EntityEmail, Value: "a@b.org", Source: model.SourceGoogle, Confidence: 0.70},
		{Type: model.EntityEmail, Value: "a@b.org", Source: model.SourceGoogle, Confidence: 0.70},
		{Type: model.EntityEmail, Value: "c@d.org", Source: model.SourceGoogle, Confidence: 0.70},
	})
	if len(got) != 2 {
		t.Errorf("got %d changed entities, want 2", len(got))
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}
