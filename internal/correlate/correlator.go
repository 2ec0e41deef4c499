// Package correlate merges extracted entities across sources into one
// deduplicated, confidence-scored set per session.
//
// Identity is the (type, normalized value) pair: "John Smith" from a
// search engine and "john smith" from a people-search site are one
// entity with two contributing sources. Merging is idempotent and
// order-independent, so concurrent source tasks may complete in any
// order without changing the final result.
package correlate

import (
	"strings"

	"github.com/nao1215/telespotter/internal/model"
)

// sourceGapFactor is the fraction of the remaining confidence gap left
// open by each additional corroborating source. At 0.5 every extra
// source halves the distance to 1.
const sourceGapFactor = 0.5

// Score returns the combined confidence for an entity with the given
// base extraction score corroborated by n distinct sources. The first
// source contributes the base score alone; each further source closes
// half of the remaining distance to 1, so the result grows
// monotonically with n and never reaches 1.
func Score(base float64, n int) float64 {
	if base < 0 {
		base = 0
	} else if base > 1 {
		base = 1
	}
	gap := 1 - base
	for i := 1; i < n; i++ {
		gap *= sourceGapFactor
	}
	return 1 - gap
}

// Correlator accumulates the correlated entity set of one session.
// It is not safe for concurrent use: the orchestrator is the single
// writer and readers get snapshots, matching how session state is
// shared elsewhere.
type Correlator struct {
	entities map[model.EntityKey]*model.CorrelatedEntity
	// order is a session-local counter stamped on each new entity so
	// reports can break confidence ties deterministically.
	order int
}

// NewCorrelator creates an empty Correlator.
func NewCorrelator() *Correlator {
	return &Correlator{
		entities: make(map[model.EntityKey]*model.CorrelatedEntity),
	}
}

// Ingest merges one extracted candidate into the entity set and returns
// the merged entity together with whether the merge changed anything.
// Re-ingesting an identical candidate is a no-op and returns false.
//
// The returned entity is the live record; callers that hand it to other
// goroutines must Clone it first.
func (c *Correlator) Ingest(e model.ExtractedEntity) (*model.CorrelatedEntity, bool) {
	value := model.NormalizeValue(e.Type, e.Value)
	if value == "" || e.Source == "" {
		return nil, false
	}
	conf := e.Confidence
	if conf < 0 {
		conf = 0
	} else if conf > 1 {
		conf = 1
	}

	key := model.EntityKey{Type: e.Type, Value: value}
	ent, ok := c.entities[key]
	if !ok {
		ent = &model.CorrelatedEntity{
			Type:           e.Type,
			Value:          value,
			Display:        strings.TrimSpace(e.Value),
			Platform:       e.Platform,
			Sources:        []model.Source{e.Source},
			BaseConfidence: conf,
			Confidence:     Score(conf, 1),
			FirstSeen:      c.order,
		}
		c.order++
		c.entities[key] = ent
		return ent, true
	}

	changed := false
	if !ent.HasSource(e.Source) {
		ent.AddSource(e.Source)
		changed = true
	}
	// The strongest extraction of a value defines its base score, so
	// the combined score is recomputable from (base, sources) no matter
	// the arrival order.
	if conf > ent.BaseConfidence {
		ent.BaseConfidence = conf
		changed = true
	}
	if ent.Platform == "" && e.Platform != "" {
		ent.Platform = e.Platform
	}
	if changed {
		ent.Confidence = Score(ent.BaseConfidence, len(ent.Sources))
	}
	return ent, changed
}

// IngestAll merges a batch of candidates and returns the entities whose
// state changed, in merge order.
func (c *Correlator) IngestAll(candidates []model.ExtractedEntity) []*model.CorrelatedEntity {
	var out []*model.CorrelatedEntity
	for _, e := range candidates {
		if ent, changed := c.Ingest(e); changed {
			out = append(out, ent)
		}
	}
	return out
}

// Entities returns the live entity map. The caller must treat it as
// read-only; session snapshots deep-copy it before crossing goroutines.
func (c *Correlator) Entities() map[model.EntityKey]*model.CorrelatedEntity {
	return c.entities
}

// Len returns the number of distinct correlated entities.
func (c *Correlator) Len() int {
	return len(c.entities)
}
