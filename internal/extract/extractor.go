package extract

import (
	"github.com/nao1215/telespotter/internal/model"
)

// Extractor defines the interface for per-entity-type matchers.
//
// Design decision: we use an interface rather than plain functions
// because some matchers carry per-session state (the name and phone
// matchers are built around the queried number), and a Name() method
// keeps logging and tests uniform across matchers.
type Extractor interface {
	// Name returns the matcher's name for logging purposes.
	Name() string

	// Extract scans one raw text blob and returns candidate entities
	// attributed to src. It never fails; unusable input yields an
	// empty slice.
	Extract(text string, src model.Source) []model.ExtractedEntity
}

// Engine runs every registered matcher over a raw text blob.
// One Engine is built per session because two matchers depend on the
// queried phone number; the Engine itself is immutable after
// construction and safe for concurrent use.
type Engine struct {
	extractors []Extractor
}

// NewEngine creates an Engine with all built-in matchers registered.
// The queried phone number feeds the name matcher (proximity scoring)
// and the associated-phone matcher (self-exclusion).
func NewEngine(phone model.PhoneNumber) *Engine {
	e := &Engine{}
	e.Register(NewEmailExtractor())
	e.Register(NewNameExtractor(phone))
	e.Register(NewAddressExtractor())
	e.Register(NewUsernameExtractor())
	e.Register(NewSocialExtractor())
	e.Register(NewPhoneExtractor(phone))
	return e
}

// Register adds a matcher to the engine.
func (e *Engine) Register(x Extractor) {
	e.extractors = append(e.extractors, x)
}

// Extract runs all matchers over the blob and returns their candidates
// in matcher registration order. Duplicate candidates within one blob
// are left to the correlator, which deduplicates by (type, value,
// source) anyway.
func (e *Engine) Extract(text string, src model.Source) []model.ExtractedEntity {
	if text == "" {
		return nil
	}
	var out []model.ExtractedEntity
	for _, x := range e.extractors {
		out = append(out, x.Extract(text, src)...)
	}
	return out
}

// ExtractResult runs extraction over every text blob in a raw result.
func (e *Engine) ExtractResult(raw *model.RawResult) []model.ExtractedEntity {
	if raw == nil {
		return nil
	}
	var out []model.ExtractedEntity
	for _, text := range raw.Texts {
		out = append(out, e.Extract(text, raw.Source)...)
	}
	return out
}
