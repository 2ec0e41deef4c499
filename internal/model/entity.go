package model

import (
	"sort"
	"strings"
)

// EntityType classifies an extracted fact.
type EntityType string

// Entity types produced by the extract package.
const (
	EntityName            EntityType = "name"
	EntityEmail           EntityType = "email"
	EntityAddress         EntityType = "address"
	EntityUsername        EntityType = "username"
	EntitySocialProfile   EntityType = "social_profile"
	EntityAssociatedPhone EntityType = "associated_phone"
)

// entityTypeOrder defines the display order used in reports.
var entityTypeOrder = []EntityType{
	EntityName,
	EntityEmail,
	EntityAddress,
	EntityUsername,
	EntitySocialProfile,
	EntityAssociatedPhone,
}

// EntityTypes returns all entity types in report display order.
func EntityTypes() []EntityType {
	out := make([]EntityType, len(entityTypeOrder))
	copy(out, entityTypeOrder)
	return out
}

// DisplayName returns a human-readable label for reports.
func (t EntityType) DisplayName() string {
	switch t {
	case EntityName:
		return "Name"
	case EntityEmail:
		return "Email"
	case EntityAddress:
		return "Address"
	case EntityUsername:
		return "Username"
	case EntitySocialProfile:
		return "Social Profile"
	case EntityAssociatedPhone:
		return "Associated Phone"
	default:
		return string(t)
	}
}

// NormalizeValue produces the canonical form of a raw entity value for
// its type. Two raw values that normalize identically are the same
// entity for correlation purposes:
//
//   - emails: lowercased
//   - names and addresses: case-folded, interior whitespace collapsed
//   - usernames: lowercased, leading "@" stripped
//   - social profiles: lowercased URL without scheme or trailing slash
//   - associated phones: digits only, same rule as the query normalizer
func NormalizeValue(t EntityType, value string) string {
	v := strings.TrimSpace(value)
	switch t {
	case EntityEmail, EntityUsername:
		return strings.ToLower(strings.TrimPrefix(v, "@"))
	case EntityName, EntityAddress:
		return strings.ToLower(strings.Join(strings.Fields(v), " "))
	case EntitySocialProfile:
		v = strings.ToLower(v)
		v = strings.TrimPrefix(v, "https://")
		v = strings.TrimPrefix(v, "http://")
		v = strings.TrimPrefix(v, "www.")
		return strings.TrimSuffix(v, "/")
	case EntityAssociatedPhone:
		return DigitsOnly(v)
	default:
		return v
	}
}

// EntityKey uniquely identifies a correlated entity within a session.
type EntityKey struct {
	// Type is the entity classification.
	Type EntityType
	// Value is the normalized value (see NormalizeValue).
	Value string
}

// ExtractedEntity is one candidate fact pulled from a single source's
// raw text. Entities are value objects: their identity is the
// (type, normalized value) pair, not a database row.
type ExtractedEntity struct {
	// Type is the entity classification.
	Type EntityType `json:"type"`
	// Value is the raw value as it appeared in the text.
	Value string `json:"value"`
	// Source is the provider whose text contained the value.
	Source Source `json:"source"`
	// Confidence is the extractor-assigned score in [0,1].
	Confidence float64 `json:"confidence"`
	// Platform names the social platform for social profiles and
	// username handles; empty for other types.
	Platform string `json:"platform,omitempty"`
}

// Key returns the correlation key for the entity.
func (e ExtractedEntity) Key() EntityKey {
	return EntityKey{Type: e.Type, Value: NormalizeValue(e.Type, e.Value)}
}

// CorrelatedEntity is a (type, normalized value) pair aggregated across
// sources. There is exactly one CorrelatedEntity per key per session.
type CorrelatedEntity struct {
	// Type is the entity classification.
	Type EntityType `json:"type"`
	// Value is the normalized value.
	Value string `json:"value"`
	// Display is the first raw representation seen, kept for reports.
	Display string `json:"display"`
	// Platform names the social platform where applicable.
	Platform string `json:"platform,omitempty"`
	// Sources is the set of providers that independently produced the
	// value. Stored sorted for deterministic serialization.
	Sources []Source `json:"sources"`
	// Confidence is the combined score in [0,1]. It is a pure function
	// of the base extraction score and the size of Sources, and never
	// decreases as sources accumulate.
	Confidence float64 `json:"confidence"`
	// BaseConfidence is the highest extraction score seen for the
	// value, retained so Confidence stays recomputable from scratch.
	BaseConfidence float64 `json:"-"`
	// FirstSeen is the session-local ingestion order of the first
	// occurrence, used for stable report ordering.
	FirstSeen int `json:"first_seen"`
}

// Key returns the correlation key of the entity.
func (c *CorrelatedEntity) Key() EntityKey {
	return EntityKey{Type: c.Type, Value: c.Value}
}

// HasSource reports whether the source already contributed to this entity.
func (c *CorrelatedEntity) HasSource(src Source) bool {
	for _, s := range c.Sources {
		if s == src {
			return true
		}
	}
	return false
}

// AddSource records a contributing source, keeping Sources sorted.
// Adding an already-present source is a no-op.
func (c *CorrelatedEntity) AddSource(src Source) {
	if c.HasSource(src) {
		return
	}
	c.Sources = append(c.Sources, src)
	sort.Slice(c.Sources, func(i, j int) bool { return c.Sources[i] < c.Sources[j] })
}

// Clone returns a deep copy safe to hand to other goroutines.
func (c *CorrelatedEntity) Clone() *CorrelatedEntity {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Sources = make([]Source, len(c.Sources))
	copy(cp.Sources, c.Sources)
	return &cp
}
