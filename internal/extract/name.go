package extract

import (
	"regexp"
	"strings"

	"github.com/nao1215/telespotter/internal/model"
)

// Name scoring parameters. Names are the noisiest entity type (any two
// capitalized words can look like one), so the base score is lowest and
// most of the weight comes from context signals.
const (
	// nameBaseConfidence is the score for a bare capitalized pair.
	nameBaseConfidence = 0.50
	// nameOccurrenceBoost is added per repeat occurrence in one blob.
	nameOccurrenceBoost = 0.05
	// nameOccurrenceBoostCap bounds the repeat-occurrence bonus.
	nameOccurrenceBoostCap = 0.15
	// nameProximityBoost is added when the queried phone number appears
	// near the name in the same text window.
	nameProximityBoost = 0.20
	// nameLabelBoost is added for labeled matches ("Owner: John Smith").
	nameLabelBoost = 0.20
	// nameMaxConfidence caps a single-source name score; only
	// cross-source correlation may push it higher.
	nameMaxConfidence = 0.95
	// nameProximityWindow is the character distance, in either
	// direction, within which a phone token counts as "near".
	nameProximityWindow = 80
)

var (
	// namePairRegex matches two-to-three adjacent capitalized words.
	namePairRegex = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2}\b`)

	// labeledNameRegex matches names introduced by ownership labels,
	// which people-search pages use heavily.
	labeledNameRegex = regexp.MustCompile(`(?:(?i:owner|name|caller|registered to|belongs to))[:\s]+([A-Z][a-z]+\s+[A-Z][a-z]+)`)
)

// nameStopwords are words that produce capitalized-pair false positives
// in search result boilerplate: UI labels, site names, months, weekdays,
// street-type words. A candidate containing any of them is discarded.
var nameStopwords = map[string]bool{
	"phone": true, "number": true, "search": true, "lookup": true,
	"reverse": true, "caller": true, "owner": true, "address": true,
	"email": true, "click": true, "here": true, "view": true,
	"more": true, "free": true, "premium": true, "results": true,
	"found": true, "report": true, "united": true, "states": true,
	"america": true, "street": true, "avenue": true, "road": true,
	"drive": true, "lane": true, "court": true, "privacy": true,
	"policy": true, "terms": true, "service": true, "contact": true,
	"about": true, "home": true, "page": true, "whitepages": true,
	"spokeo": true, "truecaller": true, "january": true,
	"february": true, "march": true, "april": true, "may": true,
	"june": true, "july": true, "august": true, "september": true,
	"october": true, "november": true, "december": true,
	"monday": true, "tuesday": true, "wednesday": true,
	"thursday": true, "friday": true, "saturday": true, "sunday": true,
}

// NameExtractor matches personal names via capitalized-word adjacency
// and ownership labels, scoring by repetition and proximity to the
// queried phone number.
type NameExtractor struct {
	// variants are the textual forms of the queried number used for
	// proximity scoring, precomputed once per session.
	variants []string
}

// NewNameExtractor creates a NameExtractor for the queried number.
func NewNameExtractor(phone model.PhoneNumber) *NameExtractor {
	return &NameExtractor{variants: phone.FormatVariants()}
}

// Name returns the matcher name.
func (x *NameExtractor) Name() string { return "name" }

// Extract returns scored name candidates from the blob.
func (x *NameExtractor) Extract(text string, src model.Source) []model.ExtractedEntity {
	lower := strings.ToLower(text)

	type candidate struct {
		value   string
		labeled bool
		index   int
	}

	seen := make(map[string]bool)
	var candidates []candidate

	// Labeled matches first so a name found both ways keeps the label
	// bonus.
	for _, m := range labeledNameRegex.FindAllStringSubmatchIndex(text, -1) {
		value := text[m[2]:m[3]]
		key := strings.ToLower(value)
		if seen[key] || !isPlausibleName(value) {
			continue
		}
		seen[key] = true
		candidates = append(candidates, candidate{value: value, labeled: true, index: m[2]})
	}

	for _, m := range namePairRegex.FindAllStringIndex(text, -1) {
		value := text[m[0]:m[1]]
		key := strings.ToLower(value)
		if seen[key] || !isPlausibleName(value) {
			continue
		}
		seen[key] = true
		candidates = append(candidates, candidate{value: value, index: m[0]})
	}

	if len(candidates) == 0 {
		return nil
	}

	out := make([]model.ExtractedEntity, 0, len(candidates))
	for _, c := range candidates {
		conf := nameBaseConfidence

		// Repetition within one blob is a weak positive signal.
		occurrences := strings.Count(lower, strings.ToLower(c.value))
		if occurrences > 1 {
			boost := float64(occurrences-1) * nameOccurrenceBoost
			if boost > nameOccurrenceBoostCap {
				boost = nameOccurrenceBoostCap
			}
			conf += boost
		}

		if x.nearQueriedNumber(text, c.index, len(c.value)) {
			conf += nameProximityBoost
		}
		if c.labeled {
			conf += nameLabelBoost
		}
		if conf > nameMaxConfidence {
			conf = nameMaxConfidence
		}

		out = append(out, model.ExtractedEntity{
			Type:       model.EntityName,
			Value:      c.value,
			Source:     src,
			Confidence: conf,
		})
	}
	return out
}

// nearQueriedNumber reports whether any format variant of the queried
// number appears within the proximity window around text[start:start+length].
func (x *NameExtractor) nearQueriedNumber(text string, start, length int) bool {
	lo := start - nameProximityWindow
	if lo < 0 {
		lo = 0
	}
	hi := start + length + nameProximityWindow
	if hi > len(text) {
		hi = len(text)
	}
	window := text[lo:hi]
	for _, v := range x.variants {
		if strings.Contains(window, v) {
			return true
		}
	}
	return false
}

// isPlausibleName applies the stopword filter and word-shape checks.
func isPlausibleName(name string) bool {
	words := strings.Fields(name)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		if len(w) < 2 {
			return false
		}
		if nameStopwords[strings.ToLower(w)] {
			return false
		}
	}
	return true
}

var _ Extractor = (*NameExtractor)(nil)
