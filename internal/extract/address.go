package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nao1215/telespotter/internal/model"
)

// Address scoring. The street grammar has a known false-positive rate
// (any "12 Main St"-shaped fragment matches), so addresses score below
// emails; city/state/zip-only matches score lower still.
const (
	addressFullConfidence    = 0.65
	addressPartialConfidence = 0.45
)

var (
	// streetAddressRegex matches "123 Main St, Springfield, IL 62701"
	// shaped sequences: house number, street name, street-type token,
	// city, two-letter state, zip.
	streetAddressRegex = regexp.MustCompile(
		`\b(\d+\s+[A-Za-z0-9 ]+?\s(?i:Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Lane|Ln|Boulevard|Blvd|Court|Ct|Way|Place|Pl|Circle|Cir)\.?)[,\s]+([A-Za-z ]+?)[,\s]+([A-Z]{2})\s*(\d{5}(?:-\d{4})?)\b`)

	// cityStateZipRegex matches the "Springfield, IL 62701" tail alone.
	cityStateZipRegex = regexp.MustCompile(`\b([A-Z][A-Za-z ]+?),\s*([A-Z]{2})\s+(\d{5})\b`)
)

// usStateAbbrevs validates the two-letter state token so arbitrary
// capitalized bigrams don't pass as states.
var usStateAbbrevs = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true,
	"CO": true, "CT": true, "DE": true, "FL": true, "GA": true,
	"HI": true, "ID": true, "IL": true, "IN": true, "IA": true,
	"KS": true, "KY": true, "LA": true, "ME": true, "MD": true,
	"MA": true, "MI": true, "MN": true, "MS": true, "MO": true,
	"MT": true, "NE": true, "NV": true, "NH": true, "NJ": true,
	"NM": true, "NY": true, "NC": true, "ND": true, "OH": true,
	"OK": true, "OR": true, "PA": true, "RI": true, "SC": true,
	"SD": true, "TN": true, "TX": true, "UT": true, "VT": true,
	"VA": true, "WA": true, "WV": true, "WI": true, "WY": true,
	"DC": true,
}

// AddressExtractor matches US postal addresses via a sequence grammar
// of {number, street-type token, city, state, zip}.
type AddressExtractor struct{}

// NewAddressExtractor creates an AddressExtractor.
func NewAddressExtractor() *AddressExtractor {
	return &AddressExtractor{}
}

// Name returns the matcher name.
func (x *AddressExtractor) Name() string { return "address" }

// Extract returns address candidates: full street addresses first, then
// city/state/zip fragments not already covered by a full match.
func (x *AddressExtractor) Extract(text string, src model.Source) []model.ExtractedEntity {
	seen := make(map[string]bool)
	var out []model.ExtractedEntity

	for _, m := range streetAddressRegex.FindAllStringSubmatch(text, -1) {
		street := strings.Join(strings.Fields(m[1]), " ")
		city := strings.TrimSpace(m[2])
		state := m[3]
		zip := m[4]
		if !usStateAbbrevs[state] {
			continue
		}
		value := fmt.Sprintf("%s, %s, %s %s", street, city, state, zip)
		key := strings.ToLower(value)
		if seen[key] {
			continue
		}
		seen[key] = true
		// Remember the tail too, so the partial pass below doesn't
		// re-report the same place with a lower score.
		seen[strings.ToLower(fmt.Sprintf("%s, %s %s", city, state, zip))] = true
		out = append(out, model.ExtractedEntity{
			Type:       model.EntityAddress,
			Value:      value,
			Source:     src,
			Confidence: addressFullConfidence,
		})
	}

	for _, m := range cityStateZipRegex.FindAllStringSubmatch(text, -1) {
		city := strings.TrimSpace(m[1])
		state := m[2]
		zip := m[3]
		if len(city) < 3 || !usStateAbbrevs[state] {
			continue
		}
		value := fmt.Sprintf("%s, %s %s", city, state, zip)
		key := strings.ToLower(value)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, model.ExtractedEntity{
			Type:       model.EntityAddress,
			Value:      value,
			Source:     src,
			Confidence: addressPartialConfidence,
		})
	}

	return out
}

var _ Extractor = (*AddressExtractor)(nil)
