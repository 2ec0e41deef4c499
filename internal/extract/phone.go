package extract

import (
	"fmt"
	"regexp"

	"github.com/nao1215/telespotter/internal/model"
)

// associatedPhoneConfidence is the score for a phone-shaped token that
// isn't the queried number. Phone grammars match timestamps, IDs and
// prices often enough to keep this modest.
const associatedPhoneConfidence = 0.55

// associatedPhoneRegex matches NANP numbers with common punctuation:
// "(555) 123-4567", "555-123-4567", "555.123.4567", "+1 555 123 4567",
// "5551234567". The same grammar the query normalizer accepts.
var associatedPhoneRegex = regexp.MustCompile(
	`(?:\+?1[-.\s]?)?\(?(\d{3})\)?[-.\s]?(\d{3})[-.\s]?(\d{4})\b`)

// PhoneExtractor matches phone numbers other than the queried one.
// Numbers co-occurring with the query number on lookup pages are often
// relatives' or previous numbers of the same person.
type PhoneExtractor struct {
	// queryDigits is the queried number's digit string, used for
	// self-exclusion in both full and national forms.
	queryDigits string
	// queryNational is the national part (last 10 digits for NANP).
	queryNational string
}

// NewPhoneExtractor creates a PhoneExtractor that excludes the queried
// number.
func NewPhoneExtractor(phone model.PhoneNumber) *PhoneExtractor {
	return &PhoneExtractor{
		queryDigits:   phone.Digits(),
		queryNational: phone.National(),
	}
}

// Name returns the matcher name.
func (x *PhoneExtractor) Name() string { return "associated_phone" }

// Extract returns associated-phone candidates in display format.
func (x *PhoneExtractor) Extract(text string, src model.Source) []model.ExtractedEntity {
	matches := associatedPhoneRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	var out []model.ExtractedEntity
	for _, m := range matches {
		digits := m[1] + m[2] + m[3]
		if len(digits) != 10 {
			continue
		}
		// Skip the queried number itself in any of its forms.
		if digits == x.queryNational || digits == x.queryDigits || "1"+digits == x.queryDigits {
			continue
		}
		// NANP area codes and exchanges never start with 0 or 1; this
		// filters most dates and ID-shaped false positives.
		if digits[0] < '2' || digits[3] < '2' {
			continue
		}
		if seen[digits] {
			continue
		}
		seen[digits] = true
		out = append(out, model.ExtractedEntity{
			Type:       model.EntityAssociatedPhone,
			Value:      fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:]),
			Source:     src,
			Confidence: associatedPhoneConfidence,
		})
	}
	return out
}

var _ Extractor = (*PhoneExtractor)(nil)
