package extract

import (
	"regexp"
	"strings"

	"github.com/nao1215/telespotter/internal/model"
)

// emailConfidence is the fixed score for email candidates. An email
// token either matches the grammar or it doesn't, so there is no
// gradation within one blob; cross-source agreement is what raises it.
const emailConfidence = 0.70

// emailRegex matches email tokens. Deliberately the pragmatic form
// rather than full RFC 5322; web page text doesn't contain the exotic
// forms and the correlator tolerates the occasional false positive.
var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// placeholderEmailDomains are domains that appear in result boilerplate
// and never identify a person.
var placeholderEmailDomains = map[string]bool{
	"example.com": true,
	"example.org": true,
	"test.com":    true,
	"email.com":   true,
	"domain.com":  true,
	"sentry.io":   true,
}

// EmailExtractor matches email address tokens.
type EmailExtractor struct{}

// NewEmailExtractor creates an EmailExtractor.
func NewEmailExtractor() *EmailExtractor {
	return &EmailExtractor{}
}

// Name returns the matcher name.
func (x *EmailExtractor) Name() string { return "email" }

// Extract returns every distinct syntactically valid email token in the
// blob, lowercased.
func (x *EmailExtractor) Extract(text string, src model.Source) []model.ExtractedEntity {
	matches := emailRegex.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	out := make([]model.ExtractedEntity, 0, len(matches))
	for _, m := range matches {
		email := strings.ToLower(m)
		if seen[email] || !isPlausibleEmail(email) {
			continue
		}
		seen[email] = true
		out = append(out, model.ExtractedEntity{
			Type:       model.EntityEmail,
			Value:      email,
			Source:     src,
			Confidence: emailConfidence,
		})
	}
	return out
}

// isPlausibleEmail discards tokens that match the grammar but cannot
// identify anyone (placeholder domains, degenerate lengths).
func isPlausibleEmail(email string) bool {
	if len(email) < 6 || len(email) > 254 {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !placeholderEmailDomains[email[at+1:]]
}

var _ Extractor = (*EmailExtractor)(nil)
