package extract

import (
	"regexp"
	"strings"

	"github.com/nao1215/telespotter/internal/model"
)

// Username scoring. A bare @handle is a decent signal but can't say
// which platform it belongs to; labeled matches are stronger.
const (
	usernameMentionConfidence = 0.60
	usernameLabeledConfidence = 0.75
)

var (
	// handleRegex matches @handle mentions. 3-20 word characters is the
	// intersection of the major platforms' username rules.
	handleRegex = regexp.MustCompile(`@([A-Za-z0-9_]{3,20})\b`)

	// labeledUsernameRegex matches "username: jsmith88" style fragments
	// found on people-search pages.
	labeledUsernameRegex = regexp.MustCompile(`(?i:username|user name|handle|screen name)[:\s]+([A-Za-z0-9_]{3,20})\b`)
)

// commonHandleWords are @-prefixed tokens that are page furniture, not
// handles (mentions of the platforms themselves, ARIA junk).
var commonHandleWords = map[string]bool{
	"the": true, "and": true, "for": true, "all": true, "you": true,
	"media": true, "here": true, "home": true, "email": true,
	"gmail": true, "yahoo": true, "hotmail": true, "outlook": true,
	"twitter": true, "facebook": true, "instagram": true,
	"contact": true, "admin": true, "support": true, "info": true,
	"help": true, "example": true, "username": true, "media_id": true,
}

// UsernameExtractor matches bare @handle tokens and labeled usernames.
type UsernameExtractor struct{}

// NewUsernameExtractor creates a UsernameExtractor.
func NewUsernameExtractor() *UsernameExtractor {
	return &UsernameExtractor{}
}

// Name returns the matcher name.
func (x *UsernameExtractor) Name() string { return "username" }

// Extract returns username candidates from the blob.
func (x *UsernameExtractor) Extract(text string, src model.Source) []model.ExtractedEntity {
	seen := make(map[string]bool)
	var out []model.ExtractedEntity

	for _, m := range labeledUsernameRegex.FindAllStringSubmatch(text, -1) {
		handle := m[1]
		key := strings.ToLower(handle)
		if seen[key] || commonHandleWords[key] {
			continue
		}
		seen[key] = true
		out = append(out, model.ExtractedEntity{
			Type:       model.EntityUsername,
			Value:      handle,
			Source:     src,
			Confidence: usernameLabeledConfidence,
		})
	}

	for _, m := range handleRegex.FindAllStringSubmatchIndex(text, -1) {
		// Reject the local part of email addresses: an @ directly
		// preceded by a word character is "user@host", not a mention.
		if at := m[0]; at > 0 && isWordByte(text[at-1]) {
			continue
		}
		handle := text[m[2]:m[3]]
		key := strings.ToLower(handle)
		if seen[key] || commonHandleWords[key] {
			continue
		}
		seen[key] = true
		out = append(out, model.ExtractedEntity{
			Type:       model.EntityUsername,
			Value:      handle,
			Source:     src,
			Confidence: usernameMentionConfidence,
		})
	}

	return out
}

// isWordByte reports whether b can end an email local part. The dot is
// included so "john.smith@x.com" doesn't yield a bogus @x mention.
func isWordByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '_' || b == '.':
		return true
	default:
		return false
	}
}

var _ Extractor = (*UsernameExtractor)(nil)
