package extract

import (
	"regexp"
	"strings"

	"github.com/nao1215/telespotter/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// socialConfidence is the score for a profile URL match. A URL on a
// known social domain with a profile-shaped path is the most precise
// pattern in this package.
const socialConfidence = 0.85

// socialPlatforms is the domain allow-list. Each platform lists the URL
// shapes whose first capture group is the profile identifier.
// Platform attribution comes from which pattern matched, never from
// guessing at the domain string.
var socialPlatforms = map[string][]*regexp.Regexp{
	"facebook": {
		regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?facebook\.com/([A-Za-z0-9_.]{3,50})\b`),
		regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?fb\.com/([A-Za-z0-9_.]{3,50})\b`),
	},
	"twitter": {
		regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?(?:twitter\.com|x\.com)/([A-Za-z0-9_]{1,15})\b`),
	},
	"instagram": {
		regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?instagram\.com/([A-Za-z0-9_.]{1,30})\b`),
	},
	"linkedin": {
		regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/([A-Za-z0-9_-]{3,100})\b`),
	},
	"tiktok": {
		regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?tiktok\.com/@([A-Za-z0-9_.]{2,24})\b`),
	},
	"youtube": {
		regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?youtube\.com/(?:user|channel|c)/([A-Za-z0-9_-]{2,60})\b`),
		regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?youtube\.com/@([A-Za-z0-9_.-]{2,60})\b`),
	},
	"pinterest": {
		regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?pinterest\.com/([A-Za-z0-9_]{3,30})\b`),
	},
	"reddit": {
		regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?reddit\.com/u(?:ser)?/([A-Za-z0-9_-]{3,20})\b`),
	},
	"snapchat": {
		regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?snapchat\.com/add/([A-Za-z0-9_.]{3,30})\b`),
	},
	"github": {
		regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/([A-Za-z0-9-]{2,39})\b`),
	},
	"telegram": {
		regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?t\.me/([A-Za-z0-9_]{5,32})\b`),
	},
}

// socialBoilerplatePaths are path segments that mean "site chrome, not
// a profile": share buttons, login pages, help sections.
var socialBoilerplatePaths = map[string]bool{
	"share": true, "sharer": true, "intent": true, "login": true,
	"signup": true, "register": true, "help": true, "about": true,
	"terms": true, "privacy": true, "settings": true, "search": true,
	"home": true, "explore": true, "hashtag": true, "pages": true,
	"groups": true, "events": true, "marketplace": true, "watch": true,
	"policies": true, "legal": true, "jobs": true, "features": true,
}

// platformTitles maps platform keys to display names where title-casing
// isn't enough.
var platformTitles = map[string]string{
	"tiktok":   "TikTok",
	"youtube":  "YouTube",
	"linkedin": "LinkedIn",
	"github":   "GitHub",
	"twitter":  "Twitter/X",
}

// titleCaser title-cases platform keys that have no explicit entry.
var titleCaser = cases.Title(language.English)

// PlatformDisplayName returns the display name for a platform key.
func PlatformDisplayName(platform string) string {
	if title, ok := platformTitles[platform]; ok {
		return title
	}
	return titleCaser.String(platform)
}

// SocialExtractor matches social profile URLs against the platform
// domain allow-list.
type SocialExtractor struct{}

// NewSocialExtractor creates a SocialExtractor.
func NewSocialExtractor() *SocialExtractor {
	return &SocialExtractor{}
}

// Name returns the matcher name.
func (x *SocialExtractor) Name() string { return "social" }

// Extract returns social profile candidates. The entity value is the
// canonical profile URL; Platform carries the platform key.
func (x *SocialExtractor) Extract(text string, src model.Source) []model.ExtractedEntity {
	seen := make(map[string]bool)
	var out []model.ExtractedEntity

	for platform, patterns := range socialPlatforms {
		for _, pattern := range patterns {
			for _, m := range pattern.FindAllStringSubmatch(text, -1) {
				identifier := m[1]
				if socialBoilerplatePaths[strings.ToLower(identifier)] {
					continue
				}
				url := canonicalProfileURL(m[0])
				key := platform + "|" + strings.ToLower(identifier)
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, model.ExtractedEntity{
					Type:       model.EntitySocialProfile,
					Value:      url,
					Source:     src,
					Confidence: socialConfidence,
					Platform:   platform,
				})
			}
		}
	}

	return out
}

// canonicalProfileURL ensures the matched URL carries a scheme so the
// value is directly clickable in reports.
func canonicalProfileURL(match string) string {
	lower := strings.ToLower(match)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return match
	}
	return "https://" + match
}

var _ Extractor = (*SocialExtractor)(nil)
