package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSource is returned when a source name cannot be parsed.
var ErrUnknownSource = errors.New("unknown source")

// SourceKind distinguishes the two families of external collaborators.
type SourceKind int

const (
	// KindSearchEngine marks general-purpose web search engines.
	KindSearchEngine SourceKind = iota
	// KindPeopleSearch marks reverse-lookup people-search sites.
	KindPeopleSearch
)

// String returns the kind's name.
func (k SourceKind) String() string {
	switch k {
	case KindSearchEngine:
		return "search_engine"
	case KindPeopleSearch:
		return "people_search"
	default:
		return "unknown"
	}
}

// Source identifies one external data provider queried during a session.
// It carries no mutable state; it is used as a map key and for attribution
// of extracted entities.
type Source string

// Known sources. The sets mirror the providers the original service
// queried; adding a source means adding a constant here plus a client
// implementation in the client package.
const (
	SourceGoogle           Source = "google"
	SourceBing             Source = "bing"
	SourceDuckDuckGo       Source = "duckduckgo"
	SourceWhitepages       Source = "whitepages"
	SourceTruePeopleSearch Source = "truepeoplesearch"
	SourceFastPeopleSearch Source = "fastpeoplesearch"
	SourceSpokeo           Source = "spokeo"
	SourceBeenVerified     Source = "beenverified"
)

// allSources lists every known source in a stable order.
var allSources = []Source{
	SourceGoogle,
	SourceBing,
	SourceDuckDuckGo,
	SourceWhitepages,
	SourceTruePeopleSearch,
	SourceFastPeopleSearch,
	SourceSpokeo,
	SourceBeenVerified,
}

// AllSources returns every known source in a stable order.
// The returned slice is a copy and safe to modify.
func AllSources() []Source {
	out := make([]Source, len(allSources))
	copy(out, allSources)
	return out
}

// DefaultSources returns the sources enabled when the caller does not
// choose any explicitly. Currently all known sources.
func DefaultSources() []Source {
	return AllSources()
}

// ParseSource converts a string into a known Source.
// Matching is case-insensitive.
func ParseSource(s string) (Source, error) {
	candidate := Source(strings.ToLower(strings.TrimSpace(s)))
	for _, src := range allSources {
		if src == candidate {
			return src, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// ParseSources converts a list of names into Sources, rejecting unknown
// names and deduplicating repeats while preserving first-seen order.
func ParseSources(names []string) ([]Source, error) {
	seen := make(map[Source]bool, len(names))
	out := make([]Source, 0, len(names))
	for _, name := range names {
		src, err := ParseSource(name)
		if err != nil {
			return nil, err
		}
		if seen[src] {
			continue
		}
		seen[src] = true
		out = append(out, src)
	}
	return out, nil
}

// Kind returns the source's family.
func (s Source) Kind() SourceKind {
	switch s {
	case SourceGoogle, SourceBing, SourceDuckDuckGo:
		return KindSearchEngine
	default:
		return KindPeopleSearch
	}
}

// DisplayName returns a human-readable name for reports.
func (s Source) DisplayName() string {
	switch s {
	case SourceGoogle:
		return "Google"
	case SourceBing:
		return "Bing"
	case SourceDuckDuckGo:
		return "DuckDuckGo"
	case SourceWhitepages:
		return "Whitepages"
	case SourceTruePeopleSearch:
		return "TruePeopleSearch"
	case SourceFastPeopleSearch:
		return "FastPeopleSearch"
	case SourceSpokeo:
		return "Spokeo"
	case SourceBeenVerified:
		return "BeenVerified"
	default:
		return string(s)
	}
}

// String returns the source's canonical lowercase name.
func (s Source) String() string { return string(s) }
