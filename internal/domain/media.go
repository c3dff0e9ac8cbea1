package domain

import (
	"fmt"
	"strings"
	"time"
)

// MediaType selects the player flavour: a single movie or an episode of a series.
type MediaType string

const (
	MediaMovie  MediaType = "movie"
	MediaSeries MediaType = "series"
)

// ParseMediaType accepts "movie", "series" and the provider's own "tv" alias.
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "":
		return MediaMovie, nil
	case "series", "tv":
		return MediaSeries, nil
	default:
		return "", fmt.Errorf("unknown media type %q", s)
	}
}

// IDType names the catalogue an identifier belongs to.
type IDType string

const (
	IDTypeNone IDType = "none"
	IDTypeIMDb IDType = "imdb"
	IDTypeTMDb IDType = "tmdb"
)

// ResolvedIdentifier is the outcome of Resolve.
//
// ID is empty exactly when Type is IDTypeNone.
type ResolvedIdentifier struct {
	ID   string `json:"id"`
	Type IDType `json:"idType"`
}

// Found reports whether a usable identifier was extracted.
func (r ResolvedIdentifier) Found() bool {
	return r.Type != IDTypeNone && r.ID != ""
}

// MediaReference is what the user asked to watch.
type MediaReference struct {
	// SourceURL is the pasted IMDb/TMDb URL, kept verbatim for display and history.
	SourceURL string

	MediaType MediaType

	// Season and Episode are only meaningful for series. Zero means unset.
	Season  int
	Episode int
}

// SeasonOrDefault returns the season, falling back to 1 when unset.
func (m MediaReference) SeasonOrDefault() int {
	if m.Season > 0 {
		return m.Season
	}
	return 1
}

// EpisodeOrDefault returns the episode, falling back to 1 when unset.
func (m MediaReference) EpisodeOrDefault() int {
	if m.Episode > 0 {
		return m.Episode
	}
	return 1
}

// HistoryEntry is one distinct URL in the watch history.
//
// URL is the deduplication key. Timestamp is set once when the entry is
// created and never touched again.
type HistoryEntry struct {
	URL       string    `json:"url"`
	MediaType MediaType `json:"mediaType"`
	Season    int       `json:"season,omitempty"`
	Episode   int       `json:"episode,omitempty"`
	Timestamp time.Time `json:"-"`
}

// NewHistoryEntry builds an entry for ref stamped with now.
// Season and episode are only kept for series.
func NewHistoryEntry(ref MediaReference, now time.Time) HistoryEntry {
	e := HistoryEntry{
		URL:       ref.SourceURL,
		MediaType: ref.MediaType,
		Timestamp: now,
	}
	if ref.MediaType == MediaSeries {
		e.Season = ref.SeasonOrDefault()
		e.Episode = ref.EpisodeOrDefault()
	}
	return e
}

// Label is the short episode marker shown next to series entries ("S2 - E5").
func (e HistoryEntry) Label() string {
	if e.MediaType != MediaSeries {
		return ""
	}
	return fmt.Sprintf("S%d - E%d", e.Season, e.Episode)
}

// MediaFilter narrows a history listing.
type MediaFilter string

const (
	FilterAll    MediaFilter = "all"
	FilterMovie  MediaFilter = "movie"
	FilterSeries MediaFilter = "series"
)

// ParseMediaFilter maps a query value to a filter. Empty means all.
func ParseMediaFilter(s string) (MediaFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "movie":
		return FilterMovie, nil
	case "series", "tv":
		return FilterSeries, nil
	default:
		return "", fmt.Errorf("unknown history filter %q", s)
	}
}
