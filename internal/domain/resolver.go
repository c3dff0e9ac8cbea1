package domain

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	imdbHost = "imdb.com"
	tmdbHost = "themoviedb.org"
)

var (
	imdbIDPattern = regexp.MustCompile(`^tt\d+$`)
	tmdbIDPattern = regexp.MustCompile(`^\d+$`)
)

var noIdentifier = ResolvedIdentifier{Type: IDTypeNone}

// Resolve extracts a catalogue identifier from a pasted IMDb or TMDb URL.
// It never fails: anything it cannot make sense of resolves to IDTypeNone.
//
// Examples:
//   - "https://www.imdb.com/title/tt1132124/"              -> tt1132124 (imdb)
//   - "https://m.imdb.com/de/title/tt1132124/reference"     -> tt1132124 (imdb)
//   - "https://www.themoviedb.org/movie/111-scarface"       -> 111 (tmdb)
//   - "https://www.themoviedb.org/tv/1399-game-of-thrones/" -> 1399 (tmdb)
func Resolve(raw string) ResolvedIdentifier {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return noIdentifier
	}

	host := strings.ToLower(u.Hostname())
	segments := splitAndClean(u.EscapedPath(), "/")

	switch {
	case strings.Contains(host, imdbHost):
		return resolveIMDb(segments)
	case strings.Contains(host, tmdbHost):
		return resolveTMDb(segments)
	default:
		return noIdentifier
	}
}

// resolveIMDb takes the segment right after the first "title" segment,
// wherever it sits (localized paths like /de/title/tt.. are common).
func resolveIMDb(segments []string) ResolvedIdentifier {
	for i, seg := range segments {
		if seg != "title" {
			continue
		}
		if i+1 < len(segments) && imdbIDPattern.MatchString(segments[i+1]) {
			return ResolvedIdentifier{ID: segments[i+1], Type: IDTypeIMDb}
		}
		return noIdentifier
	}
	return noIdentifier
}

// resolveTMDb expects /movie/{id} or /tv/{id}, where {id} may carry a "-slug" suffix.
func resolveTMDb(segments []string) ResolvedIdentifier {
	if len(segments) < 2 {
		return noIdentifier
	}
	if segments[0] != "movie" && segments[0] != "tv" {
		return noIdentifier
	}

	id, _, _ := strings.Cut(segments[1], "-")
	if !tmdbIDPattern.MatchString(id) {
		return noIdentifier
	}
	return ResolvedIdentifier{ID: id, Type: IDTypeTMDb}
}

// splitAndClean splits a string by separator and returns non-empty parts
func splitAndClean(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
