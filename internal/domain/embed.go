package domain

import (
	"fmt"
	"strings"
)

// DefaultEmbedHost is the streaming provider used when none is configured.
const DefaultEmbedHost = "https://vidsrc.xyz"

// EmbedBuilder turns a resolved identifier into a player URL on Host.
type EmbedBuilder struct {
	host string
}

// NewEmbedBuilder creates a builder for the given provider base URL.
// An empty host falls back to DefaultEmbedHost.
func NewEmbedBuilder(host string) EmbedBuilder {
	host = strings.TrimSpace(host)
	if host == "" {
		host = DefaultEmbedHost
	}
	return EmbedBuilder{host: strings.TrimSuffix(host, "/")}
}

// Host returns the provider base URL without trailing slash.
func (b EmbedBuilder) Host() string { return b.host }

// Build returns the player URL for ref, or false when nothing was resolved.
//
//	movie:  {host}/embed/movie?imdb=tt1132124
//	series: {host}/embed/tv?tmdb=1399&season=2&episode=5
func (b EmbedBuilder) Build(resolved ResolvedIdentifier, ref MediaReference) (string, bool) {
	if !resolved.Found() {
		return "", false
	}

	param := fmt.Sprintf("%s=%s", resolved.Type, resolved.ID)
	if ref.MediaType != MediaSeries {
		return fmt.Sprintf("%s/embed/movie?%s", b.host, param), true
	}

	return fmt.Sprintf("%s/embed/tv?%s&season=%d&episode=%d",
		b.host, param, ref.SeasonOrDefault(), ref.EpisodeOrDefault()), true
}
