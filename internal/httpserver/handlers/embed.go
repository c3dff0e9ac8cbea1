package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/viddst/internal/domain"
	"github.com/MrSnakeDoc/viddst/internal/httpserver/deps"
	"github.com/MrSnakeDoc/viddst/internal/logger"
)

type embedResponse struct {
	ID        string           `json:"id"`
	IDType    domain.IDType    `json:"idType"`
	EmbedURL  *string          `json:"embedUrl"`
	SourceURL string           `json:"sourceUrl"`
	MediaType domain.MediaType `json:"mediaType"`
	Season    int              `json:"season,omitempty"`
	Episode   int              `json:"episode,omitempty"`
}

func newEmbedResponse(b domain.EmbedBuilder, ref domain.MediaReference) embedResponse {
	resolved := domain.Resolve(ref.SourceURL)
	resp := embedResponse{
		ID:        resolved.ID,
		IDType:    resolved.Type,
		SourceURL: ref.SourceURL,
		MediaType: ref.MediaType,
	}
	if ref.MediaType == domain.MediaSeries {
		resp.Season = ref.SeasonOrDefault()
		resp.Episode = ref.EpisodeOrDefault()
	}
	if embedURL, ok := b.Build(resolved, ref); ok {
		resp.EmbedURL = &embedURL
	}
	return resp
}

// Embed previews the player URL for the query without recording anything.
// Safe to call on every keystroke.
//
//	GET /api/embed?url=...&type=series&season=2&episode=5
func Embed(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		ref, errMsg := parseReference(q.Get("url"), q.Get("type"), q.Get("season"), q.Get("episode"))
		if errMsg != "" {
			writeError(w, d.Logger, http.StatusBadRequest, errMsg)
			return
		}

		resp := newEmbedResponse(d.Embed, ref)
		if resp.EmbedURL == nil {
			d.Logger.Debug("no identifier in embed request",
				logger.String("url", ref.SourceURL))
		}
		writeJSON(w, d.Logger, http.StatusOK, resp)
	}
}

func parseReference(rawURL, rawType, rawSeason, rawEpisode string) (domain.MediaReference, string) {
	mediaType, err := domain.ParseMediaType(rawType)
	if err != nil {
		return domain.MediaReference{}, "type must be movie or series"
	}
	season, ok := parsePositive(rawSeason)
	if !ok {
		return domain.MediaReference{}, "season must be a positive integer"
	}
	episode, ok := parsePositive(rawEpisode)
	if !ok {
		return domain.MediaReference{}, "episode must be a positive integer"
	}
	return domain.MediaReference{
		SourceURL: rawURL,
		MediaType: mediaType,
		Season:    season,
		Episode:   episode,
	}, ""
}
