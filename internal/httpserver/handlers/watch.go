package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/viddst/internal/httpserver/deps"
	"github.com/MrSnakeDoc/viddst/internal/logger"
)

const maxWatchBody = 16 << 10

type watchRequest struct {
	URL       string          `json:"url"`
	MediaType string          `json:"mediaType"`
	Season    json.RawMessage `json:"season,omitempty"`
	Episode   json.RawMessage `json:"episode,omitempty"`
}

type watchResponse struct {
	embedResponse
	Recorded bool `json:"recorded"`
}

// Watch resolves the posted URL, builds the player URL and records the
// source URL in history. Unresolvable URLs answer 422 and are not recorded.
func Watch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxWatchBody)

		var req watchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, "invalid JSON body")
			return
		}

		ref, errMsg := parseReference(req.URL, req.MediaType, numberText(req.Season), numberText(req.Episode))
		if errMsg != "" {
			writeError(w, d.Logger, http.StatusBadRequest, errMsg)
			return
		}

		resp := watchResponse{embedResponse: newEmbedResponse(d.Embed, ref)}
		if resp.EmbedURL == nil {
			writeJSON(w, d.Logger, http.StatusUnprocessableEntity, resp)
			return
		}

		recorded, err := d.History.Record(r.Context(), ref)
		if err != nil {
			// The player URL is still good; history is best effort for the caller.
			d.Logger.Error("failed to record history",
				logger.String("url", ref.SourceURL),
				logger.Error(err))
		}
		resp.Recorded = recorded

		status := http.StatusOK
		if recorded {
			status = http.StatusCreated
		}
		writeJSON(w, d.Logger, status, resp)
	}
}

// numberText accepts 2, "2" and null for season/episode fields.
func numberText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if s, err := strconv.Unquote(string(raw)); err == nil {
		return s
	}
	return string(raw)
}
