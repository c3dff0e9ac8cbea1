package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/viddst/internal/httpserver/deps"
)

type refreshResponse struct {
	Queued bool `json:"queued"`
}

// RefreshHistory asks the background refresher to re-read the backend.
// A refresh already pending absorbs the request.
func RefreshHistory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.RefreshTrigger == nil {
			writeError(w, d.Logger, http.StatusServiceUnavailable, "history refresh disabled")
			return
		}

		select {
		case d.RefreshTrigger <- struct{}{}:
			d.Logger.Debug("history refresh queued")
			writeJSON(w, d.Logger, http.StatusAccepted, refreshResponse{Queued: true})
		default:
			writeJSON(w, d.Logger, http.StatusAccepted, refreshResponse{Queued: false})
		}
	}
}
