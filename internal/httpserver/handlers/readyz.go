package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/viddst/internal/httpserver/deps"
	"github.com/MrSnakeDoc/viddst/internal/logger"
)

const readyzTimeout = 2 * time.Second

type readyzResponse struct {
	Ready   bool   `json:"ready"`
	Backend string `json:"backend"`
	Error   string `json:"error,omitempty"`
}

// Readyz reports whether the history backend answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
		defer cancel()

		if err := d.History.Ping(ctx); err != nil {
			d.Logger.Warn("readiness check failed",
				logger.String("backend", d.HistoryBackend),
				logger.Error(err))
			writeJSON(w, d.Logger, http.StatusServiceUnavailable, readyzResponse{
				Backend: d.HistoryBackend,
				Error:   "history backend unavailable",
			})
			return
		}

		writeJSON(w, d.Logger, http.StatusOK, readyzResponse{
			Ready:   true,
			Backend: d.HistoryBackend,
		})
	}
}
