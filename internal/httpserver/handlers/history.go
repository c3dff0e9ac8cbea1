package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/viddst/internal/domain"
	"github.com/MrSnakeDoc/viddst/internal/history"
	"github.com/MrSnakeDoc/viddst/internal/httpserver/deps"
	"github.com/MrSnakeDoc/viddst/internal/logger"
)

type historyItem struct {
	URL          string           `json:"url"`
	MediaType    domain.MediaType `json:"mediaType"`
	Season       int              `json:"season,omitempty"`
	Episode      int              `json:"episode,omitempty"`
	Timestamp    int64            `json:"timestamp"`
	RelativeTime string           `json:"relativeTime"`
	Label        string           `json:"label,omitempty"`
}

type historyResponse struct {
	Filter domain.MediaFilter `json:"filter"`
	Count  int                `json:"count"`
	Items  []historyItem      `json:"items"`
}

// History lists watched URLs, newest first.
//
//	GET /api/history?type=all|movie|series
func History(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := domain.ParseMediaFilter(r.URL.Query().Get("type"))
		if err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, "type must be all, movie or series")
			return
		}

		entries := history.Filter(d.History.Load(r.Context()), filter)
		now := d.Now()

		items := make([]historyItem, 0, len(entries))
		for _, e := range entries {
			items = append(items, historyItem{
				URL:          e.URL,
				MediaType:    e.MediaType,
				Season:       e.Season,
				Episode:      e.Episode,
				Timestamp:    e.Timestamp.UnixMilli(),
				RelativeTime: domain.RelativeTime(e.Timestamp, now),
				Label:        e.Label(),
			})
		}

		writeJSON(w, d.Logger, http.StatusOK, historyResponse{
			Filter: filter,
			Count:  len(items),
			Items:  items,
		})
	}
}

// ClearHistory erases every entry.
func ClearHistory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.History.Clear(r.Context()); err != nil {
			d.Logger.Error("failed to clear history", logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, "failed to clear history")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
