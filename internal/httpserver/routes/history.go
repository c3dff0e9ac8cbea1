package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/viddst/internal/httpserver/deps"
	"github.com/MrSnakeDoc/viddst/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/viddst/internal/httpserver/mw"
)

func init() { Register(registerHistory) }

func registerHistory(r chi.Router, d deps.Deps) {
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	api.Get("/api/history", handlers.History(d))
	api.With(mw.RateLimit(writeLimit(d))).Delete("/api/history", handlers.ClearHistory(d))
}
