package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/viddst/internal/httpserver/deps"
	"github.com/MrSnakeDoc/viddst/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/viddst/internal/httpserver/mw"
)

func init() { Register(registerRefresh) }

func registerRefresh(r chi.Router, d deps.Deps) {
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)).Post("/api/history/refresh", handlers.RefreshHistory(d))
}
