package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/viddst/internal/httpserver/deps"
	"github.com/MrSnakeDoc/viddst/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/viddst/internal/httpserver/mw"
)

func init() { Register(registerEmbed) }

func registerEmbed(r chi.Router, d deps.Deps) {
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Get("/api/embed", handlers.Embed(d))
}
