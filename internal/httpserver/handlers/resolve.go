package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/viddst/internal/domain"
	"github.com/MrSnakeDoc/viddst/internal/httpserver/deps"
)

// Resolve reports the identifier found in ?url=. Unrecognised input is not an
// error: it answers 200 with idType "none".
func Resolve(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resolved := domain.Resolve(r.URL.Query().Get("url"))
		writeJSON(w, d.Logger, http.StatusOK, resolved)
	}
}
