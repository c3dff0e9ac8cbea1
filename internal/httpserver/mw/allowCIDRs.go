package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/viddst/internal/logger"
	"github.com/MrSnakeDoc/viddst/internal/utils"
)

// AllowOnlyCIDRS lets through only clients whose address is in allowed
// (single IPs or CIDRs). An empty list disables the check.
// Set trustProxy only when running behind a trusted reverse proxy or tunnel.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Debug("client address rejected",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path),
					logger.Bool("trust_proxy", trustProxy))
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
