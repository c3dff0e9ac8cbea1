package deps

import (
	"time"

	"github.com/MrSnakeDoc/viddst/internal/domain"
	"github.com/MrSnakeDoc/viddst/internal/history"
	"github.com/MrSnakeDoc/viddst/internal/logger"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time    // for testing, defaults to time.Now
	AllowedHosts   []string            // Host headers allowed to access the API
	AllowedCIDRS   []string            // IPs allowed to access healthz/readyz endpoints
	TrustProxy     bool                // true if running behind a trusted reverse proxy (e.g., cloudflared)
	History        *history.Store      // Watch history
	HistoryBackend string              // Backend name, reported by readyz
	RefreshTrigger chan<- struct{}     // Manual history refresh, may be nil
	Embed          domain.EmbedBuilder // Player URL builder for the configured provider
	RateBurst      int                 // Token bucket size for write endpoints
	RatePerMin     int                 // Token refill per client IP per minute
}

// Now returns the injected clock or time.Now.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
