package version

import (
	"fmt"
	"runtime"
)

// Set at build time with -ldflags "-X github.com/MrSnakeDoc/viddst/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
	GoVersion = runtime.Version()
)

// String is the one-line banner printed by --version.
func String() string {
	return fmt.Sprintf("viddst %s (commit %s, built %s, %s)", Version, Commit, BuildDate, GoVersion)
}
