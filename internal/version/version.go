package version

import "fmt"

// Version contains the application version information.
// Set via ldflags in release builds:
// go build -ldflags "-X git.home.luguber.info/inful/mdsite/internal/version.Version=v0.3.0".
var Version = "unknown"

// Build metadata, also set via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns the version line printed by `mdsite --version`.
func String() string {
	return fmt.Sprintf("mdsite %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
