// Package version provides the single source of truth for cee version info.
package version

// These variables can be overridden at build time using ldflags:
// go build -ldflags "-X cee/internal/version.Version=1.0.0 -X cee/internal/version.Commit=abc123"
var (
	// Version is the semantic version of cee.
	Version = "1.0.0"

	// Commit is the git commit hash (set at build time).
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time).
	BuildDate = "unknown"
)

// Info returns a short version string.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns the complete version block.
func Full() string {
	return "cee version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
