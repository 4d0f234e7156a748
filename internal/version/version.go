// Package version is the single source of truth for version information.
package version

// Version is the application version.
// Release builds override this via -ldflags "-X .../internal/version.Version=vX.Y.Z".
var Version = "v0.2.0-dev"

// BuildTime is the build date, injected at release time.
var BuildTime = "2026-08-20"
