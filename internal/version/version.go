// Package version holds build information injected with ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is set with -ldflags "-X github.com/jmylchreest/wallhue/internal/version.Version=x.y.z".
	Version = "dev"

	// Commit is set with -ldflags "-X github.com/jmylchreest/wallhue/internal/version.Commit=$(git rev-parse HEAD)".
	Commit = "unknown"

	// Date is set with -ldflags "-X github.com/jmylchreest/wallhue/internal/version.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)".
	Date = "unknown"

	// GoVersion is the toolchain that built the binary.
	GoVersion = runtime.Version()
)

// Info holds all version information for the application.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetInfo returns all version information as a structured type.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: GoVersion,
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version line.
func String() string {
	info := GetInfo()
	if Commit != "unknown" && Date != "unknown" {
		return fmt.Sprintf("wallhue version %s (commit: %s, built: %s, %s, %s)",
			info.Version, shortCommit(info.Commit), info.Date, info.GoVersion, info.Platform)
	}
	return fmt.Sprintf("wallhue version %s (%s, %s)", info.Version, info.GoVersion, info.Platform)
}

// Short returns only the version number.
func Short() string {
	return Version
}

func shortCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
