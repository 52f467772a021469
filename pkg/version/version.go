// Package version provides build version information.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the semantic version (set by build flags)
	Version = "dev"

	// GitCommit is the git commit hash (set by build flags)
	GitCommit = "unknown"

	// BuildDate is the build timestamp (set by build flags)
	BuildDate = "unknown"

	// GoVersion is the Go version used to build
	GoVersion = runtime.Version()
)

// String returns a one-line summary, e.g. "callprof dev (unknown, go1.25.0)".
func String() string {
	return fmt.Sprintf("callprof %s (%s, %s)", Version, GitCommit, GoVersion)
}
