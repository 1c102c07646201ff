// Package version holds build identification, injected at link time via
// -ldflags "-X".
package version

import "fmt"

var (
	// Version is the release version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
)

// String renders the build identification for -version output.
func String() string {
	return fmt.Sprintf("%s (%s)", Version, GitSHA)
}
