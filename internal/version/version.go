// Package version tracks the server release version.
package version

import (
	"fmt"
)

// Version is the semver release, bumped on release.
var Version = "0.3.0"

// DevVersion is the developer build marker.
var DevVersion = fmt.Sprintf("%s-dev", Version)

// GetCurrentVersion returns the version string for the given mode.
func GetCurrentVersion(mode string) string {
	if mode == "dev" {
		return DevVersion
	}
	return Version
}
