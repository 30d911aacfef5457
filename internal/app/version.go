package app

import "github.com/prometheus/common/version"

// Version is the semantic version of gardenreach, set at build time via -ldflags.
var Version = "dev"

// Build is the git commit hash or build identifier, set at build time via -ldflags.
var Build = "unknown"

// VersionReport returns the multi-line build description printed by the CLI.
func VersionReport() string {
	publishBuildInfo()
	return version.Print("gardenreach")
}

// publishBuildInfo copies the ldflags values into the fields read by the
// build info collector.
func publishBuildInfo() {
	version.Version = Version
	version.Revision = Build
}
