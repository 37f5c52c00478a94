package version

import "fmt"

// Set at build time through -ldflags.
var (
	version   string
	commit    string
	buildTime string
)

// Version returns the version of this build, "dev" for untagged ones.
func Version() string {
	if version == "" {
		return "dev"
	}
	return version
}

// String returns the full human readable build description.
func String() string {
	return fmt.Sprintf("version: %s, commit: %s, built: %s", Version(), commit, buildTime)
}
