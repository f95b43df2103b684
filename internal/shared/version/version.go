// Package version carries build metadata, overridable via -ldflags.
package version

import "github.com/fatih/color"

var (
	versionColor = color.New(color.FgGreen, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// String renders the version with whatever build metadata is set.
func String() string {
	s := versionColor.Sprint(Version)
	if GitCommit != "" {
		s += " (" + GitCommit + ")"
	}
	if BuildDate != "" {
		s += " built " + BuildDate
	}
	return s
}
