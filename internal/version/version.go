package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the ormsynth CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored renders Version with each numeric component in its own color.
// Anything after the patch number is left plain.
func Colored() string {
	major, rest, ok := strings.Cut(Version, ".")
	if !ok {
		return Version
	}
	minor, rest, ok := strings.Cut(rest, ".")
	if !ok {
		return Version
	}
	patch := rest
	suffix := ""
	if i := strings.IndexAny(rest, "-+"); i >= 0 {
		patch, suffix = rest[:i], rest[i:]
	}
	return versionMajorColor.Sprint(major) + "." + versionMinorColor.Sprint(minor) + "." + versionPatchColor.Sprint(patch) + suffix
}
