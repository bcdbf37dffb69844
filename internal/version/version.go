// Package version holds build metadata for the cmakegen CLI.
// The variables can be overridden at build time via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Info is the serialisable form of the build metadata.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// Current returns the metadata baked into this binary.
func Current() Info {
	return Info{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
}

// Colored renders v with major, minor and patch in distinct colors.
// Anything that is not a dotted triple is returned unchanged.
func Colored(v string, enabled bool) string {
	core, suffix := v, ""
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		core, suffix = v[:i], v[i:]
	}
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return v
	}
	palette := []*color.Color{
		color.New(color.FgYellow, color.Bold),
		color.New(color.FgGreen, color.Bold),
		color.New(color.FgBlue, color.Bold),
	}
	for i, c := range palette {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		parts[i] = c.Sprint(parts[i])
	}
	return strings.Join(parts, ".") + suffix
}

// String renders the one-line version banner.
func (i Info) String() string {
	var sb strings.Builder
	sb.WriteString("cmakegen ")
	sb.WriteString(i.Version)
	if i.GitCommit != "" {
		sb.WriteString(" (" + i.GitCommit + ")")
	}
	if i.BuildDate != "" {
		sb.WriteString(" built " + i.BuildDate)
	}
	return sb.String()
}
