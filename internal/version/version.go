// Package version carries build metadata for the swiftconcur CLI.
package version

import (
	"runtime"
	"runtime/debug"

	"github.com/fatih/color"
)

// These variables can be overridden at build time via -ldflags "-X ...".
var (
	// Version is the semantic version of the CLI.
	Version = "0.3.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Info is the JSON form printed by `swiftconcur version --format json`.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
}

// Current collects the version variables, falling back to the VCS data the
// Go toolchain embeds when no -ldflags were given.
func Current() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = s.Value
				}
			case "vcs.time":
				if info.BuildDate == "" {
					info.BuildDate = s.Value
				}
			}
		}
	}
	return info
}

var (
	nameColor    = color.New(color.FgCyan, color.Bold)
	versionColor = color.New(color.FgYellow, color.Bold)
	metaColor    = color.New(color.Faint)
)

// Pretty renders the one-line human form, coloured when color output is on.
func (i Info) Pretty() string {
	s := nameColor.Sprint("swiftconcur") + " " + versionColor.Sprint(i.Version)
	if i.GitCommit != "" {
		commit := i.GitCommit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		s += metaColor.Sprint(" (" + commit + ")")
	}
	if i.BuildDate != "" {
		s += metaColor.Sprint(" built " + i.BuildDate)
	}
	return s + metaColor.Sprint(" "+i.GoVersion)
}
