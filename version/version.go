// Package version reports build information for the typemockr binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/nicu/typemockr/entity"
)

// Build information, set at build time via ldflags.
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	Version    = "dev"
)

// Info contains version and build information
type Info struct {
	Version    string `json:"version" yaml:"version"`
	CommitHash string `json:"commit_hash" yaml:"commit_hash"`
	BuildTime  string `json:"build_time" yaml:"build_time"`
	GoVersion  string `json:"go_version" yaml:"go_version"`
	Platform   string `json:"platform" yaml:"platform"`

	// GraphFormat is the graph document version range this build reads.
	GraphFormat string `json:"graph_format" yaml:"graph_format"`
}

// Get returns the current version information. Without ldflags, the module
// version and VCS revision recorded by the Go toolchain are used.
func Get() Info {
	info := Info{
		Version:     Version,
		CommitHash:  CommitHash,
		BuildTime:   BuildTime,
		GoVersion:   runtime.Version(),
		Platform:    fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		GraphFormat: entity.SupportedVersions,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.CommitHash == "dev":
				info.CommitHash = s.Value
			case s.Key == "vcs.time" && info.BuildTime == "unknown":
				info.BuildTime = s.Value
			}
		}
	}
	return info
}

// String returns a human-readable version string
func (i Info) String() string {
	return fmt.Sprintf("typemockr %s (commit %s, built %s, graph format %s)", i.Version, i.Short(), i.BuildTime, i.GraphFormat)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
