package version

import (
	"fmt"
	"runtime"
)

// Version information that can be set at build time:
//
//	go build -ldflags "-X github.com/redhat-appstudio/ops-flow/internal/version.BuildVersion=v1.2.3 \
//	  -X github.com/redhat-appstudio/ops-flow/internal/version.BuildCommit=$(git rev-parse --short HEAD)"
var (
	BuildVersion = "v0.1.0"
	BuildTime    = "unknown"
	BuildCommit  = "unknown"
)

// Info is the build metadata reported by -version.
type Info struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
}

// Get returns the build metadata of the running binary.
func Get() Info {
	return Info{
		Version:   BuildVersion,
		BuildTime: BuildTime,
		Commit:    BuildCommit,
		GoVersion: runtime.Version(),
	}
}

// GetVersion returns the current version string.
func GetVersion() string {
	return BuildVersion
}

// GetBuildInfo returns version, build time, commit and Go version on one line.
func GetBuildInfo() string {
	info := Get()
	return fmt.Sprintf("%s (built: %s, commit: %s, go: %s)",
		info.Version, info.BuildTime, info.Commit, info.GoVersion)
}

// GetShortVersion returns the version without the "v" prefix.
func GetShortVersion() string {
	if len(BuildVersion) > 0 && BuildVersion[0] == 'v' {
		return BuildVersion[1:]
	}
	return BuildVersion
}
