// Package version provides version information for qstart.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// cueModule is the CUE SDK module path, used to read its version from the
// build info.
const cueModule = "cuelang.org/go"

// fallbackCUEVersion is reported when build info is unavailable, e.g. in
// tests.
const fallbackCUEVersion = "v0.15.4"

// Info contains version information.
type Info struct {
	Version       string `json:"version"`
	GitCommit     string `json:"gitCommit"`
	BuildDate     string `json:"buildDate"`
	GoVersion     string `json:"goVersion"`
	CUESDKVersion string `json:"cueSDKVersion"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:       Version,
		GitCommit:     GitCommit,
		BuildDate:     BuildDate,
		GoVersion:     runtime.Version(),
		CUESDKVersion: cueSDKVersion(debug.ReadBuildInfo),
	}
}

func cueSDKVersion(read func() (*debug.BuildInfo, bool)) string {
	info, ok := read()
	if !ok {
		return fallbackCUEVersion
	}
	for _, dep := range info.Deps {
		if dep.Path != cueModule {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return fallbackCUEVersion
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("qstart %s\n  Commit:   %s\n  Built:    %s\n  Go:       %s\n  CUE SDK:  %s",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.CUESDKVersion)
}
