// Package version exposes build version information for the bridge.
package version

import (
	"runtime/debug"
	"strings"
	"time"
)

// Product is the name reported in user agents and diagnostics.
const Product = "stewardtrack-bridge"

// Set at build time through -ldflags, e.g.
//
//	-X .../version.Version=1.4.0 -X .../version.GitCommit=$(git rev-parse --short HEAD)
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info is the resolved version of the running binary.
type Info struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"gitCommit"`
	GoVersion string    `json:"goVersion"`
	BuildDate time.Time `json:"buildDate"`
	IsRelease bool      `json:"isRelease"`
	IsDirty   bool      `json:"isDirty"`
}

// Get resolves version information from the ldflags variables, with
// the binary's embedded VCS build info filling any gaps.
func Get() *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
		BuildDate: parseBuildTime(BuildTime),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion

	vcs := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		vcs[s.Key] = s.Value
	}
	if info.GitCommit == "" {
		info.GitCommit = shortCommit(vcs["vcs.revision"])
	}
	info.IsDirty = vcs["vcs.modified"] == "true"
	if info.BuildDate.IsZero() {
		info.BuildDate = parseBuildTime(vcs["vcs.time"])
	}

	return info
}

// Short returns a compact version string such as "1.2.0-abc1234",
// with a -dirty suffix for builds from a modified tree.
func Short() string {
	info := Get()
	if info.GitCommit == "" {
		return info.Version
	}
	s := info.Version + "-" + info.GitCommit
	if info.IsDirty {
		s += "-dirty"
	}
	return s
}

// UserAgent returns the User-Agent value the sync transport sends,
// e.g. "stewardtrack-bridge/1.2.0".
func UserAgent() string {
	return Product + "/" + Version
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

func parseBuildTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
