// Package version provides build information for nescore
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

var (
	// These will be set at build time via -ldflags
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// BuildInfo contains build information
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Modified  bool   `json:"modified"`
}

// GetBuildInfo merges the -ldflags values with the VCS stamp of the binary
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.GitCommit == "unknown" {
					info.GitCommit = setting.Value
				}
			case "vcs.time":
				if info.BuildTime == "unknown" {
					info.BuildTime = setting.Value
				}
			case "vcs.modified":
				info.Modified = setting.Value == "true"
			}
		}
	}
	return info
}

// String returns a one-line version, e.g. "nescore dev-1a2b3c4 (go1.23.4 linux/amd64)"
func (b BuildInfo) String() string {
	v := b.Version
	if v == "dev" && len(b.GitCommit) >= 7 && b.GitCommit != "unknown" {
		v += "-" + b.GitCommit[:7]
		if b.Modified {
			v += "+dirty"
		}
	}
	return fmt.Sprintf("nescore %s (%s %s)", v, b.GoVersion, b.Platform)
}

// Write prints the full build information
func (b BuildInfo) Write(w io.Writer) {
	fmt.Fprintf(w, "nescore - NES CPU/PPU core\n")
	fmt.Fprintf(w, "Version:     %s\n", b.Version)
	fmt.Fprintf(w, "Git Commit:  %s\n", b.GitCommit)
	fmt.Fprintf(w, "Build Time:  %s\n", b.BuildTime)
	fmt.Fprintf(w, "Go Version:  %s\n", b.GoVersion)
	fmt.Fprintf(w, "Platform:    %s\n", b.Platform)
}
