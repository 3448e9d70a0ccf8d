package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the application
	Version = "1.0.0"

	// CheckpointFormatVersion is the version of the checkpoint CSV layout
	CheckpointFormatVersion = "v1"

	// ManifestFormatVersion is the version of manifest.json
	ManifestFormatVersion = "v1"
)

var (
	// BuildTime is set during build using ldflags
	BuildTime = "unknown"

	// GitCommit is set during build using ldflags
	GitCommit = "unknown"
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	Version          string `json:"version"`
	BuildTime        string `json:"build_time"`
	GitCommit        string `json:"git_commit"`
	GoVersion        string `json:"go_version"`
	OS               string `json:"os"`
	Architecture     string `json:"architecture"`
	CheckpointFormat string `json:"checkpoint_format"`
	ManifestFormat   string `json:"manifest_format"`
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:          Version,
		BuildTime:        BuildTime,
		GitCommit:        GitCommit,
		GoVersion:        runtime.Version(),
		OS:               runtime.GOOS,
		Architecture:     runtime.GOARCH,
		CheckpointFormat: CheckpointFormatVersion,
		ManifestFormat:   ManifestFormatVersion,
	}
}

// GetFullVersionString returns the name, version and build details on one line
func GetFullVersionString(name string) string {
	info := GetVersionInfo()
	return fmt.Sprintf(
		"%s version %s (built: %s, commit: %s, go: %s, os: %s/%s)",
		name,
		info.Version,
		info.BuildTime,
		info.GitCommit,
		info.GoVersion,
		info.OS,
		info.Architecture,
	)
}
