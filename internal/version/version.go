// Package version reports the build version of ethkit.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Build metadata, set with -ldflags "-X github.com/mrz1836/ethkit/internal/version.Version=v1.2.3".
//
//nolint:gochecknoglobals // ldflags targets must be package-level variables
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// BuildInfo describes one build of the binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the running binary's build info.
func Get() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the version line, with placeholders for unset fields.
func (b BuildInfo) String() string {
	v := b.Version
	if v == "" {
		v = "dev"
	}
	commit := b.Commit
	if commit == "" {
		commit = "unknown"
	}
	date := b.Date
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", v, commit, date)
}

// IsRelease reports whether the build carries a tagged release version
// rather than "dev" or a bare commit hash.
func (b BuildInfo) IsRelease() bool {
	v := NormalizeVersion(b.Version)
	return v != "" && v != "dev" && !isCommitHash(v)
}

// NormalizeVersion removes the 'v' prefix, surrounding whitespace and any
// pre-release or build metadata suffix (-rc1, -dirty, +build).
func NormalizeVersion(version string) string {
	if idx := strings.IndexAny(version, "-+"); idx != -1 {
		version = version[:idx]
	}

	for {
		trimmed := strings.TrimLeft(strings.TrimSpace(version), "v")
		if trimmed == version {
			break
		}
		version = trimmed
	}

	return version
}

// isCommitHash reports whether s looks like a 7-40 character git hash. At
// least one hex letter is required so "1234567" stays a version.
func isCommitHash(s string) bool {
	s = strings.TrimSuffix(s, "-dirty")
	if len(s) < 7 || len(s) > 40 {
		return false
	}

	hasLetter := false
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F'):
			hasLetter = true
		default:
			return false
		}
	}
	return hasLetter
}
