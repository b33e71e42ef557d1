// pkg/version/version.go
// Package version provides version metadata for the application.
package version

import (
	"fmt"
	"runtime"
	"time"

	"github.com/Masterminds/semver/v3"
)

// These variables are typically injected at build time using -ldflags
var (
	// Version holds the current version of uihost.
	Version = "dev"
	// Commit holds the current version commit of uihost.
	Commit = "none"
	// BuildDate holds the build date of uihost.
	BuildDate = "unknown"
	// StartDate holds the start date of uihost.
	StartDate = time.Now()
)

// Struct returns version information in a structured format.
type Struct struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	BuildDate  string `json:"buildDate"`
	GoVersion  string `json:"goVersion"`
	Prerelease bool   `json:"prerelease"`
}

// Info returns a formatted version string.
func Info() string {
	return fmt.Sprintf("uihost %s (commit: %s, date: %s)", Version, Commit, BuildDate)
}

// Get returns version information as a Struct.
func Get() Struct {
	return Struct{
		Version:    Version,
		Commit:     Commit,
		BuildDate:  BuildDate,
		GoVersion:  runtime.Version(),
		Prerelease: IsPrerelease(Version),
	}
}

// Parse parses v as a semantic version. A leading "v" is accepted.
func Parse(v string) (*semver.Version, error) {
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("parse version %q: %w", v, err)
	}
	return parsed, nil
}

// IsPrerelease reports whether v is a development build or carries a
// prerelease suffix. Unparseable versions count as development builds.
func IsPrerelease(v string) bool {
	parsed, err := Parse(v)
	if err != nil {
		return true
	}
	return parsed.Prerelease() != ""
}
