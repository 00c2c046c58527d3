package version

import "runtime"

// Version is the current release
const Version = "0.4.0"

// BuildDate is injected at build time with -ldflags "-X ...BuildDate=..."
var BuildDate = "unknown"

// GitCommit is injected at build time with -ldflags "-X ...GitCommit=..."
var GitCommit = "unknown"

// GetVersion returns the release version
func GetVersion() string { return Version }

// GetBuildDate returns the injected build date
func GetBuildDate() string { return BuildDate }

// GetGitCommit returns the injected commit hash
func GetGitCommit() string { return GitCommit }

// GoVersion returns the toolchain the binary was built with
func GoVersion() string { return runtime.Version() }

// Platform returns GOOS/GOARCH
func Platform() string { return runtime.GOOS + "/" + runtime.GOARCH }
