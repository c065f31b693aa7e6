package version

// OptimistVersion is the current semantic version of the light client.
// TODO: set via -ldflags "-X github.com/optimist-light/optimist/version.OptimistVersion=..." in release builds.
var OptimistVersion = "0.1.0-dev"
