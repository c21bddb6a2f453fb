// Package amdb holds application-level metadata shared by the CLI.
package amdb

var (
	// Version is set by build flags.
	Version = "v0.3.1"
	// Build is the build timestamp, set by build flags.
	Build = "n/a"
)
