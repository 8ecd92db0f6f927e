// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// Build metadata injected at link time via -ldflags.
var (
	// BuiltAt is the RFC 3339 timestamp of the release build.
	BuiltAt = "unknown"

	// BuiltBy identifies the build environment or release pipeline.
	BuiltBy = "unknown"

	// Revision is the abbreviated VCS commit hash the binary was built from.
	Revision = "unknown"
)
