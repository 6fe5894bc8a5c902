// Package version carries the build identification stamped in at link time.
package version

// Set via -ldflags at build time.
var (
	// Version is the release tag of the binary.
	Version = "dev"

	// Commit is the git hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)
