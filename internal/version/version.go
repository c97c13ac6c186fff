// Package version holds the single source of truth for the CLI's
// reported version, grounded on internal/version/version.go's
// single-constant shape.
package version

// Current is the precomputer's reported version.
const Current = "v0.1.0"

// AppName is the binary's display name.
const AppName = "skypie-oracle"
