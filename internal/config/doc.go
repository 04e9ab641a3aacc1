// Package config handles loading and validation of gitscan configuration.
//
// Configuration is read from ~/.config/gitscan/config.toml, or the file
// named by GITSCAN_CONFIG. A missing file means defaults; a malformed one is
// an error.
//
// # Configuration Sources (highest priority first)
//
//   - Command line flags
//   - GITSCAN_GIT_BACKEND env var: status backend ("cli" or "go-git")
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - status: default --status filter ("all", "novel", "boring")
//   - jobs: parallel foreach invocations
//   - timeout: per-invocation limit, a duration string like "5m"
//   - shell: shell that runs the foreach command (default "sh")
//   - nested, follow_symlinks: scanner behavior
//   - skip: directory name globs never entered
//
// # Per-root Configuration
//
// A .gitscan.toml at the top of a scanned path may add skip patterns for
// that path only:
//
//	skip = ["vendor", "third_party"]
//
// Patterns are appended to the global list, duplicates dropped.
package config
