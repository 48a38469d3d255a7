// Package config loads and persists filesorter settings.
//
// Settings live in a TOML file under the user config directory and are merged
// field by field over DefaultConfig, so a partial file only overrides what it
// names. Command-line flags are applied last. The package also owns the
// category table (embedded categories.toml, optionally replaced by a user
// file) and language resolution.
package config
