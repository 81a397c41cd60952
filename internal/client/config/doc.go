// Package config loads runtime configuration for the DataShare CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file given with -c/--config (or DATASHARE_CONFIG):
//     .toml files are read with BurntSushi/toml, anything else as JSON.
//  3. DATASHARE_* environment variables (see (*Config).LoadEnv).
//  4. Command-line flags (see RegisterFlags and (*Config).ApplyFlags).
//
// Durations use timex.Duration in files, so "10s" and integer nanoseconds
// both work:
//
//	store = "sqlite"
//	database_dsn = "datashare.db"
//	identity_provider = "remote"
//	identity_api_key = "..."
//	request_timeout = "5s"
//
// Validate must be called once all sources are applied.
package config
