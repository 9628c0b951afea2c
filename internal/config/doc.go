// Package config loads client settings.
//
// Sources, lowest priority first:
// 1. Built-in defaults
// 2. User config file (~/.tada/config.toml)
// 3. Project config file (tada.toml or .tada.toml in the working directory)
// 4. Environment variables (TADA_*)
// 5. CLI flags
package config
