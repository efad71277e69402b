// Package config loads and validates the bookferry TOML configuration.
//
// Configuration is resolved from an explicit path, then
// ~/.config/bookferry/config.toml, then ./bookferry.toml. Secrets may
// come from the environment (optionally via a .env file) instead of the
// config file.
package config
