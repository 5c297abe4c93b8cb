// Package config loads, normalizes, and validates breakstretch configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads an optional TOML file from
// ~/.config/breakstretch/config.toml or ./breakstretch.toml. Command-line
// flags override these values per invocation; the resulting settings are
// frozen into one options bundle before any file is processed.
package config
