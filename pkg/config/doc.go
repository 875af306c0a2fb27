// Package config handles configuration management for yamlmerge.
// It layers embedded defaults, the user and project TOML files,
// environment variables and command-line flags with koanf, and turns the
// result into merge options.
package config
