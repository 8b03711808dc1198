// Package config resolves the surveygen client configuration.
//
// Settings come from four layers, later layers winning:
//
//  1. Built-in defaults (base URL "/api", 60 second timeout)
//  2. A YAML file in the OS configuration directory
//  3. Dotenv files (".env"), read with godotenv
//  4. Process environment variables (SURVEYGEN_API_BASE_URL and friends)
//
// Command-line flags are applied on top by the CLI.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/surveygen/config.yaml or $HOME/.config/surveygen/config.yaml
//   - macOS: $HOME/.config/surveygen/config.yaml
//   - Windows: %LOCALAPPDATA%\surveygen\config.yaml
//
// # Example
//
//	version: 1
//	base_url: /api
//	host: http://localhost:5001
//	timeout: 60s
//
// A relative base_url is resolved against host; an absolute base_url is used
// directly and host is ignored.
package config
