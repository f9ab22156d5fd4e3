// Package config defines the application's typed configuration and loads
// it from environment variables (TASKNEST_ prefix) and an optional YAML
// config file, validating the result before the server starts.
package config
