// Package config loads and validates the application configuration
// from defaults, an optional YAML file, and MFG_-prefixed environment
// variables, in increasing order of precedence.
package config
