// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config.yaml. It provides
// type-safe access to the server and Gemini settings while keeping
// configuration details separate from business logic.
package config
