// Package config loads, normalizes, and validates glassinv configuration data.
//
// It supplies repository defaults (the conventional HTML source and JSON
// target paths, the incoming column names, the known-project vocabulary),
// expands user paths including tilde shortcuts, reads TOML files, and honours
// the GLASSINV_LOG_LEVEL environment override. Default file locations live
// here rather than in package-level state of the workflows so every run
// receives them explicitly.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
