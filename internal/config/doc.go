// Package config loads, normalizes, and validates trophyd configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TROPHYD_STATS_FILE. The Config type centralizes every knob the daemon and
// CLI need, so watched/written file locations and daemon state paths are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
