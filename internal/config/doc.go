// Package config loads, normalizes, and validates neoncrush configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// NEONCRUSH_CHROME_PATH. The Config type centralizes every knob the encoder,
// renderer, and CLI need so output directories and encoder tuning are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
