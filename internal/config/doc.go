// Package config loads, normalizes, and validates reelog configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// REELOG_BOT_TOKEN. The Config type centralizes every knob the daemon and CLI
// need, so data directories and the Telegram credential are discovered in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
