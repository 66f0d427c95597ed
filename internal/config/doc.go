// Package config loads, normalizes, and validates subfix configuration data.
//
// It supplies repository defaults for every analysis band, fusion threshold
// and normalization limit, reads TOML files, expands user paths (including
// tilde shortcuts), and honours environment fallbacks such as
// SUBFIX_LOG_LEVEL. The thresholds shipped here are empirical; the sample
// config documents which ones need recalibration for a new audio corpus.
//
// Always obtain settings through this package so downstream code receives
// sanitized values and clear validation errors.
package config
