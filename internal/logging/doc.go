// Package logging assembles structured slog loggers and formatting helpers used
// across the correction pipeline and the CLI.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing (including per-component level overrides), and exposes attribute
// helpers so analyzers and the normalizer emit fields with the same keys.
// Component loggers built from a nil base discard everything, which suits tests
// and library callers that pass nil.
//
// Prefer these constructors over hand-rolled slog setup so every component
// logs with the same shape.
package logging
