// Package logging assembles structured slog loggers and formatting helpers used
// across neoncrush.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so encoder and pipeline code can
// tag log lines with the source name, stage, and request ID. A no-op logger is
// provided for tests and library callers that do not care about output.
package logging
