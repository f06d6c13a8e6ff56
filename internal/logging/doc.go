// Package logging assembles structured slog loggers and formatting helpers used
// by the glassinv pipelines.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with the stage and run identifier. Console output is human-oriented:
// a header line per record followed by indented key/value detail lines.
//
// All output is written to stderr (plus an optional log file) so command
// results printed on stdout stay machine-readable.
package logging
