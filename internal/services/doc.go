// Package services defines shared utilities consumed by the export and
// reconcile workflows.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and stage names for logging.
//   - Structured error markers plus the Wrap helper that classify failures as
//     missing input, unparseable input, skipped rows, bad configuration, or
//     write failures, and map them to CLI exit codes.
//
// Use these helpers when wiring new pipeline steps so error handling and
// observability stay uniform across both workflows.
package services
