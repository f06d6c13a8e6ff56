// Package preflight provides readiness checks for the files and directories
// the export and reconcile pipelines touch.
//
// Checks return Result values rather than errors so the CLI can print every
// failure; Err collapses a result set into the first classified error for
// workflow code that needs to abort.
package preflight
