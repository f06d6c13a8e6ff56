// Package main hosts the glassinv CLI entrypoint and command graph.
//
// The Cobra command tree exposes the spreadsheet exporter, the inventory
// reconciler, and configuration scaffolding. It resolves configuration,
// mints the per-invocation run ID, and builds the logger so the internal
// export and reconcile packages receive ready-to-use options.
//
// Keep this package lean: behaviour belongs in the internal packages, and
// commands here only translate flags into options and results into text.
package main
