// Package reconcile merges an exported HTML inventory table into the JSON
// inventory store.
//
// Merge is pure: it indexes the stored records by lookup key, applies every
// incoming row (updating a match or creating a record), then sweeps the
// records no row touched into the output unchanged. Run wraps Merge with the
// file workflow: preflight checks, a committed backup of the store, parsing,
// a tolerant load, and an atomic write of the result.
package reconcile
