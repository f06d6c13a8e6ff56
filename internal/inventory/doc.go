// Package inventory models glass inventory records and their JSON store.
//
// Records are kept as ordered raw JSON fields so a load/save cycle never
// drops or reorders data the tool does not understand. Records that are not
// modified are written back from the bytes they were loaded from.
//
// Identity is derived, not stored: LookupKey combines the dimensions with a
// normalized color slug, and GlassID appends the "_group" suffix used for
// newly created records.
package inventory
