// Package htmltable renders tabular data as a standalone styled HTML page and
// parses such pages back into tables.
//
// Render and Parse agree on the document shape: the header lives in the
// first <thead> row and each data row is a <tr> inside <tbody>. Cell text is
// re-typed with tabular.Parse on the way in, so rendering a table and parsing
// the result yields the same values.
package htmltable
