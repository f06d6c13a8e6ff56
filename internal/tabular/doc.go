// Package tabular defines the row shape shared by the spreadsheet exporter and
// the HTML reconciler.
//
// Cells are typed opportunistically by Parse so that a value read from a
// workbook and the same value read back from an exported HTML table compare
// equal. Tables keep column order; rows are looked up by column name.
package tabular
