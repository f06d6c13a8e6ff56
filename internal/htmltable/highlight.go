package htmltable

import (
	"strings"

	"glassinv/internal/tabular"
)

// Row classes applied by Highlighter.
const (
	ClassReserved  = "reserved"
	ClassZeroStock = "zero-stock"
)

// Highlighter decides the CSS class of a rendered row.
type Highlighter struct {
	// ReservedKeywords mark a row as reserved when any cell contains one
	// (case-insensitive).
	ReservedKeywords []string
	// StockColumns name (case-insensitive) the columns whose literal "0"
	// marks a row as out of stock.
	StockColumns []string
}

// Classify returns ClassReserved, ClassZeroStock, or "" for one row. Reserved
// takes precedence.
func (h Highlighter) Classify(columns []string, cells []tabular.Value) string {
	stock := make(map[string]struct{}, len(h.StockColumns))
	for _, name := range h.StockColumns {
		stock[strings.ToUpper(strings.TrimSpace(name))] = struct{}{}
	}

	zero := false
	for i, cell := range cells {
		text := cell.String()
		upper := strings.ToUpper(text)
		for _, keyword := range h.ReservedKeywords {
			if keyword != "" && strings.Contains(upper, strings.ToUpper(keyword)) {
				return ClassReserved
			}
		}
		if i < len(columns) && text == "0" {
			if _, ok := stock[strings.ToUpper(columns[i])]; ok {
				zero = true
			}
		}
	}
	if zero {
		return ClassZeroStock
	}
	return ""
}
