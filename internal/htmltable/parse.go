package htmltable

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"glassinv/internal/services"
	"glassinv/internal/tabular"
)

const stage = "reconcile"

// Parse reads the first <table> in the document. The header is the first row
// inside <thead>, or the first row of the table when there is no <thead>.
// Data rows are the remaining rows inside <tbody>; header and data are told
// apart by position, so <th> and <td> cells are accepted in both. Rows shorter
// than the header are padded with Null; longer rows are a parse failure.
func Parse(r io.Reader) (*tabular.Table, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, services.Wrap(services.ErrParse, stage, "parse html", "", err)
	}
	tableNode := findFirst(doc, atom.Table)
	if tableNode == nil {
		return nil, services.Wrap(services.ErrParse, stage, "parse html", "no table found", nil)
	}

	headerRow, bodyRows := splitRows(tableNode)
	if headerRow == nil {
		return nil, services.Wrap(services.ErrParse, stage, "parse html", "table has no header row", nil)
	}
	columns := cellTexts(headerRow)
	if len(columns) == 0 {
		return nil, services.Wrap(services.ErrParse, stage, "parse html", "header row has no cells", nil)
	}

	table := tabular.NewTable(columns, nil)
	for i, row := range bodyRows {
		texts := cellTexts(row)
		if len(texts) > len(columns) {
			return nil, services.Wrap(services.ErrParse, stage, "parse html",
				fmt.Sprintf("row %d has %d cells but the header has %d", i+1, len(texts), len(columns)), nil)
		}
		cells := make([]tabular.Value, len(texts))
		for j, text := range texts {
			cells[j] = tabular.Parse(text)
		}
		table.Append(cells)
	}
	return table, nil
}

// splitRows picks the header row and the body rows of table, ignoring rows
// that belong to nested tables.
func splitRows(table *html.Node) (*html.Node, []*html.Node) {
	var header *html.Node
	var first *html.Node
	var body []*html.Node
	for section := table.FirstChild; section != nil; section = section.NextSibling {
		if section.Type != html.ElementNode {
			continue
		}
		switch section.DataAtom {
		case atom.Thead:
			for _, tr := range childRows(section) {
				if first == nil {
					first = tr
				}
				if header == nil {
					header = tr
				}
			}
		case atom.Tbody:
			for _, tr := range childRows(section) {
				if first == nil {
					first = tr
				}
				body = append(body, tr)
			}
		case atom.Tr:
			if first == nil {
				first = section
			}
			body = append(body, section)
		}
	}
	if header != nil {
		return header, body
	}
	if first == nil {
		return nil, nil
	}
	rest := make([]*html.Node, 0, len(body))
	for _, tr := range body {
		if tr != first {
			rest = append(rest, tr)
		}
	}
	return first, rest
}

func childRows(section *html.Node) []*html.Node {
	var rows []*html.Node
	for n := section.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			rows = append(rows, n)
		}
	}
	return rows
}

func cellTexts(tr *html.Node) []string {
	var out []string
	for n := tr.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode {
			continue
		}
		if n.DataAtom == atom.Td || n.DataAtom == atom.Th {
			out = append(out, strings.TrimSpace(textContent(n)))
		}
	}
	return out
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}
