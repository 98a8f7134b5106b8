package pollsource

import (
	"bytes"
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoTable is returned when the fetched page contains no <table> element.
var ErrNoTable = errors.New("no table found in page")

// ParseFirstTable extracts the first HTML table from a page as a header row
// plus data rows. Header cells come from the first row regardless of whether
// the page uses <th> or <td> for them.
func ParseFirstTable(page []byte) (header []string, rows [][]string, err error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, nil, err
	}

	table := findFirst(doc, "table")
	if table == nil {
		return nil, nil, ErrNoTable
	}

	var allRows [][]string
	walk(table, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			if cells := rowCells(n); len(cells) > 0 {
				allRows = append(allRows, cells)
			}
		}
	})

	if len(allRows) == 0 {
		return nil, nil, ErrNoTable
	}
	return allRows[0], allRows[1:], nil
}

// rowCells collects the text of each th/td cell in a row.
func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, strings.TrimSpace(nodeText(c)))
		}
	}
	return cells
}

// nodeText concatenates all text content beneath a node.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return sb.String()
}

// findFirst returns the first element with the given tag in document order.
func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// walk applies fn to every node in the subtree rooted at n.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
