package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// AnnotationMarker is the substring a row comment must contain for its text
// to be recovered as the row's annotation.
const AnnotationMarker = "METADATA"

// FromHTML parses input as HTML and extracts one Record per well-formed
// table row, in document order. Rows that cannot be parsed are dropped and
// a document without tables yields an empty set; extraction itself never
// fails, it only degrades to a smaller result.
func FromHTML(input []byte) []Record {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return nil
	}
	return FromNode(node)
}

// FromNode extracts records from an already parsed tree. Tables are visited
// at any nesting depth; the rows of a table embedded inside another table's
// cell are credited to the inner table only, so no row is counted twice.
func FromNode(root *html.Node) []Record {
	var records []Record
	for _, table := range findAll(root, "table") {
		for _, row := range tableRows(table) {
			cells := rowCells(row)
			if len(cells) == 0 {
				continue
			}
			if rec, ok := parseRecord(cells, rowAnnotation(row)); ok {
				records = append(records, rec)
			}
		}
	}
	return records
}

// findAll returns every element named tag under n, in document order.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			out = append(out, cur)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return out
}

// tableRows returns the tr elements that belong to table itself. Descent
// stops at nested tables, whose rows are picked up when FromNode visits
// them directly.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				switch strings.ToLower(c.Data) {
				case "table":
					continue
				case "tr":
					rows = append(rows, c)
					continue
				}
			}
			dfs(c)
		}
	}
	dfs(table)
	return rows
}

// rowCells collects the text of every td cell belonging to row. Cells of a
// table nested inside the row are not the row's own cells and are skipped.
func rowCells(row *html.Node) []string {
	var cells []string
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				switch strings.ToLower(c.Data) {
				case "table":
					continue
				case "td":
					cells = append(cells, cellText(c))
					continue
				}
			}
			dfs(c)
		}
	}
	dfs(row)
	return cells
}

// cellText concatenates the trimmed text fragments under cell with no added
// separators. Text inside a table nested within the cell is included: the
// stripped-text primitive makes no distinction between nesting levels.
func cellText(cell *html.Node) string {
	var b strings.Builder
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(cur.Data))
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(cell)
	return b.String()
}

// rowAnnotation returns the trimmed text of the first comment under row
// whose text contains AnnotationMarker. First match wins; later marker
// comments in the same row are ignored.
func rowAnnotation(row *html.Node) string {
	var found string
	var dfs func(*html.Node) bool
	dfs = func(cur *html.Node) bool {
		if cur.Type == html.CommentNode {
			if text := strings.TrimSpace(cur.Data); strings.Contains(text, AnnotationMarker) {
				found = text
				return true
			}
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if dfs(c) {
				return true
			}
		}
		return false
	}
	dfs(row)
	return found
}
