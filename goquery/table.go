// Package goquery implements HTML table extraction using goquery.
package goquery

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tablesnap"
)

// maxSpan bounds colspan/rowspan attributes so hostile markup cannot
// inflate a table without limit.
const maxSpan = 1000

// Ensure TableExtractor implements tablesnap.TableExtractor at compile time.
var _ tablesnap.TableExtractor = (*TableExtractor)(nil)

// TableExtractor returns the first non-empty table of an HTML document.
type TableExtractor struct{}

// NewTableExtractor creates a new TableExtractor.
func NewTableExtractor() *TableExtractor {
	return &TableExtractor{}
}

// ExtractFirstTable parses html and converts its first table to a Dataset.
//
// Header rows are the rows of <thead>, or else the leading rows made only
// of <th> cells. Multi-row headers are joined with a space. Without a
// header, columns are named by position ("0", "1", ...). colspan and
// rowspan cells are repeated into every slot they cover, and short rows
// are padded with empty values. Tables without any cell are skipped.
func (e *TableExtractor) ExtractFirstTable(html string) (*tablesnap.Dataset, error) {
	if strings.TrimSpace(html) == "" {
		return nil, tablesnap.Errorf(tablesnap.EMALFORMED, "empty document")
	}
	if !strings.Contains(html, "<") || strings.ContainsRune(html, 0) {
		return nil, tablesnap.Errorf(tablesnap.EMALFORMED, "document is not markup")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, tablesnap.Errorf(tablesnap.EMALFORMED, "failed to parse HTML: %v", err)
	}

	// Line breaks separate words inside a cell.
	doc.Find("br").ReplaceWithHtml(" ")

	var ds *tablesnap.Dataset
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		g := readGrid(table)
		if g.cells == 0 {
			return true
		}
		ds = g.dataset()
		return false
	})
	if ds == nil {
		return nil, tablesnap.Errorf(tablesnap.ENOTABLE, "no table found")
	}
	return ds, nil
}

// grid is a table flattened into rows of cell text.
type grid struct {
	header [][]string
	body   [][]string
	cells  int
}

type pendingSpan struct {
	text string
	left int
}

// readGrid flattens the rows owned by table, ignoring nested tables.
func readGrid(table *goquery.Selection) *grid {
	var head, body, foot []*goquery.Selection
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if !tr.Closest("table").IsSelection(table) {
			return
		}
		switch goquery.NodeName(tr.Parent()) {
		case "thead":
			head = append(head, tr)
		case "tfoot":
			foot = append(foot, tr)
		default:
			body = append(body, tr)
		}
	})

	g := &grid{}
	pending := make(map[int]*pendingSpan)
	read := func(tr *goquery.Selection) ([]string, bool) {
		return readRow(tr, pending, &g.cells)
	}

	for _, tr := range head {
		if row, _ := read(tr); len(row) > 0 {
			g.header = append(g.header, row)
		}
	}

	inHeader := len(head) == 0
	for _, tr := range body {
		row, allTH := read(tr)
		if len(row) == 0 {
			continue
		}
		if inHeader && allTH {
			g.header = append(g.header, row)
			continue
		}
		inHeader = false
		g.body = append(g.body, row)
	}

	for _, tr := range foot {
		if row, _ := read(tr); len(row) > 0 {
			g.body = append(g.body, row)
		}
	}

	return g
}

// readRow expands one <tr> into cell text, honoring colspan and any
// rowspans carried over from earlier rows. It reports whether every
// cell of the row is a <th>.
func readRow(tr *goquery.Selection, pending map[int]*pendingSpan, cells *int) ([]string, bool) {
	var out []string
	allTH := true
	own := 0

	take := func() bool {
		p, ok := pending[len(out)]
		if !ok {
			return false
		}
		out = append(out, p.text)
		p.left--
		if p.left == 0 {
			delete(pending, len(out)-1)
		}
		return true
	}

	tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
		*cells++
		own++
		if goquery.NodeName(cell) != "th" {
			allTH = false
		}
		for take() {
			// fill slots covered by rowspans from above
		}

		text := cellText(cell)
		colspan := spanAttr(cell, "colspan")
		rowspan := spanAttr(cell, "rowspan")
		for range colspan {
			if rowspan > 1 {
				pending[len(out)] = &pendingSpan{text: text, left: rowspan - 1}
			}
			out = append(out, text)
		}
	})

	// Rowspans reaching past the last cell of this row.
	for hasPendingFrom(pending, len(out)) {
		if !take() {
			out = append(out, "")
		}
	}

	return out, allTH && own > 0
}

func hasPendingFrom(pending map[int]*pendingSpan, col int) bool {
	for k := range pending {
		if k >= col {
			return true
		}
	}
	return false
}

func cellText(cell *goquery.Selection) string {
	return strings.Join(strings.Fields(cell.Text()), " ")
}

func spanAttr(cell *goquery.Selection, name string) int {
	v, ok := cell.Attr(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return min(n, maxSpan)
}

// dataset converts the grid to a Dataset with unique column names.
func (g *grid) dataset() *tablesnap.Dataset {
	width := 0
	for _, row := range g.header {
		width = max(width, len(row))
	}
	for _, row := range g.body {
		width = max(width, len(row))
	}

	return tablesnap.NewDataset(g.columns(width), g.body)
}

func (g *grid) columns(width int) []string {
	names := make([]string, width)
	for j := range width {
		var parts []string
		for _, row := range g.header {
			if j >= len(row) || row[j] == "" {
				continue
			}
			if len(parts) > 0 && parts[len(parts)-1] == row[j] {
				continue
			}
			parts = append(parts, row[j])
		}
		if len(parts) == 0 {
			names[j] = strconv.Itoa(j)
		} else {
			names[j] = strings.Join(parts, " ")
		}
	}
	return dedupe(names)
}

// dedupe suffixes repeated names with .1, .2, ... in order of appearance.
func dedupe(names []string) []string {
	used := make(map[string]bool, len(names))
	for _, n := range names {
		used[n] = false
	}
	out := make([]string, len(names))
	for i, n := range names {
		if !used[n] {
			used[n] = true
			out[i] = n
			continue
		}
		for k := 1; ; k++ {
			candidate := n + "." + strconv.Itoa(k)
			if _, taken := used[candidate]; !taken {
				used[candidate] = true
				out[i] = candidate
				break
			}
		}
	}
	return out
}
