package cli

import (
	"strings"
)

// table lays out rows in left-aligned columns sized to their widest cell.
type table struct {
	headers []string
	rows    [][]string
	padding int
}

func newTable(headers ...string) *table {
	return &table{headers: headers, padding: 2}
}

// addRow pads or truncates row to the header count.
func (t *table) addRow(row ...string) {
	cells := make([]string, len(t.headers))
	copy(cells, row)
	t.rows = append(t.rows, cells)
}

func (t *table) render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	var sb strings.Builder
	t.writeRow(&sb, t.headers, widths)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	t.writeRow(&sb, rule, widths)
	for _, row := range t.rows {
		t.writeRow(&sb, row, widths)
	}
	return sb.String()
}

func (t *table) writeRow(sb *strings.Builder, cells []string, widths []int) {
	last := len(cells) - 1
	for i, cell := range cells {
		sb.WriteString(cell)
		if i < last {
			sb.WriteString(strings.Repeat(" ", widths[i]-len(cell)+t.padding))
		}
	}
	sb.WriteString("\n")
}
