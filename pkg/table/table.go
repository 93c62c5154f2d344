// Package table renders size report rows as fixed-width text.
//
// The first row is the header. Every row must have the same number of cells;
// a mismatch is a programming error and panics.
//
// Plain output looks like:
//
//	^ File Path ^ Original ^
//	| a.js      | 2.00 KB  |
package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
)

// Row is one line of the report: one cell per column.
type Row []string

const (
	headerSep = "^"
	bodySep   = "|"
)

// Widths returns the widest display width of each column across rows.
func Widths(rows []Row) []int {
	if len(rows) == 0 {
		return nil
	}
	widths := make([]int, len(rows[0]))
	for i, row := range rows {
		if len(row) != len(widths) {
			panic(fmt.Sprintf("table: row %d has %d cells, want %d", i, len(row), len(widths)))
		}
		for j, cell := range row {
			if w := lipgloss.Width(cell); w > widths[j] {
				widths[j] = w
			}
		}
	}
	return widths
}

// Render returns rows as a bordered table, one line per row.
// Row 0 uses ^ borders and the rest use |.
func Render(rows []Row) string {
	widths := Widths(rows)
	lines := make([]string, len(rows))

	var b strings.Builder
	for i, row := range rows {
		sep := bodySep
		if i == 0 {
			sep = headerSep
		}

		b.Reset()
		b.WriteString(sep)
		b.WriteByte(' ')
		for j, cell := range row {
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[j]-lipgloss.Width(cell)))
			b.WriteByte(' ')
			b.WriteString(sep)
			b.WriteByte(' ')
		}
		lines[i] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(lines, "\n")
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RenderStyled renders rows with a rounded lipgloss border for terminals.
func RenderStyled(rows []Row) string {
	if len(rows) == 0 {
		return ""
	}
	Widths(rows) // shape check

	t := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(rows[0]...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, row := range rows[1:] {
		t.Row(row...)
	}
	return t.String()
}
