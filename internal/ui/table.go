package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a Bubbles table with the CLI's styling. The table is not
// focused; it is only used to render a static view.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	// The cursor row must look like every other row in a static view.
	s.Selected = lipgloss.NewStyle()

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
// Column widths grow to fit the widest cell when they are too small.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	fitted := make([]TableColumn, len(columns))
	copy(fitted, columns)
	for _, row := range rows {
		for i, cell := range row {
			if i < len(fitted) && lipgloss.Width(cell) > fitted[i].Width {
				fitted[i].Width = lipgloss.Width(cell)
			}
		}
	}
	for i := range fitted {
		if w := lipgloss.Width(fitted[i].Title); w > fitted[i].Width {
			fitted[i].Width = w
		}
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := NewTable(fitted, tableRows)
	return t.View()
}
