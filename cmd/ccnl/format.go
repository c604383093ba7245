package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#9E9E9E"})
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B35C00", Dark: "#FFB454"})
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#7EE787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF7B72"})
)

// table renders aligned columns. Columns listed in right are right-aligned.
type table struct {
	headers []string
	rows    [][]string
	right   map[int]bool
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render() string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(t.line(t.headers, widths, headerStyle))
	for _, row := range t.rows {
		sb.WriteString(t.line(row, widths, lipgloss.NewStyle()))
	}
	return sb.String()
}

func (t *table) line(cells []string, widths []int, base lipgloss.Style) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		align := lipgloss.Left
		if t.right[i] {
			align = lipgloss.Right
		}
		parts[i] = base.Width(w).Align(align).Render(cell)
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ") + "\n"
}

// missingLine describes unresolved keys for stderr.
func missingLine(keys []string) string {
	return warningStyle.Render("missing: " + strings.Join(keys, ", "))
}
