package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E6E6E6"))
	axisStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5C5C5C"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
	statusStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#D7AF5F"))
	mutedStyle  = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#5C5C5C"))
)

// fallbackColors are used for series without a usable color tag.
var fallbackColors = []string{"#3DC23F", "#F34C44", "#108BE3", "#E8AF14", "#9B59B6"}

// seriesStyle returns the line style of series i.
func seriesStyle(i int, colorTag string) lipgloss.Style {
	color := colorTag
	if len(color) != 7 || color[0] != '#' {
		color = fallbackColors[i%len(fallbackColors)]
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
