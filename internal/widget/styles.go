package widget

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")).Background(lipgloss.Color("57")).Padding(0, 1)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	reasonStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	rowStyle       = lipgloss.NewStyle().Padding(0, 1)
	nextRowStyle   = rowStyle.Bold(true).Foreground(lipgloss.Color("51")).Background(lipgloss.Color("236"))
	countdownStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	noteStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)
