package tui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4472C4")).
			Padding(0, 2)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true)

	slideStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4472C4")).
			Padding(1, 2).
			Width(72)

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4472C4"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ECC71"))
)

// swatch renders a small block in colour c.
func swatch(c string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(c)).Render("  ")
}
