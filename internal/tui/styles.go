package tui

import "github.com/charmbracelet/lipgloss"

// Task progress styles
var (
	iconPending  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("○")
	iconComplete = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("✓")
	iconError    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")
	iconSkipped  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("–")

	taskNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	taskDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)
)

// Pull request view styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A5B4FC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94A3B8"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CBD5E1"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#475569"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#334155")).
			Foreground(lipgloss.Color("#F1F5F9")).
			Bold(true)

	openStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22C55E"))

	closedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A855F7"))

	repoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#93C5FD"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60A5FA")).
			Bold(true)

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#475569"))

	staleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CA8A04"))

	errorBoxStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FCA5A5")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#B91C1C")).
			Padding(0, 1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60A5FA"))

	confirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)
)

// StatusIcon returns the appropriate icon for a task status.
func StatusIcon(status TaskStatus, spinnerFrame string) string {
	switch status {
	case StatusRunning:
		return spinnerStyle.Render(spinnerFrame)
	case StatusComplete:
		return iconComplete
	case StatusError:
		return iconError
	case StatusSkipped:
		return iconSkipped
	default:
		return iconPending
	}
}
