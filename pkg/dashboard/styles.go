package dashboard

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("212")
	successColor = lipgloss.Color("42")
	errorColor   = lipgloss.Color("196")
	mutedColor   = lipgloss.Color("241")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	tabStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Underline(true).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("237")).
				Foreground(lipgloss.Color("255")).
				Bold(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	statusSuccessStyle = lipgloss.NewStyle().
				Foreground(successColor)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(errorColor)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true)

	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	docsHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)
)
