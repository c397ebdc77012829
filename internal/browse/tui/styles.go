package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jmcrae/catman/internal/version"
)

// Application branding constants
const (
	AppName   = "CATMAN"
	GitHubURL = "github.com/jmcrae/catman"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Color palette
var (
	// Primary colors
	PrimaryColor   = lipgloss.Color("#5FAFD7") // Blue
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5F5F") // Red

	// Neutral colors
	TextColor      = lipgloss.Color("#FFFFFF") // White
	SubtleColor    = lipgloss.Color("#626262") // Gray
	BorderColor    = lipgloss.Color("#5FAFD7") // Blue (same as primary)
	HighlightColor = lipgloss.Color("#43BF6D") // Green (same as secondary)
)

// Common styles
var (
	// Title style for screen headings
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// Help text style
	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// Error banner style - replaces the table when an operation has failed
	ErrorBoxStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor).
			Padding(1, 2)

	// Empty-list hint style
	EmptyStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Spinner style
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// Row style (unselected)
	RowStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// Row style (selected)
	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)

	// ID column style
	IDStyle = lipgloss.NewStyle().
		Foreground(SubtleColor).
		Width(6).
		Align(lipgloss.Right)
)

// RenderTitle renders a screen title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderError renders an error banner
func RenderError(text string) string {
	return ErrorBoxStyle.Render("✗ " + text)
}

// buildHeaderContent creates the frame header with app name and server address
func buildHeaderContent(serverAddr string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(serverAddr)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// RenderAppFrame wraps screen content in the application frame: a bordered
// full-terminal panel with a header line and a footer for help text. Every
// screen renders through this so the chrome stays consistent.
func RenderAppFrame(content, footerText, serverAddr string, terminalWidth, terminalHeight int) string {
	header := buildHeaderContent(serverAddr)
	footer := lipgloss.NewStyle().Foreground(SubtleColor).Render(footerText)

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth - 4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth - 4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4).
		Padding(0, 1)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(header),
		contentStyle.Render(content),
		footerStyle.Render(footer),
	)

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top)

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		borderStyle.Render(inner),
	)
}

// RenderModal centers modal content over a dimmed backdrop filling the
// terminal. Used for the category editor.
func RenderModal(modalContent string, terminalWidth, terminalHeight int) string {
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}
