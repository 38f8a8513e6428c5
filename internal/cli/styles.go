// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	PrimaryColor = lipgloss.Color("#5B8DEF")
	MatchedColor = lipgloss.Color("#4ECDC4")
	PendingColor = lipgloss.Color("#FFE66D")
	FailureColor = lipgloss.Color("#FF6B6B")
	MutedColor   = lipgloss.Color("#666666")
	BorderColor  = lipgloss.Color("#333")
)

var (
	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// MatchedStyle marks reconciled lines and successful runs.
	MatchedStyle = lipgloss.NewStyle().Foreground(MatchedColor)
	// PendingStyle marks unmatched lines and skipped statement rows.
	PendingStyle = lipgloss.NewStyle().Foreground(PendingColor)
	FailureStyle = lipgloss.NewStyle().Foreground(FailureColor)
	MutedStyle   = lipgloss.NewStyle().Foreground(MutedColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// DebitStyle and CreditStyle right-align amounts.
	DebitStyle  = lipgloss.NewStyle().Align(lipgloss.Right)
	CreditStyle = lipgloss.NewStyle().Align(lipgloss.Right).Foreground(MatchedColor)

	// BoxStyle is used for the import summary.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(BorderColor)

	cellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Icons.
const (
	MatchedIcon = "✓"
	FailureIcon = "✗"
	PendingIcon = "⚠️"
	LedgerIcon  = "📒"
	LinkIcon    = "🔗"
)

// ConfidenceStyle colors a match by how sure the matcher was.
func ConfidenceStyle(confidence float64) lipgloss.Style {
	switch {
	case confidence >= 0.9:
		return MatchedStyle
	case confidence > 0:
		return PendingStyle
	default:
		return MutedStyle
	}
}

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return MatchedStyle.Render(MatchedIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return FailureStyle.Render(FailureIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return PendingStyle.Render(PendingIcon + " " + message)
}

// FormatMuted renders secondary text such as empty-state notices.
func FormatMuted(message string) string {
	return MutedStyle.Render(message)
}

// FormatTitle formats a title with the ledger icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(LedgerIcon + " " + title)
}

// RenderBox renders content under a title in a rounded box.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.UnsetMargins().Render(title),
		content,
	))
}
