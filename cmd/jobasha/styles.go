// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/alvazir/jobasha-sub000/internal/compare"

	"github.com/charmbracelet/lipgloss"
)

// Color palette shared by all CLI output, tuned for dark terminal backgrounds.
const (
	// ColorPrimary is purple, used for titles and headers.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray, used for secondary text.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green, used for success states and added entries.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red, used for errors and removed entries.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber, used for warnings and changed entries.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue, used for paths and plugin names.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages and caution indicators.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// PathStyle is for file paths and plugin names.
	PathStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	diffAddStyle    = lipgloss.NewStyle().Foreground(ColorSuccess)
	diffRemoveStyle = lipgloss.NewStyle().Foreground(ColorError)
	diffChangeStyle = lipgloss.NewStyle().Foreground(ColorWarning)
)

// renderDiffLine colors a comparison line by its operation.
func renderDiffLine(l compare.Line) string {
	switch l.Op {
	case compare.OpAdd:
		return diffAddStyle.Render(l.String())
	case compare.OpRemove:
		return diffRemoveStyle.Render(l.String())
	default:
		return diffChangeStyle.Render(l.String())
	}
}
