// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output, tuned for dark terminals.
const (
	// ColorPrimary is purple, for titles and root names.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray, for paths and secondary text.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green, for added packages and positive outcomes.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red, for errors and removed packages.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber, for warnings.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue, for slugs, symbols and keys.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for section headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary text.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error prefixes.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning prefixes.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// KeyStyle is for slugs, symbols and config keys.
	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	removedStyle = lipgloss.NewStyle().
			Foreground(ColorError)
)
