// Package styles provides shared lipgloss styles for gitscan output.
//
// This package centralizes color definitions so foreach banners, stream
// tags, failure lines, and the status table look consistent. Styled text
// is downsampled with [Render] to what the destination supports; a
// non-terminal sink gets plain text.
package styles

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"

	"github.com/raphi011/gitscan/internal/status"
)

// Primary colors used throughout the UI
var (
	// Primary is the main accent color (cyan/teal)
	Primary color.Color = lipgloss.Color("62")

	// Accent is the highlight color (pink)
	Accent color.Color = lipgloss.Color("212")

	// Success is used for positive outcomes (green)
	Success color.Color = lipgloss.Color("82")

	// Error is used for error messages (red)
	Error color.Color = lipgloss.Color("196")

	// Muted is used for inactive text (gray)
	Muted color.Color = lipgloss.Color("240")

	// Normal is the standard text color (light gray)
	Normal color.Color = lipgloss.Color("252")

	// Info is used for informational text (gray)
	Info color.Color = lipgloss.Color("244")

	// Warning is used for items needing attention (orange)
	Warning color.Color = lipgloss.Color("214")
)

// Common styles
var (
	Bold = lipgloss.NewStyle().Bold(true)

	PrimaryStyle = lipgloss.NewStyle().Foreground(Primary)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)

	ErrorStyle = lipgloss.NewStyle().Foreground(Error)

	MutedStyle = lipgloss.NewStyle().Foreground(Muted)

	NormalStyle = lipgloss.NewStyle().Foreground(Normal)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Info).
			Italic(true)

	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
)

// foreach output styles
var (
	// BannerStyle renders "[[ ... ]]" progress lines.
	BannerStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	// StdoutTagStyle and StderrTagStyle render the stream tag before each
	// forwarded chunk.
	StdoutTagStyle = lipgloss.NewStyle().Foreground(Info)
	StderrTagStyle = lipgloss.NewStyle().Foreground(Warning)

	// FailureStyle renders per-repository failure lines.
	FailureStyle = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// StatusStyle returns the style for a repository status.
func StatusStyle(s status.Status) lipgloss.Style {
	if s == status.Novel {
		return WarningStyle
	}
	return MutedStyle
}

// Render applies style to text and downsamples the result for profile.
// Profiles at or below NoTTY produce plain text.
func Render(profile colorprofile.Profile, style lipgloss.Style, text string) string {
	var b strings.Builder
	w := &colorprofile.Writer{Forward: &b, Profile: profile}
	_, _ = w.WriteString(style.Render(text))
	return b.String()
}
