// Package ui provides terminal styling for dictum CLI output.
// Uses the Ayu color theme with adaptive light/dark mode support.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/steveyegge/dictum/internal/types"
)

// Ayu theme color palette
var (
	ColorPass = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	ColorWarn = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	ColorFail = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	// ColorMuted is also used for retired decisions.
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	ColorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)

	// CategoryStyle for section headers
	CategoryStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	IDStyle       = lipgloss.NewStyle().Foreground(ColorAccent)
)

// Status icons
const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
)

// RenderPass renders text with pass (green) styling
func RenderPass(s string) string { return PassStyle.Render(s) }

// RenderWarn renders text with warning (yellow) styling
func RenderWarn(s string) string { return WarnStyle.Render(s) }

// RenderFail renders text with fail (red) styling
func RenderFail(s string) string { return FailStyle.Render(s) }

// RenderMuted renders text with muted (gray) styling
func RenderMuted(s string) string { return MutedStyle.Render(s) }

// RenderAccent renders text with accent (blue) styling
func RenderAccent(s string) string { return AccentStyle.Render(s) }

// RenderCategory renders a category header in uppercase with accent color
func RenderCategory(s string) string { return CategoryStyle.Render(strings.ToUpper(s)) }

// RenderID renders a decision id.
func RenderID(id string) string { return IDStyle.Render(id) }

// StatusStyle maps a lifecycle status to its color.
func StatusStyle(s types.Status) lipgloss.Style {
	switch s {
	case types.StatusActive:
		return PassStyle
	case types.StatusDraft:
		return WarnStyle
	case types.StatusDeprecated:
		return FailStyle
	default:
		return MutedStyle
	}
}

// RenderStatus renders a status in its color, padded to width first so
// ANSI codes do not break column alignment.
func RenderStatus(s types.Status, width int) string {
	return StatusStyle(s).Render(pad(string(s), width))
}

// RenderLevel renders a level, padded to width. Strategic decisions stand out.
func RenderLevel(l types.Level, width int) string {
	text := pad(string(l), width)
	switch l {
	case types.LevelStrategic:
		return CategoryStyle.Render(text)
	case types.LevelOperational:
		return MutedStyle.Render(text)
	default:
		return text
	}
}

// RenderSuccess renders a "✓ message" confirmation line.
func RenderSuccess(msg string) string {
	return PassStyle.Render(IconPass) + " " + msg
}

func pad(s string, width int) string {
	if n := width - len(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
