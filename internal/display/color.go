// Package display styles terminal output with lipgloss.
//
// It respects the NO_COLOR environment variable (https://no-color.org/) and
// detects whether stdout is a terminal. Colors are automatically disabled when
// output is piped or redirected, or when NO_COLOR is set.
package display

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var (
	renderer = lipgloss.NewRenderer(os.Stdout)
	enabled  bool

	boldStyle, dimStyle, greenStyle, yellowStyle, cyanStyle, grayStyle, accentStyle lipgloss.Style
)

func init() {
	SetEnabled(shouldEnable())
}

// shouldEnable determines whether to use color output.
func shouldEnable() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	// FORCE_COLOR is honoured for testing.
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// SetEnabled overrides the auto-detected color state.
// Useful for testing or when --json forces plain output.
func SetEnabled(b bool) {
	enabled = b
	if b {
		renderer.SetColorProfile(termenv.ANSI256)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	boldStyle = renderer.NewStyle().Bold(true)
	dimStyle = renderer.NewStyle().Faint(true)
	greenStyle = renderer.NewStyle().Foreground(lipgloss.Color("42"))
	yellowStyle = renderer.NewStyle().Foreground(lipgloss.Color("214"))
	cyanStyle = renderer.NewStyle().Foreground(lipgloss.Color("51"))
	grayStyle = renderer.NewStyle().Foreground(lipgloss.Color("244"))
	accentStyle = renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
}

// Enabled reports whether color output is currently active.
func Enabled() bool {
	return enabled
}

// Renderer exposes the shared renderer so other packages style consistently.
func Renderer() *lipgloss.Renderer {
	return renderer
}

func Bold(text string) string   { return boldStyle.Render(text) }
func Dim(text string) string    { return dimStyle.Render(text) }
func Green(text string) string  { return greenStyle.Render(text) }
func Yellow(text string) string { return yellowStyle.Render(text) }
func Cyan(text string) string   { return cyanStyle.Render(text) }
func Gray(text string) string   { return grayStyle.Render(text) }

// Accent highlights the next prayer.
func Accent(text string) string {
	return accentStyle.Render(text)
}

// Boldf formats and bolds a string.
func Boldf(format string, a ...interface{}) string {
	return Bold(fmt.Sprintf(format, a...))
}

// Note renders a disclaimer or fallback reason wrapped to width columns.
func Note(text string, width int) string {
	return grayStyle.Width(width).Render(text)
}
