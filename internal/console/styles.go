package console

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for the event monitor
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - header, borders
	EventColor   = lipgloss.Color("#43BF6D") // Green - event names
	ErrorColor   = lipgloss.Color("#FF5555") // Red - frame errors
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60
	MaxContentWidth  = 100
)

var (
	// TitleStyle is for the monitor header line
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true).
			PaddingLeft(1)

	// AddressStyle is for the connection target in the header
	AddressStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(1)

	// TimestampStyle is for the per-event time column
	TimestampStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// EventNameStyle is for decoded event names
	EventNameStyle = lipgloss.NewStyle().
			Foreground(EventColor).
			Bold(true)

	// EventDetailStyle is for event field text
	EventDetailStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// StatsStyle is for the frame counter footer
	StatsStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(1)

	// StatsErrStyle highlights nonzero error counters
	StatsErrStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// HelpStyle is for the key hint line
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(1)
)

// HeaderBorderStyle returns the border style for the monitor header
func HeaderBorderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2)
}

// GetTerminalSize returns the current terminal size with fallbacks
func GetTerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth, 24
	}
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if width > MaxContentWidth {
		width = MaxContentWidth
	}
	return width, height
}
