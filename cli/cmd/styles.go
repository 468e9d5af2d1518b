// ABOUTME: Shared lipgloss styles for human-readable CLI output
// ABOUTME: Defines the color palette used across command formatters

package cmd

import "github.com/charmbracelet/lipgloss"

var (
	green = lipgloss.Color("#10B981")
	amber = lipgloss.Color("#F59E0B")
	gray  = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(green)

	mutedStyle = lipgloss.NewStyle().
			Foreground(gray)

	priceStyle = lipgloss.NewStyle().
			Bold(true)

	soldStyle = lipgloss.NewStyle().
			Foreground(amber).
			Bold(true)
)
