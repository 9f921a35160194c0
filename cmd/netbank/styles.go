package main

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#2563EB")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorDanger  = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	balanceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	ibanStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	dangerStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	countdownStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	countdownLowStyle = lipgloss.NewStyle().
				Foreground(colorDanger)

	incomingStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	outgoingStyle = lipgloss.NewStyle().Foreground(colorDanger)
)
