package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#00FF99")
	colorBorder  = lipgloss.Color("#874BFD")
	colorTextSub = lipgloss.Color("#64748B")
	colorText    = lipgloss.Color("#E2E8F0")

	subtle    = lipgloss.NewStyle().Foreground(colorTextSub)
	highlight = lipgloss.NewStyle().Foreground(colorBorder).Bold(true)
	special   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	hudStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Foreground(colorText)

	listSelectedStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Background(lipgloss.Color("#331832")).
				Bold(true)

	listNormalStyle = lipgloss.NewStyle().Foreground(colorTextSub)

	detailsBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2).
			MarginTop(1)
)
