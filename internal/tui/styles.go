package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("204") // #e94560-ish
	colorMuted  = lipgloss.Color("245")
	colorText   = lipgloss.Color("255")
	colorPanel  = lipgloss.Color("236")
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorAccent)

var subtitleStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

var activeTab = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorText).
	Background(colorAccent).
	Padding(0, 1)

var inactiveTab = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(0, 1)

var statusStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Background(colorPanel).
	Padding(0, 1)

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPanel).
	Padding(0, 1)

var selectedCard = cardStyle.
	BorderForeground(colorAccent)

var categoryStyle = lipgloss.NewStyle().
	Foreground(colorAccent).
	Bold(true)

var titleViStyle = lipgloss.NewStyle().
	Foreground(colorText).
	Bold(true)

var titleKoStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

var skeletonStyle = lipgloss.NewStyle().
	Foreground(colorPanel)

var helpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 0, 0, 0)
