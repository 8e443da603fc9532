package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Tab bar styles
	TabStyle       = lipgloss.NewStyle().Padding(0, 2)
	ActiveTabStyle = TabStyle.Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))
	InactiveTabStyle = TabStyle.
				Foreground(lipgloss.Color("#888888"))

	// Bot mode colors
	ModeIdleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	ModeRunningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	ModeChargingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")).Bold(true)
	ModeBusyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	// Trade result colors
	WinStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	LossStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))

	// Signal colors
	CallStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	PutStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)

	// General styles
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	SubtextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	BorderStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#555555"))
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	NoticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	SelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	LabelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	SpinnerColor  = lipgloss.Color("#7D56F4")
)
