package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/taskcal/internal/model"
)

// Color palette
var (
	Primary   = lipgloss.Color("#4ECDC4")
	Secondary = lipgloss.Color("#6C757D")
	Surface   = lipgloss.Color("#16213e")
	Text      = lipgloss.Color("#FFFFFF")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Highlight = lipgloss.Color("#4ECDC4")
	Today     = lipgloss.Color("#FFE66D")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	DayHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Text).
			Align(lipgloss.Center)

	TodayHeaderStyle = DayHeaderStyle.
				Foreground(Today)

	ColumnStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(Border).
			Padding(0, 0)

	ColumnSelectedStyle = ColumnStyle.
				BorderForeground(Highlight)

	EmptyDayStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Italic(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	MenuItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	MenuItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Foreground(Primary).
				Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Width(11)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// EventStyle renders an event chip in its projected colors
func EventStyle(ev model.Event, selected bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Background(lipgloss.Color(ev.Color)).
		Foreground(lipgloss.Color(ev.TextColor))
	if selected {
		s = s.Bold(true).Underline(true)
	}
	if ev.Extended.State == model.StateCompleted {
		s = s.Strikethrough(true)
	}
	return s
}

// PriorityStyle colors a priority label like its calendar chip
func PriorityStyle(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#dc3545")).Bold(true)
	case model.PriorityMedium:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#ffc107"))
	case model.PriorityLow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#28a745"))
	default:
		return lipgloss.NewStyle().Foreground(TextMuted)
	}
}
