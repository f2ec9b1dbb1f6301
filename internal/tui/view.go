package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/taskcal/internal/model"
	"github.com/existflow/taskcal/internal/notify"
	"github.com/existflow/taskcal/internal/sync"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	var body string
	switch m.mode {
	case ModeMenu:
		body = m.place(m.renderMenu(), bodyHeight)
	case ModeForm:
		body = m.place(m.renderForm(), bodyHeight)
	case ModeConfirm:
		body = m.place(m.renderConfirm(), bodyHeight)
	case ModeHelp:
		body = m.place(m.renderHelp(), bodyHeight)
	default:
		body = m.renderWeek(bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}

func (m Model) place(modal string, height int) string {
	return lipgloss.Place(
		m.width, height,
		lipgloss.Center, lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func (m Model) renderHeader() string {
	last := m.week.End.AddDate(0, 0, -1)
	title := fmt.Sprintf("Tasks  %s - %s", m.week.Start.Format("Jan 2"), last.Format("Jan 2, 2006"))
	if m.loading {
		title += "  (loading...)"
	}
	return HeaderStyle.Render(title)
}

func (m Model) renderWeek(height int) string {
	colWidth := m.width/7 - 2
	if colWidth < 6 {
		colWidth = 6
	}
	today := startOfDay(m.opts.Now().In(m.opts.Location))

	cols := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		day := m.week.Start.AddDate(0, 0, i)
		cols = append(cols, m.renderDay(day, colWidth, height-2, sameDay(day, today)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) renderDay(day time.Time, width, height int, isToday bool) string {
	selected := sameDay(day, m.selected)

	headerStyle := DayHeaderStyle
	if isToday {
		headerStyle = TodayHeaderStyle
	}
	var b strings.Builder
	b.WriteString(headerStyle.Width(width).Render(day.Format("Mon 2")))
	b.WriteString("\n")

	events := eventsOn(m.events, day)
	if len(events) == 0 {
		b.WriteString(EmptyDayStyle.Render(truncate("no tasks", width)))
	}
	for i, ev := range events {
		cursor := selected && i == m.evCursor
		b.WriteString(m.renderChip(ev, width, cursor))
		b.WriteString("\n")
	}

	style := ColumnStyle
	if selected {
		style = ColumnSelectedStyle
	}
	return style.Width(width).Height(height).Render(b.String())
}

// renderChip renders one event as "HH:MM title"
func (m Model) renderChip(ev model.Event, width int, selected bool) string {
	label := ev.Title
	if !ev.AllDay {
		label = ev.Start.In(m.opts.Location).Format("15:04") + " " + label
	}
	prefix := " "
	if selected {
		prefix = ">"
	}
	return prefix + EventStyle(ev, selected).Render(truncate(label, width-1))
}

func (m Model) renderMenu() string {
	var b strings.Builder
	if ev, ok := m.selectedEvent(); ok {
		b.WriteString(HeaderStyle.Render(truncate(ev.Extended.OriginalName, 40)))
		b.WriteString("\n")
		b.WriteString(m.renderDetails(ev))
		b.WriteString("\n\n")
	}
	for i, item := range menuItems {
		if i == m.menuCursor {
			b.WriteString(MenuItemSelectedStyle.Render("> " + item))
		} else {
			b.WriteString(MenuItemStyle.Render("  " + item))
		}
		b.WriteString("\n")
	}
	return ModalStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) selectedEvent() (model.Event, bool) {
	if m.session == nil {
		return model.Event{}, false
	}
	return m.session.Event()
}

func (m Model) renderDetails(ev model.Event) string {
	attrs := ev.Extended
	due := "none"
	if !attrs.DueAt.IsZero() {
		if t, err := attrs.DueAt.Parse(m.opts.Location); err == nil {
			due = model.FormatDue(t.In(m.opts.Location))
		}
	}
	category := attrs.Category
	if category == "" {
		category = "-"
	}
	lines := []string{
		LabelStyle.Render("Category") + category,
		LabelStyle.Render("Priority") + PriorityStyle(attrs.Priority).Render(attrs.Priority.Label()),
		LabelStyle.Render("State") + attrs.State.Label(),
		LabelStyle.Render("Estimate") + sync.FormatEstimate(attrs.EstimatedMinutes),
		LabelStyle.Render("Due") + due,
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderForm() string {
	var b strings.Builder
	title := "New task"
	if m.form.editing {
		title = "Edit task"
	}
	b.WriteString(HeaderStyle.Render(title))
	b.WriteString("\n\n")
	for i := range m.form.inputs {
		b.WriteString(LabelStyle.Render(fieldLabels[i]))
		b.WriteString(m.form.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("tab: next field • ctrl+s: save • esc: cancel"))
	return ModalStyle.Render(b.String())
}

func (m Model) renderConfirm() string {
	name := "this task"
	if ev, ok := m.selectedEvent(); ok {
		name = fmt.Sprintf("%q", ev.Extended.OriginalName)
	}
	return ModalStyle.Render(fmt.Sprintf("Delete %s?\n\n%s", name, HelpStyle.Render("y: yes • n: no")))
}

func (m Model) renderHelp() string {
	bindings := []key.Binding{
		keys.Left, keys.Right, keys.Up, keys.Down,
		keys.PrevWeek, keys.NextWeek, keys.Today,
		keys.Enter, keys.Add,
		keys.MoveBack, keys.MoveFwd, keys.MoveUp, keys.MoveDown,
		keys.Refresh, keys.Quit,
	}
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, kb := range bindings {
		h := kb.Help()
		b.WriteString(LabelStyle.Render(h.Key))
		b.WriteString(h.Desc)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("press any key to close"))
	return ModalStyle.Render(b.String())
}

func (m Model) renderStatusBar() string {
	if m.flash != nil {
		text := notify.Icon(m.flash.Severity) + " " + m.flash.Text
		return StatusBarStyle.Width(m.width).Render(notify.Style(m.flash.Severity).Render(text))
	}
	help := "←/→: day • [/]: week • ↑/↓: task • enter: actions • a: add • H/L: move • r: refresh • ?: help • q: quit"
	return StatusBarStyle.Width(m.width).Render(truncate(help, m.width-2))
}
