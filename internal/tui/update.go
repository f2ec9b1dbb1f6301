package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/taskcal/internal/logger"
	"github.com/existflow/taskcal/internal/model"
	"github.com/existflow/taskcal/internal/notify"
	"github.com/existflow/taskcal/internal/sync"
	"github.com/existflow/taskcal/internal/validate"
)

// eventsLoadedMsg carries a load result for week. ok is false for a
// superseded load.
type eventsLoadedMsg struct {
	week   sync.RangeHint
	events []model.Event
	ok     bool
}

// refreshMsg is sent when the controller or auto refresh asks for a refetch
type refreshMsg struct{}

// noticeMsg carries a notification for the flash bar
type noticeMsg notify.Message

// flashExpiredMsg dismisses the flash with the given sequence
type flashExpiredMsg int

// mutationDoneMsg reports the end of a write
type mutationDoneMsg struct {
	err error
}

// Init loads the first week and starts listening for refreshes and notices
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForRefresh(), m.waitForNotice())
}

// load issues a load for the visible week. It must be called from Update so
// loads are issued in the order the user asked for them.
func (m Model) load() tea.Cmd {
	hint := m.week
	run := m.issue(hint)
	timeout := m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := contextWithTimeout(timeout)
		defer cancel()
		events, ok := run(ctx)
		return eventsLoadedMsg{week: hint, events: events, ok: ok}
	}
}

// waitForRefresh listens for refetch requests
func (m Model) waitForRefresh() tea.Cmd {
	if m.refreshChan == nil {
		return nil
	}
	ch := m.refreshChan
	return func() tea.Msg {
		<-ch
		return refreshMsg{}
	}
}

// waitForNotice listens for notifications
func (m Model) waitForNotice() tea.Cmd {
	if m.notices == nil {
		return nil
	}
	ch := m.notices.C
	return func() tea.Msg {
		return noticeMsg(<-ch)
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventsLoadedMsg:
		if !msg.ok || !msg.week.Start.Equal(m.week.Start) {
			logger.Debug("Ignoring superseded load", logger.F("week", msg.week.Start))
			return m, nil
		}
		m.loading = false
		m.events = msg.events
		m.clampCursor()
		return m, nil

	case refreshMsg:
		m.loading = true
		return m, tea.Batch(m.load(), m.waitForRefresh())

	case noticeMsg:
		n := notify.Message(msg)
		m.flash = &n
		m.flashSeq++
		seq := m.flashSeq
		return m, tea.Batch(
			m.waitForNotice(),
			tea.Tick(notify.DismissAfter, func(time.Time) tea.Msg { return flashExpiredMsg(seq) }),
		)

	case flashExpiredMsg:
		if int(msg) == m.flashSeq {
			m.flash = nil
		}
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil && m.mode == ModeForm && errors.Is(msg.err, validate.ErrInvalid) {
			// Keep the form open so the input can be corrected
			return m, nil
		}
		if m.mode == ModeForm || m.mode == ModeConfirm || m.mode == ModeMenu {
			m.closeInteraction()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeMenu:
			return m.handleMenuKeys(msg)
		case ModeForm:
			return m.handleFormKeys(msg)
		case ModeConfirm:
			return m.handleConfirmKeys(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys handles key presses on the calendar
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Left):
		return m.selectDay(m.selected.AddDate(0, 0, -1))

	case key.Matches(msg, keys.Right):
		return m.selectDay(m.selected.AddDate(0, 0, 1))

	case key.Matches(msg, keys.PrevWeek):
		return m.selectDay(m.selected.AddDate(0, 0, -7))

	case key.Matches(msg, keys.NextWeek):
		return m.selectDay(m.selected.AddDate(0, 0, 7))

	case key.Matches(msg, keys.Today):
		return m.selectDay(startOfDay(m.opts.Now().In(m.opts.Location)))

	case key.Matches(msg, keys.Up):
		if m.evCursor > 0 {
			m.evCursor--
		}

	case key.Matches(msg, keys.Down):
		if m.evCursor < len(m.dayEvents())-1 {
			m.evCursor++
		}

	case key.Matches(msg, keys.Enter):
		ev, ok := m.currentEvent()
		if !ok {
			return m, nil
		}
		m.session = m.actions.OnActivate(ev)
		m.menuCursor = 0
		m.mode = ModeMenu

	case key.Matches(msg, keys.Add):
		m.form = newTaskForm(m.actions.OnDateSelect(m.selected), false)
		m.mode = ModeForm
		return m, textinput.Blink

	case key.Matches(msg, keys.MoveBack):
		return m.moveCurrent(-24 * time.Hour)

	case key.Matches(msg, keys.MoveFwd):
		return m.moveCurrent(24 * time.Hour)

	case key.Matches(msg, keys.MoveUp):
		return m.moveCurrent(-time.Hour)

	case key.Matches(msg, keys.MoveDown):
		return m.moveCurrent(time.Hour)

	case key.Matches(msg, keys.Refresh):
		m.loading = true
		return m, m.load()

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}

// selectDay moves the selection and loads the new week when it changes
func (m Model) selectDay(day time.Time) (tea.Model, tea.Cmd) {
	m.selected = startOfDay(day)
	m.evCursor = 0
	week := sync.Week(m.selected, m.opts.SundayFirst)
	if week.Start.Equal(m.week.Start) {
		return m, nil
	}
	m.week = week
	m.events = nil
	m.loading = true
	return m, m.load()
}

func (m Model) moveCurrent(d time.Duration) (tea.Model, tea.Cmd) {
	ev, ok := m.currentEvent()
	if !ok {
		return m, nil
	}
	onMove := m.actions.OnMove
	timeout := m.opts.Timeout
	newStart := ev.Start.Add(d)
	logger.Debug("Moving event", logger.F("id", ev.ID), logger.F("to", newStart))

	move := func() tea.Msg {
		ctx, cancel := contextWithTimeout(timeout)
		defer cancel()
		return mutationDoneMsg{err: onMove(ctx, ev, newStart)}
	}

	// Follow the event to its new day, which may be in another week
	if d <= -24*time.Hour || d >= 24*time.Hour {
		next, load := m.selectDay(newStart.In(m.opts.Location))
		return next, tea.Batch(load, move)
	}
	return m, move
}

func (m Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Quit):
		m.closeInteraction()

	case key.Matches(msg, keys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}

	case key.Matches(msg, keys.Down):
		if m.menuCursor < len(menuItems)-1 {
			m.menuCursor++
		}

	case key.Matches(msg, keys.Enter):
		return m.runMenuItem()
	}
	return m, nil
}

func (m Model) runMenuItem() (tea.Model, tea.Cmd) {
	s := m.session
	if s == nil {
		m.closeInteraction()
		return m, nil
	}
	timeout := m.opts.Timeout

	switch menuItems[m.menuCursor] {
	case "Edit":
		f, err := s.Form()
		if err != nil {
			m.closeInteraction()
			return m, nil
		}
		m.form = newTaskForm(f, true)
		m.mode = ModeForm
		return m, textinput.Blink

	case "Toggle state":
		return m, func() tea.Msg {
			ctx, cancel := contextWithTimeout(timeout)
			defer cancel()
			_, err := s.Toggle(ctx)
			return mutationDoneMsg{err: err}
		}

	case "Delete":
		m.mode = ModeConfirm
		return m, nil
	}

	m.closeInteraction()
	return m, nil
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Yes):
		s := m.session
		if s == nil {
			m.closeInteraction()
			return m, nil
		}
		timeout := m.opts.Timeout
		return m, func() tea.Msg {
			ctx, cancel := contextWithTimeout(timeout)
			defer cancel()
			// The dialog already asked
			return mutationDoneMsg{err: s.Delete(ctx, nil)}
		}

	case key.Matches(msg, keys.No):
		m.closeInteraction()
	}
	return m, nil
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.closeInteraction()
		return m, nil

	case key.Matches(msg, keys.Tab):
		return m, m.form.setFocus(m.form.focus + 1)

	case key.Matches(msg, keys.ShiftTab):
		return m, m.form.setFocus(m.form.focus - 1)

	case key.Matches(msg, keys.Save), key.Matches(msg, keys.Enter) && m.form.focus == fieldCount-1:
		return m, m.submitForm()

	case key.Matches(msg, keys.Enter):
		return m, m.form.setFocus(m.form.focus + 1)
	}

	return m, m.form.update(msg)
}

func (m Model) submitForm() tea.Cmd {
	fields := m.form.fields()
	timeout := m.opts.Timeout

	if m.form.editing {
		s := m.session
		if s == nil {
			return nil
		}
		return func() tea.Msg {
			ctx, cancel := contextWithTimeout(timeout)
			defer cancel()
			_, err := s.Update(ctx, fields)
			return mutationDoneMsg{err: err}
		}
	}

	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := contextWithTimeout(timeout)
		defer cancel()
		_, err := backend.SubmitCreate(ctx, fields)
		return mutationDoneMsg{err: err}
	}
}

// closeInteraction ends the session and returns to the calendar
func (m *Model) closeInteraction() {
	if m.session != nil {
		m.session.Close()
		m.session = nil
	}
	m.mode = ModeNormal
}

func (m *Model) clampCursor() {
	n := len(m.dayEvents())
	if m.evCursor >= n {
		m.evCursor = n - 1
	}
	if m.evCursor < 0 {
		m.evCursor = 0
	}
}
