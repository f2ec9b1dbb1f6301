package tui

import (
	"context"
	"time"

	"github.com/existflow/taskcal/internal/logger"
	"github.com/existflow/taskcal/internal/model"
	"github.com/existflow/taskcal/internal/notify"
	"github.com/existflow/taskcal/internal/sync"
	"github.com/existflow/taskcal/internal/validate"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeMenu
	ModeForm
	ModeConfirm
	ModeHelp
)

// Backend is what the calendar needs from the sync controller
type Backend interface {
	Issuer() sync.LoadIssuer
	Interactions() sync.Interactions
	SubmitCreate(ctx context.Context, f validate.FormFields) (*model.Task, error)
}

// Options tune the calendar
type Options struct {
	SundayFirst bool
	Location    *time.Location
	Now         func() time.Time
	Timeout     time.Duration
}

// menu actions for a selected event
var menuItems = []string{"Edit", "Toggle state", "Delete", "Cancel"}

// Model is the week calendar
type Model struct {
	backend  Backend
	issue    sync.LoadIssuer
	actions  sync.Interactions
	opts     Options

	// Calendar state
	week     sync.RangeHint
	selected time.Time // selected day, midnight
	evCursor int       // index into the selected day's events
	events   []model.Event
	loading  bool

	// Refetch requests from the controller and auto refresh
	refreshChan chan struct{}

	// Notifications
	notices  *notify.Channel
	flash    *notify.Message
	flashSeq int

	// Interaction in progress
	session    *sync.Session
	menuCursor int
	form       taskForm

	width  int
	height int
	mode   Mode
}

// NewModel creates the calendar. notices may be nil.
func NewModel(backend Backend, notices *notify.Channel, opts Options) Model {
	logger.Info("Initializing calendar model")

	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	today := startOfDay(opts.Now().In(opts.Location))
	return Model{
		backend:     backend,
		issue:       backend.Issuer(),
		actions:     backend.Interactions(),
		opts:        opts,
		week:        sync.Week(today, opts.SundayFirst),
		selected:    today,
		refreshChan: make(chan struct{}, 1), // Buffered to avoid blocking
		notices:     notices,
		mode:        ModeNormal,
	}
}

// Refresher returns the hook the controller calls after mutations. It never
// blocks; pending requests coalesce.
func (m Model) Refresher() sync.Refresher {
	ch := m.refreshChan
	return sync.RefresherFunc(func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
}

// Events returns the events currently rendered
func (m Model) Events() []model.Event {
	return m.events
}

// Selected returns the selected day
func (m Model) Selected() time.Time {
	return m.selected
}

// Week returns the visible range
func (m Model) Week() sync.RangeHint {
	return m.week
}

// Mode returns the current UI mode
func (m Model) Mode() Mode {
	return m.mode
}

func (m Model) dayEvents() []model.Event {
	return eventsOn(m.events, m.selected)
}

func (m Model) currentEvent() (model.Event, bool) {
	evs := m.dayEvents()
	if m.evCursor < 0 || m.evCursor >= len(evs) {
		return model.Event{}, false
	}
	return evs[m.evCursor], true
}

func contextWithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
