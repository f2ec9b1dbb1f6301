package sync

import (
	"context"
	"time"

	"github.com/existflow/taskcal/internal/model"
	"github.com/existflow/taskcal/internal/validate"
)

// RangeHint is the span the calendar is showing. A zero hint means all.
type RangeHint struct {
	Start time.Time
	End   time.Time
}

// IsZero returns true if the hint does not restrict anything
func (h RangeHint) IsZero() bool {
	return h.Start.IsZero() && h.End.IsZero()
}

// Contains reports whether t falls in [Start, End)
func (h RangeHint) Contains(t time.Time) bool {
	if !h.Start.IsZero() && t.Before(h.Start) {
		return false
	}
	if !h.End.IsZero() && !t.Before(h.End) {
		return false
	}
	return true
}

// Week returns the 7-day range holding day, starting on Monday or Sunday
func Week(day time.Time, sundayFirst bool) RangeHint {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	offset := int(day.Weekday())
	if !sundayFirst {
		offset = (offset + 6) % 7
	}
	start := day.AddDate(0, 0, -offset)
	return RangeHint{Start: start, End: start.AddDate(0, 0, 7)}
}

// IssuedLoad is a load whose place in issue order is already taken. ok is
// false when the result was superseded and must not be rendered.
type IssuedLoad func(ctx context.Context) (events []model.Event, ok bool)

// LoadIssuer issues loads for a range. The returned load may run on any
// goroutine.
type LoadIssuer func(hint RangeHint) IssuedLoad

// Refresher is implemented by the calendar. Refetch asks it to issue a new
// load.
type Refresher interface {
	Refetch()
}

// RefresherFunc adapts a function to Refresher
type RefresherFunc func()

func (f RefresherFunc) Refetch() { f() }

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Interactions are the callbacks the calendar emits
type Interactions struct {
	// OnActivate opens a session on the clicked event
	OnActivate func(ev model.Event) *Session
	// OnDateSelect returns a create form prefilled for the selected day
	OnDateSelect func(day time.Time) validate.FormFields
	// OnMove persists an event dragged to a new start
	OnMove func(ctx context.Context, ev model.Event, newStart time.Time) error
}

// Issuer returns the controller's load operation as a LoadIssuer
func (c *Controller) Issuer() LoadIssuer {
	return c.IssueLoad
}

// Interactions wires calendar callbacks to the controller
func (c *Controller) Interactions() Interactions {
	return Interactions{
		OnActivate:   c.Select,
		OnDateSelect: NewFormForDay,
		OnMove:       c.OnEventMoved,
	}
}

// NewFormForDay returns an empty create form due on day at the default hour
func NewFormForDay(day time.Time) validate.FormFields {
	due := time.Date(day.Year(), day.Month(), day.Day(), model.DefaultDueHour, 0, 0, 0, day.Location())
	return validate.FormFields{
		DueAt: model.FormatDue(due),
		State: string(model.StatePending),
	}
}
