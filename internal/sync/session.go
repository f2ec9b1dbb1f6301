package sync

import (
	"context"
	"errors"
	gosync "sync"

	"github.com/existflow/taskcal/internal/model"
	"github.com/existflow/taskcal/internal/validate"
)

// ErrSessionClosed is returned by operations on a closed session
var ErrSessionClosed = errors.New("no event selected")

// Session is one UI interaction on a selected event, such as an open action
// menu or edit form. Opening a new session closes the previous one.
type Session struct {
	c *Controller

	mu     gosync.Mutex
	event  model.Event
	closed bool
}

// Select opens a session on ev
func (c *Controller) Select(ev model.Event) *Session {
	s := &Session{c: c, event: ev}

	c.mu.Lock()
	prev := c.session
	c.session = s
	c.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	return s
}

// Selected returns the event of the open session, if any
func (c *Controller) Selected() (model.Event, bool) {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s == nil {
		return model.Event{}, false
	}
	return s.Event()
}

// Event returns the selected event while the session is open
func (s *Session) Event() (model.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Event{}, false
	}
	return s.event, true
}

// Form returns the edit form prefilled from the selected event
func (s *Session) Form() (validate.FormFields, error) {
	ev, ok := s.Event()
	if !ok {
		return validate.FormFields{}, ErrSessionClosed
	}
	return validate.FromEvent(ev), nil
}

// Update submits an edit of the selected event and closes the session on success
func (s *Session) Update(ctx context.Context, f validate.FormFields) (*model.Task, error) {
	ev, ok := s.Event()
	if !ok {
		return nil, ErrSessionClosed
	}
	task, err := s.c.SubmitUpdate(ctx, ev.ID, f)
	if err == nil {
		s.Close()
	}
	return task, err
}

// Delete deletes the selected event's task and closes the session on success
func (s *Session) Delete(ctx context.Context, confirm Confirmer) error {
	ev, ok := s.Event()
	if !ok {
		return ErrSessionClosed
	}
	err := s.c.SubmitDelete(ctx, ev.ID, confirm)
	if err == nil {
		s.Close()
	}
	return err
}

// Toggle advances the selected task's state and closes the session on success
func (s *Session) Toggle(ctx context.Context) (*model.Task, error) {
	ev, ok := s.Event()
	if !ok {
		return nil, ErrSessionClosed
	}
	task, err := s.c.SubmitToggleState(ctx, ev.ID)
	if err == nil {
		s.Close()
	}
	return task, err
}

// Close ends the interaction. It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.c.mu.Lock()
	if s.c.session == s {
		s.c.session = nil
	}
	s.c.mu.Unlock()
}
