// Package sync keeps the calendar consistent with the task API.
//
// Every mutation goes to the server and is followed by a full refetch. The
// controller never patches its event list in place.
package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	gosync "sync"
	"sync/atomic"
	"time"

	"github.com/existflow/taskcal/internal/api"
	"github.com/existflow/taskcal/internal/logger"
	"github.com/existflow/taskcal/internal/model"
	"github.com/existflow/taskcal/internal/notify"
	"github.com/existflow/taskcal/internal/projection"
	"github.com/existflow/taskcal/internal/validate"
)

// ErrCancelled is returned when the user declines a confirmation
var ErrCancelled = errors.New("cancelled by user")

// Controller orchestrates loads and mutations
type Controller struct {
	api       api.TaskAPI
	projector *projection.Projector
	notifier  notify.Notifier
	loc       *time.Location

	issued atomic.Uint64

	mu        gosync.Mutex
	current   []model.Event
	tasks     []model.Task
	refresher Refresher
	session   *Session
}

// Option configures a Controller
type Option func(*Controller)

// WithProjector replaces the default projector
func WithProjector(p *projection.Projector) Option {
	return func(c *Controller) { c.projector = p }
}

// WithLocation sets the zone used for zone-less timestamps
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) { c.loc = loc }
}

// NewController creates a controller. A nil notifier logs notifications.
func NewController(client api.TaskAPI, notifier notify.Notifier, opts ...Option) *Controller {
	c := &Controller{
		api:      client,
		notifier: notifier,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = notify.Log{}
	}
	if c.projector == nil {
		c.projector = &projection.Projector{Location: c.loc, Now: time.Now}
	}
	return c
}

// Attach registers the calendar to be refreshed after mutations
func (c *Controller) Attach(r Refresher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresher = r
}

// Current returns the last applied event list
func (c *Controller) Current() []model.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Event, len(c.current))
	copy(out, c.current)
	return out
}

// LoadEvents fetches tasks and projects them. Only the latest issued load is
// applied; an older one completing afterwards returns ok=false.
func (c *Controller) LoadEvents(ctx context.Context, hint RangeHint) ([]model.Event, bool) {
	return c.IssueLoad(hint)(ctx)
}

// IssueLoad takes the load's sequence number now and returns the load to run
// later. Callers that run loads on other goroutines issue them in order here
// so completion order cannot reorder them.
func (c *Controller) IssueLoad(hint RangeHint) IssuedLoad {
	seq := c.issued.Add(1)
	return func(ctx context.Context) ([]model.Event, bool) {
		return c.load(ctx, seq, hint)
	}
}

func (c *Controller) load(ctx context.Context, seq uint64, hint RangeHint) ([]model.Event, bool) {
	log := logger.WithFields(logger.F("load", seq))
	log.Debug("Loading tasks", logger.F("from", hint.Start), logger.F("to", hint.End))

	tasks, err := c.api.ListTasks(ctx)

	if c.issued.Load() != seq {
		log.Debug("Discarding stale load")
		return nil, false
	}

	if err != nil {
		log.Error("Failed to load tasks", logger.F("error", err))
		if !c.apply(seq, []model.Event{}, nil) {
			return nil, false
		}
		c.notifier.Notify("Failed to load tasks", notify.Danger)
		return []model.Event{}, true
	}

	events, errs := c.projector.ProjectAll(tasks)
	if !hint.IsZero() {
		visible := events[:0]
		for _, ev := range events {
			if hint.Contains(ev.Start) {
				visible = append(visible, ev)
			}
		}
		events = visible
	}

	if !c.apply(seq, events, tasks) {
		log.Debug("Discarding stale load")
		return nil, false
	}

	if len(errs) > 0 {
		ids := make([]string, 0, len(errs))
		for _, e := range errs {
			var mte *projection.MalformedTaskError
			if errors.As(e, &mte) {
				ids = append(ids, mte.ID.String())
			}
			log.Warn("Skipping malformed task", logger.F("error", e))
		}
		c.notifier.Notify(fmt.Sprintf("Skipped %d malformed task(s): %s", len(errs), strings.Join(ids, ", ")), notify.Warning)
	}

	log.Debug("Loaded events", logger.F("count", len(events)))
	out := make([]model.Event, len(events))
	copy(out, events)
	return out, true
}

// apply stores a load result if seq is still the latest issued
func (c *Controller) apply(seq uint64, events []model.Event, tasks []model.Task) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.issued.Load() != seq {
		return false
	}
	c.current = events
	c.tasks = tasks
	return true
}

// Tasks fetches tasks and returns those matching f, sorted by s
func (c *Controller) Tasks(ctx context.Context, f Filter, s SortSpec) ([]model.Task, error) {
	tasks, err := c.api.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks = f.Apply(tasks, c.loc)
	s.Sort(tasks, c.loc)
	return tasks, nil
}

// Event returns the event for id from the last applied load
func (c *Controller) Event(id model.TaskID) (model.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ev := range c.current {
		if ev.ID == id {
			return ev, true
		}
	}
	return model.Event{}, false
}

// FindEvent looks id up in the current list, fetching and projecting the
// task when it is not visible.
func (c *Controller) FindEvent(ctx context.Context, id model.TaskID) (model.Event, error) {
	if ev, ok := c.Event(id); ok {
		return ev, nil
	}
	tasks, err := c.api.ListTasks(ctx)
	if err != nil {
		return model.Event{}, fmt.Errorf("list tasks: %w", err)
	}
	for _, t := range tasks {
		if t.ID == id {
			return c.projector.Project(t)
		}
	}
	return model.Event{}, fmt.Errorf("task %s not found", id)
}

// SubmitCreate validates and creates a task
func (c *Controller) SubmitCreate(ctx context.Context, f validate.FormFields) (*model.Task, error) {
	payload, err := c.payload(f)
	if err != nil {
		return nil, err
	}

	task, err := c.api.CreateTask(ctx, payload)
	if err != nil {
		return nil, c.fail("create task", err, "Failed to create the task")
	}

	logger.Info("Task created", logger.F("name", payload.Name))
	c.notifier.Notify("Task created", notify.Success)
	c.requestRefetch()
	return task, nil
}

// SubmitUpdate validates and replaces a task
func (c *Controller) SubmitUpdate(ctx context.Context, id model.TaskID, f validate.FormFields) (*model.Task, error) {
	payload, err := c.payload(f)
	if err != nil {
		return nil, err
	}

	task, err := c.api.UpdateTask(ctx, id, payload)
	if err != nil {
		return nil, c.fail("update task", err, "Failed to update the task")
	}

	logger.Info("Task updated", logger.F("id", id))
	c.notifier.Notify("Task updated", notify.Success)
	c.requestRefetch()
	return task, nil
}

// SubmitDelete deletes a task after confirm agrees. A nil confirm skips
// the question.
func (c *Controller) SubmitDelete(ctx context.Context, id model.TaskID, confirm Confirmer) error {
	if confirm != nil && !confirm.Confirm(ctx, c.deletePrompt(id)) {
		logger.Debug("Delete cancelled", logger.F("id", id))
		return ErrCancelled
	}

	if err := c.api.DeleteTask(ctx, id); err != nil {
		return c.fail("delete task", err, "Failed to delete the task")
	}

	logger.Info("Task deleted", logger.F("id", id))
	c.notifier.Notify("Task deleted", notify.Success)
	c.requestRefetch()
	return nil
}

// SubmitToggleState asks the server to advance the task's state
func (c *Controller) SubmitToggleState(ctx context.Context, id model.TaskID) (*model.Task, error) {
	task, err := c.api.ToggleState(ctx, id)
	if err != nil {
		return nil, c.fail("toggle state", err, "Failed to change the task state")
	}

	msg := "Task state updated"
	if task != nil {
		msg = "Task marked as " + strings.ToLower(task.State.Label())
	}
	logger.Info("Task state toggled", logger.F("id", id))
	c.notifier.Notify(msg, notify.Success)
	c.requestRefetch()
	return task, nil
}

// OnEventMoved persists a new due date for a dragged event. The calendar is
// refetched either way so a failed move snaps back.
func (c *Controller) OnEventMoved(ctx context.Context, ev model.Event, newStart time.Time) error {
	defer c.requestRefetch()

	payload := ev.Payload(newStart.In(c.loc))
	if _, err := c.api.UpdateTask(ctx, ev.ID, payload); err != nil {
		return c.fail("move task", err, "Failed to move the task")
	}

	logger.Info("Task moved", logger.F("id", ev.ID), logger.F("due", *payload.DueAt))
	c.notifier.Notify("Task moved to "+newStart.In(c.loc).Format("Mon Jan 2 15:04"), notify.Success)
	return nil
}

func (c *Controller) payload(f validate.FormFields) (model.TaskPayload, error) {
	payload, err := validate.Payload(f, c.loc)
	if err != nil {
		c.notifier.Notify(err.Error(), notify.Danger)
		return model.TaskPayload{}, err
	}
	return payload, nil
}

func (c *Controller) fail(op string, err error, generic string) error {
	logger.Error("API call failed", logger.F("op", op), logger.F("error", err))
	c.notifier.Notify(api.ServerMessage(err, generic), notify.Danger)
	return fmt.Errorf("%s: %w", op, err)
}

func (c *Controller) deletePrompt(id model.TaskID) string {
	if ev, ok := c.Event(id); ok {
		return fmt.Sprintf("Delete task %q?", ev.Title)
	}
	return fmt.Sprintf("Delete task %s?", id)
}

func (c *Controller) requestRefetch() {
	c.mu.Lock()
	r := c.refresher
	c.mu.Unlock()
	if r != nil {
		r.Refetch()
	}
}
