// Package projection turns tasks into calendar events.
//
// The date placed on the calendar follows a fixed chain:
//
//  1. completion time, if the task is completed
//  2. the due date, normalized to a full date-time
//  3. the creation time
//
// A due date strictly in the future is skipped in favor of the creation time,
// so future work shows up on the day it was created.
package projection

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/existflow/taskcal/internal/model"
)

// Palette
const (
	ColorHigh      = "#dc3545" // Red
	ColorMedium    = "#ffc107" // Amber
	ColorLow       = "#28a745" // Green
	ColorDefault   = "#007bff" // Blue accent for unset priority
	ColorCompleted = "#6c757d" // Gray

	TextLight = "#ffffff"
	TextDark  = "#000000"
)

// ErrMalformedTask is matched by every MalformedTaskError
var ErrMalformedTask = errors.New("malformed task")

// MalformedTaskError reports a task that cannot be placed on the calendar
type MalformedTaskError struct {
	ID     model.TaskID
	Field  string
	Reason string
}

func (e *MalformedTaskError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("malformed task %s: %s %s", e.ID, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed task %s: missing %s", e.ID, e.Field)
}

// Is makes errors.Is(err, ErrMalformedTask) work
func (e *MalformedTaskError) Is(target error) bool {
	return target == ErrMalformedTask
}

// Projector maps tasks to events. It is pure given Now.
type Projector struct {
	Location *time.Location
	Now      func() time.Time
}

// New returns a projector using local time and the wall clock
func New() *Projector {
	return &Projector{Location: time.Local, Now: time.Now}
}

func (p *Projector) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

func (p *Projector) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Project converts one task into its calendar event
func (p *Projector) Project(task model.Task) (model.Event, error) {
	return p.project(task, p.now())
}

// ProjectAll converts every well-formed task and returns errors for the rest.
// All tasks in one call see the same instant.
func (p *Projector) ProjectAll(tasks []model.Task) ([]model.Event, []error) {
	now := p.now()
	events := make([]model.Event, 0, len(tasks))
	var errs []error
	for _, t := range tasks {
		ev, err := p.project(t, now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, ev)
	}
	return events, errs
}

func (p *Projector) project(task model.Task, now time.Time) (model.Event, error) {
	if strings.TrimSpace(task.Name) == "" {
		return model.Event{}, &MalformedTaskError{ID: task.ID, Field: "name"}
	}
	if task.CreatedAt.IsZero() {
		return model.Event{}, &MalformedTaskError{ID: task.ID, Field: "createdAt"}
	}

	start, err := p.DisplayDate(task, now)
	if err != nil {
		return model.Event{}, err
	}

	color, text := Colors(task.Priority, task.State)

	return model.Event{
		ID:          task.ID,
		Title:       task.Name,
		Start:       start,
		AllDay:      false,
		Color:       color,
		BorderColor: color,
		TextColor:   text,
		Extended: model.ExtendedAttributes{
			Category:         task.Category,
			Priority:         task.Priority,
			State:            task.State,
			EstimatedMinutes: copyInt(task.EstimatedMinutes),
			DueAt:            task.DueAt,
			OriginalName:     task.Name,
		},
	}, nil
}

// DisplayDate resolves where the task sits on the calendar at instant now
func (p *Projector) DisplayDate(task model.Task, now time.Time) (time.Time, error) {
	loc := p.location()

	created, err := task.CreatedAt.Parse(loc)
	if err != nil {
		return time.Time{}, &MalformedTaskError{ID: task.ID, Field: "createdAt", Reason: "is not a valid time"}
	}

	if !task.CompletedAt.IsZero() {
		completed, err := task.CompletedAt.Parse(loc)
		if err != nil {
			return time.Time{}, &MalformedTaskError{ID: task.ID, Field: "completedAt", Reason: "is not a valid time"}
		}
		return completed, nil
	}

	if !task.DueAt.IsZero() {
		due, err := task.DueAt.Parse(loc)
		if err != nil {
			return time.Time{}, &MalformedTaskError{ID: task.ID, Field: "dueAt", Reason: "is not a valid time"}
		}
		if due.After(now) {
			return created, nil
		}
		return due, nil
	}

	return created, nil
}

// Colors returns background and text color. Completed overrides priority.
func Colors(priority model.Priority, state model.State) (string, string) {
	if state == model.StateCompleted {
		return ColorCompleted, TextLight
	}
	switch priority {
	case model.PriorityHigh:
		return ColorHigh, TextLight
	case model.PriorityMedium:
		return ColorMedium, TextDark
	case model.PriorityLow:
		return ColorLow, TextLight
	default:
		return ColorDefault, TextLight
	}
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
