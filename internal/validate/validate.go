// Package validate checks task form input before anything is sent to the API.
package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/existflow/taskcal/internal/model"
)

// ErrInvalid is matched by every *Error
var ErrInvalid = errors.New("invalid task fields")

// FormFields is the raw user input for a task. Empty strings mean absent.
type FormFields struct {
	Name     string
	Category string
	Priority string
	Estimate string
	DueAt    string
	State    string
}

// Result of Validate
type Result struct {
	Valid  bool
	Errors []string
}

// Message joins all errors into one user-facing line
func (r Result) Message() string {
	return strings.Join(r.Errors, ". ")
}

// Err returns nil for a valid result, otherwise an *Error
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Errors: r.Errors}
}

// Error carries validation failures
type Error struct {
	Errors []string
}

func (e *Error) Error() string {
	return strings.Join(e.Errors, ". ")
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Validate checks fields without any network access
func Validate(f FormFields) Result {
	var errs []string

	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, "The task name is required")
	}
	if strings.TrimSpace(f.Category) == "" {
		errs = append(errs, "The category is required")
	}
	if strings.TrimSpace(f.Priority) != "" {
		if _, ok := model.ParsePriority(f.Priority); !ok {
			errs = append(errs, fmt.Sprintf("Priority %q must be low, medium or high", strings.TrimSpace(f.Priority)))
		}
	}
	if strings.TrimSpace(f.Estimate) != "" {
		if _, err := parseEstimate(f.Estimate); err != nil {
			errs = append(errs, "The estimated time must be a non-negative whole number of minutes")
		}
	}
	if strings.TrimSpace(f.DueAt) != "" {
		if _, err := model.Timestamp(f.DueAt).Parse(time.Local); err != nil {
			errs = append(errs, fmt.Sprintf("The due date %q is not a valid date", strings.TrimSpace(f.DueAt)))
		}
	}
	if strings.TrimSpace(f.State) != "" {
		if _, ok := model.ParseState(f.State); !ok {
			errs = append(errs, fmt.Sprintf("Unknown state %q", strings.TrimSpace(f.State)))
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// Payload validates f and converts it to a request body. The due date is
// normalized to a full local date-time in loc.
func Payload(f FormFields, loc *time.Location) (model.TaskPayload, error) {
	if err := Validate(f).Err(); err != nil {
		return model.TaskPayload{}, err
	}
	if loc == nil {
		loc = time.Local
	}

	p := model.TaskPayload{
		Name:     strings.TrimSpace(f.Name),
		Category: strings.TrimSpace(f.Category),
	}

	if prio, _ := model.ParsePriority(f.Priority); prio != model.PriorityNone {
		s := string(prio)
		p.Priority = &s
	}
	if strings.TrimSpace(f.Estimate) != "" {
		n, _ := parseEstimate(f.Estimate)
		p.EstimatedMinutes = &n
	}
	if strings.TrimSpace(f.DueAt) != "" {
		due, _ := model.Timestamp(f.DueAt).Parse(loc)
		// A zoned value is sent as the same instant on loc's wall clock
		s := model.FormatDue(due.In(loc))
		p.DueAt = &s
	}
	if strings.TrimSpace(f.State) != "" {
		p.State, _ = model.ParseState(f.State)
	}

	return p, nil
}

// FromTask fills a form from an existing task, for edit flows
func FromTask(t model.Task) FormFields {
	f := FormFields{
		Name:     t.Name,
		Category: t.Category,
		Priority: string(t.Priority),
		DueAt:    string(t.DueAt),
		State:    string(t.State),
	}
	if t.EstimatedMinutes != nil {
		f.Estimate = strconv.Itoa(*t.EstimatedMinutes)
	}
	return f
}

// FromEvent fills a form from the attributes cached on an event
func FromEvent(e model.Event) FormFields {
	f := FormFields{
		Name:     e.Extended.OriginalName,
		Category: e.Extended.Category,
		Priority: string(e.Extended.Priority),
		DueAt:    string(e.Extended.DueAt),
		State:    string(e.Extended.State),
	}
	if e.Extended.EstimatedMinutes != nil {
		f.Estimate = strconv.Itoa(*e.Extended.EstimatedMinutes)
	}
	return f
}

func parseEstimate(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative estimate %d", n)
	}
	return n, nil
}
