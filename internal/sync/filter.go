package sync

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/existflow/taskcal/internal/model"
)

// Filter narrows a task list. Zero fields match everything.
type Filter struct {
	State       model.State
	Priority    model.Priority
	Category    string
	Text        string // case-insensitive substring of the name
	CreatedFrom time.Time
	CreatedTo   time.Time
}

// Match reports whether t passes every set criterion
func (f Filter) Match(t model.Task, loc *time.Location) bool {
	if f.State != "" && t.State != f.State {
		return false
	}
	if f.Priority != model.PriorityNone && t.Priority != f.Priority {
		return false
	}
	if f.Category != "" && !strings.EqualFold(t.Category, f.Category) {
		return false
	}
	if f.Text != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(f.Text)) {
		return false
	}
	if !f.CreatedFrom.IsZero() || !f.CreatedTo.IsZero() {
		created, err := t.CreatedAt.Parse(loc)
		if err != nil {
			return false
		}
		if !f.CreatedFrom.IsZero() && created.Before(f.CreatedFrom) {
			return false
		}
		if !f.CreatedTo.IsZero() && created.After(f.CreatedTo) {
			return false
		}
	}
	return true
}

// Apply returns the matching tasks in their original order
func (f Filter) Apply(tasks []model.Task, loc *time.Location) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t, loc) {
			out = append(out, t)
		}
	}
	return out
}

// SortField names a sort key
type SortField string

const (
	SortCreated  SortField = "created"
	SortName     SortField = "name"
	SortPriority SortField = "priority"
	SortState    SortField = "state"
)

// ParseSortField accepts the English and wire names
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "created", "fecha_creacion":
		return SortCreated, nil
	case "name", "nombre":
		return SortName, nil
	case "priority", "prioridad":
		return SortPriority, nil
	case "state", "estado":
		return SortState, nil
	default:
		return "", fmt.Errorf("unknown sort field %q (use created, name, priority or state)", s)
	}
}

// SortSpec orders tasks. The zero value sorts by creation time, newest first.
type SortSpec struct {
	Field SortField
	Asc   bool
}

// Sort orders tasks in place. Ties keep their original order.
func (s SortSpec) Sort(tasks []model.Task, loc *time.Location) {
	less := s.less(loc)
	sort.SliceStable(tasks, func(i, j int) bool {
		if s.Asc {
			return less(tasks[i], tasks[j])
		}
		return less(tasks[j], tasks[i])
	})
}

func (s SortSpec) less(loc *time.Location) func(a, b model.Task) bool {
	switch s.Field {
	case SortName:
		return func(a, b model.Task) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortPriority:
		return func(a, b model.Task) bool {
			return a.Priority.Rank() < b.Priority.Rank()
		}
	case SortState:
		return func(a, b model.Task) bool {
			return a.State < b.State
		}
	default:
		return func(a, b model.Task) bool {
			ta, _ := a.CreatedAt.Parse(loc)
			tb, _ := b.CreatedAt.Parse(loc)
			return ta.Before(tb)
		}
	}
}

// FormatEstimate renders minutes as "1h 30m", "45m" or "2h"
func FormatEstimate(minutes *int) string {
	if minutes == nil {
		return "unestimated"
	}
	m := *minutes
	h := m / 60
	m = m % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
