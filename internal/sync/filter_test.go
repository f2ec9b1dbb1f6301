package sync

import (
	"context"
	"testing"
	"time"

	"github.com/existflow/taskcal/internal/model"
	"github.com/existflow/taskcal/internal/notify"
)

func sample() []model.Task {
	return []model.Task{
		{ID: "1", Name: "Pay bills", Category: "Home", Priority: model.PriorityHigh, State: model.StatePending, CreatedAt: "2025-09-10T08:00:00"},
		{ID: "2", Name: "plan trip", Category: "Travel", Priority: model.PriorityLow, State: model.StateCompleted, CreatedAt: "2025-09-12T08:00:00"},
		{ID: "3", Name: "Buy milk", Category: "home", State: model.StateInProgress, CreatedAt: "2025-09-11T08:00:00"},
	}
}

func ids(tasks []model.Task) string {
	s := ""
	for _, t := range tasks {
		s += t.ID.String()
	}
	return s
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"zero matches all", Filter{}, "123"},
		{"state", Filter{State: model.StateCompleted}, "2"},
		{"priority", Filter{Priority: model.PriorityHigh}, "1"},
		{"category ignores case", Filter{Category: "HOME"}, "13"},
		{"text", Filter{Text: "PLAN"}, "2"},
		{"created from", Filter{CreatedFrom: time.Date(2025, 9, 11, 0, 0, 0, 0, time.UTC)}, "23"},
		{"created to", Filter{CreatedTo: time.Date(2025, 9, 11, 8, 0, 0, 0, time.UTC)}, "13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(tt.filter.Apply(sample(), time.UTC)); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		spec SortSpec
		want string
	}{
		{SortSpec{}, "231"},
		{SortSpec{Field: SortCreated, Asc: true}, "132"},
		{SortSpec{Field: SortName, Asc: true}, "312"},
		{SortSpec{Field: SortPriority}, "123"},
		{SortSpec{Field: SortState, Asc: true}, "231"},
	}
	for _, tt := range tests {
		tasks := sample()
		tt.spec.Sort(tasks, time.UTC)
		if got := ids(tasks); got != tt.want {
			t.Errorf("%+v: expected %s, got %s", tt.spec, tt.want, got)
		}
	}
}

func TestParseSortField(t *testing.T) {
	if f, err := ParseSortField("prioridad"); err != nil || f != SortPriority {
		t.Errorf("Expected priority, got %q %v", f, err)
	}
	if f, _ := ParseSortField(""); f != SortCreated {
		t.Errorf("Expected default created, got %q", f)
	}
	if _, err := ParseSortField("due"); err == nil {
		t.Error("Expected error for unknown field")
	}
}

func TestControllerTasks(t *testing.T) {
	stub := &stubAPI{queue: []listResponse{{tasks: sample()}}}
	c := newTestController(stub, &notify.Recorder{})

	tasks, err := c.Tasks(context.Background(), Filter{Category: "home"}, SortSpec{Field: SortName, Asc: true})
	if err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}
	if ids(tasks) != "31" {
		t.Errorf("Expected 31, got %s", ids(tasks))
	}
}

func TestFormatEstimate(t *testing.T) {
	n := func(v int) *int { return &v }
	tests := []struct {
		in   *int
		want string
	}{
		{nil, "unestimated"},
		{n(0), "0m"},
		{n(45), "45m"},
		{n(60), "1h"},
		{n(90), "1h 30m"},
		{n(135), "2h 15m"},
	}
	for _, tt := range tests {
		if got := FormatEstimate(tt.in); got != tt.want {
			t.Errorf("FormatEstimate(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
