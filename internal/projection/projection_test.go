package projection

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/existflow/taskcal/internal/model"
)

var (
	testLoc = time.UTC
	testNow = time.Date(2025, 9, 18, 12, 0, 0, 0, time.UTC)
)

func newTestProjector() *Projector {
	return &Projector{
		Location: testLoc,
		Now:      func() time.Time { return testNow },
	}
}

func ts(t time.Time) model.Timestamp {
	return model.Timestamp(t.Format(time.RFC3339))
}

func TestCompletedAtWinsOverDueDate(t *testing.T) {
	p := newTestProjector()
	completed := testNow.Add(-2 * time.Hour)

	for _, due := range []model.Timestamp{"", ts(testNow.Add(-48 * time.Hour)), ts(testNow.Add(48 * time.Hour))} {
		task := model.Task{
			ID:          "1",
			Name:        "Report",
			State:       model.StateCompleted,
			DueAt:       due,
			CreatedAt:   ts(testNow.Add(-7 * 24 * time.Hour)),
			CompletedAt: ts(completed),
		}
		ev, err := p.Project(task)
		if err != nil {
			t.Fatalf("Project failed: %v", err)
		}
		if !ev.Start.Equal(completed) {
			t.Errorf("due=%q: expected start %v, got %v", due, completed, ev.Start)
		}
	}
}

func TestPastDueDateIsUsed(t *testing.T) {
	p := newTestProjector()

	// Scenario: task 1 due yesterday, no priority
	yesterday := testNow.Add(-24 * time.Hour)
	task := model.Task{
		ID:        "1",
		Name:      "Pay bills",
		State:     model.StatePending,
		DueAt:     ts(yesterday),
		CreatedAt: ts(testNow.Add(-7 * 24 * time.Hour)),
	}
	ev, err := p.Project(task)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if !ev.Start.Equal(yesterday) {
		t.Errorf("Expected start %v, got %v", yesterday, ev.Start)
	}
	if ev.Color != ColorDefault {
		t.Errorf("Expected default color %s, got %s", ColorDefault, ev.Color)
	}
}

func TestDueDateEqualToNowIsUsed(t *testing.T) {
	p := newTestProjector()
	task := model.Task{
		ID:        "1",
		Name:      "Now",
		DueAt:     ts(testNow),
		CreatedAt: ts(testNow.Add(-time.Hour)),
	}
	ev, err := p.Project(task)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if !ev.Start.Equal(testNow) {
		t.Errorf("Expected due date at now to be used, got %v", ev.Start)
	}
}

func TestFutureDueDateFallsBackToCreatedAt(t *testing.T) {
	p := newTestProjector()

	// Scenario: task 2 due tomorrow, created last week
	lastWeek := testNow.Add(-7 * 24 * time.Hour)
	task := model.Task{
		ID:        "2",
		Name:      "Plan trip",
		State:     model.StatePending,
		DueAt:     ts(testNow.Add(24 * time.Hour)),
		CreatedAt: ts(lastWeek),
	}
	ev, err := p.Project(task)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if !ev.Start.Equal(lastWeek) {
		t.Errorf("Expected start %v, got %v", lastWeek, ev.Start)
	}
}

func TestDateOnlyDueIsNormalized(t *testing.T) {
	p := newTestProjector()
	task := model.Task{
		ID:        "3",
		Name:      "Dentist",
		DueAt:     "2025-09-17",
		CreatedAt: "2025-09-01 10:00:00",
	}
	ev, err := p.Project(task)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	want := time.Date(2025, 9, 17, 9, 0, 0, 0, testLoc)
	if !ev.Start.Equal(want) {
		t.Errorf("Expected start %v, got %v", want, ev.Start)
	}

	// Same day at 09:00 is still in the past at noon
	task.DueAt = "2025-09-18"
	ev, _ = p.Project(task)
	if !ev.Start.Equal(time.Date(2025, 9, 18, 9, 0, 0, 0, testLoc)) {
		t.Errorf("Expected today 09:00, got %v", ev.Start)
	}
}

func TestNoDueDateUsesCreatedAt(t *testing.T) {
	p := newTestProjector()
	created := testNow.Add(-3 * time.Hour)
	ev, err := p.Project(model.Task{ID: "4", Name: "x", CreatedAt: ts(created)})
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if !ev.Start.Equal(created) {
		t.Errorf("Expected start %v, got %v", created, ev.Start)
	}
}

func TestColors(t *testing.T) {
	tests := []struct {
		priority model.Priority
		state    model.State
		bg, fg   string
	}{
		{model.PriorityHigh, model.StatePending, ColorHigh, TextLight},
		{model.PriorityMedium, model.StateInProgress, ColorMedium, TextDark},
		{model.PriorityLow, model.StatePending, ColorLow, TextLight},
		{model.PriorityNone, model.StatePending, ColorDefault, TextLight},
		{model.PriorityHigh, model.StateCompleted, ColorCompleted, TextLight},
		{model.PriorityMedium, model.StateCompleted, ColorCompleted, TextLight},
	}
	for _, tt := range tests {
		bg, fg := Colors(tt.priority, tt.state)
		if bg != tt.bg || fg != tt.fg {
			t.Errorf("Colors(%q, %q) = %s/%s, want %s/%s", tt.priority, tt.state, bg, fg, tt.bg, tt.fg)
		}
	}
}

func TestCompletedIsGrayRegardlessOfPriority(t *testing.T) {
	p := newTestProjector()
	for _, prio := range []model.Priority{model.PriorityNone, model.PriorityLow, model.PriorityMedium, model.PriorityHigh} {
		ev, err := p.Project(model.Task{
			ID:          "5",
			Name:        "Done",
			Priority:    prio,
			State:       model.StateCompleted,
			CreatedAt:   ts(testNow.Add(-time.Hour)),
			CompletedAt: ts(testNow),
		})
		if err != nil {
			t.Fatalf("Project failed: %v", err)
		}
		if ev.Color != ColorCompleted {
			t.Errorf("priority %q: expected gray, got %s", prio, ev.Color)
		}
	}
}

func TestEventCarriesSnapshot(t *testing.T) {
	p := newTestProjector()
	est := 90
	task := model.Task{
		ID:               "6",
		Name:             "Write docs",
		Category:         "Work",
		Priority:         model.PriorityLow,
		EstimatedMinutes: &est,
		State:            model.StateInProgress,
		DueAt:            "2025-09-30",
		CreatedAt:        ts(testNow.Add(-time.Hour)),
	}
	ev, err := p.Project(task)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if ev.Title != "Write docs" || ev.Extended.OriginalName != "Write docs" {
		t.Errorf("Expected verbatim title, got %q / %q", ev.Title, ev.Extended.OriginalName)
	}
	if ev.Extended.Category != "Work" || ev.Extended.Priority != model.PriorityLow || ev.Extended.State != model.StateInProgress {
		t.Errorf("Unexpected snapshot %+v", ev.Extended)
	}
	if ev.Extended.DueAt != "2025-09-30" {
		t.Errorf("Expected raw due date in snapshot, got %q", ev.Extended.DueAt)
	}
	if ev.Extended.EstimatedMinutes == &est {
		t.Error("Expected estimate to be copied, not aliased")
	}
	if ev.AllDay {
		t.Error("Expected timed event")
	}
}

func TestProjectIsIdempotent(t *testing.T) {
	p := newTestProjector()
	est := 15
	task := model.Task{
		ID:               "7",
		Name:             "Call mom",
		Category:         "Family",
		Priority:         model.PriorityMedium,
		EstimatedMinutes: &est,
		State:            model.StatePending,
		DueAt:            "2025-09-17T18:00",
		CreatedAt:        "2025-09-10T08:00:00",
	}

	first, err := p.Project(task)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	second, err := p.Project(task)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("Expected identical output:\n%s\n%s", a, b)
	}
}

func TestMalformedTasks(t *testing.T) {
	p := newTestProjector()

	tests := []struct {
		name  string
		task  model.Task
		field string
	}{
		{"missing name", model.Task{ID: "1", CreatedAt: ts(testNow)}, "name"},
		{"blank name", model.Task{ID: "1", Name: "   ", CreatedAt: ts(testNow)}, "name"},
		{"missing createdAt", model.Task{ID: "2", Name: "x"}, "createdAt"},
		{"bad createdAt", model.Task{ID: "3", Name: "x", CreatedAt: "yesterday"}, "createdAt"},
		{"bad dueAt", model.Task{ID: "4", Name: "x", CreatedAt: ts(testNow), DueAt: "soon"}, "dueAt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Project(tt.task)
			if !errors.Is(err, ErrMalformedTask) {
				t.Fatalf("Expected ErrMalformedTask, got %v", err)
			}
			var mte *MalformedTaskError
			if !errors.As(err, &mte) || mte.Field != tt.field {
				t.Errorf("Expected field %s, got %v", tt.field, err)
			}
		})
	}
}

func TestProjectAllSkipsMalformed(t *testing.T) {
	p := newTestProjector()
	tasks := []model.Task{
		{ID: "1", Name: "ok", CreatedAt: ts(testNow)},
		{ID: "2", CreatedAt: ts(testNow)},
		{ID: "3", Name: "also ok", CreatedAt: ts(testNow)},
	}
	events, errs := p.ProjectAll(tasks)
	if len(events) != 2 {
		t.Errorf("Expected 2 events, got %d", len(events))
	}
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errs))
	}
	if events[0].ID != "1" || events[1].ID != "3" {
		t.Errorf("Expected order preserved, got %s, %s", events[0].ID, events[1].ID)
	}
}
