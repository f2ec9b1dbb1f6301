package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTaskIDAcceptsNumbersAndStrings(t *testing.T) {
	var tasks []Task
	input := `[{"id": 12, "nombre": "a"}, {"id": "abc-1", "nombre": "b"}]`
	if err := json.Unmarshal([]byte(input), &tasks); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if tasks[0].ID != "12" {
		t.Errorf("Expected id 12, got %q", tasks[0].ID)
	}
	if tasks[1].ID != "abc-1" {
		t.Errorf("Expected id abc-1, got %q", tasks[1].ID)
	}

	out, err := json.Marshal(tasks[0].ID)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != "12" {
		t.Errorf("Expected numeric id to marshal as 12, got %s", out)
	}
	out, _ = json.Marshal(TaskID("007"))
	if string(out) != `"007"` {
		t.Errorf("Expected zero-padded id to stay a string, got %s", out)
	}
}

func TestTaskDecodesWireFormat(t *testing.T) {
	input := `{
		"id": 3,
		"nombre": "Pay bills",
		"categoria": "Home",
		"prioridad": null,
		"tiempo_estimado": 30,
		"estado": "completada",
		"fecha_limite": "2025-09-18",
		"fecha_creacion": "2025-09-10 08:00:00",
		"completado_en": "2025-09-17T18:30:00"
	}`
	var task Task
	if err := json.Unmarshal([]byte(input), &task); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if task.Priority != PriorityNone {
		t.Errorf("Expected unset priority, got %q", task.Priority)
	}
	if task.EstimatedMinutes == nil || *task.EstimatedMinutes != 30 {
		t.Errorf("Expected estimate 30, got %v", task.EstimatedMinutes)
	}
	if !task.IsCompleted() {
		t.Error("Expected task to be completed")
	}
	if task.DueAt != "2025-09-18" {
		t.Errorf("Expected raw due date, got %q", task.DueAt)
	}
}

func TestTimestampParse(t *testing.T) {
	loc := time.FixedZone("test", -3*3600)

	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2025-09-18", time.Date(2025, 9, 18, 9, 0, 0, 0, loc)},
		{"2025-09-18T14:30", time.Date(2025, 9, 18, 14, 30, 0, 0, loc)},
		{"2025-09-18T14:30:15", time.Date(2025, 9, 18, 14, 30, 15, 0, loc)},
		{"2025-09-18 14:30:15", time.Date(2025, 9, 18, 14, 30, 15, 0, loc)},
		{"2025-09-18T14:30:15Z", time.Date(2025, 9, 18, 14, 30, 15, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := Timestamp(tt.raw).Parse(loc)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.raw, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}

	if _, err := Timestamp("next tuesday").Parse(loc); err == nil {
		t.Error("Expected error for unparseable timestamp")
	}
	if !Timestamp("  ").IsZero() {
		t.Error("Expected blank timestamp to be zero")
	}
}

func TestParsePriorityAndState(t *testing.T) {
	if p, ok := ParsePriority("High"); !ok || p != PriorityHigh {
		t.Errorf("Expected High to parse as alta, got %q %v", p, ok)
	}
	if _, ok := ParsePriority("urgent"); ok {
		t.Error("Expected urgent to be rejected")
	}
	if s, ok := ParseState("in_progress"); !ok || s != StateInProgress {
		t.Errorf("Expected in_progress to parse, got %q %v", s, ok)
	}
	if _, ok := ParseState("blocked"); ok {
		t.Error("Expected blocked to be rejected")
	}
}

func TestEventPayloadReusesAttributes(t *testing.T) {
	est := 45
	ev := Event{
		ID:    "9",
		Title: "Plan trip",
		Extended: ExtendedAttributes{
			Category:         "Travel",
			Priority:         PriorityMedium,
			State:            StateInProgress,
			EstimatedMinutes: &est,
			OriginalName:     "Plan trip",
		},
	}

	due := time.Date(2025, 9, 20, 11, 0, 0, 0, time.UTC)
	p := ev.Payload(due)

	if p.Name != "Plan trip" || p.Category != "Travel" || p.State != StateInProgress {
		t.Errorf("Unexpected payload %+v", p)
	}
	if p.Priority == nil || *p.Priority != "media" {
		t.Errorf("Expected priority media, got %v", p.Priority)
	}
	if p.DueAt == nil || *p.DueAt != "2025-09-20T11:00:00" {
		t.Errorf("Expected due 2025-09-20T11:00:00, got %v", p.DueAt)
	}
}
