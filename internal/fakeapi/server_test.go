package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/existflow/taskcal/internal/model"
)

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	now := time.Date(2025, 9, 18, 8, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return now }))

	rec := do(t, s, http.MethodPost, "/api/tareas", `{"nombre":"Pay bills","categoria":"Home","prioridad":null}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body)
	}
	var task model.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("Invalid response: %v", err)
	}
	if task.ID != "1" || task.State != model.StatePending {
		t.Errorf("Unexpected task %+v", task)
	}
	if task.CreatedAt != "2025-09-18T08:00:00" {
		t.Errorf("Expected creation stamp, got %q", task.CreatedAt)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected request id on response")
	}
}

func TestCreateRejectsMissingName(t *testing.T) {
	s := New()
	rec := do(t, s, http.MethodPost, "/api/tareas", `{"nombre":"","categoria":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Errorf("Expected error field, got %s", rec.Body)
	}
}

func TestToggleCycles(t *testing.T) {
	s := New()
	s.Seed(model.Task{ID: "3", Name: "x", Category: "y", State: model.StatePending, CreatedAt: "2025-09-01T00:00:00"})

	want := []model.State{model.StateInProgress, model.StateCompleted, model.StatePending}
	for _, st := range want {
		rec := do(t, s, http.MethodPost, "/api/tarea/3/toggle-estado", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		task, _ := s.Task("3")
		if task.State != st {
			t.Errorf("Expected %q, got %q", st, task.State)
		}
		if (st == model.StateCompleted) != !task.CompletedAt.IsZero() {
			t.Errorf("completado_en mismatch for state %q: %q", st, task.CompletedAt)
		}
	}
}

func TestDeleteAndNotFound(t *testing.T) {
	s := New()
	s.Seed(model.Task{Name: "x", Category: "y", CreatedAt: "2025-09-01T00:00:00"})

	if rec := do(t, s, http.MethodDelete, "/api/tarea/1", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/tarea/1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
	if rec := do(t, s, http.MethodPut, "/api/tarea/abc", `{"nombre":"x","categoria":"y"}`); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for bad id, got %d", rec.Code)
	}
}

func TestFailNext(t *testing.T) {
	s := New()
	s.FailNext(http.StatusInternalServerError, "database down")

	rec := do(t, s, http.MethodGet, "/api/tareas", "")
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "database down") {
		t.Errorf("Expected injected failure, got %d %s", rec.Code, rec.Body)
	}

	rec = do(t, s, http.MethodGet, "/api/tareas", "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected failure to be consumed, got %d", rec.Code)
	}
}
