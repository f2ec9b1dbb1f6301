package fakeapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/existflow/taskcal/internal/model"
	"github.com/labstack/echo/v4"
)

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Tasks())
}

func (s *Server) handleCreate(c echo.Context) error {
	p, err := decodePayload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
	}
	if msg := checkPayload(p); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	task := model.Task{
		ID:        model.TaskID(strconv.Itoa(id)),
		State:     model.StatePending,
		CreatedAt: s.stamp(),
	}
	s.apply(&task, p)
	s.tasks[id] = task

	return c.JSON(http.StatusCreated, task)
}

func (s *Server) handleUpdate(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}
	p, err := decodePayload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
	}
	if msg := checkPayload(p); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, found := s.tasks[id]
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}
	s.apply(&task, p)
	s.tasks[id] = task

	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleDelete(c echo.Context) error {
	id, ok := parseID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.tasks[id]; !ok || !found {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}
	delete(s.tasks, id)
	return c.NoContent(http.StatusNoContent)
}

// handleToggle cycles pendiente -> en_progreso -> completada -> pendiente
func (s *Server) handleToggle(c echo.Context) error {
	id, ok := parseID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	task, found := s.tasks[id]
	if !ok || !found {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}

	switch task.State {
	case model.StatePending, "":
		s.setState(&task, model.StateInProgress)
	case model.StateInProgress:
		s.setState(&task, model.StateCompleted)
	default:
		s.setState(&task, model.StatePending)
	}
	s.tasks[id] = task

	return c.JSON(http.StatusOK, task)
}

// apply copies a full replacement payload onto task. Caller holds mu.
func (s *Server) apply(task *model.Task, p model.TaskPayload) {
	task.Name = strings.TrimSpace(p.Name)
	task.Category = strings.TrimSpace(p.Category)

	task.Priority = model.PriorityNone
	if p.Priority != nil {
		task.Priority, _ = model.ParsePriority(*p.Priority)
	}
	task.EstimatedMinutes = p.EstimatedMinutes

	task.DueAt = ""
	if p.DueAt != nil {
		task.DueAt = model.Timestamp(*p.DueAt)
	}

	if p.State != "" {
		if st, ok := model.ParseState(string(p.State)); ok {
			s.setState(task, st)
		}
	}
}

func (s *Server) setState(task *model.Task, st model.State) {
	if task.State == st {
		return
	}
	task.State = st
	if st == model.StateCompleted {
		task.CompletedAt = s.stamp()
	} else {
		task.CompletedAt = ""
	}
}

func decodePayload(c echo.Context) (model.TaskPayload, error) {
	var p model.TaskPayload
	err := json.NewDecoder(c.Request().Body).Decode(&p)
	return p, err
}

func checkPayload(p model.TaskPayload) string {
	if strings.TrimSpace(p.Name) == "" {
		return "El nombre es obligatorio"
	}
	if strings.TrimSpace(p.Category) == "" {
		return "La categoría es obligatoria"
	}
	if p.Priority != nil {
		if _, ok := model.ParsePriority(*p.Priority); !ok {
			return "Prioridad inválida"
		}
	}
	if p.EstimatedMinutes != nil && *p.EstimatedMinutes < 0 {
		return "El tiempo estimado no puede ser negativo"
	}
	if p.DueAt != nil && *p.DueAt != "" {
		if _, err := model.Timestamp(*p.DueAt).Parse(nil); err != nil {
			return "Fecha límite inválida"
		}
	}
	return ""
}

func parseID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
