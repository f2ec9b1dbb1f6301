package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/existflow/taskcal/internal/model"
)

// TaskAPI is the part of the API the sync controller needs
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, p model.TaskPayload) (*model.Task, error)
	UpdateTask(ctx context.Context, id model.TaskID, p model.TaskPayload) (*model.Task, error)
	DeleteTask(ctx context.Context, id model.TaskID) error
	ToggleState(ctx context.Context, id model.TaskID) (*model.Task, error)
}

var _ TaskAPI = (*Client)(nil)

func taskPath(id model.TaskID) string {
	return "/api/tarea/" + url.PathEscape(id.String())
}

// ListTasks fetches every task
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.Do(ctx, http.MethodGet, "/api/tareas", nil, &tasks); err != nil {
		if errors.Is(err, ErrNoContent) {
			return nil, nil
		}
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task and returns the server's copy
func (c *Client) CreateTask(ctx context.Context, p model.TaskPayload) (*model.Task, error) {
	return c.taskCall(ctx, http.MethodPost, "/api/tareas", p)
}

// UpdateTask replaces a task
func (c *Client) UpdateTask(ctx context.Context, id model.TaskID, p model.TaskPayload) (*model.Task, error) {
	if id == "" {
		return nil, fmt.Errorf("update: empty task id")
	}
	return c.taskCall(ctx, http.MethodPut, taskPath(id), p)
}

// DeleteTask deletes a task
func (c *Client) DeleteTask(ctx context.Context, id model.TaskID) error {
	if id == "" {
		return fmt.Errorf("delete: empty task id")
	}
	err := c.Do(ctx, http.MethodDelete, taskPath(id), nil, nil)
	if errors.Is(err, ErrNoContent) {
		return nil
	}
	return err
}

// ToggleState asks the server to advance the task's state
func (c *Client) ToggleState(ctx context.Context, id model.TaskID) (*model.Task, error) {
	if id == "" {
		return nil, fmt.Errorf("toggle: empty task id")
	}
	return c.taskCall(ctx, http.MethodPost, taskPath(id)+"/toggle-estado", nil)
}

// taskCall returns nil task and nil error when the server sent no body
func (c *Client) taskCall(ctx context.Context, method, path string, body interface{}) (*model.Task, error) {
	var task model.Task
	err := c.Do(ctx, method, path, body, &task)
	if errors.Is(err, ErrNoContent) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if task.ID == "" && task.Name == "" {
		return nil, nil
	}
	return &task, nil
}
