package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Priority levels as the API spells them. The empty value means unset.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "baja"  // Green
	PriorityMedium Priority = "media" // Amber
	PriorityHigh   Priority = "alta"  // Red
)

// ParsePriority accepts the wire values and their English names
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityNone, true
	case "baja", "low":
		return PriorityLow, true
	case "media", "medium":
		return PriorityMedium, true
	case "alta", "high":
		return PriorityHigh, true
	default:
		return PriorityNone, false
	}
}

// Label returns a human readable priority
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityNone:
		return "None"
	default:
		return string(p)
	}
}

// Rank orders priorities for sorting, unset sorts lowest
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// State is owned by the server. The client never computes transitions.
type State string

const (
	StatePending    State = "pendiente"
	StateInProgress State = "en_progreso"
	StateCompleted  State = "completada"
)

// ParseState accepts the wire values and their English names
func ParseState(s string) (State, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pendiente", "pending":
		return StatePending, true
	case "en_progreso", "in_progress", "in-progress", "progress":
		return StateInProgress, true
	case "completada", "completed", "done":
		return StateCompleted, true
	default:
		return "", false
	}
}

// Label returns a human readable state
func (s State) Label() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateInProgress:
		return "In progress"
	case StateCompleted:
		return "Completed"
	case "":
		return "Pending"
	default:
		return string(s)
	}
}

// TaskID is the opaque task identifier. The API sends numbers, but any
// JSON string or number is accepted.
type TaskID string

// UnmarshalJSON accepts both `12` and `"12"`
func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid task id %s: %w", string(data), err)
	}
	*id = TaskID(n.String())
	return nil
}

// MarshalJSON writes numeric ids back as numbers
func (id TaskID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String returns the id as used in URLs
func (id TaskID) String() string {
	return string(id)
}

// Task is the server's task record. The client holds a read-only copy and
// never mutates it; edits are sent as a full TaskPayload.
type Task struct {
	ID               TaskID    `json:"id"`
	Name             string    `json:"nombre"`
	Category         string    `json:"categoria"`
	Priority         Priority  `json:"prioridad,omitempty"`
	EstimatedMinutes *int      `json:"tiempo_estimado,omitempty"`
	State            State     `json:"estado"`
	DueAt            Timestamp `json:"fecha_limite,omitempty"`
	CreatedAt        Timestamp `json:"fecha_creacion"`
	CompletedAt      Timestamp `json:"completado_en,omitempty"`
}

// IsCompleted returns true if the server marked the task completed
func (t *Task) IsCompleted() bool {
	return t.State == StateCompleted
}

// TaskPayload is the full replacement body for create and update
type TaskPayload struct {
	Name             string  `json:"nombre"`
	Category         string  `json:"categoria"`
	Priority         *string `json:"prioridad"`
	EstimatedMinutes *int    `json:"tiempo_estimado"`
	State            State   `json:"estado,omitempty"`
	DueAt            *string `json:"fecha_limite"`
}
