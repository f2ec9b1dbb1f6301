package model

import "time"

// ExtendedAttributes is a snapshot of the originating task, kept on the
// event so edit forms can be filled without another fetch.
type ExtendedAttributes struct {
	Category         string    `json:"categoria"`
	Priority         Priority  `json:"prioridad"`
	State            State     `json:"estado"`
	EstimatedMinutes *int      `json:"tiempo_estimado"`
	DueAt            Timestamp `json:"fecha_limite"`
	OriginalName     string    `json:"nombre_original"`
}

// Event is the calendar projection of a Task. It is regenerated on every
// fetch and never persisted.
type Event struct {
	ID          TaskID             `json:"id"`
	Title       string             `json:"title"`
	Start       time.Time          `json:"start"`
	AllDay      bool               `json:"allDay"`
	Color       string             `json:"backgroundColor"`
	BorderColor string             `json:"borderColor"`
	TextColor   string             `json:"textColor"`
	Extended    ExtendedAttributes `json:"extendedProps"`
}

// Payload rebuilds a full replacement body from the cached attributes,
// using due as the new due date.
func (e *Event) Payload(due time.Time) TaskPayload {
	p := TaskPayload{
		Name:             e.Extended.OriginalName,
		Category:         e.Extended.Category,
		EstimatedMinutes: e.Extended.EstimatedMinutes,
		State:            e.Extended.State,
	}
	if e.Extended.Priority != PriorityNone {
		prio := string(e.Extended.Priority)
		p.Priority = &prio
	}
	dueStr := FormatDue(due)
	p.DueAt = &dueStr
	return p
}
