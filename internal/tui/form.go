package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/taskcal/internal/validate"
)

const (
	fieldName = iota
	fieldCategory
	fieldPriority
	fieldEstimate
	fieldDue
	fieldState
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Name",
	"Category",
	"Priority",
	"Estimate",
	"Due",
	"State",
}

var fieldPlaceholders = [fieldCount]string{
	"What needs doing?",
	"Work, Home...",
	"low / medium / high",
	"minutes",
	"2006-01-02T15:04",
	"pendiente / en_progreso / completada",
}

// taskForm edits the raw fields of a task
type taskForm struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	editing bool // false when creating
}

func newTaskForm(f validate.FormFields, editing bool) taskForm {
	values := [fieldCount]string{f.Name, f.Category, f.Priority, f.Estimate, f.DueAt, f.State}

	var tf taskForm
	tf.editing = editing
	for i := range tf.inputs {
		ti := textinput.New()
		ti.Placeholder = fieldPlaceholders[i]
		ti.CharLimit = 256
		ti.Width = 40
		ti.SetValue(values[i])
		tf.inputs[i] = ti
	}
	tf.inputs[fieldName].Focus()
	return tf
}

func (f taskForm) fields() validate.FormFields {
	return validate.FormFields{
		Name:     f.inputs[fieldName].Value(),
		Category: f.inputs[fieldCategory].Value(),
		Priority: f.inputs[fieldPriority].Value(),
		Estimate: f.inputs[fieldEstimate].Value(),
		DueAt:    f.inputs[fieldDue].Value(),
		State:    f.inputs[fieldState].Value(),
	}
}

func (f *taskForm) setFocus(i int) tea.Cmd {
	if i < 0 {
		i = fieldCount - 1
	}
	if i >= fieldCount {
		i = 0
	}
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[i].Focus()
}

func (f *taskForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}
