package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PrevWeek key.Binding
	NextWeek key.Binding
	Today    key.Binding
	Enter    key.Binding
	Add      key.Binding
	MoveBack key.Binding
	MoveFwd  key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Save     key.Binding
	Yes      key.Binding
	No       key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev event")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next event")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
	PrevWeek: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev week")),
	NextWeek: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next week")),
	Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "actions")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
	MoveBack: key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "move -1 day")),
	MoveFwd:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "move +1 day")),
	MoveUp:   key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move -1 hour")),
	MoveDown: key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move +1 hour")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Tab:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	ShiftTab: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Yes:      key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	No:       key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
}
