// Package notify delivers transient user-facing messages.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/taskcal/internal/logger"
)

// Severity of a notification
type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Danger
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Danger:
		return "danger"
	default:
		return "info"
	}
}

// DismissAfter is how long a flash message stays visible
const DismissAfter = 3500 * time.Millisecond

// Notifier shows a message to the user
type Notifier interface {
	Notify(message string, severity Severity)
}

// Func adapts a function to Notifier
type Func func(message string, severity Severity)

func (f Func) Notify(message string, severity Severity) { f(message, severity) }

// Log writes notifications to the logger
type Log struct{}

func (Log) Notify(message string, severity Severity) {
	switch severity {
	case Danger:
		logger.Error("Notification", logger.F("message", message))
	case Warning:
		logger.Warn("Notification", logger.F("message", message))
	default:
		logger.Info("Notification", logger.F("message", message), logger.F("severity", severity))
	}
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
)

// Style returns the lipgloss style for a severity
func Style(s Severity) lipgloss.Style {
	switch s {
	case Success:
		return successStyle
	case Warning:
		return warningStyle
	case Danger:
		return dangerStyle
	default:
		return infoStyle
	}
}

// Icon returns the prefix shown before a message
func Icon(s Severity) string {
	switch s {
	case Success:
		return "✓"
	case Warning:
		return "!"
	case Danger:
		return "✗"
	default:
		return "i"
	}
}

// Printer writes styled lines, for the CLI
type Printer struct {
	mu  sync.Mutex
	Out io.Writer
}

// NewPrinter returns a printer writing to w
func NewPrinter(w io.Writer) *Printer {
	return &Printer{Out: w}
}

func (p *Printer) Notify(message string, severity Severity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.Out, Style(severity).Render(Icon(severity)+" "+message))
}

// Message is one notification as delivered through a Channel
type Message struct {
	Text     string
	Severity Severity
	At       time.Time
}

// Expired reports whether the flash should be dismissed at now
func (m Message) Expired(now time.Time) bool {
	return now.Sub(m.At) >= DismissAfter
}

// Channel queues notifications for a consumer such as the TUI. Messages are
// dropped when the buffer is full.
type Channel struct {
	C chan Message
}

// NewChannel returns a Channel with a buffer of size n
func NewChannel(n int) *Channel {
	return &Channel{C: make(chan Message, n)}
}

func (c *Channel) Notify(message string, severity Severity) {
	select {
	case c.C <- Message{Text: message, Severity: severity, At: time.Now()}:
	default:
		logger.Debug("Notification dropped", logger.F("message", message))
	}
}

// Multi fans out to several notifiers
type Multi []Notifier

func (m Multi) Notify(message string, severity Severity) {
	for _, n := range m {
		if n != nil {
			n.Notify(message, severity)
		}
	}
}

// Recorder keeps every notification, for tests
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
}

func (r *Recorder) Notify(message string, severity Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Text: message, Severity: severity, At: time.Now()})
}

// All returns a copy of the recorded messages
func (r *Recorder) All() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.Messages))
	copy(out, r.Messages)
	return out
}

// Last returns the most recent message
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Messages) == 0 {
		return Message{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}
