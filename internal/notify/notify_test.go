package notify

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestPrinterWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Notify("Task created", Success)
	p.Notify("Server down", Danger)

	out := buf.String()
	if !strings.Contains(out, "Task created") || !strings.Contains(out, "Server down") {
		t.Errorf("Unexpected output %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Errorf("Expected one line per notification, got %q", out)
	}
}

func TestChannelDropsWhenFull(t *testing.T) {
	c := NewChannel(1)
	c.Notify("first", Info)
	c.Notify("second", Warning)

	msg := <-c.C
	if msg.Text != "first" {
		t.Errorf("Expected first message, got %q", msg.Text)
	}
	select {
	case m := <-c.C:
		t.Errorf("Expected second message to be dropped, got %q", m.Text)
	default:
	}
}

func TestMultiAndRecorder(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	Multi{a, nil, b}.Notify("hello", Warning)

	for _, r := range []*Recorder{a, b} {
		m, ok := r.Last()
		if !ok || m.Text != "hello" || m.Severity != Warning {
			t.Errorf("Unexpected recorded message %+v", m)
		}
	}
}

func TestMessageExpiry(t *testing.T) {
	at := time.Date(2025, 9, 18, 12, 0, 0, 0, time.UTC)
	m := Message{Text: "x", At: at}
	if m.Expired(at.Add(3 * time.Second)) {
		t.Error("Expected message to still be visible after 3s")
	}
	if !m.Expired(at.Add(3500 * time.Millisecond)) {
		t.Error("Expected message to expire after 3.5s")
	}
}

func TestSeverityString(t *testing.T) {
	if Danger.String() != "danger" || Success.String() != "success" || Info.String() != "info" || Warning.String() != "warning" {
		t.Error("Unexpected severity names")
	}
}
