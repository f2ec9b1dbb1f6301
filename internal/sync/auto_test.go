package sync

import (
	"testing"
	"time"
)

func TestAutoRefreshDisabled(t *testing.T) {
	a, err := NewAutoRefresh("", RefresherFunc(func() { t.Error("unexpected refetch") }))
	if err != nil {
		t.Fatalf("NewAutoRefresh failed: %v", err)
	}
	if a.Enabled() {
		t.Error("Expected disabled auto refresh")
	}
	a.Start()
	a.Stop()
}

func TestAutoRefreshRejectsBadSchedule(t *testing.T) {
	if _, err := NewAutoRefresh("every minute", RefresherFunc(func() {})); err == nil {
		t.Error("Expected error for invalid schedule")
	}
}

func TestAutoRefreshTicks(t *testing.T) {
	ticked := make(chan struct{}, 10)
	a, err := NewAutoRefresh("@every 1s", RefresherFunc(func() {
		select {
		case ticked <- struct{}{}:
		default:
		}
	}))
	if err != nil {
		t.Fatalf("NewAutoRefresh failed: %v", err)
	}
	a.Start()
	a.Start()
	defer a.Stop()

	select {
	case <-ticked:
	case <-time.After(3 * time.Second):
		t.Fatal("Expected a refetch within 3s")
	}
}
