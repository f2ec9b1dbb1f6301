package sync

import (
	"fmt"
	gosync "sync"

	"github.com/existflow/taskcal/internal/logger"
	rcron "github.com/robfig/cron/v3"
)

// AutoRefresh periodically asks the calendar to refetch so changes made by
// other clients show up.
type AutoRefresh struct {
	schedule string
	target   Refresher
	cron     *rcron.Cron

	mu      gosync.Mutex
	running bool
}

// NewAutoRefresh validates schedule. An empty schedule yields a disabled
// AutoRefresh whose Start and Stop do nothing.
func NewAutoRefresh(schedule string, target Refresher) (*AutoRefresh, error) {
	a := &AutoRefresh{schedule: schedule, target: target}
	if schedule == "" {
		return a, nil
	}

	a.cron = rcron.New()
	if _, err := a.cron.AddFunc(schedule, a.tick); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return a, nil
}

// Enabled reports whether a schedule is configured
func (a *AutoRefresh) Enabled() bool {
	return a.cron != nil
}

func (a *AutoRefresh) tick() {
	logger.Debug("Auto refresh", logger.F("schedule", a.schedule))
	if a.target != nil {
		a.target.Refetch()
	}
}

// Start begins the schedule in the background
func (a *AutoRefresh) Start() {
	if a.cron == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return
	}
	a.cron.Start()
	a.running = true
	logger.Info("Auto refresh started", logger.F("schedule", a.schedule))
}

// Stop halts the schedule and waits for a running tick to finish
func (a *AutoRefresh) Stop() {
	if a.cron == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}
	<-a.cron.Stop().Done()
	a.running = false
}
