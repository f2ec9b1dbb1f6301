package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/existflow/taskcal/internal/fakeapi"
	"github.com/existflow/taskcal/internal/logger"
	"github.com/existflow/taskcal/internal/model"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	cfg := logger.DefaultConfig()
	cfg.FilePath = ""
	cfg.Console = true
	cfg.Level = logger.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err := logger.Init(cfg); err != nil {
		os.Exit(1)
	}
	defer logger.Close()

	srv := fakeapi.New()
	if n, _ := strconv.Atoi(os.Getenv("SEED")); n > 0 {
		srv.Seed(sampleTasks(n)...)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		if err := srv.Close(); err != nil {
			logger.Error("Error closing server", logger.F("error", err))
		}
	}()

	logger.Info("Task API dev server starting", logger.F("port", port))
	if err := srv.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server failed", logger.F("error", err))
		os.Exit(1)
	}
}

// sampleTasks returns n tasks spread over the current week
func sampleTasks(n int) []model.Task {
	priorities := []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityNone}
	states := []model.State{model.StatePending, model.StateInProgress, model.StateCompleted}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	tasks := make([]model.Task, 0, n)
	for i := 0; i < n; i++ {
		created := today.AddDate(0, 0, i%7-3).Add(time.Duration(8+i%9) * time.Hour)
		t := model.Task{
			Name:      "Sample task " + strconv.Itoa(i+1),
			Category:  []string{"Work", "Home", "Errands"}[i%3],
			Priority:  priorities[i%len(priorities)],
			State:     states[i%len(states)],
			CreatedAt: model.Timestamp(created.Format(model.DueLayout)),
		}
		if i%2 == 0 {
			t.DueAt = model.Timestamp(model.FormatDue(created.Add(2 * time.Hour)))
		}
		if t.State == model.StateCompleted {
			t.CompletedAt = model.Timestamp(model.FormatDue(created.Add(time.Hour)))
		}
		tasks = append(tasks, t)
	}
	return tasks
}
