// Package fakeapi is an in-memory implementation of the task API used by
// tests and the local dev server.
package fakeapi

import (
	"bytes"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/existflow/taskcal/internal/logger"
	"github.com/existflow/taskcal/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Request is a recorded incoming request
type Request struct {
	Method    string
	Path      string
	RequestID string
	Body      []byte
}

type failure struct {
	status  int
	message string
}

// Server is the fake task API
type Server struct {
	mu       sync.Mutex
	tasks    map[int]model.Task
	nextID   int
	failures []failure
	requests []Request
	now      func() time.Time
	echo     *echo.Echo
}

// Option configures a Server
type Option func(*Server)

// WithClock sets the time source used for creation and completion times
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates an empty server
func New(opts ...Option) *Server {
	s := &Server{
		tasks:  make(map[int]model.Task),
		nextID: 1,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	// Keep the client's X-Request-ID, mint a uuid otherwise
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(s.logRequests)
	e.Use(s.record)
	e.Use(s.injectFailures)

	e.GET("/health", s.handleHealth)

	api := e.Group("/api")
	api.GET("/tareas", s.handleList)
	api.POST("/tareas", s.handleCreate)
	api.PUT("/tarea/:id", s.handleUpdate)
	api.DELETE("/tarea/:id", s.handleDelete)
	api.POST("/tarea/:id/toggle-estado", s.handleToggle)

	s.echo = e
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		err := next(c)

		res := c.Response()
		logger.Info("HTTP Request",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("request_id", res.Header().Get(echo.HeaderXRequestID)),
			logger.F("duration", time.Since(start).String()))
		return err
	}
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:    req.Method,
			Path:      req.URL.Path,
			RequestID: req.Header.Get(echo.HeaderXRequestID),
			Body:      body,
		})
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) injectFailures(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !strings.HasPrefix(c.Request().URL.Path, "/api/") {
			return next(c)
		}
		s.mu.Lock()
		if len(s.failures) == 0 {
			s.mu.Unlock()
			return next(c)
		}
		f := s.failures[0]
		s.failures = s.failures[1:]
		s.mu.Unlock()

		if f.message == "" {
			return c.JSON(f.status, map[string]string{})
		}
		return c.JSON(f.status, map[string]string{"error": f.message})
	}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until the server is closed
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Close stops a started server
func (s *Server) Close() error {
	return s.echo.Close()
}

// FailNext makes the next API request answer status with message as the
// "error" field. An empty message sends an empty JSON object.
func (s *Server) FailNext(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{status: status, message: message})
}

// Seed inserts tasks as-is. Tasks without a numeric id get the next one.
func (s *Server) Seed(tasks ...model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tasks {
		id, err := strconv.Atoi(t.ID.String())
		if err != nil || id <= 0 {
			id = s.nextID
			t.ID = model.TaskID(strconv.Itoa(id))
		}
		if id >= s.nextID {
			s.nextID = id + 1
		}
		s.tasks[id] = t
	}
}

// Tasks returns the stored tasks ordered by id
func (s *Server) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// Task returns one stored task
func (s *Server) Task(id model.TaskID) (model.Task, bool) {
	n, err := strconv.Atoi(id.String())
	if err != nil {
		return model.Task{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[n]
	return t, ok
}

// Requests returns the recorded API requests
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// ResetRequests forgets recorded requests
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) sortedLocked() []model.Task {
	ids := make([]int, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.tasks[id])
	}
	return out
}

func (s *Server) stamp() model.Timestamp {
	return model.Timestamp(s.now().Format(model.DueLayout))
}
