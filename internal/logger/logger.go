package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level represents log severity
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level, defaulting to INFO
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F is a shorthand for creating a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger configuration
type Config struct {
	Level      Level     // Minimum log level
	FilePath   string    // Path to log file, empty disables file output
	MaxSize    int64     // Max size in bytes before rotation (default: 10MB)
	MaxAge     int       // Max age in days (default: 7)
	MaxBackups int       // Max number of backup files (default: 5)
	Console    bool      // Also write to stderr
	Output     io.Writer // Extra writer, used by tests
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	logPath := filepath.Join(home, ".taskcal", "logs", "taskcal.log")

	return Config{
		Level:      INFO,
		FilePath:   logPath,
		MaxSize:    10 * 1024 * 1024, // 10MB
		MaxAge:     7,
		MaxBackups: 5,
		Console:    false, // The TUI owns the terminal
	}
}

// sink is the shared output of a logger and all loggers derived from it
type sink struct {
	mu      sync.Mutex
	config  Config
	file    *os.File
	writers []io.Writer
}

// Logger writes leveled entries with preset fields
type Logger struct {
	sink   *sink
	fields []Field
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// Init installs the global logger, replacing and closing any previous one
func Init(config Config) error {
	l, err := New(config)
	if err != nil {
		return err
	}

	globalMu.Lock()
	prev := globalLogger
	globalLogger = l
	globalMu.Unlock()

	if prev != nil {
		prev.Close()
	}
	return nil
}

// New creates a new logger instance
func New(config Config) (*Logger, error) {
	if config.MaxSize <= 0 {
		config.MaxSize = 10 * 1024 * 1024
	}
	if config.MaxAge <= 0 {
		config.MaxAge = 7
	}
	if config.MaxBackups <= 0 {
		config.MaxBackups = 5
	}

	s := &sink{config: config}

	if config.FilePath != "" {
		logDir := filepath.Dir(config.FilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		if err := s.open(); err != nil {
			return nil, err
		}
		if err := s.rotateIfNeeded(); err != nil {
			return nil, err
		}
	}
	s.resetWriters()

	return &Logger{sink: s}, nil
}

func (s *sink) open() error {
	file, err := os.OpenFile(s.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	s.file = file
	return nil
}

func (s *sink) resetWriters() {
	s.writers = s.writers[:0]
	if s.file != nil {
		s.writers = append(s.writers, s.file)
	}
	if s.config.Console {
		s.writers = append(s.writers, os.Stderr)
	}
	if s.config.Output != nil {
		s.writers = append(s.writers, s.config.Output)
	}
}

// rotateIfNeeded must be called with mu held or before the sink is shared
func (s *sink) rotateIfNeeded() error {
	if s.file == nil {
		return nil
	}

	info, err := s.file.Stat()
	if err != nil {
		return err
	}

	if info.Size() >= s.config.MaxSize {
		return s.rotate()
	}
	if info.Size() > 0 && time.Since(info.ModTime()) > time.Duration(s.config.MaxAge)*24*time.Hour {
		return s.rotate()
	}
	return nil
}

func (s *sink) rotate() error {
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}

	for i := s.config.MaxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", s.config.FilePath, i)
		newPath := fmt.Sprintf("%s.%d", s.config.FilePath, i+1)
		os.Rename(oldPath, newPath)
	}

	if _, err := os.Stat(s.config.FilePath); err == nil {
		if err := os.Rename(s.config.FilePath, s.config.FilePath+".1"); err != nil {
			return err
		}
	}

	if err := s.open(); err != nil {
		return err
	}
	s.resetWriters()
	return nil
}

func (l *Logger) log(level Level, msg string, fields []Field) {
	if l == nil || level < l.sink.config.Level {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	caller := "???"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s %s: %s", time.Now().Format("2006-01-02 15:04:05.000"), level, caller, msg)
	if len(l.fields)+len(fields) > 0 {
		b.WriteString(" |")
		for _, f := range l.fields {
			fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
		}
		for _, f := range fields {
			fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
		}
	}
	b.WriteByte('\n')

	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rotateIfNeeded()
	for _, w := range s.writers {
		w.Write([]byte(b.String()))
	}
}

// WithFields creates a logger sharing the same output with preset fields
func (l *Logger) WithFields(fields ...Field) *Logger {
	if l == nil {
		return nil
	}
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &Logger{sink: l.sink, fields: merged}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(DEBUG, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Field) {
	l.log(INFO, msg, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(WARN, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Field) {
	l.log(ERROR, msg, fields)
}

// Close closes the log file
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		s.resetWriters()
		return err
	}
	return nil
}

// Config returns the configuration the logger was built with
func (l *Logger) Config() Config {
	return l.sink.config
}

func global() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Global logger functions

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...Field) {
	if g := global(); g != nil {
		g.log(DEBUG, msg, fields)
	}
}

// Info logs an info message using the global logger
func Info(msg string, fields ...Field) {
	if g := global(); g != nil {
		g.log(INFO, msg, fields)
	}
}

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...Field) {
	if g := global(); g != nil {
		g.log(WARN, msg, fields)
	}
}

// Error logs an error message using the global logger
func Error(msg string, fields ...Field) {
	if g := global(); g != nil {
		g.log(ERROR, msg, fields)
	}
}

// WithFields creates a new logger with preset fields using the global logger
func WithFields(fields ...Field) *Logger {
	return global().WithFields(fields...)
}

// Close closes the global logger
func Close() error {
	globalMu.Lock()
	g := globalLogger
	globalLogger = nil
	globalMu.Unlock()
	return g.Close()
}

// GetConfig returns the current logger configuration
func GetConfig() Config {
	if g := global(); g != nil {
		return g.Config()
	}
	return DefaultConfig()
}
