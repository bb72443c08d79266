// Package logger dispatches structured log calls to the configured backends.
// Calls are dropped until Init has been called, which keeps tests quiet.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Backend is implemented by anything that can receive log records.
type Backend interface {
	Debug(message any, keyvals ...any)
	Info(message any, keyvals ...any)
	Warn(message any, keyvals ...any)
	Error(message any, keyvals ...any)
	Fatal(message any, keyvals ...any)
}

type Options struct {
	Level  string
	Writer io.Writer
}

var backends []Backend

// Init replaces the active backends.
func Init(b ...Backend) {
	backends = b
}

// NewConsole builds a charmbracelet logger writing to stderr unless another
// writer is given. Unknown levels fall back to info.
func NewConsole(opts Options) *log.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
}

func Debug(message string, keyvals ...any) {
	for _, b := range backends {
		b.Debug(message, keyvals...)
	}
}

func Info(message string, keyvals ...any) {
	for _, b := range backends {
		b.Info(message, keyvals...)
	}
}

func Warn(message string, keyvals ...any) {
	for _, b := range backends {
		b.Warn(message, keyvals...)
	}
}

func Error(message string, keyvals ...any) {
	for _, b := range backends {
		b.Error(message, keyvals...)
	}
}

// Fatal logs and exits the process.
func Fatal(message string, keyvals ...any) {
	for _, b := range backends {
		b.Fatal(message, keyvals...)
	}
	os.Exit(1)
}
