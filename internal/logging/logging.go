// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alvazir/jobasha-sub000/internal/config"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Prefix labels console lines.
const Prefix = "jobasha"

type (
	// Options configures New.
	Options struct {
		// Console receives human-oriented output. Nil means os.Stderr.
		Console io.Writer
		// Verbose lowers the console level to debug.
		Verbose bool
		// Color selects console coloring.
		Color config.ColorMode
		// FilePath is the log file. Empty disables the file sink.
		FilePath string
		// Backup keeps an existing log file as FilePath.backup.
		Backup bool
	}

	// Logger writes every message to the console and, when enabled, to the
	// log file. The file always records debug messages.
	Logger struct {
		console *log.Logger
		file    *log.Logger
		sink    *bufio.Writer
		closer  io.Closer
		path    string
	}
)

// New creates a Logger. The log file is opened (and the previous one moved
// aside) immediately so that permission problems surface before any work.
func New(opts Options) (*Logger, error) {
	w := opts.Console
	if w == nil {
		w = os.Stderr
	}

	console := log.NewWithOptions(w, log.Options{Prefix: Prefix})
	if opts.Verbose {
		console.SetLevel(log.DebugLevel)
	}
	switch opts.Color {
	case config.ColorNever:
		console.SetColorProfile(termenv.Ascii)
	case config.ColorAlways:
		console.SetColorProfile(termenv.ANSI256)
	}

	l := &Logger{console: console}
	if opts.FilePath == "" {
		return l, nil
	}

	f, err := openLogFile(opts.FilePath, opts.Backup)
	if err != nil {
		return nil, err
	}
	l.sink = bufio.NewWriter(f)
	l.closer = f
	l.path = opts.FilePath
	l.file = log.NewWithOptions(l.sink, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Formatter:       log.TextFormatter,
	})
	l.file.SetColorProfile(termenv.Ascii)
	return l, nil
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return &Logger{console: log.New(io.Discard)}
}

func openLogFile(path string, backup bool) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	if backup {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			if err := os.Rename(path, path+config.BackupSuffix); err != nil {
				return nil, fmt.Errorf("failed to back up log file: %w", err)
			}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	return f, nil
}

// Path returns the log file path, or "" when the file sink is off.
func (l *Logger) Path() string { return l.path }

// Debug logs a debug message.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.console.Debug(msg, keyvals...)
	if l.file != nil {
		l.file.Debug(msg, keyvals...)
	}
}

// Info logs an informational message.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.console.Info(msg, keyvals...)
	if l.file != nil {
		l.file.Info(msg, keyvals...)
	}
}

// Warn logs a warning.
func (l *Logger) Warn(msg string, keyvals ...any) {
	l.console.Warn(msg, keyvals...)
	if l.file != nil {
		l.file.Warn(msg, keyvals...)
	}
}

// Error logs an error.
func (l *Logger) Error(msg string, keyvals ...any) {
	l.console.Error(msg, keyvals...)
	if l.file != nil {
		l.file.Error(msg, keyvals...)
	}
}

// FileOnly logs msg to the log file only. Used for detail too noisy for
// the console, such as per-entry delevel changes.
func (l *Logger) FileOnly(msg string, keyvals ...any) {
	if l.file != nil {
		l.file.Info(msg, keyvals...)
	}
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l.sink == nil {
		return nil
	}
	flushErr := l.sink.Flush()
	closeErr := l.closer.Close()
	l.sink, l.file, l.closer = nil, nil, nil
	return errors.Join(flushErr, closeErr)
}
