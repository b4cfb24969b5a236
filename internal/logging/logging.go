// Package logging builds the charmbracelet/log logger used by the session.
// The terminal belongs to the UI while it runs, so logs go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Options configures the session logger.
type Options struct {
	File  string
	Level string
}

// New returns a logger writing to opts.File and a function closing that file.
// With no file configured the logger discards everything.
func New(opts Options) (*log.Logger, func() error, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	if opts.File == "" {
		return newLogger(io.Discard, level), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(f, level), f.Close, nil
}

// Discard returns a logger that drops every record.
func Discard() *log.Logger {
	return newLogger(io.Discard, log.FatalLevel)
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.LogfmtFormatter,
		ReportTimestamp: true,
		Prefix:          "ticktodo",
	})
}
