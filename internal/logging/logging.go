// Package logging builds the charmbracelet/log logger shared by the client.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Options select where logs go and how verbose they are.
type Options struct {
	// File receives logs when set; it is created or appended to.
	File  string
	Level string
	// Fallback is used when File is empty. Nil discards.
	Fallback io.Writer
}

// New returns the logger and a close function for the log file.
// The interactive UI owns the terminal, so it passes a nil Fallback.
func New(opts Options) (*log.Logger, func() error, error) {
	level := log.WarnLevel
	if opts.Level != "" {
		l, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}

	var w io.Writer = io.Discard
	closer := func() error { return nil }
	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f.Close
	case opts.Fallback != nil:
		w = opts.Fallback
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "tada",
		ReportTimestamp: opts.File != "",
	})
	return logger, closer, nil
}
