// Package logging sets up the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Mode selects where log output goes.
type Mode int

const (
	// ModeCLI writes to the given writer, usually stderr.
	ModeCLI Mode = iota
	// ModeTUI writes to a file so the alternate screen stays clean.
	ModeTUI
)

// Options configures Init.
type Options struct {
	Mode    Mode
	Debug   bool
	Output  io.Writer // ModeCLI
	LogPath string    // ModeTUI
}

// Level returns the slog level for the debug flag.
func Level(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Init creates the logger, installs it as slog default and returns it with a
// function that releases the log file, if one was opened.
func Init(opts Options) (*slog.Logger, func() error, error) {
	handlerOpts := &slog.HandlerOptions{Level: Level(opts.Debug)}
	closer := func() error { return nil }

	var out io.Writer
	switch opts.Mode {
	case ModeTUI:
		if opts.LogPath == "" {
			out = io.Discard
			break
		}
		if err := os.MkdirAll(filepath.Dir(opts.LogPath), 0755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f.Close
	default:
		out = opts.Output
		if out == nil {
			out = os.Stderr
		}
	}

	logger := slog.New(slog.NewTextHandler(out, handlerOpts))
	slog.SetDefault(logger)
	return logger, closer, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
