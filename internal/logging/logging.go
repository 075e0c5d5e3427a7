// Package logging builds the process logger shared by the entry points.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Setup returns a text logger and installs it as the slog default. Without
// debug only warnings and errors are written. With path set, logs are
// appended to that file instead of out; the returned close releases it.
func Setup(debug bool, path string, out io.Writer) (*slog.Logger, func() error, error) {
	closeFn := func() error { return nil }
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}
	if out == nil {
		out = io.Discard
	}

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}
