// Package logging builds the engine logger. Output goes to a per-run file
// under the config dir's logs/ directory and, outside interactive terminal
// mode, to stderr as well.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Options selects where the log goes.
type Options struct {
	Level  string // debug, info, warn, error; empty means info
	Dir    string // config dir; the file goes to <Dir>/logs/
	File   string // explicit log file, overrides Dir
	Stderr bool   // also write to stderr
	Prefix string
	Now    func() time.Time
}

// FileName returns the per-run log file name for t.
func FileName(t time.Time) string {
	return fmt.Sprintf("frontline-%02d%02d_%02d%02d%02d.log",
		int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// New creates a logger and returns it with a close function for the log
// file. With neither Dir, File nor Stderr the logger discards everything.
func New(opts Options) (*log.Logger, func() error, error) {
	level, err := log.ParseLevel(orDefault(opts.Level, "info"))
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var writers []io.Writer
	closeFn := func() error { return nil }

	path := opts.File
	if path == "" && opts.Dir != "" {
		path = filepath.Join(opts.Dir, "logs", FileName(now()))
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: cannot open log file: %w", err)
		}
		writers = append(writers, f)
		closeFn = f.Close
	}
	if opts.Stderr {
		writers = append(writers, os.Stderr)
	}

	var w io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          opts.Prefix,
		Level:           level,
	})
	if path != "" {
		logger.Debug("using log file", "path", path)
	}
	return logger, closeFn, nil
}

// Discard returns a logger that writes nothing.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
