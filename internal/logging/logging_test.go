package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileName(t *testing.T) {
	ts := time.Date(2026, time.March, 7, 9, 5, 3, 0, time.UTC)
	if got := FileName(ts); got != "frontline-0307_090503.log" {
		t.Errorf("FileName() = %q", got)
	}
}

func TestNewWritesPerRunFile(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2026, time.December, 31, 23, 59, 1, 0, time.UTC)

	logger, closeFn, err := New(Options{Dir: dir, Level: "debug", Now: func() time.Time { return ts }})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	logger.Info("mode changed", "mode", "title")
	if err := closeFn(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "logs", "frontline-1231_235901.log"))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "mode changed") {
		t.Errorf("log = %q, expected the message", data)
	}
}

func TestNewLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.log")
	logger, closeFn, err := New(Options{File: path, Level: "warn"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	closeFn()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Errorf("log = %q, expected only the warning", data)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("New() with an unknown level should fail")
	}
}
