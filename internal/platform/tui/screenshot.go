package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vovakirdan/frontline/internal/engine"
)

var _ engine.Screenshotter = (*Screenshotter)(nil)

// Screenshotter saves the current frame as plain text under a screenshots
// directory.
type Screenshotter struct {
	Dir     string
	Capture func() string
	Now     func() time.Time
}

// Screenshot writes one file and returns its path.
func (s *Screenshotter) Screenshot() (string, error) {
	if s.Capture == nil {
		return "", fmt.Errorf("tui: nothing to capture")
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("tui: cannot create screenshot directory: %w", err)
	}

	timestamp := now().Format("20060102_150405")
	path := filepath.Join(s.Dir, fmt.Sprintf("frontline_%s.txt", timestamp))
	if err := os.WriteFile(path, []byte(s.Capture()+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("tui: cannot save screenshot: %w", err)
	}
	return path, nil
}
