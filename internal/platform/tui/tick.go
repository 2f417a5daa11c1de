// Package tui is the terminal platform of the engine. It pumps Bubble Tea
// messages into the input tracker and geometry coordinator, runs one engine
// frame per tick, and renders the result. It also provides the title screen,
// the demo game session, the text video player and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/frontline/internal/mainthread"
)

// TickMsg is sent to run one engine frame.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(fps int) tea.Cmd {
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// taskMsg reports that work was posted to the main-thread queue.
type taskMsg struct{}

// waitTask waits for a post to q, or for done to close.
func waitTask(q *mainthread.Queue, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-q.Ready():
			return taskMsg{}
		case <-done:
			return nil
		}
	}
}
