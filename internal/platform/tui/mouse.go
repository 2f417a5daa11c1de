package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/vovakirdan/frontline/internal/input"
)

// Wheel steps beyond this rate are dropped. Trackpads report a burst of
// steps per flick, which would scroll a terminal map by whole screens.
const (
	wheelInterval = 40 * time.Millisecond
	wheelBurst    = 3
)

// MousePump translates terminal mouse reports into tracker events.
type MousePump struct {
	in    *input.Tracker
	wheel *rate.Limiter
	held  [input.MouseButtonCount]bool
}

// NewMousePump returns a pump feeding in.
func NewMousePump(in *input.Tracker) *MousePump {
	return &MousePump{
		in:    in,
		wheel: rate.NewLimiter(rate.Every(wheelInterval), wheelBurst),
	}
}

func mapButton(b tea.MouseButton) (input.MouseButton, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return input.MouseLeft, true
	case tea.MouseButtonMiddle:
		return input.MouseMiddle, true
	case tea.MouseButtonRight:
		return input.MouseRight, true
	case tea.MouseButtonBackward:
		return input.MouseX1, true
	case tea.MouseButtonForward:
		return input.MouseX2, true
	}
	return 0, false
}

// Handle feeds one mouse message to the tracker.
func (p *MousePump) Handle(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if msg.Action != tea.MouseActionPress || !p.wheel.Allow() {
			return
		}
		p.in.HandleMouseMotion(msg.X, msg.Y)
		if msg.Button == tea.MouseButtonWheelUp {
			p.in.HandleMouseWheel(0, 1)
		} else {
			p.in.HandleMouseWheel(0, -1)
		}
		return
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		p.in.HandleMouseMotion(msg.X, msg.Y)

	case tea.MouseActionPress:
		b, ok := mapButton(msg.Button)
		if !ok {
			return
		}
		p.held[b] = true
		p.in.HandleMouseDown(b, msg.X, msg.Y)

	case tea.MouseActionRelease:
		// Legacy mouse encodings do not say which button came up.
		if b, ok := mapButton(msg.Button); ok {
			p.release(b, msg.X, msg.Y)
			return
		}
		for b := range p.held {
			if p.held[b] {
				p.release(input.MouseButton(b), msg.X, msg.Y)
			}
		}
	}
}

func (p *MousePump) release(b input.MouseButton, x, y int) {
	p.held[b] = false
	p.in.HandleMouseUp(b, x, y)
}

// ReleaseAll lifts every held button at the last pointer position, for when
// the terminal loses focus with buttons down and no release will be
// reported.
func (p *MousePump) ReleaseAll() {
	raw := p.in.RawMousePos()
	for b := range p.held {
		if p.held[b] {
			p.release(input.MouseButton(b), raw.X, raw.Y)
		}
	}
}
