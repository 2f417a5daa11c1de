package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/frontline/internal/core"
	"github.com/vovakirdan/frontline/internal/input"
)

func mouse(x, y int, b tea.MouseButton, a tea.MouseAction) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: b, Action: a}
}

func TestMousePumpPressRelease(t *testing.T) {
	in := input.NewTracker(80, 24)
	p := NewMousePump(in)

	p.Handle(mouse(10, 5, tea.MouseButtonLeft, tea.MouseActionPress))
	if !in.MousePressed(input.MouseLeft) {
		t.Fatal("left button should be pressed")
	}
	if got := in.MousePos(); got != core.Pt(10, 5) {
		t.Errorf("pointer = %v, want (10,5)", got)
	}

	in.NewFrame()
	p.Handle(mouse(12, 5, tea.MouseButtonLeft, tea.MouseActionRelease))
	if !in.MouseReleased(input.MouseLeft) {
		t.Error("left button should be released")
	}
	if got := in.MouseReleasePos(input.MouseLeft); got != core.Pt(12, 5) {
		t.Errorf("release position = %v, want (12,5)", got)
	}
}

func TestMousePumpAnonymousRelease(t *testing.T) {
	in := input.NewTracker(80, 24)
	p := NewMousePump(in)

	p.Handle(mouse(1, 1, tea.MouseButtonLeft, tea.MouseActionPress))
	p.Handle(mouse(1, 1, tea.MouseButtonRight, tea.MouseActionPress))
	in.NewFrame()

	// X10 encoding reports releases without a button.
	p.Handle(mouse(2, 2, tea.MouseButtonNone, tea.MouseActionRelease))
	if !in.MouseReleased(input.MouseLeft) || !in.MouseReleased(input.MouseRight) {
		t.Error("a release without a button should lift every held button")
	}
	if in.MouseReleased(input.MouseMiddle) {
		t.Error("middle was never pressed")
	}
}

func TestMousePumpMotionDrag(t *testing.T) {
	in := input.NewTracker(80, 24)
	p := NewMousePump(in)

	p.Handle(mouse(5, 5, tea.MouseButtonLeft, tea.MouseActionPress))
	in.NewFrame()
	p.Handle(mouse(15, 9, tea.MouseButtonLeft, tea.MouseActionMotion))

	start, ok := in.MouseDrag(input.MouseLeft)
	if !ok {
		t.Fatal("motion past the threshold should start a drag")
	}
	if start != core.Pt(5, 5) {
		t.Errorf("drag start = %v, want (5,5)", start)
	}
}

func TestMousePumpWheel(t *testing.T) {
	in := input.NewTracker(80, 24)
	p := NewMousePump(in)

	p.Handle(mouse(3, 4, tea.MouseButtonWheelUp, tea.MouseActionPress))
	if !in.MousePressed(input.MouseWheelUp) {
		t.Error("wheel up should read as a click")
	}
	if got := in.MousePos(); got != core.Pt(3, 4) {
		t.Errorf("pointer = %v, want (3,4)", got)
	}

	in.NewFrame()
	p.Handle(mouse(3, 4, tea.MouseButtonWheelDown, tea.MouseActionPress))
	if !in.MousePressed(input.MouseWheelDown) {
		t.Error("wheel down should read as a click")
	}
}

func TestMousePumpWheelLimit(t *testing.T) {
	in := input.NewTracker(80, 24)
	p := NewMousePump(in)

	steps := 0
	for range 20 {
		p.Handle(mouse(0, 0, tea.MouseButtonWheelDown, tea.MouseActionPress))
		if in.MousePressed(input.MouseWheelDown) {
			steps++
		}
		in.NewFrame()
	}
	if steps < wheelBurst || steps >= 20 {
		t.Errorf("steps = %d, want a burst of %d and then drops", steps, wheelBurst)
	}
}

func TestMousePumpReleaseAll(t *testing.T) {
	in := input.NewTracker(80, 24)
	p := NewMousePump(in)

	p.Handle(mouse(7, 8, tea.MouseButtonRight, tea.MouseActionPress))
	in.NewFrame()
	p.ReleaseAll()

	if !in.MouseReleased(input.MouseRight) {
		t.Error("ReleaseAll should release held buttons")
	}
	if got := in.MouseReleasePos(input.MouseRight); got != core.Pt(7, 8) {
		t.Errorf("release position = %v, want last pointer (7,8)", got)
	}

	in.NewFrame()
	p.ReleaseAll()
	if in.MouseReleased(input.MouseRight) {
		t.Error("a button must be released only once")
	}
}
