package tui

import (
	"errors"
	"testing"
)

func TestTerminalFollowsResize(t *testing.T) {
	term := NewTerminal(80, 24, false)

	if !term.TerminalResized(120, 40) {
		t.Fatal("resizable viewport should follow the terminal")
	}
	if w, h := term.Size(); w != 120 || h != 40 {
		t.Errorf("Size() = %dx%d, want 120x40", w, h)
	}
	if term.TerminalResized(120, 40) {
		t.Error("same size should report no change")
	}
}

func TestTerminalFixedViewport(t *testing.T) {
	term := NewTerminal(100, 30, false)

	term.SetSize(200, 50)
	if w, h := term.Size(); w != 100 || h != 30 {
		t.Errorf("oversized SetSize should be refused, got %dx%d", w, h)
	}

	term.SetSize(80, 24)
	if w, h := term.Size(); w != 80 || h != 24 {
		t.Fatalf("Size() = %dx%d, want 80x24", w, h)
	}

	// An explicit viewport no longer follows the terminal, but is clipped.
	if term.TerminalResized(140, 40) {
		t.Error("fixed viewport should not grow")
	}
	if !term.TerminalResized(70, 40) {
		t.Error("viewport wider than the terminal should be clipped")
	}
	if w, h := term.Size(); w != 70 || h != 24 {
		t.Errorf("Size() = %dx%d, want 70x24", w, h)
	}
}

func TestTerminalNotResizable(t *testing.T) {
	term := NewTerminal(80, 24, false)
	term.SetResizable(false)

	if term.TerminalResized(100, 30) {
		t.Error("non-resizable viewport should keep its size")
	}
	term.SetResizable(true)
	if !term.TerminalResized(100, 30) {
		t.Error("viewport should follow again once resizable")
	}
}

func TestTerminalMinimumSize(t *testing.T) {
	term := NewTerminal(60, 20, false)
	term.SetMinimumSize(80, 24)

	if !term.TooSmall() {
		t.Error("60x20 is below 80x24")
	}
	term.TerminalResized(80, 24)
	if term.TooSmall() {
		t.Error("80x24 fits")
	}
	if w, h := term.MinimumSize(); w != 80 || h != 24 {
		t.Errorf("MinimumSize() = %dx%d", w, h)
	}
}

func TestTerminalUsableBounds(t *testing.T) {
	term := NewTerminal(0, 0, false)
	if _, _, err := term.UsableBounds(); !errors.Is(err, errNoTerminalSize) {
		t.Errorf("err = %v, want errNoTerminalSize", err)
	}

	term.TerminalResized(132, 43)
	w, h, err := term.UsableBounds()
	if err != nil || w != 132 || h != 43 {
		t.Errorf("UsableBounds() = %d, %d, %v", w, h, err)
	}
	if dw, dh := term.DrawableSize(); dw != 132 || dh != 43 {
		t.Errorf("DrawableSize() = %dx%d", dw, dh)
	}
}

func TestTerminalCommands(t *testing.T) {
	term := NewTerminal(80, 24, false)

	term.GrabMouse(true)
	term.GrabMouse(true)
	if err := term.SetFullscreen(true); err != nil {
		t.Fatal(err)
	}
	if !term.Grabbed() || !term.Fullscreen() {
		t.Fatal("grab and fullscreen should be recorded")
	}

	if got := len(term.Cmds()); got != 2 {
		t.Errorf("queued %d commands, want 2", got)
	}
	if got := len(term.Cmds()); got != 0 {
		t.Errorf("Cmds should drain the queue, %d left", got)
	}

	term.GrabMouse(false)
	term.SetFullscreen(false)
	if got := len(term.Cmds()); got != 2 {
		t.Errorf("queued %d commands after release, want 2", got)
	}
}
