package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/frontline/internal/display"
	"github.com/vovakirdan/frontline/internal/engine"
)

var (
	_ display.Window = (*Terminal)(nil)
	_ engine.Window  = (*Terminal)(nil)
)

// errNoTerminalSize is returned before the first size report arrives.
var errNoTerminalSize = errors.New("tui: terminal size unknown")

// Terminal is the window of the terminal platform. The window is a viewport
// anchored at the top-left cell of the terminal; the terminal itself is the
// usable screen. Window units and drawable pixels are both cells.
//
// Terminal changes that need the program (alt screen, mouse mode) are
// queued as Bubble Tea commands and collected by the model after each
// frame.
type Terminal struct {
	termW, termH int
	w, h         int
	minW, minH   int

	fixed      bool // viewport set explicitly, no longer follows the terminal
	resizable  bool
	fullscreen bool
	grabbed    bool

	cmds []tea.Cmd
}

// NewTerminal returns a window filling a w x h terminal.
func NewTerminal(w, h int, fullscreen bool) *Terminal {
	return &Terminal{
		termW:      w,
		termH:      h,
		w:          w,
		h:          h,
		resizable:  true,
		fullscreen: fullscreen,
	}
}

// Size returns the viewport size.
func (t *Terminal) Size() (int, int) {
	return t.w, t.h
}

// SetSize shrinks or grows the viewport. Sizes larger than the terminal are
// refused.
func (t *Terminal) SetSize(w, h int) {
	if w <= 0 || h <= 0 || w > t.termW || h > t.termH {
		return
	}
	t.w, t.h = w, h
	t.fixed = w != t.termW || h != t.termH
}

// SetMinimumSize records the smallest usable viewport.
func (t *Terminal) SetMinimumSize(w, h int) {
	t.minW, t.minH = w, h
}

// MinimumSize returns the value last passed to SetMinimumSize.
func (t *Terminal) MinimumSize() (int, int) {
	return t.minW, t.minH
}

// TooSmall reports whether the viewport is below the minimum size.
func (t *Terminal) TooSmall() bool {
	return t.w < t.minW || t.h < t.minH
}

// DrawableSize equals Size: a cell is the smallest drawable unit.
func (t *Terminal) DrawableSize() (int, int) {
	return t.w, t.h
}

// UsableBounds returns the terminal size.
func (t *Terminal) UsableBounds() (int, int, error) {
	if t.termW <= 0 || t.termH <= 0 {
		return 0, 0, errNoTerminalSize
	}
	return t.termW, t.termH, nil
}

// TerminalResized records a new terminal size and reports whether the
// viewport changed. A resizable viewport that was never set explicitly
// follows the terminal; otherwise it keeps its size, clipped to fit.
func (t *Terminal) TerminalResized(w, h int) bool {
	t.termW, t.termH = w, h
	oldW, oldH := t.w, t.h
	if t.resizable && !t.fixed {
		t.w, t.h = w, h
	} else {
		t.w, t.h = min(t.w, w), min(t.h, h)
	}
	return t.w != oldW || t.h != oldH
}

// GrabMouse switches between all-motion and cell-motion mouse reporting.
// With the mouse grabbed, hover motion reaches the game as well.
func (t *Terminal) GrabMouse(grab bool) {
	if grab == t.grabbed {
		return
	}
	t.grabbed = grab
	if grab {
		t.cmds = append(t.cmds, tea.EnableMouseAllMotion)
	} else {
		t.cmds = append(t.cmds, tea.EnableMouseCellMotion)
	}
}

// Grabbed reports whether the mouse is grabbed.
func (t *Terminal) Grabbed() bool {
	return t.grabbed
}

// SetResizable controls whether the viewport follows terminal resizes.
func (t *Terminal) SetResizable(resizable bool) {
	t.resizable = resizable
}

// Fullscreen reports whether the alternate screen is in use.
func (t *Terminal) Fullscreen() bool {
	return t.fullscreen
}

// SetFullscreen enters or leaves the alternate screen.
func (t *Terminal) SetFullscreen(on bool) error {
	if on == t.fullscreen {
		return nil
	}
	t.fullscreen = on
	if on {
		t.cmds = append(t.cmds, tea.EnterAltScreen)
	} else {
		t.cmds = append(t.cmds, tea.ExitAltScreen)
	}
	return nil
}

// Cmds returns and clears the queued terminal commands.
func (t *Terminal) Cmds() []tea.Cmd {
	cmds := t.cmds
	t.cmds = nil
	return cmds
}
