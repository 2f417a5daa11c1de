package input

import (
	"slices"
	"time"

	"github.com/vovakirdan/frontline/internal/core"
)

const (
	// DoubleClickInterval is the longest gap between two downs on the same
	// button that still counts as a double click.
	DoubleClickInterval = 250 * time.Millisecond

	// DragThreshold is how far, in logical pixels on either axis, the pointer
	// must travel from the press position before a held button drags.
	DragThreshold = 5
)

// PressAction tells a press from a release in the click log.
type PressAction uint8

const (
	Press PressAction = iota
	Release
)

// MousePress records one button transition in logical coordinates.
type MousePress struct {
	Button MouseButton
	Pos    core.Point
	Action PressAction
}

type buttonState struct {
	state      KeyState
	lastDown   time.Time
	pressPos   core.Point
	releasePos core.Point
}

// Tracker owns the key and button tables of one input source.
// It is not safe for concurrent use; the frame loop owns it.
type Tracker struct {
	now func() time.Time

	keys    [KeyMaxScan]KeyState
	buttons [MouseButtonCount]buttonState
	presses []MousePress

	text       TextQueue
	textActive bool
	currentKey uint32

	scale    float32
	raw      core.Point
	pos      core.Point
	inWindow bool

	dragKey   MouseButton
	dragStart core.Point
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces the wall clock used for double-click timing.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker returns a tracker with every key up and the pointer at the
// centre of a screen of the given logical size.
func NewTracker(screenW, screenH int, opts ...Option) *Tracker {
	t := &Tracker{
		now:      time.Now,
		scale:    1,
		inWindow: true,
		dragKey:  MouseLeft,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.pos = core.Pt(screenW/2, screenH/2)
	t.raw = t.pos
	t.dragStart = t.pos
	return t
}

// SetDisplayScaleFactor changes the divisor applied to raw window
// coordinates and reprojects the last known pointer position. The pointer
// has not moved, only the mapping changed.
func (t *Tracker) SetDisplayScaleFactor(f float32) {
	if f <= 0 {
		return
	}
	t.scale = f
	t.pos = t.project(t.raw)
}

func (t *Tracker) project(raw core.Point) core.Point {
	return core.Pt(int(float32(raw.X)/t.scale), int(float32(raw.Y)/t.scale))
}

// HandleKeyDown records a key press. Repeats while the key is already held
// are ignored.
func (t *Tracker) HandleKeyDown(code KeyCode) {
	if t.textActive {
		vk, editing := editCode(code)
		t.currentKey = vk
		if editing {
			t.text.Push(TextEntry{Key: vk})
		}
	}
	if !code.Valid() {
		return
	}
	switch t.keys[code] {
	case KeyUp, KeyReleased, KeyPressRelease:
		t.keys[code] = KeyPressed
	}
}

// HandleKeyUp records a key release.
func (t *Tracker) HandleKeyUp(code KeyCode) {
	if !code.Valid() {
		return
	}
	switch t.keys[code] {
	case KeyPressed:
		t.keys[code] = KeyPressRelease
	case KeyDown:
		t.keys[code] = KeyReleased
	}
}

// HandleMouseDown records a button press at raw window coordinates.
func (t *Tracker) HandleMouseDown(b MouseButton, x, y int) {
	if !b.valid() {
		return
	}
	t.raw = core.Pt(x, y)
	t.pos = t.project(t.raw)
	t.presses = append(t.presses, MousePress{Button: b, Pos: t.pos, Action: Press})

	bs := &t.buttons[b]
	bs.pressPos = t.pos
	switch bs.state {
	case KeyUp, KeyReleased, KeyPressRelease:
		t.buttonDown(b)
	}
}

func (t *Tracker) buttonDown(b MouseButton) {
	bs := &t.buttons[b]
	now := t.now()
	if !bs.lastDown.IsZero() && now.Sub(bs.lastDown) < DoubleClickInterval {
		bs.state = KeyDoubleClick
		// A third click starts a fresh pair.
		bs.lastDown = time.Time{}
	} else {
		bs.state = KeyPressed
		bs.lastDown = now
	}

	if b < MouseX1 {
		t.dragKey = b
		t.dragStart = t.pos
	}
}

// HandleMouseUp records a button release at raw window coordinates.
func (t *Tracker) HandleMouseUp(b MouseButton, x, y int) {
	if !b.valid() {
		return
	}
	t.raw = core.Pt(x, y)
	t.pos = t.project(t.raw)
	t.presses = append(t.presses, MousePress{Button: b, Pos: t.pos, Action: Release})

	bs := &t.buttons[b]
	bs.releasePos = t.pos
	switch bs.state {
	case KeyPressed:
		bs.state = KeyPressRelease
	case KeyDown, KeyDrag, KeyDoubleClick:
		bs.state = KeyReleased
	}
}

// HandleMouseMotion stores the pointer position and promotes the drag key
// to Drag once it has moved past the threshold.
func (t *Tracker) HandleMouseMotion(x, y int) {
	t.raw = core.Pt(x, y)
	t.pos = t.project(t.raw)

	bs := &t.buttons[t.dragKey]
	if bs.state != KeyPressed && bs.state != KeyDown {
		return
	}
	if core.Abs(t.dragStart.X-t.pos.X) > DragThreshold || core.Abs(t.dragStart.Y-t.pos.Y) > DragThreshold {
		bs.state = KeyDrag
	}
}

// HandleMouseWheel turns a wheel step into a click of the matching
// pseudo-button. The wheel has no release event, so the click is complete
// within the frame. Double-click timing does not apply.
func (t *Tracker) HandleMouseWheel(dx, dy int) {
	var b MouseButton
	switch {
	case dx > 0 || dy > 0:
		b = MouseWheelUp
	case dx < 0 || dy < 0:
		b = MouseWheelDown
	default:
		return
	}
	t.buttons[b].state = KeyPressRelease
	t.buttons[b].lastDown = time.Time{}
}

// HandleText queues decoded text while text input is active. Each
// codepoint is tagged with the current key.
func (t *Tracker) HandleText(s string) {
	if !t.textActive {
		return
	}
	for _, r := range s {
		t.text.Push(TextEntry{Key: t.currentKey, Unicode: r})
	}
}

// StartTextInput enables text buffering.
func (t *Tracker) StartTextInput() {
	if !t.textActive {
		t.textActive = true
		t.currentKey = 0
	}
}

// StopTextInput disables text buffering.
func (t *Tracker) StopTextInput() {
	t.textActive = false
	t.currentKey = 0
}

// TextInputActive reports whether text is being buffered.
func (t *Tracker) TextInputActive() bool {
	return t.textActive
}

// PopKey returns the next buffered key and its codepoint. A zero key is
// reported as ' ' so callers can tell it from an empty queue, which returns
// zero.
func (t *Tracker) PopKey() (uint32, rune) {
	e, ok := t.text.Pop()
	if !ok {
		return 0, 0
	}
	if e.Key == 0 {
		return ' ', e.Unicode
	}
	return e.Key, e.Unicode
}

// ClearText drops all buffered text.
func (t *Tracker) ClearText() {
	t.text.Clear()
}

// NewFrame retires the edges of the frame just processed and clears the
// click log.
func (t *Tracker) NewFrame() {
	for i, s := range t.keys {
		switch s {
		case KeyPressed:
			t.keys[i] = KeyDown
		case KeyReleased, KeyPressRelease:
			t.keys[i] = KeyUp
		}
	}
	for i := range t.buttons {
		switch t.buttons[i].state {
		case KeyPressed:
			t.buttons[i].state = KeyDown
		case KeyReleased, KeyDoubleClick, KeyPressRelease:
			t.buttons[i].state = KeyUp
		}
	}
	t.presses = t.presses[:0]
}

// LoseFocus releases every key and button. Nothing stays held across a
// focus change.
func (t *Tracker) LoseFocus() {
	for i := range t.keys {
		t.keys[i] = KeyUp
	}
	for i := range t.buttons {
		t.buttons[i].state = KeyUp
	}
}

// SetMouseInWindow records whether the pointer is over the window.
func (t *Tracker) SetMouseInWindow(in bool) {
	t.inWindow = in
}

// MouseInWindow reports whether the pointer is over the window.
func (t *Tracker) MouseInWindow() bool {
	return t.inWindow
}

// KeyState returns the raw state of a key. Invalid codes read as up.
func (t *Tracker) KeyState(code KeyCode) KeyState {
	if !code.Valid() {
		return KeyUp
	}
	return t.keys[code]
}

// KeyDown reports whether the key is held.
func (t *Tracker) KeyDown(code KeyCode) bool {
	return t.KeyState(code) != KeyUp
}

// KeyPressed reports whether the key went down this frame.
func (t *Tracker) KeyPressed(code KeyCode) bool {
	s := t.KeyState(code)
	return s == KeyPressed || s == KeyPressRelease
}

// KeyReleased reports whether the key went up this frame.
func (t *Tracker) KeyReleased(code KeyCode) bool {
	s := t.KeyState(code)
	return s == KeyReleased || s == KeyPressRelease
}

// MouseState returns the raw state of a button.
func (t *Tracker) MouseState(b MouseButton) KeyState {
	if !b.valid() {
		return KeyUp
	}
	return t.buttons[b].state
}

// MouseDown reports whether the button is held. Holding left and right
// together counts as holding middle.
func (t *Tracker) MouseDown(b MouseButton) bool {
	if t.MouseState(b) != KeyUp {
		return true
	}
	return b == MouseMiddle && t.buttons[MouseLeft].state != KeyUp && t.buttons[MouseRight].state != KeyUp
}

// MousePressed reports whether the button went down this frame.
func (t *Tracker) MousePressed(b MouseButton) bool {
	s := t.MouseState(b)
	return s == KeyPressed || s == KeyDoubleClick || s == KeyPressRelease
}

// MouseReleased reports whether the button went up this frame.
func (t *Tracker) MouseReleased(b MouseButton) bool {
	s := t.MouseState(b)
	return s == KeyReleased || s == KeyDoubleClick || s == KeyPressRelease
}

// MouseDoubleClicked reports whether this frame's press was a double click.
func (t *Tracker) MouseDoubleClicked(b MouseButton) bool {
	return t.MouseState(b) == KeyDoubleClick
}

// MouseDrag reports whether the button is dragging and, if so, where the
// drag started. Dragging with left while right is held, or the other way
// round, counts as a middle drag.
func (t *Tracker) MouseDrag(b MouseButton) (core.Point, bool) {
	if t.MouseState(b) == KeyDrag {
		return t.dragStart, true
	}
	if b == MouseMiddle {
		l, r := t.buttons[MouseLeft].state, t.buttons[MouseRight].state
		if (l == KeyDrag && r != KeyUp) || (l != KeyUp && r == KeyDrag) {
			return t.dragStart, true
		}
	}
	return core.Point{}, false
}

// MousePressPos returns where the button was last pressed.
func (t *Tracker) MousePressPos(b MouseButton) core.Point {
	if !b.valid() {
		return core.Point{}
	}
	return t.buttons[b].pressPos
}

// MouseReleasePos returns where the button was last released.
func (t *Tracker) MouseReleasePos(b MouseButton) core.Point {
	if !b.valid() {
		return core.Point{}
	}
	return t.buttons[b].releasePos
}

// MousePos returns the pointer in logical coordinates.
func (t *Tracker) MousePos() core.Point {
	return t.pos
}

// RawMousePos returns the pointer in window coordinates.
func (t *Tracker) RawMousePos() core.Point {
	return t.raw
}

// Clicks returns this frame's press and release log in arrival order.
func (t *Tracker) Clicks() []MousePress {
	return slices.Clone(t.presses)
}
