// Package input tracks keyboard and mouse state between frames.
//
// Platform event handlers feed raw events into a Tracker. The frame loop
// queries edges (pressed/released) and levels (down) and calls NewFrame once
// per frame to retire the edges it has consumed.
package input

import "strings"

// KeyCode identifies a logical key. Printable ASCII keys use their lower-case
// character value; everything else lives above 255.
type KeyCode int

const (
	KeyBackspace KeyCode = 8
	KeyTab       KeyCode = 9
	KeyReturn    KeyCode = 13
	KeyEsc       KeyCode = 27
	KeySpace     KeyCode = 32
	KeyDelete    KeyCode = 127
)

const (
	Key0 KeyCode = '0' + iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

const (
	KeyA KeyCode = 'a' + iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

const (
	KeyUpArrow KeyCode = 256 + iota
	KeyDownArrow
	KeyRightArrow
	KeyLeftArrow
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyLShift
	KeyRShift
	KeyLCtrl
	KeyRCtrl
	KeyLAlt
	KeyRAlt
	KeyLMeta
	KeyRMeta
	KeyKPEnter

	// KeyMaxScan bounds the key table. Codes at or above it are invalid.
	KeyMaxScan
)

var keyNames = map[KeyCode]string{
	KeyBackspace:  "backspace",
	KeyTab:        "tab",
	KeyReturn:     "return",
	KeyEsc:        "escape",
	KeySpace:      "space",
	KeyDelete:     "delete",
	KeyUpArrow:    "up",
	KeyDownArrow:  "down",
	KeyRightArrow: "right",
	KeyLeftArrow:  "left",
	KeyInsert:     "insert",
	KeyHome:       "home",
	KeyEnd:        "end",
	KeyPageUp:     "pageup",
	KeyPageDown:   "pagedown",
	KeyF1:         "f1",
	KeyF2:         "f2",
	KeyF3:         "f3",
	KeyF4:         "f4",
	KeyF5:         "f5",
	KeyF6:         "f6",
	KeyF7:         "f7",
	KeyF8:         "f8",
	KeyF9:         "f9",
	KeyF10:        "f10",
	KeyF11:        "f11",
	KeyF12:        "f12",
	KeyRShift:     "right shift",
	KeyRCtrl:      "right ctrl",
	KeyRAlt:       "right alt",
	KeyRMeta:      "right meta",
	KeyKPEnter:    "keypad enter",
}

// Valid reports whether c indexes the key table.
func (c KeyCode) Valid() bool {
	return c >= 0 && c < KeyMaxScan
}

// String returns a display name for the key. Modifier shortcuts work with
// either side, so the left modifiers read as the bare modifier name.
func (c KeyCode) String() string {
	switch c {
	case KeyLCtrl:
		return "Ctrl"
	case KeyLShift:
		return "Shift"
	case KeyLAlt:
		return "Alt"
	case KeyLMeta:
		return "Meta"
	}
	if !c.Valid() {
		return "???"
	}

	name, ok := keyNames[c]
	if !ok && c > KeySpace && c < KeyDelete && (c < 'A' || c > 'Z') {
		name = string(rune(c))
	}
	if len(name) > 1 && name[0] >= 'a' && name[0] <= 'z' {
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return name
}

// ParseKey is the inverse of String. Matching is case-insensitive.
func ParseKey(name string) (KeyCode, bool) {
	if name == "" {
		return 0, false
	}
	for c := KeyCode(0); c < KeyMaxScan; c++ {
		s := c.String()
		if s != "" && strings.EqualFold(s, name) {
			return c, true
		}
	}
	return 0, false
}

// CharKey maps a typed rune onto the key that produces it.
// Upper-case letters map to their lower-case key.
func CharKey(r rune) (KeyCode, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	if r >= ' ' && r < 0x7f {
		return KeyCode(r), true
	}
	return 0, false
}

// MouseButton identifies a mouse button or wheel direction.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	MouseX1
	MouseX2
	MouseWheelUp
	MouseWheelDown

	// MouseButtonCount bounds the button table.
	MouseButtonCount
)

func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "left"
	case MouseMiddle:
		return "middle"
	case MouseRight:
		return "right"
	case MouseX1:
		return "x1"
	case MouseX2:
		return "x2"
	case MouseWheelUp:
		return "wheel up"
	case MouseWheelDown:
		return "wheel down"
	}
	return "unknown"
}

func (b MouseButton) valid() bool {
	return b >= 0 && b < MouseButtonCount
}

// EditCode tags text queue entries produced by editing keys. The values sit
// above the Unicode range so they never collide with a literal codepoint.
type EditCode uint32

const (
	EditLeft EditCode = 0x110000 + iota
	EditRight
	EditUp
	EditDown
	EditHome
	EditEnd
	EditIns
	EditDel
	EditPgUp
	EditPgDn
	EditBackspace
	EditTab
	EditCR
	EditEsc
)

// editCode maps a key to the editing code it produces, or its own value when
// it is not an editing key.
func editCode(c KeyCode) (uint32, bool) {
	switch c {
	case KeyLeftArrow:
		return uint32(EditLeft), true
	case KeyRightArrow:
		return uint32(EditRight), true
	case KeyUpArrow:
		return uint32(EditUp), true
	case KeyDownArrow:
		return uint32(EditDown), true
	case KeyHome:
		return uint32(EditHome), true
	case KeyEnd:
		return uint32(EditEnd), true
	case KeyInsert:
		return uint32(EditIns), true
	case KeyDelete:
		return uint32(EditDel), true
	case KeyPageUp:
		return uint32(EditPgUp), true
	case KeyPageDown:
		return uint32(EditPgDn), true
	case KeyBackspace:
		return uint32(EditBackspace), true
	case KeyTab:
		return uint32(EditTab), true
	case KeyReturn, KeyKPEnter:
		return uint32(EditCR), true
	case KeyEsc:
		return uint32(EditEsc), true
	}
	return uint32(c), false
}
