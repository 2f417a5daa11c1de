package input

// KeyState is the per-frame state of a key or mouse button.
//
// Keys cycle Up -> Pressed -> Down -> Released -> Up. PressRelease records a
// press and release inside one frame. DoubleClick and Drag apply to mouse
// buttons only.
type KeyState uint8

const (
	KeyUp KeyState = iota
	KeyPressed
	KeyDown
	KeyReleased
	KeyPressRelease
	KeyDoubleClick
	KeyDrag
)

func (s KeyState) String() string {
	switch s {
	case KeyUp:
		return "up"
	case KeyPressed:
		return "pressed"
	case KeyDown:
		return "down"
	case KeyReleased:
		return "released"
	case KeyPressRelease:
		return "press-release"
	case KeyDoubleClick:
		return "double-click"
	case KeyDrag:
		return "drag"
	default:
		return "unknown"
	}
}
