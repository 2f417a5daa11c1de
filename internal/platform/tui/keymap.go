package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/frontline/internal/input"
)

// specialKeys maps Bubble Tea key types onto engine key codes.
var specialKeys = map[tea.KeyType]input.KeyCode{
	tea.KeyEnter:     input.KeyReturn,
	tea.KeyEsc:       input.KeyEsc,
	tea.KeyBackspace: input.KeyBackspace,
	tea.KeyCtrlH:     input.KeyBackspace,
	tea.KeyTab:       input.KeyTab,
	tea.KeySpace:     input.KeySpace,
	tea.KeyDelete:    input.KeyDelete,
	tea.KeyInsert:    input.KeyInsert,
	tea.KeyUp:        input.KeyUpArrow,
	tea.KeyDown:      input.KeyDownArrow,
	tea.KeyLeft:      input.KeyLeftArrow,
	tea.KeyRight:     input.KeyRightArrow,
	tea.KeyHome:      input.KeyHome,
	tea.KeyEnd:       input.KeyEnd,
	tea.KeyPgUp:      input.KeyPageUp,
	tea.KeyPgDown:    input.KeyPageDown,
	tea.KeyF1:        input.KeyF1,
	tea.KeyF2:        input.KeyF2,
	tea.KeyF3:        input.KeyF3,
	tea.KeyF4:        input.KeyF4,
	tea.KeyF5:        input.KeyF5,
	tea.KeyF6:        input.KeyF6,
	tea.KeyF7:        input.KeyF7,
	tea.KeyF8:        input.KeyF8,
	tea.KeyF9:        input.KeyF9,
	tea.KeyF10:       input.KeyF10,
	tea.KeyF11:       input.KeyF11,
	tea.KeyF12:       input.KeyF12,
}

// KeyStroke is one terminal key event in engine terms. Terminals report no
// key releases, so a stroke is pressed and released within the same frame;
// Keys go down in order and come up in reverse.
type KeyStroke struct {
	Keys []input.KeyCode
	Text string
}

// MapKey translates a key message. Modifiers become their own keys ahead of
// the main key so chords like Alt+Enter read as "Alt held, Enter pressed".
func MapKey(msg tea.KeyMsg) KeyStroke {
	var ks KeyStroke
	if msg.Alt {
		ks.Keys = append(ks.Keys, input.KeyLAlt)
	}

	switch {
	case msg.Type == tea.KeyRunes:
		if msg.Paste {
			ks.Text = string(msg.Runes)
			return ks
		}
		for _, r := range msg.Runes {
			if r >= 'A' && r <= 'Z' {
				ks.Keys = append(ks.Keys, input.KeyLShift)
			}
			if c, ok := input.CharKey(r); ok {
				ks.Keys = append(ks.Keys, c)
			}
		}
		ks.Text = string(msg.Runes)

	case msg.Type == tea.KeyShiftTab:
		ks.Keys = append(ks.Keys, input.KeyLShift, input.KeyTab)

	case msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ && specialKeys[msg.Type] == 0:
		ks.Keys = append(ks.Keys, input.KeyLCtrl, input.KeyA+input.KeyCode(msg.Type-tea.KeyCtrlA))

	default:
		if c, ok := specialKeys[msg.Type]; ok {
			ks.Keys = append(ks.Keys, c)
			if c == input.KeySpace {
				ks.Text = " "
			}
		}
	}
	return ks
}

// Apply feeds the stroke to a tracker as a complete press and release.
func (ks KeyStroke) Apply(in *input.Tracker) {
	for _, c := range ks.Keys {
		in.HandleKeyDown(c)
	}
	if ks.Text != "" {
		in.HandleText(ks.Text)
	}
	for i := len(ks.Keys) - 1; i >= 0; i-- {
		in.HandleKeyUp(ks.Keys[i])
	}
}
