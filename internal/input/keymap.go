package input

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Action is a named, rebindable command.
type Action string

const (
	ActionQuit       Action = "quit"
	ActionPause      Action = "pause"
	ActionScreenshot Action = "screenshot"
	ActionQuickSave  Action = "quicksave"
	ActionSaveGame   Action = "savegame"
	ActionQuickLoad  Action = "quickload"
	ActionEndLevel   Action = "endlevel"
	ActionPlayVideo  Action = "playvideo"
	ActionScaleUp    Action = "scaleup"
	ActionScaleDown  Action = "scaledown"
)

// Keymap binds actions to keys. It is stored as keymap.json in the config
// directory under a "bindings" object of action -> key name.
type Keymap struct {
	bindings map[Action]KeyCode
}

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() *Keymap {
	return &Keymap{bindings: map[Action]KeyCode{
		ActionQuit:       KeyQ,
		ActionPause:      KeyP,
		ActionScreenshot: KeyF10,
		ActionQuickSave:  KeyF5,
		ActionSaveGame:   KeyF6,
		ActionQuickLoad:  KeyF9,
		ActionEndLevel:   KeyN,
		ActionPlayVideo:  KeyV,
		ActionScaleUp:    KeyCode('+'),
		ActionScaleDown:  KeyCode('-'),
	}}
}

// ParseKeymap reads bindings from JSON on top of the defaults. Entries with
// unknown key names are skipped and reported; the returned keymap is usable
// even when the error is non-nil.
func ParseKeymap(data []byte) (*Keymap, error) {
	km := DefaultKeymap()
	if !gjson.ValidBytes(data) {
		return nil, errors.New("keymap: invalid JSON")
	}

	var errs []error
	gjson.GetBytes(data, "bindings").ForEach(func(k, v gjson.Result) bool {
		code, ok := ParseKey(v.String())
		if !ok {
			errs = append(errs, fmt.Errorf("keymap: unknown key %q for %s", v.String(), k.String()))
			return true
		}
		km.bindings[Action(k.String())] = code
		return true
	})
	return km, errors.Join(errs...)
}

// LoadKeymap reads a keymap file. A missing file yields the defaults.
func LoadKeymap(path string) (*Keymap, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultKeymap(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("keymap: cannot read %s: %w", path, err)
	}
	return ParseKeymap(data)
}

// Key returns the key bound to an action.
func (k *Keymap) Key(a Action) (KeyCode, bool) {
	c, ok := k.bindings[a]
	return c, ok
}

// Bind rebinds an action.
func (k *Keymap) Bind(a Action, c KeyCode) {
	k.bindings[a] = c
}

// Actions lists the bound actions in name order.
func (k *Keymap) Actions() []Action {
	out := make([]Action, 0, len(k.bindings))
	for a := range k.bindings {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Pressed reports whether the key bound to a went down this frame.
func (k *Keymap) Pressed(t *Tracker, a Action) bool {
	c, ok := k.bindings[a]
	return ok && t.KeyPressed(c)
}

// Marshal writes the bindings into base, keeping any other fields base
// already has.
func (k *Keymap) Marshal(base []byte) ([]byte, error) {
	if len(base) == 0 {
		base = []byte(`{"version":1}`)
	}
	var err error
	for _, a := range k.Actions() {
		base, err = sjson.SetBytes(base, "bindings."+string(a), k.bindings[a].String())
		if err != nil {
			return nil, fmt.Errorf("keymap: cannot encode %s: %w", a, err)
		}
	}
	return base, nil
}

// Save writes the keymap to path, preserving unknown fields of an existing
// file.
func (k *Keymap) Save(path string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("keymap: cannot read %s: %w", path, err)
	}
	if !gjson.ValidBytes(existing) {
		existing = nil
	}
	data, err := k.Marshal(existing)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("keymap: cannot write %s: %w", path, err)
	}
	return nil
}
