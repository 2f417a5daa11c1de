package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"
)

func TestKeyNames(t *testing.T) {
	tests := []struct {
		code KeyCode
		want string
	}{
		{KeyLCtrl, "Ctrl"},
		{KeyLShift, "Shift"},
		{KeyLAlt, "Alt"},
		{KeyLMeta, "Meta"},
		{KeySpace, "Space"},
		{KeyF10, "F10"},
		{KeyA, "a"},
		{KeyCode('+'), "+"},
		{KeyMaxScan, "???"},
		{-3, "???"},
	}

	for _, tc := range tests {
		if got := tc.code.String(); got != tc.want {
			t.Errorf("KeyCode(%d).String() = %q, expected %q", int(tc.code), got, tc.want)
		}
	}
}

func TestParseKeyRoundTrip(t *testing.T) {
	for _, code := range []KeyCode{KeyF5, KeyEsc, KeyPageDown, KeyQ, KeyLCtrl, KeyRShift} {
		got, ok := ParseKey(code.String())
		if !ok || got != code {
			t.Errorf("ParseKey(%q) = %v, %v, expected %v", code.String(), got, ok, code)
		}
	}
	if _, ok := ParseKey("no such key"); ok {
		t.Error("ParseKey should reject unknown names")
	}
}

func TestParseKeymapOverridesDefaults(t *testing.T) {
	data := []byte(`{"version":1,"bindings":{"quicksave":"F6","endlevel":"bogus"}}`)

	km, err := ParseKeymap(data)
	if err == nil {
		t.Error("expected an error for the unknown key name")
	}
	if km == nil {
		t.Fatal("keymap should be usable despite the error")
	}
	if c, _ := km.Key(ActionQuickSave); c != KeyF6 {
		t.Errorf("quicksave = %v, expected F6", c)
	}
	if c, _ := km.Key(ActionEndLevel); c != KeyN {
		t.Errorf("endlevel = %v, expected the default N", c)
	}
}

func TestParseKeymapRejectsInvalidJSON(t *testing.T) {
	if _, err := ParseKeymap([]byte(`{"bindings":`)); err == nil {
		t.Error("expected an error for truncated JSON")
	}
}

func TestKeymapSaveKeepsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keymap.json")
	if err := os.WriteFile(path, []byte(`{"version":1,"comment":"mine"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	km := DefaultKeymap()
	km.Bind(ActionPause, KeySpace)
	if err := km.Save(path); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if gjson.GetBytes(data, "comment").String() != "mine" {
		t.Error("Save should preserve unrelated fields")
	}
	if gjson.GetBytes(data, "bindings.pause").String() != "Space" {
		t.Errorf("bindings.pause = %q, expected Space", gjson.GetBytes(data, "bindings.pause").String())
	}

	loaded, err := LoadKeymap(path)
	if err != nil {
		t.Fatalf("LoadKeymap() failed: %v", err)
	}
	if c, _ := loaded.Key(ActionPause); c != KeySpace {
		t.Errorf("reloaded pause = %v, expected Space", c)
	}
}

func TestLoadKeymapMissingFile(t *testing.T) {
	km, err := LoadKeymap(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadKeymap() failed: %v", err)
	}
	if c, _ := km.Key(ActionScreenshot); c != KeyF10 {
		t.Errorf("screenshot = %v, expected F10", c)
	}
}

func TestKeymapPressed(t *testing.T) {
	tr := NewTracker(80, 24)
	km := DefaultKeymap()

	tr.HandleKeyDown(KeyF5)
	if !km.Pressed(tr, ActionQuickSave) {
		t.Error("quicksave should be pressed")
	}
	if km.Pressed(tr, ActionQuickLoad) {
		t.Error("quickload should not be pressed")
	}
}
