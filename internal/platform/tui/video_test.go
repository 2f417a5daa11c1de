package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/frontline/internal/core"
	"github.com/vovakirdan/frontline/internal/registry"
)

func embeddedCatalog(t *testing.T) *registry.Catalog {
	t.Helper()
	c, err := registry.Embedded()
	if err != nil {
		t.Fatalf("Embedded() error: %v", err)
	}
	return c
}

func TestVideoPlayerRunsToEnd(t *testing.T) {
	scr := core.NewScreen(40, 10)
	v := NewVideoPlayer(embeddedCatalog(t), scr)

	if err := v.Play("titles"); err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	name, ok := v.Playing()
	if !ok || name != "titles" {
		t.Fatalf("Playing() = %q, %v", name, ok)
	}

	frames := 1
	for v.Update() {
		frames++
		if frames > 10000 {
			t.Fatal("sequence never ends")
		}
	}
	if frames != v.length() {
		t.Errorf("played %d frames, want %d", frames, v.length())
	}
}

func TestVideoPlayerUnknown(t *testing.T) {
	v := NewVideoPlayer(embeddedCatalog(t), core.NewScreen(40, 10))
	if err := v.Play("no-such-video"); !errors.Is(err, registry.ErrUnknownSequence) {
		t.Errorf("err = %v, want ErrUnknownSequence", err)
	}
	if v.Update() {
		t.Error("nothing is playing")
	}
}

func TestVideoPlayerStop(t *testing.T) {
	v := NewVideoPlayer(embeddedCatalog(t), core.NewScreen(40, 10))
	if err := v.Play("devastation"); err != nil {
		t.Fatal(err)
	}
	v.Stop()
	if _, ok := v.Playing(); ok {
		t.Error("Stop should end playback")
	}
	if v.Update() {
		t.Error("Update after Stop should report finished")
	}
}

func TestVideoPlayerDrawCrawls(t *testing.T) {
	scr := core.NewScreen(40, 10)
	v := NewVideoPlayer(embeddedCatalog(t), scr)
	if err := v.Play("titles"); err != nil {
		t.Fatal(err)
	}

	// The crawl starts below the screen.
	v.Draw(scr)
	if strings.Contains(scr.String(), "F R O N T L I N E") {
		t.Error("first line should start off screen")
	}
	if !strings.HasPrefix(scr.Row(9), "Esc: skip") {
		t.Errorf("hint row = %q", scr.Row(9))
	}

	for range 3 * framesPerLine {
		v.Update()
	}
	v.Draw(scr)
	if !strings.Contains(scr.Row(7), "F R O N T L I N E") {
		t.Errorf("after 3 lines of crawl row 7 = %q", scr.Row(7))
	}
}
