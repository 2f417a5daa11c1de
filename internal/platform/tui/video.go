package tui

import (
	"github.com/vovakirdan/frontline/internal/core"
	"github.com/vovakirdan/frontline/internal/engine"
	"github.com/vovakirdan/frontline/internal/registry"
)

var _ engine.VideoPlayer = (*VideoPlayer)(nil)

// framesPerLine is how many frames each crawl line stays put.
const framesPerLine = 8

// VideoPlayer plays text sequences as an upward crawl. A sequence ends once
// its last line has left the top of the screen.
type VideoPlayer struct {
	catalog *registry.Catalog
	screen  *core.Screen

	name  string
	lines []string
	frame int
}

// NewVideoPlayer returns a player reading sequences from catalog and
// sizing the crawl to screen.
func NewVideoPlayer(catalog *registry.Catalog, screen *core.Screen) *VideoPlayer {
	return &VideoPlayer{catalog: catalog, screen: screen}
}

// Play loads a sequence and starts it from the first frame.
func (v *VideoPlayer) Play(name string) error {
	lines, err := v.catalog.Sequence(name)
	if err != nil {
		return err
	}
	v.name = name
	v.lines = lines
	v.frame = 0
	return nil
}

// Update advances one frame and reports whether the sequence still plays.
func (v *VideoPlayer) Update() bool {
	if v.lines == nil {
		return false
	}
	v.frame++
	return v.frame < v.length()
}

func (v *VideoPlayer) length() int {
	return (len(v.lines) + v.screen.Height()) * framesPerLine
}

// Stop discards the sequence.
func (v *VideoPlayer) Stop() {
	v.name = ""
	v.lines = nil
	v.frame = 0
}

// Playing returns the name of the sequence on screen, if any.
func (v *VideoPlayer) Playing() (string, bool) {
	return v.name, v.lines != nil
}

// Draw renders the current frame.
func (v *VideoPlayer) Draw(scr *core.Screen) {
	scr.Clear()
	if v.lines == nil {
		return
	}
	top := scr.Height() - v.frame/framesPerLine
	for i, line := range v.lines {
		c := core.ColorWhite
		if i == 0 {
			c = core.ColorBrightYellow
		}
		scr.DrawTextCentered(top+i, line, c)
	}
	scr.DrawText(0, scr.Height()-1, "Esc: skip", core.ColorGray)
}
