package engine

import (
	"github.com/vovakirdan/frontline/internal/display"
	"github.com/vovakirdan/frontline/internal/input"
)

// Frontend is the title screen.
type Frontend interface {
	// Init builds the title screen. Failure is fatal.
	Init() error
	// Shutdown releases the title screen. Failure is fatal.
	Shutdown() error
	// Run processes one title frame.
	Run(in *input.Tracker) TitleResult
	// ReportError shows a recoverable error to the user.
	ReportError(err error)
}

// Session is the game simulation. One session is reused across games; Stop
// must tolerate a session that never finished loading.
type Session interface {
	// LoadLevel loads level data for a new game.
	LoadLevel(level LevelChoice) error
	// LoadSave restores a savegame and returns the level it was made on.
	LoadSave(name string) (LevelChoice, error)
	// StartLevel starts mission timers and fires the start-of-level event.
	StartLevel()
	// Update runs one gameplay frame.
	Update(f *FrameContext) Status
	// DestroyObjects removes every object of the finished mission.
	DestroyObjects()
	// SetupMission loads the next mission of a running game.
	SetupMission(next LevelChoice) error
	// Stop tears the game down. releaseLevel is false when the level data
	// is about to be reused.
	Stop(releaseLevel bool)
	// Multiplayer reports whether the running game is networked.
	Multiplayer() bool
}

// Window is the subset of the platform window the orchestrator drives.
type Window interface {
	GrabMouse(grab bool)
	SetResizable(resizable bool)
	Fullscreen() bool
	SetFullscreen(on bool) error
}

// Display is the geometry coordinator as seen by the orchestrator.
type Display interface {
	TakePendingResize() (display.Resize, bool)
	DisplayScale() int
	SetDisplayScale(percent int) bool
}

// VideoPlayer plays full screen sequences.
type VideoPlayer interface {
	Play(name string) error
	// Update renders one frame and reports whether the sequence is still
	// playing.
	Update() bool
	Stop()
}

// ConfigSaver persists the configuration on quit.
type ConfigSaver interface {
	SaveConfig() error
}

// Screenshotter writes the current frame to disk and returns the path.
type Screenshotter interface {
	Screenshot() (string, error)
}

// ResizeListener is implemented by frontends and sessions that redraw on
// logical screen size changes.
type ResizeListener interface {
	ScreenResized(r display.Resize)
}

// VideoListener is implemented by frontends and sessions that react when a
// video sequence ends.
type VideoListener interface {
	VideoQuit()
}

// FrameContext is handed to Session.Update.
type FrameContext struct {
	Input   *input.Tracker
	Keymap  *input.Keymap
	Mission *Mission
	Pause   PauseState
	Level   LevelChoice

	startVideo func(names ...string)
}

// StartVideo queues sequences and switches to video playback after this
// frame.
func (f *FrameContext) StartVideo(names ...string) {
	if f.startVideo != nil {
		f.startVideo(names...)
	}
}
