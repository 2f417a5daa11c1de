// Package engine runs the per-frame mode machine: title screen, gameplay
// with its mission sub-states, savegame loading and video playback.
//
// All methods are called from the goroutine that owns the event pump. A
// transition's teardown always finishes before the next mode is set up, and
// a failed setup falls back to the title screen.
package engine

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/frontline/internal/display"
	"github.com/vovakirdan/frontline/internal/input"
)

// ErrFatal marks failures that leave the engine unusable. The platform
// stops and the process exits with an error.
var ErrFatal = errors.New("engine: fatal error")

// IntroSequences are played when the title screen asks for the intro.
var IntroSequences = []string{"titles", "devastation"}

// Deps are the collaborators of an Orchestrator. Input, Frontend and Session
// are required.
type Deps struct {
	Input       *input.Tracker
	Keymap      *input.Keymap
	Display     Display
	Window      Window
	Frontend    Frontend
	Session     Session
	Video       VideoPlayer
	Config      ConfigSaver
	Screenshots Screenshotter
}

// Options configure an Orchestrator.
type Options struct {
	TrapCursor       bool
	PauseOnFocusLoss bool
	// LoadSave starts directly into the named savegame.
	LoadSave string
	Logger   *log.Logger
}

// Orchestrator owns the frame mode.
type Orchestrator struct {
	deps   Deps
	opts   Options
	logger *log.Logger

	mode        Mode
	initialised bool
	titleActive bool

	focused bool
	paused  bool
	pause   PauseState

	video      bool
	videoQueue []string

	started       bool
	running       bool
	quitRequested bool
	shutdown      bool
}

// New creates an orchestrator in the title mode. Call Start before the
// first Frame.
func New(deps Deps, opts Options) (*Orchestrator, error) {
	if deps.Input == nil || deps.Frontend == nil || deps.Session == nil {
		return nil, errors.New("engine: input, frontend and session are required")
	}
	if deps.Keymap == nil {
		deps.Keymap = input.DefaultKeymap()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Orchestrator{
		deps:    deps,
		opts:    opts,
		logger:  logger,
		mode:    TitleMode{},
		focused: true,
	}, nil
}

// Start enters the initial mode: the title screen, or the savegame named
// by Options.LoadSave.
func (o *Orchestrator) Start() error {
	if o.started {
		return errors.New("engine: already started")
	}
	o.started = true
	o.running = true
	o.pause.SetAll(false)

	var err error
	if o.opts.LoadSave != "" {
		err = o.initSaveGameLoad(o.opts.LoadSave)
	} else {
		err = o.startTitleLoop()
	}
	if err != nil {
		o.running = false
	}
	return err
}

// Frame runs one frame: pending resize, global keys, then the active mode
// or video. Input edges are retired at the end. A non-nil error wraps
// ErrFatal and the orchestrator stops running.
func (o *Orchestrator) Frame() error {
	if !o.running {
		return nil
	}
	in := o.deps.Input
	defer in.NewFrame()

	if o.quitRequested {
		err := o.quit()
		if err != nil {
			o.running = false
		}
		return err
	}

	o.processResize()

	// Screenshot key works everywhere and is removed from the input stream.
	if o.deps.Keymap.Pressed(in, input.ActionScreenshot) {
		o.screenshot()
		in.LoseFocus()
	}
	// Typed text must not trigger the single-key bindings.
	typing := in.TextInputActive()
	if !typing && o.deps.Keymap.Pressed(in, input.ActionScaleUp) {
		o.stepScale(1)
	} else if !typing && o.deps.Keymap.Pressed(in, input.ActionScaleDown) {
		o.stepScale(-1)
	}

	if !o.multiplayerActive() && !o.focused && o.opts.PauseOnFocusLoss {
		return nil
	}

	var err error
	if o.video {
		o.videoLoop()
	} else {
		switch o.mode.(type) {
		case NormalMode:
			err = o.runGameLoop()
		case TitleMode:
			err = o.runTitleLoop()
		}
	}
	if err != nil {
		o.running = false
	}
	return err
}

func (o *Orchestrator) setMode(m Mode) {
	if m.GameMode() != o.mode.GameMode() {
		o.logger.Debug("game mode changed", "from", o.mode.GameMode(), "to", m.GameMode())
	}
	o.mode = m
}

func fatal(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrFatal, what, err)
}

func (o *Orchestrator) startTitleLoop() error {
	o.setMode(TitleMode{})
	if err := o.deps.Frontend.Init(); err != nil {
		o.logger.Error("title screen init failed", "err", err)
		return fatal("title screen init", err)
	}
	o.titleActive = true
	return nil
}

func (o *Orchestrator) stopTitleLoop() error {
	if !o.titleActive {
		return nil
	}
	o.titleActive = false
	if err := o.deps.Frontend.Shutdown(); err != nil {
		o.logger.Error("title screen shutdown failed", "err", err)
		return fatal("title screen shutdown", err)
	}
	return nil
}

// startGameLoop loads a level and enters gameplay. A level that fails to
// load is reported and the title screen comes back.
func (o *Orchestrator) startGameLoop(level LevelChoice) error {
	o.setMode(NormalMode{Level: level, Mission: newMission()})

	if err := o.deps.Session.LoadLevel(level); err != nil {
		o.logger.Error("level load failed", "level", level.Name, "err", err)
		o.deps.Frontend.ReportError(fmt.Errorf("failed to load level %q: %w", level.Name, err))
		o.stopGameLoop(GameFastExit)
		return o.startTitleLoop()
	}

	o.enterGameplay()
	o.deps.Session.StartLevel()
	o.logger.Info("level started", "level", level.Name)
	return nil
}

// initSaveGameLoad restores a savegame and enters gameplay. A savegame that
// fails to load is reported and the title screen comes back.
func (o *Orchestrator) initSaveGameLoad(name string) error {
	o.setMode(SaveGameLoadMode{SaveName: name})

	level, err := o.deps.Session.LoadSave(name)
	if err != nil {
		o.logger.Error("savegame load failed", "save", name, "err", err)
		o.deps.Frontend.ReportError(fmt.Errorf("failed to load savegame %q, it is either corrupted or an unsupported format: %w", name, err))
		o.stopGameLoop(GameFastExit)
		return o.startTitleLoop()
	}

	o.setMode(NormalMode{Level: level, Mission: newMission()})
	o.enterGameplay()
	o.logger.Info("savegame loaded", "save", name, "level", level.Name)
	return nil
}

func (o *Orchestrator) enterGameplay() {
	if w := o.deps.Window; w != nil {
		if o.opts.TrapCursor {
			w.GrabMouse(true)
		}
		// The event pump stalls during a drag-resize, which would pause a
		// networked game.
		if o.deps.Session.Multiplayer() {
			w.SetResizable(false)
		}
	}
	o.initialised = true
}

// stopGameLoop tears gameplay down. Level data is kept when the next step
// reuses it.
func (o *Orchestrator) stopGameLoop(code GameCode) {
	release := code != GameNewLevel && code != GameLoad
	o.deps.Session.Stop(release)

	if w := o.deps.Window; w != nil {
		if o.opts.TrapCursor {
			w.GrabMouse(false)
		}
		if !w.Fullscreen() {
			w.SetResizable(true)
		}
	}
	o.paused = false
	o.pause.SetAll(false)
	o.initialised = false
}

func (o *Orchestrator) runTitleLoop() error {
	res := o.deps.Frontend.Run(o.deps.Input)
	switch res.Code {
	case TitleContinue:

	case TitleQuitGame:
		o.logger.Debug("title: quit game")
		if err := o.stopTitleLoop(); err != nil {
			return err
		}
		o.running = false

	case TitleLoadSave:
		o.logger.Debug("title: load savegame", "save", res.SaveName)
		if err := o.stopTitleLoop(); err != nil {
			return err
		}
		return o.initSaveGameLoad(res.SaveName)

	case TitleStartGame:
		o.logger.Debug("title: start game", "level", res.Level.Name)
		if err := o.stopTitleLoop(); err != nil {
			return err
		}
		return o.startGameLoop(res.Level)

	case TitleShowIntro:
		o.StartVideo(IntroSequences...)

	default:
		o.logger.Error("unknown code returned by title screen", "code", res.Code)
	}
	return nil
}

func (o *Orchestrator) runGameLoop() error {
	nm := o.mode.(NormalMode)
	code := o.gameLoop(nm)

	switch code {
	case GameContinue, GamePlayVideo:

	case GameQuit:
		o.logger.Debug("game: quit to title")
		o.stopGameLoop(code)
		return o.startTitleLoop()

	case GameLoad:
		save := nm.Mission.SaveName()
		o.logger.Debug("game: load savegame", "save", save)
		o.stopGameLoop(code)
		return o.initSaveGameLoad(save)

	case GameNewLevel:
		next := nm.Mission.Next()
		o.logger.Debug("game: new level", "level", next.Name)
		o.stopGameLoop(code)
		return o.startGameLoop(next)

	default:
		o.logger.Error("unknown code returned by game loop", "code", code)
	}
	return nil
}

func (o *Orchestrator) gameLoop(nm NormalMode) GameCode {
	in := o.deps.Input

	if !in.TextInputActive() && o.deps.Keymap.Pressed(in, input.ActionPause) {
		o.Pause(!o.paused)
	}

	quitting := false
	if !o.paused {
		ctx := &FrameContext{
			Input:      in,
			Keymap:     o.deps.Keymap,
			Mission:    nm.Mission,
			Pause:      o.pause,
			Level:      nm.Level,
			startVideo: o.StartVideo,
		}
		quitting = o.deps.Session.Update(ctx) == StatusQuit
	}

	if (in.KeyDown(input.KeyLAlt) || in.KeyDown(input.KeyRAlt)) && in.KeyPressed(input.KeyReturn) {
		o.toggleFullscreen()
	}

	code, err := nm.Mission.step(o.deps.Session, &o.pause)
	if err != nil {
		o.logger.Error("mission failed", "level", nm.Level.Name, "err", err)
		o.deps.Frontend.ReportError(err)
		return GameQuit
	}
	if code != GameContinue {
		return code
	}

	if quitting {
		return GameQuit
	}
	if o.video {
		return GamePlayVideo
	}
	return GameContinue
}

// StartVideo replaces the sequence list and starts playing its first
// playable entry. The game is paused while a video plays.
func (o *Orchestrator) StartVideo(names ...string) {
	if o.deps.Video == nil || len(names) == 0 {
		return
	}
	wasPlaying := o.video
	if wasPlaying {
		o.deps.Video.Stop()
	}
	o.videoQueue = slices.Clone(names)
	if !o.startNextVideo() && wasPlaying {
		o.endVideo()
	}
}

func (o *Orchestrator) startNextVideo() bool {
	for len(o.videoQueue) > 0 {
		name := o.videoQueue[0]
		o.videoQueue = o.videoQueue[1:]
		if err := o.deps.Video.Play(name); err != nil {
			o.logger.Warn("video unavailable", "video", name, "err", err)
			continue
		}
		o.logger.Debug("video started", "video", name)
		o.video = true
		o.paused = true
		return true
	}
	return false
}

func (o *Orchestrator) videoLoop() {
	in := o.deps.Input
	finished := !o.deps.Video.Update()

	if finished || in.KeyPressed(input.KeyEsc) || in.MouseReleased(input.MouseLeft) {
		o.deps.Video.Stop()
		// Only a sequence that ran to the end chains to the next one.
		if finished && o.startNextVideo() {
			return
		}
		o.endVideo()
	}
}

func (o *Orchestrator) endVideo() {
	o.videoQueue = nil
	o.video = false
	o.paused = false

	var listener any = o.deps.Frontend
	if o.mode.GameMode() == ModeNormal {
		listener = o.deps.Session
	}
	if l, ok := listener.(VideoListener); ok {
		l.VideoQuit()
	}
}

func (o *Orchestrator) processResize() {
	if o.deps.Display == nil {
		return
	}
	r, ok := o.deps.Display.TakePendingResize()
	if !ok {
		return
	}
	o.logger.Debug("screen resized", "old", r.Old, "new", r.New)
	if l, ok := o.deps.Frontend.(ResizeListener); ok {
		l.ScreenResized(r)
	}
	if l, ok := o.deps.Session.(ResizeListener); ok {
		l.ScreenResized(r)
	}
}

func (o *Orchestrator) screenshot() {
	if o.deps.Screenshots == nil {
		return
	}
	path, err := o.deps.Screenshots.Screenshot()
	if err != nil {
		o.logger.Error("screenshot failed", "err", err)
		return
	}
	o.logger.Info("screenshot saved", "path", path)
}

// stepScale moves to the neighbouring supported display scale.
func (o *Orchestrator) stepScale(dir int) {
	if o.deps.Display == nil {
		return
	}
	cur := o.deps.Display.DisplayScale()
	i := slices.Index(display.Scales, cur)
	if i < 0 {
		return
	}
	i += dir
	if i < 0 || i >= len(display.Scales) {
		return
	}
	if !o.deps.Display.SetDisplayScale(display.Scales[i]) {
		o.logger.Info("display scale does not fit the window", "scale", display.Scales[i])
	}
}

func (o *Orchestrator) toggleFullscreen() {
	w := o.deps.Window
	if w == nil {
		return
	}
	on := !w.Fullscreen()
	if err := w.SetFullscreen(on); err != nil {
		o.logger.Warn("fullscreen toggle failed", "err", err)
	}
}

func (o *Orchestrator) multiplayerActive() bool {
	return o.mode.GameMode() == ModeNormal && o.deps.Session.Multiplayer()
}

// quit tears down the active mode and stops the frame loop.
func (o *Orchestrator) quit() error {
	if o.video {
		o.deps.Video.Stop()
		o.videoQueue = nil
		o.video = false
	}
	var err error
	switch o.mode.(type) {
	case NormalMode, SaveGameLoadMode:
		o.stopGameLoop(GameQuit)
	case TitleMode:
		err = o.stopTitleLoop()
	}
	o.running = false
	o.logger.Debug("frame loop stopped")
	return err
}

// Pause pauses or resumes gameplay. Networked games cannot be paused.
func (o *Orchestrator) Pause(on bool) bool {
	if o.mode.GameMode() != ModeNormal || o.deps.Session.Multiplayer() {
		return false
	}
	o.paused = on
	o.pause.SetAll(on)
	return true
}

// SetFocus records window focus. Without focus the pointer is treated as
// outside the window.
func (o *Orchestrator) SetFocus(focused bool) {
	o.focused = focused
	o.deps.Input.SetMouseInWindow(focused)
}

// RequestQuit asks the orchestrator to leave at the start of the next frame.
func (o *Orchestrator) RequestQuit() {
	o.quitRequested = true
}

// Shutdown tears down whatever is still running and persists the
// configuration. It is safe to call more than once.
func (o *Orchestrator) Shutdown() error {
	if o.shutdown {
		return nil
	}
	o.shutdown = true

	var errs []error
	if o.running {
		if err := o.quit(); err != nil {
			errs = append(errs, err)
		}
	}
	if o.deps.Config != nil {
		if err := o.deps.Config.SaveConfig(); err != nil {
			errs = append(errs, fmt.Errorf("engine: cannot save config: %w", err))
		}
	}
	o.logger.Info("engine shut down")
	return errors.Join(errs...)
}

// GameMode returns the current frame mode.
func (o *Orchestrator) GameMode() GameMode {
	return o.mode.GameMode()
}

// Mode returns the current mode value.
func (o *Orchestrator) Mode() Mode {
	return o.mode
}

// MissionState returns the mission state while in gameplay.
func (o *Orchestrator) MissionState() (MissionState, bool) {
	nm, ok := o.mode.(NormalMode)
	if !ok {
		return 0, false
	}
	return nm.Mission.State(), true
}

// Initialised reports whether a game is fully set up.
func (o *Orchestrator) Initialised() bool {
	return o.initialised
}

// Running reports whether the frame loop should continue.
func (o *Orchestrator) Running() bool {
	return o.running
}

// VideoPlaying reports whether a video sequence is on screen.
func (o *Orchestrator) VideoPlaying() bool {
	return o.video
}

// Paused reports whether gameplay is paused.
func (o *Orchestrator) Paused() bool {
	return o.paused
}

// PauseState returns the pause switches.
func (o *Orchestrator) PauseState() PauseState {
	return o.pause
}
