package tui

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"github.com/vovakirdan/frontline/internal/config"
	"github.com/vovakirdan/frontline/internal/core"
	"github.com/vovakirdan/frontline/internal/display"
	"github.com/vovakirdan/frontline/internal/engine"
	"github.com/vovakirdan/frontline/internal/input"
	"github.com/vovakirdan/frontline/internal/mainthread"
	"github.com/vovakirdan/frontline/internal/registry"
	"github.com/vovakirdan/frontline/internal/storage"
)

// AppOptions configure an App.
type AppOptions struct {
	Config  *config.Config
	Catalog *registry.Catalog
	Store   *storage.Store // nil disables savegames and the mission log
	Keymap  *input.Keymap

	// ConfigPath is where the configuration is written on quit. Empty
	// leaves it unsaved.
	ConfigPath string
	// ScreenshotDir receives screenshots. Empty disables them.
	ScreenshotDir string
	// LoadSave starts directly into the named savegame.
	LoadSave string

	// Width and Height are the terminal size in cells. Zero uses the
	// configured window size.
	Width, Height int
	// PlayWidth and PlayHeight shrink the play area to a viewport at the
	// top-left of the terminal. Zero fills the terminal.
	PlayWidth, PlayHeight int

	Logger *log.Logger
}

// App wires the engine to one terminal.
type App struct {
	cfg    *config.Config
	logger *log.Logger
	fps    int

	input   *input.Tracker
	term    *Terminal
	display *display.Coordinator
	screen  *core.Screen
	mouse   *MousePump
	queue   *mainthread.Queue
	catalog *registry.Catalog
	play    display.Size

	title   *Title
	session *Session
	video   *VideoPlayer
	orch    *engine.Orchestrator

	err       error
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// screenDisplay resizes the shared screen buffer whenever the orchestrator
// takes a pending resize.
type screenDisplay struct {
	*display.Coordinator
	screen *core.Screen
}

func (d screenDisplay) TakePendingResize() (display.Resize, bool) {
	var got display.Resize
	ok := d.ProcessPendingResize(func(r display.Resize) {
		d.screen.Resize(r.New.W, r.New.H)
		got = r
	})
	return got, ok
}

// NewApp creates an App. Call Start before running frames.
func NewApp(opts AppOptions) (*App, error) {
	if opts.Catalog == nil {
		return nil, errors.New("tui: a level catalog is required")
	}
	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	cfg.Normalize()

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	keymap := opts.Keymap
	if keymap == nil {
		keymap = input.DefaultKeymap()
	}

	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = cfg.Display.Width, cfg.Display.Height
	}

	a := &App{
		cfg:     cfg,
		logger:  logger,
		fps:     cfg.Display.FPS,
		queue:   mainthread.New(),
		catalog: opts.Catalog,
		play:    display.Size{W: opts.PlayWidth, H: opts.PlayHeight},
		done:    make(chan struct{}),
	}
	a.term = NewTerminal(w, h, cfg.Display.Fullscreen)
	a.input = input.NewTracker(w, h)
	a.display = display.New(a.term, a.input, display.Config{
		WindowWidth:     w,
		WindowHeight:    h,
		Scale:           cfg.Display.DisplayScale,
		MinScreenWidth:  cfg.Display.MinWidth,
		MinScreenHeight: cfg.Display.MinHeight,
	}, logger.WithPrefix("display"))
	cfg.Display.DisplayScale = a.display.DisplayScale()

	logical := a.display.LogicalScreenSize()
	a.screen = core.NewScreen(logical.W, logical.H)
	a.mouse = NewMousePump(a.input)

	a.title = NewTitle(opts.Catalog, opts.Store, cfg.Game.StartLevel, logger.WithPrefix("title"))
	a.session = NewSession(SessionOptions{
		Catalog:     opts.Catalog,
		Store:       opts.Store,
		Difficulty:  cfg.Game.Difficulty,
		Multiplayer: cfg.Game.Multiplayer,
		FPS:         a.fps,
		View:        logical,
		Logger:      logger.WithPrefix("game"),
	})
	a.video = NewVideoPlayer(opts.Catalog, a.screen)

	deps := engine.Deps{
		Input:    a.input,
		Keymap:   keymap,
		Display:  screenDisplay{Coordinator: a.display, screen: a.screen},
		Window:   a.term,
		Frontend: a.title,
		Session:  a.session,
		Video:    a.video,
	}
	if opts.ConfigPath != "" {
		deps.Config = config.Saver{Path: opts.ConfigPath, Config: cfg, Sync: a.syncConfig}
	}
	if opts.ScreenshotDir != "" {
		deps.Screenshots = &Screenshotter{Dir: opts.ScreenshotDir, Capture: a.capture}
	}

	orch, err := engine.New(deps, engine.Options{
		TrapCursor:       cfg.Input.TrapCursor,
		PauseOnFocusLoss: cfg.Input.PauseOnFocusLoss,
		LoadSave:         opts.LoadSave,
		Logger:           logger.WithPrefix("engine"),
	})
	if err != nil {
		return nil, err
	}
	a.orch = orch
	return a, nil
}

// Start enters the first mode and preloads the level catalog in the
// background.
func (a *App) Start() error {
	if a.play.W > 0 && a.play.H > 0 {
		if err := a.SetPlayArea(a.play.W, a.play.H); err != nil {
			a.logger.Warn("play area not applied", "size", a.play, "err", err)
		}
	}
	if err := a.orch.Start(); err != nil {
		return err
	}
	a.catalog.Preload(nil, a.queue, a.logger, func(r registry.PreloadResult) {
		a.logger.Debug("levels preloaded", "loaded", r.Loaded, "failed", r.Failed)
	})
	return nil
}

// Tick runs queued main-thread work and one engine frame. It reports
// whether the engine is still running.
func (a *App) Tick() bool {
	a.queue.Drain()
	if err := a.orch.Frame(); err != nil {
		a.logger.Error("engine stopped", "err", err)
		a.err = err
	}
	return a.orch.Running()
}

// Resize reports a new terminal size.
func (a *App) Resize(w, h int) {
	if a.term.TerminalResized(w, h) {
		vw, vh := a.term.Size()
		a.display.OnWindowResized(vw, vh)
	}
}

// SetPlayArea resizes the play area within the terminal, lowering the
// display scale when the new area is too small for it.
func (a *App) SetPlayArea(w, h int) error {
	return a.display.ChangeWindowResolution(w, h)
}

// syncConfig copies the display settings changed at runtime back into cfg.
func (a *App) syncConfig(cfg *config.Config) {
	cfg.Display.DisplayScale = a.display.DisplayScale()
	cfg.Display.Fullscreen = a.term.Fullscreen()
	if w, h := a.term.Size(); w > 0 && h > 0 {
		cfg.Display.Width, cfg.Display.Height = w, h
	}
}

// SetFocus reports terminal focus. Buttons held when focus is lost are
// released.
func (a *App) SetFocus(focused bool) {
	if !focused {
		a.mouse.ReleaseAll()
	}
	a.orch.SetFocus(focused)
}

// Err returns the fatal frame error, if any.
func (a *App) Err() error {
	return a.err
}

// Close shuts the engine down. It is safe to call more than once and from
// a goroutine other than the frame loop once frames have stopped.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.closeErr = a.orch.Shutdown()
		if n := a.queue.Close(); n > 0 {
			a.logger.Debug("dropped queued tasks", "count", n)
		}
		close(a.done)
	})
	return a.closeErr
}

// View renders the active mode at the terminal size.
func (a *App) View() string {
	w, h := a.term.Size()
	if a.term.TooSmall() {
		mw, mh := a.term.MinimumSize()
		return fmt.Sprintf("Terminal too small: %dx%d, need at least %dx%d", w, h, mw, mh)
	}
	if a.orch.GameMode() == engine.ModeTitle && !a.orch.VideoPlaying() {
		return a.title.View(w, h)
	}
	a.draw()
	sx, sy := a.display.GameToRendererScale()
	return RenderScreen(a.screen, w, h, sx, sy)
}

// draw fills the logical screen for video and gameplay frames.
func (a *App) draw() {
	switch {
	case a.orch.VideoPlaying():
		a.video.Draw(a.screen)
	case a.orch.GameMode() == engine.ModeNormal:
		a.session.Draw(a.screen, a.orch.Paused())
	default:
		a.screen.Clear()
		a.screen.DrawTextCentered(a.screen.Height()/2, "Loading...", core.ColorGray)
	}
}

// capture returns the current frame as plain text.
func (a *App) capture() string {
	if a.orch.GameMode() == engine.ModeTitle && !a.orch.VideoPlaying() {
		w, h := a.term.Size()
		return ansi.Strip(a.title.View(w, h))
	}
	a.draw()
	return a.screen.String()
}
