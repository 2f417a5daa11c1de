package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vovakirdan/frontline/internal/display"
	"github.com/vovakirdan/frontline/internal/input"
)

// calls is a shared, ordered log of collaborator calls.
type calls []string

func (c *calls) add(format string, args ...any) {
	*c = append(*c, fmt.Sprintf(format, args...))
}

type fakeFrontend struct {
	log         *calls
	initErr     error
	shutdownErr error
	results     []TitleResult
	runs        int
	reported    []error
	videoQuits  int
	resizes     []display.Resize
}

func (f *fakeFrontend) Init() error {
	f.log.add("title.init")
	return f.initErr
}

func (f *fakeFrontend) Shutdown() error {
	f.log.add("title.shutdown")
	return f.shutdownErr
}

func (f *fakeFrontend) Run(in *input.Tracker) TitleResult {
	f.runs++
	if len(f.results) == 0 {
		return TitleResult{Code: TitleContinue}
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r
}

func (f *fakeFrontend) ReportError(err error) { f.reported = append(f.reported, err) }
func (f *fakeFrontend) VideoQuit()             { f.videoQuits++ }
func (f *fakeFrontend) ScreenResized(r display.Resize) {
	f.resizes = append(f.resizes, r)
}

type fakeSession struct {
	log         *calls
	loadErr     error
	saveErr     error
	setupErr    error
	multiplayer bool
	saveLevel   LevelChoice
	update      func(f *FrameContext) Status
	updates     int
	videoQuits  int
}

func (s *fakeSession) LoadLevel(level LevelChoice) error {
	s.log.add("session.load %s", level.Name)
	return s.loadErr
}

func (s *fakeSession) LoadSave(name string) (LevelChoice, error) {
	s.log.add("session.loadsave %s", name)
	if s.saveErr != nil {
		return LevelChoice{}, s.saveErr
	}
	return s.saveLevel, nil
}

func (s *fakeSession) StartLevel() { s.log.add("session.start") }

func (s *fakeSession) Update(f *FrameContext) Status {
	s.updates++
	if s.update != nil {
		return s.update(f)
	}
	return StatusContinue
}

func (s *fakeSession) DestroyObjects() { s.log.add("session.destroy") }

func (s *fakeSession) SetupMission(next LevelChoice) error {
	s.log.add("session.setup %s", next.Name)
	return s.setupErr
}

func (s *fakeSession) Stop(releaseLevel bool) { s.log.add("session.stop release=%v", releaseLevel) }
func (s *fakeSession) Multiplayer() bool      { return s.multiplayer }
func (s *fakeSession) VideoQuit()             { s.videoQuits++ }

type fakeWindow struct {
	grabbed    bool
	resizable  bool
	fullscreen bool
}

func (w *fakeWindow) GrabMouse(grab bool)          { w.grabbed = grab }
func (w *fakeWindow) SetResizable(resizable bool)  { w.resizable = resizable }
func (w *fakeWindow) Fullscreen() bool             { return w.fullscreen }
func (w *fakeWindow) SetFullscreen(on bool) error  { w.fullscreen = on; return nil }

type fakeDisplay struct {
	scale   int
	maxOK   int
	pending *display.Resize
}

func (d *fakeDisplay) TakePendingResize() (display.Resize, bool) {
	if d.pending == nil {
		return display.Resize{}, false
	}
	r := *d.pending
	d.pending = nil
	return r, true
}

func (d *fakeDisplay) DisplayScale() int { return d.scale }

func (d *fakeDisplay) SetDisplayScale(p int) bool {
	if p > d.maxOK {
		return false
	}
	d.scale = p
	return true
}

// fakeVideo plays every sequence for a fixed number of frames.
type fakeVideo struct {
	length  int
	missing map[string]bool
	played  []string
	left    int
	stops   int
}

func (v *fakeVideo) Play(name string) error {
	if v.missing[name] {
		return errors.New("no such sequence")
	}
	v.played = append(v.played, name)
	v.left = v.length
	return nil
}

func (v *fakeVideo) Update() bool {
	v.left--
	return v.left > 0
}

func (v *fakeVideo) Stop() { v.stops++ }

type fakeConfig struct {
	saves int
	err   error
}

func (c *fakeConfig) SaveConfig() error {
	c.saves++
	return c.err
}

type fakeShots struct{ n int }

func (s *fakeShots) Screenshot() (string, error) {
	s.n++
	return fmt.Sprintf("screenshots/shot-%d.txt", s.n), nil
}

type rig struct {
	o        *Orchestrator
	log      *calls
	in       *input.Tracker
	frontend *fakeFrontend
	session  *fakeSession
	window   *fakeWindow
	display  *fakeDisplay
	video    *fakeVideo
	config   *fakeConfig
	shots    *fakeShots
}

func newRig(t *testing.T, opts Options) *rig {
	t.Helper()
	log := &calls{}
	r := &rig{
		log:      log,
		in:       input.NewTracker(80, 24),
		frontend: &fakeFrontend{log: log},
		session:  &fakeSession{log: log},
		window:   &fakeWindow{resizable: true},
		display:  &fakeDisplay{scale: 100, maxOK: 150},
		video:    &fakeVideo{length: 3, missing: map[string]bool{}},
		config:   &fakeConfig{},
		shots:    &fakeShots{},
	}
	o, err := New(Deps{
		Input:       r.in,
		Display:     r.display,
		Window:      r.window,
		Frontend:    r.frontend,
		Session:     r.session,
		Video:       r.video,
		Config:      r.config,
		Screenshots: r.shots,
	}, opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	r.o = o
	return r
}

func (r *rig) start(t *testing.T) {
	t.Helper()
	if err := r.o.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
}

func (r *rig) frame(t *testing.T) {
	t.Helper()
	if err := r.o.Frame(); err != nil {
		t.Fatalf("Frame() failed: %v", err)
	}
}

// tap presses and releases a key within one frame.
func (r *rig) tap(code input.KeyCode) {
	r.in.HandleKeyDown(code)
	r.in.HandleKeyUp(code)
}

// startGame goes from the title screen into gameplay on level.
func (r *rig) startGame(t *testing.T, level string) {
	t.Helper()
	r.start(t)
	r.frontend.results = append(r.frontend.results, TitleResult{Code: TitleStartGame, Level: LevelChoice{Name: level}})
	r.frame(t)
	if r.o.GameMode() != ModeNormal {
		t.Fatalf("GameMode() = %s, expected normal", r.o.GameMode())
	}
	*r.log = nil
}

func expectCalls(t *testing.T, got calls, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("calls = %q, expected %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("calls = %q, expected %q", got, want)
		}
	}
}
