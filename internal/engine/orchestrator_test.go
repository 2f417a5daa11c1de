package engine

import (
	"errors"
	"testing"

	"github.com/vovakirdan/frontline/internal/display"
	"github.com/vovakirdan/frontline/internal/input"
)

var errCorrupt = errors.New("savegame corrupt")

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Deps{}, Options{}); err == nil {
		t.Error("New() without collaborators should fail")
	}
}

func TestStartEntersTitle(t *testing.T) {
	r := newRig(t, Options{})
	r.start(t)

	if r.o.GameMode() != ModeTitle {
		t.Errorf("GameMode() = %s, expected title", r.o.GameMode())
	}
	if _, ok := r.o.MissionState(); ok {
		t.Error("no mission state should exist on the title screen")
	}
	if !r.o.Running() || r.o.Initialised() {
		t.Error("expected running and not initialised")
	}
	expectCalls(t, *r.log, "title.init")

	if err := r.o.Start(); err == nil {
		t.Error("second Start() should fail")
	}
}

func TestTitleStartGame(t *testing.T) {
	r := newRig(t, Options{TrapCursor: true})
	r.start(t)
	r.frontend.results = []TitleResult{{Code: TitleStartGame, Level: LevelChoice{Name: "cam1a"}}}
	r.frame(t)

	// Title resources are released before the level is loaded.
	expectCalls(t, *r.log, "title.init", "title.shutdown", "session.load cam1a", "session.start")
	if r.o.GameMode() != ModeNormal || !r.o.Initialised() {
		t.Errorf("mode = %s, initialised = %v", r.o.GameMode(), r.o.Initialised())
	}
	if s, ok := r.o.MissionState(); !ok || s != MissionNormal {
		t.Errorf("MissionState() = %s, %v", s, ok)
	}
	if !r.window.grabbed {
		t.Error("cursor should be trapped during gameplay")
	}
	if !r.window.resizable {
		t.Error("single player games keep the window resizable")
	}
}

func TestLevelLoadFailureReturnsToTitle(t *testing.T) {
	r := newRig(t, Options{})
	r.session.loadErr = errors.New("missing terrain")
	r.start(t)
	r.frontend.results = []TitleResult{{Code: TitleStartGame, Level: LevelChoice{Name: "broken"}}}
	r.frame(t)

	if r.o.GameMode() != ModeTitle || r.o.Initialised() {
		t.Errorf("mode = %s, initialised = %v, expected title and false", r.o.GameMode(), r.o.Initialised())
	}
	if len(r.frontend.reported) != 1 {
		t.Errorf("reported = %v, expected one error", r.frontend.reported)
	}
	expectCalls(t, *r.log, "title.init", "title.shutdown", "session.load broken", "session.stop release=true", "title.init")
}

func TestCorruptSavegameFromTitleFailsClosed(t *testing.T) {
	r := newRig(t, Options{TrapCursor: true})
	r.session.saveErr = errCorrupt
	r.start(t)
	r.frontend.results = []TitleResult{{Code: TitleLoadSave, SaveName: "broken"}}
	r.frame(t)

	if r.o.GameMode() != ModeTitle {
		t.Errorf("GameMode() = %s, expected title", r.o.GameMode())
	}
	if r.o.Initialised() {
		t.Error("Initialised() should be false after a failed load")
	}
	if len(r.frontend.reported) != 1 || !errors.Is(r.frontend.reported[0], errCorrupt) {
		t.Errorf("reported = %v, expected the load error", r.frontend.reported)
	}
	if r.window.grabbed {
		t.Error("cursor should not stay trapped")
	}
	expectCalls(t, *r.log, "title.init", "title.shutdown", "session.loadsave broken", "session.stop release=true", "title.init")

	// The title screen keeps working afterwards.
	r.frame(t)
	if r.frontend.runs != 2 {
		t.Errorf("title ran %d times, expected 2", r.frontend.runs)
	}
}

func TestStartWithLoadSave(t *testing.T) {
	r := newRig(t, Options{LoadSave: "quick"})
	r.session.saveLevel = LevelChoice{Name: "cam1b"}
	r.start(t)

	if r.o.GameMode() != ModeNormal || !r.o.Initialised() {
		t.Fatalf("mode = %s, initialised = %v", r.o.GameMode(), r.o.Initialised())
	}
	nm := r.o.Mode().(NormalMode)
	if nm.Level.Name != "cam1b" {
		t.Errorf("Level = %q, expected the savegame's level", nm.Level.Name)
	}
	expectCalls(t, *r.log, "session.loadsave quick")
}

func TestStartWithBadLoadSave(t *testing.T) {
	r := newRig(t, Options{LoadSave: "broken"})
	r.session.saveErr = errCorrupt
	r.start(t)

	if r.o.GameMode() != ModeTitle || r.o.Initialised() {
		t.Errorf("mode = %s, initialised = %v", r.o.GameMode(), r.o.Initialised())
	}
}

func TestQuitToTitleRestoresWindow(t *testing.T) {
	r := newRig(t, Options{TrapCursor: true})
	r.session.multiplayer = true
	r.startGame(t, "Rush")

	if r.window.resizable {
		t.Fatal("multiplayer games disable window resizing")
	}
	r.session.update = func(*FrameContext) Status { return StatusQuit }
	r.frame(t)

	if r.o.GameMode() != ModeTitle || r.o.Initialised() {
		t.Errorf("mode = %s, initialised = %v", r.o.GameMode(), r.o.Initialised())
	}
	if !r.window.resizable || r.window.grabbed {
		t.Errorf("window = %+v, expected resizable and released", r.window)
	}
	expectCalls(t, *r.log, "session.stop release=true", "title.init")
}

func TestQuitKeepsWindowFixedInFullscreen(t *testing.T) {
	r := newRig(t, Options{})
	r.session.multiplayer = true
	r.window.fullscreen = true
	r.startGame(t, "Rush")
	r.session.update = func(*FrameContext) Status { return StatusQuit }
	r.frame(t)

	if r.window.resizable {
		t.Error("a fullscreen window should not be made resizable")
	}
}

func TestEndLevelTearsDownBeforeSetup(t *testing.T) {
	r := newRig(t, Options{})
	r.startGame(t, "cam1a")

	ended := false
	r.session.update = func(f *FrameContext) Status {
		if !ended {
			ended = true
			if err := f.Mission.EndLevel(LevelChoice{Name: "cam1b"}, false); err != nil {
				t.Errorf("EndLevel() failed: %v", err)
			}
		}
		return StatusContinue
	}

	r.frame(t)
	if s, _ := r.o.MissionState(); s != MissionSetupMission {
		t.Fatalf("MissionState() = %s, expected setupmission", s)
	}
	if !r.o.PauseState().Script {
		t.Error("scripts should be paused between missions")
	}
	expectCalls(t, *r.log, "session.destroy")

	r.frame(t)
	if s, _ := r.o.MissionState(); s != MissionNormal {
		t.Errorf("MissionState() = %s, expected normal", s)
	}
	if r.o.PauseState().Script {
		t.Error("scripts should run again after setup")
	}
	expectCalls(t, *r.log, "session.destroy", "session.setup cam1b")
	if r.o.GameMode() != ModeNormal {
		t.Error("mission change should stay in gameplay")
	}
}

func TestSetupMissionFailureQuitsToTitle(t *testing.T) {
	r := newRig(t, Options{})
	r.startGame(t, "cam1a")
	r.session.setupErr = errors.New("no such mission")
	r.session.update = func(f *FrameContext) Status {
		f.Mission.EndLevel(LevelChoice{Name: "cam9"}, false)
		return StatusContinue
	}

	r.frame(t)
	r.frame(t)

	if r.o.GameMode() != ModeTitle || r.o.Initialised() {
		t.Errorf("mode = %s, initialised = %v", r.o.GameMode(), r.o.Initialised())
	}
	if len(r.frontend.reported) != 1 {
		t.Errorf("reported = %v, expected the setup error", r.frontend.reported)
	}
	expectCalls(t, *r.log, "session.destroy", "session.setup cam9", "session.stop release=true", "title.init")
}

func TestSaveContinueHoldsUntilResolved(t *testing.T) {
	r := newRig(t, Options{})
	r.startGame(t, "cam1a")

	var mission *Mission
	r.session.update = func(f *FrameContext) Status {
		if mission == nil {
			mission = f.Mission
			f.Mission.EndLevel(LevelChoice{Name: "cam1b"}, true)
		}
		return StatusContinue
	}

	for i := 0; i < 3; i++ {
		r.frame(t)
		if s, _ := r.o.MissionState(); s != MissionSaveContinue {
			t.Fatalf("frame %d: MissionState() = %s, expected savecontinue", i, s)
		}
	}
	if len(*r.log) != 0 {
		t.Fatalf("calls = %q, expected nothing while the prompt is up", *r.log)
	}

	if err := mission.ResolveContinue(); err != nil {
		t.Fatalf("ResolveContinue() failed: %v", err)
	}
	r.frame(t)
	r.frame(t)
	expectCalls(t, *r.log, "session.destroy", "session.setup cam1b")
}

func TestRequestNewLevel(t *testing.T) {
	r := newRig(t, Options{})
	r.startGame(t, "cam1a")
	r.session.update = func(f *FrameContext) Status {
		if f.Level.Name == "cam1a" {
			f.Mission.RequestNewLevel(LevelChoice{Name: "Rush"})
		}
		return StatusContinue
	}
	r.frame(t)

	expectCalls(t, *r.log, "session.stop release=false", "session.load Rush", "session.start")
	nm := r.o.Mode().(NormalMode)
	if nm.Level.Name != "Rush" || nm.Mission.State() != MissionNormal {
		t.Errorf("mode = %+v, expected a fresh mission on Rush", nm)
	}
}

func TestRequestLoadFromGame(t *testing.T) {
	r := newRig(t, Options{})
	r.session.saveLevel = LevelChoice{Name: "cam1c"}
	r.startGame(t, "cam1a")
	r.session.update = func(f *FrameContext) Status {
		if f.Level.Name == "cam1a" {
			f.Mission.RequestLoad("autosave")
		}
		return StatusContinue
	}
	r.frame(t)

	expectCalls(t, *r.log, "session.stop release=false", "session.loadsave autosave")
	if r.o.GameMode() != ModeNormal || !r.o.Initialised() {
		t.Errorf("mode = %s, initialised = %v", r.o.GameMode(), r.o.Initialised())
	}
}

func TestRequestLoadFromGameFailure(t *testing.T) {
	r := newRig(t, Options{})
	r.startGame(t, "cam1a")
	r.session.saveErr = errCorrupt
	r.session.update = func(f *FrameContext) Status {
		f.Mission.RequestLoad("broken")
		return StatusContinue
	}
	r.frame(t)

	if r.o.GameMode() != ModeTitle || r.o.Initialised() {
		t.Errorf("mode = %s, initialised = %v", r.o.GameMode(), r.o.Initialised())
	}
	expectCalls(t, *r.log, "session.stop release=false", "session.loadsave broken", "session.stop release=true", "title.init")
}

func TestVideoChainsAndNotifiesSession(t *testing.T) {
	r := newRig(t, Options{})
	r.startGame(t, "cam1a")
	started := false
	r.session.update = func(f *FrameContext) Status {
		if !started {
			started = true
			f.StartVideo("brief1", "brief2")
		}
		return StatusContinue
	}

	r.frame(t)
	if !r.o.VideoPlaying() || !r.o.Paused() {
		t.Fatal("video should play and pause the game")
	}
	updates := r.session.updates

	// brief1 runs 3 frames, then brief2 follows on its own.
	for i := 0; i < 3; i++ {
		r.frame(t)
	}
	if len(r.video.played) != 2 || r.video.played[1] != "brief2" {
		t.Fatalf("played = %v, expected the second sequence to start", r.video.played)
	}
	for i := 0; i < 3; i++ {
		r.frame(t)
	}
	if r.o.VideoPlaying() || r.o.Paused() {
		t.Error("video mode should end after the last sequence")
	}
	if r.session.videoQuits != 1 || r.frontend.videoQuits != 0 {
		t.Errorf("video quit sent to session %d times, frontend %d times", r.session.videoQuits, r.frontend.videoQuits)
	}
	if r.session.updates != updates {
		t.Error("gameplay must not update while a video plays")
	}
}

func TestVideoEscapeSkipsChain(t *testing.T) {
	r := newRig(t, Options{})
	r.start(t)
	r.frontend.results = []TitleResult{{Code: TitleShowIntro}}
	r.frame(t)
	if !r.o.VideoPlaying() {
		t.Fatal("intro should play")
	}

	r.tap(input.KeyEsc)
	r.frame(t)
	if r.o.VideoPlaying() {
		t.Error("escape should stop the video")
	}
	if len(r.video.played) != 1 {
		t.Errorf("played = %v, expected no chaining after escape", r.video.played)
	}
	if r.frontend.videoQuits != 1 {
		t.Errorf("frontend video quits = %d, expected 1", r.frontend.videoQuits)
	}
}

func TestVideoLeftClickStops(t *testing.T) {
	r := newRig(t, Options{})
	r.start(t)
	r.o.StartVideo("titles")

	r.in.HandleMouseDown(input.MouseLeft, 10, 10)
	r.frame(t)
	if !r.o.VideoPlaying() {
		t.Fatal("a press alone should not stop the video")
	}
	r.in.HandleMouseUp(input.MouseLeft, 10, 10)
	r.frame(t)
	if r.o.VideoPlaying() {
		t.Error("releasing the left button should stop the video")
	}
}

func TestVideoSkipsMissingSequences(t *testing.T) {
	r := newRig(t, Options{})
	r.start(t)
	r.video.missing["titles"] = true
	r.o.StartVideo("titles", "devastation")

	if !r.o.VideoPlaying() || r.video.played[0] != "devastation" {
		t.Errorf("played = %v, expected the missing sequence skipped", r.video.played)
	}

	r.video.missing["devastation"] = true
	r.o.StartVideo("devastation")
	if r.o.VideoPlaying() {
		t.Error("replacing a video with nothing playable should end video mode")
	}
}

func TestScreenshotKeyLosesFocus(t *testing.T) {
	r := newRig(t, Options{})
	r.start(t)
	r.in.HandleKeyDown(input.KeyW)
	r.tap(input.KeyF10)
	r.frame(t)

	if r.shots.n != 1 {
		t.Errorf("screenshots = %d, expected 1", r.shots.n)
	}
	if r.in.KeyDown(input.KeyW) {
		t.Error("held keys should be released after a screenshot")
	}
}

func TestPauseOnFocusLoss(t *testing.T) {
	r := newRig(t, Options{PauseOnFocusLoss: true})
	r.start(t)
	r.o.SetFocus(false)
	r.frame(t)
	if r.frontend.runs != 0 {
		t.Error("title should not run without focus")
	}
	if r.in.MouseInWindow() {
		t.Error("pointer should be outside the window without focus")
	}

	r.o.SetFocus(true)
	r.frame(t)
	if r.frontend.runs != 1 {
		t.Errorf("title runs = %d, expected 1", r.frontend.runs)
	}
}

func TestMultiplayerIgnoresFocusLoss(t *testing.T) {
	r := newRig(t, Options{PauseOnFocusLoss: true})
	r.session.multiplayer = true
	r.startGame(t, "Rush")
	r.o.SetFocus(false)
	r.frame(t)
	if r.session.updates != 1 {
		t.Errorf("updates = %d, expected networked game to keep running", r.session.updates)
	}
}

func TestFocusLossWithoutPauseOption(t *testing.T) {
	r := newRig(t, Options{})
	r.start(t)
	r.o.SetFocus(false)
	r.frame(t)
	if r.frontend.runs != 1 {
		t.Error("title should run when pause on focus loss is off")
	}
}

func TestPauseKey(t *testing.T) {
	r := newRig(t, Options{})
	r.startGame(t, "cam1a")

	r.tap(input.KeyP)
	r.frame(t)
	if !r.o.Paused() || !r.o.PauseState().GameUpdate {
		t.Fatal("pause key should pause the game")
	}
	if r.session.updates != 0 {
		t.Error("paused game should not update")
	}
	r.tap(input.KeyP)
	r.frame(t)
	if r.o.Paused() || r.session.updates != 1 {
		t.Errorf("paused = %v, updates = %d", r.o.Paused(), r.session.updates)
	}
}

func TestTypingSuppressesGlobalKeys(t *testing.T) {
	r := newRig(t, Options{})
	r.startGame(t, "cam1a")
	r.in.StartTextInput()

	r.tap(input.KeyP)
	r.tap(input.KeyCode('+'))
	r.frame(t)
	if r.o.Paused() {
		t.Error("typing p should not pause")
	}
	if r.display.scale != 100 {
		t.Errorf("scale = %d, typing + should not change it", r.display.scale)
	}
	if r.session.updates != 1 {
		t.Errorf("updates = %d, the session should see the typed keys", r.session.updates)
	}
}

func TestPauseRejected(t *testing.T) {
	r := newRig(t, Options{})
	r.start(t)
	if r.o.Pause(true) {
		t.Error("title screen cannot be paused")
	}

	mp := newRig(t, Options{})
	mp.session.multiplayer = true
	mp.startGame(t, "Rush")
	if mp.o.Pause(true) {
		t.Error("networked games cannot be paused")
	}
}

func TestAltEnterTogglesFullscreen(t *testing.T) {
	r := newRig(t, Options{})
	r.startGame(t, "cam1a")

	r.in.HandleKeyDown(input.KeyLAlt)
	r.tap(input.KeyReturn)
	r.frame(t)
	if !r.window.fullscreen {
		t.Error("Alt+Enter should enter fullscreen")
	}

	r.tap(input.KeyReturn)
	r.frame(t)
	if r.window.fullscreen {
		t.Error("Alt+Enter again should leave fullscreen")
	}
}

func TestPendingResizeDelivered(t *testing.T) {
	r := newRig(t, Options{})
	r.start(t)
	r.display.pending = &display.Resize{Old: display.Size{W: 80, H: 24}, New: display.Size{W: 100, H: 30}}
	r.frame(t)
	r.frame(t)

	if len(r.frontend.resizes) != 1 || r.frontend.resizes[0].New.W != 100 {
		t.Errorf("resizes = %+v, expected exactly one", r.frontend.resizes)
	}
}

func TestScaleKeys(t *testing.T) {
	r := newRig(t, Options{})
	r.start(t)

	r.tap(input.KeyCode('+'))
	r.frame(t)
	if r.display.scale != 125 {
		t.Errorf("scale = %d, expected 125", r.display.scale)
	}
	r.tap(input.KeyCode('+'))
	r.frame(t)
	r.tap(input.KeyCode('+'))
	r.frame(t)
	if r.display.scale != 150 {
		t.Errorf("scale = %d, expected 150 (200 does not fit)", r.display.scale)
	}
	r.tap(input.KeyCode('-'))
	r.frame(t)
	if r.display.scale != 125 {
		t.Errorf("scale = %d, expected 125", r.display.scale)
	}
}

func TestTitleQuit(t *testing.T) {
	r := newRig(t, Options{})
	r.start(t)
	r.frontend.results = []TitleResult{{Code: TitleQuitGame}}
	r.frame(t)

	if r.o.Running() {
		t.Error("quit from the title should stop the loop")
	}
	if err := r.o.Shutdown(); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}
	if r.config.saves != 1 {
		t.Errorf("config saves = %d, expected 1", r.config.saves)
	}
	expectCalls(t, *r.log, "title.init", "title.shutdown")
	if err := r.o.Shutdown(); err != nil || r.config.saves != 1 {
		t.Error("second Shutdown() should do nothing")
	}
}

func TestRequestQuitFromGame(t *testing.T) {
	r := newRig(t, Options{})
	r.startGame(t, "cam1a")
	r.o.RequestQuit()
	r.frame(t)

	if r.o.Running() {
		t.Error("RequestQuit should stop the loop")
	}
	expectCalls(t, *r.log, "session.stop release=true")
	if r.session.updates != 0 {
		t.Error("no gameplay frame should run after a quit request")
	}
}

func TestShutdownWhileRunningJoinsErrors(t *testing.T) {
	r := newRig(t, Options{})
	r.start(t)
	r.frontend.shutdownErr = errors.New("widgets leaked")
	r.config.err = errors.New("disk full")

	err := r.o.Shutdown()
	if !errors.Is(err, ErrFatal) {
		t.Errorf("err = %v, expected the frontend failure", err)
	}
	if err == nil || !errors.Is(err, r.config.err) {
		t.Errorf("err = %v, expected the config failure too", err)
	}
	if r.config.saves != 1 {
		t.Error("config should be saved even when teardown fails")
	}
}

func TestFrontendInitFailureIsFatal(t *testing.T) {
	r := newRig(t, Options{})
	r.frontend.initErr = errors.New("no terminal")
	if err := r.o.Start(); !errors.Is(err, ErrFatal) {
		t.Errorf("Start() = %v, expected ErrFatal", err)
	}
	if r.o.Running() {
		t.Error("orchestrator should stop after a fatal error")
	}
}

func TestFrontendShutdownFailureIsFatal(t *testing.T) {
	r := newRig(t, Options{})
	r.start(t)
	r.frontend.shutdownErr = errors.New("stuck")
	r.frontend.results = []TitleResult{{Code: TitleStartGame, Level: LevelChoice{Name: "cam1a"}}}

	if err := r.o.Frame(); !errors.Is(err, ErrFatal) {
		t.Errorf("Frame() = %v, expected ErrFatal", err)
	}
	if r.o.Running() {
		t.Error("orchestrator should stop after a fatal error")
	}
}

func TestFrameRetiresInputEdges(t *testing.T) {
	r := newRig(t, Options{})
	r.start(t)
	r.tap(input.KeyA)
	r.frame(t)
	if r.in.KeyPressed(input.KeyA) || r.in.KeyDown(input.KeyA) {
		t.Error("Frame() should end with NewFrame")
	}
}
