package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/vovakirdan/frontline/internal/config"
	"github.com/vovakirdan/frontline/internal/core"
	"github.com/vovakirdan/frontline/internal/display"
	"github.com/vovakirdan/frontline/internal/engine"
	"github.com/vovakirdan/frontline/internal/input"
	"github.com/vovakirdan/frontline/internal/registry"
	"github.com/vovakirdan/frontline/internal/storage"
)

var (
	_ engine.Session        = (*Session)(nil)
	_ engine.ResizeListener = (*Session)(nil)
	_ engine.VideoListener  = (*Session)(nil)
)

// Savegame names used by the session.
const (
	QuickSaveName = "quicksave"
	savePrefix    = "continue-"
)

// Session layout and pacing constants
const (
	hudRows     = 2
	maxNameLen  = 24
	moveEvery   = 3  // frames per unit step
	attackEvery = 10 // frames between shots
	messageSecs = 4
	endSecs     = 3
)

// Unit owners.
const (
	ownerPlayer = 0
	ownerEnemy  = 1
)

type unitKind struct {
	name   string
	hp     int
	damage int
	rng    int
	mobile bool
}

var unitKinds = map[rune]unitKind{
	'H': {name: "headquarters", hp: 200},
	'F': {name: "factory", hp: 100},
	'T': {name: "tank", hp: 60, damage: 12, rng: 3, mobile: true},
	's': {name: "scavenger", hp: 30, damage: 6, rng: 2},
	'E': {name: "enemy base", hp: 120, damage: 8, rng: 3},
}

const tanksPerHQ = 3

type unit struct {
	kind     rune
	owner    int
	pos      core.Point
	target   core.Point
	hp       int
	selected bool
}

// SessionOptions configure a Session.
type SessionOptions struct {
	Catalog     *registry.Catalog
	Store       *storage.Store // nil disables saving and the mission log
	Difficulty  config.DifficultyLevel
	Multiplayer bool // skirmish levels count as networked games
	FPS         int
	View        display.Size
	Logger      *log.Logger
}

// Session is a small real-time strategy game: a terrain map, player tanks
// and structures, and enemy scavengers and bases. Destroying every enemy
// wins the level.
type Session struct {
	catalog     *registry.Catalog
	store       *storage.Store
	logger      *log.Logger
	difficulty  config.DifficultyLevel
	multiplayer bool
	fps         int
	view        display.Size

	level    *registry.Level
	tiles    [][]rune
	units    []*unit
	frame    int
	started  bool
	recorded bool
	over     int // frames until leaving to the title screen, 0 when running
	prompt   bool

	camera    core.Point
	dragging  bool
	dragFrom  core.Point
	dragTo    core.Point
	lastMouse core.Point

	message    string
	messageTTL int

	// naming is set while the save-as prompt owns the keyboard.
	naming bool
	name   []rune
	textIn *input.Tracker
}

// NewSession creates a session with no level loaded.
func NewSession(opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = 30
	}
	diff := opts.Difficulty
	if !diff.Valid() {
		diff = config.DifficultyNormal
	}
	return &Session{
		catalog:     opts.Catalog,
		store:       opts.Store,
		logger:      logger,
		difficulty:  diff,
		multiplayer: opts.Multiplayer,
		fps:         fps,
		view:        opts.View,
	}
}

// LoadLevel loads a level and places the starting units.
func (s *Session) LoadLevel(choice engine.LevelChoice) error {
	lvl, err := s.catalog.Load(choice.Name, choice.Hash)
	if err != nil {
		return err
	}
	s.setLevel(lvl)
	s.spawn()
	return nil
}

func (s *Session) setLevel(lvl *registry.Level) {
	s.level = lvl
	s.units = nil
	s.frame = 0
	s.started = false
	s.recorded = false
	s.over = 0
	s.prompt = false
	s.dragging = false
	s.camera = core.Point{}
	s.stopNaming()

	s.tiles = make([][]rune, len(lvl.Terrain))
	for y, row := range lvl.Terrain {
		s.tiles[y] = []rune(row)
		for x, r := range s.tiles[y] {
			if isMarker(r) {
				s.tiles[y][x] = '.'
			}
		}
	}
}

// isMarker reports whether a terrain rune places a unit rather than ground.
func isMarker(r rune) bool {
	switch r {
	case 'H', 'Q', 'f', 's', 'E':
		return true
	}
	return r >= '1' && r <= '9'
}

// spawn creates the starting units from the level's terrain markers. The
// first player start gets tanks next to its headquarters.
func (s *Session) spawn() {
	hasHQ := false
	for y, row := range s.level.Terrain {
		for x, r := range []rune(row) {
			p := core.Pt(x, y)
			switch {
			case r == 'H' || r == '1':
				s.addUnit('H', ownerPlayer, p)
				if !hasHQ {
					hasHQ = true
					for _, tp := range s.freeNear(p, tanksPerHQ) {
						s.addUnit('T', ownerPlayer, tp)
					}
				}
			case r == 'f':
				s.addUnit('F', ownerPlayer, p)
			case r == 's':
				s.addUnit('s', ownerEnemy, p)
			case r == 'E' || (r >= '2' && r <= '9'):
				s.addUnit('E', ownerEnemy, p)
			}
		}
	}
}

func (s *Session) addUnit(kind rune, owner int, p core.Point) *unit {
	u := &unit{kind: kind, owner: owner, pos: p, target: p, hp: unitKinds[kind].hp}
	s.units = append(s.units, u)
	return u
}

// freeNear returns up to n passable, unoccupied cells around p, nearest
// rings first.
func (s *Session) freeNear(p core.Point, n int) []core.Point {
	var out []core.Point
	taken := make(map[core.Point]bool)
	for ring := 2; ring < 8 && len(out) < n; ring++ {
		for dy := -ring; dy <= ring && len(out) < n; dy++ {
			for dx := -ring; dx <= ring && len(out) < n; dx++ {
				if core.Max(core.Abs(dx), core.Abs(dy)) != ring {
					continue
				}
				q := p.Add(core.Pt(dx, dy))
				if taken[q] || !s.passable(q) || s.unitAt(q) != nil {
					continue
				}
				taken[q] = true
				out = append(out, q)
			}
		}
	}
	return out
}

func (s *Session) tile(p core.Point) rune {
	if p.Y < 0 || p.Y >= len(s.tiles) || p.X < 0 || p.X >= len(s.tiles[p.Y]) {
		return 0
	}
	return s.tiles[p.Y][p.X]
}

func (s *Session) passable(p core.Point) bool {
	switch s.tile(p) {
	case '.', '=':
		return true
	}
	return false
}

func (s *Session) unitAt(p core.Point) *unit {
	for _, u := range s.units {
		if u.pos == p {
			return u
		}
	}
	return nil
}

// LoadSave restores a savegame written by saveGame.
func (s *Session) LoadSave(name string) (engine.LevelChoice, error) {
	if s.store == nil {
		return engine.LevelChoice{}, errors.New("tui: no savegame store")
	}
	g, err := s.store.LoadGame(name)
	if err != nil {
		return engine.LevelChoice{}, err
	}

	doc := gjson.ParseBytes(g.Payload)
	hash := doc.Get("hash").String()
	if hash == "" {
		hash = g.LevelHash
	}
	lvl, err := s.catalog.Load(doc.Get("level").String(), hash)
	if err != nil {
		return engine.LevelChoice{}, err
	}

	s.setLevel(lvl)
	if doc.Get("start").Bool() {
		s.spawn()
	} else if err := s.restoreUnits(doc.Get("units")); err != nil {
		s.level = nil
		return engine.LevelChoice{}, fmt.Errorf("%w: %s: %w", storage.ErrCorrupt, name, err)
	}
	s.frame = int(doc.Get("frame").Int())
	if d, err := config.ParseDifficulty(doc.Get("difficulty").String()); err == nil {
		s.difficulty = d
	}
	s.started = true
	s.say("Loaded " + name)
	s.logger.Info("savegame restored", "save", name, "level", lvl.Ref.Name, "units", len(s.units))
	return engine.LevelChoice{Name: lvl.Ref.Name, Hash: lvl.Ref.Hash}, nil
}

func (s *Session) restoreUnits(units gjson.Result) error {
	if !units.IsArray() {
		return errors.New("units missing")
	}
	var err error
	units.ForEach(func(_, v gjson.Result) bool {
		kind := []rune(v.Get("kind").String())
		if len(kind) != 1 {
			err = fmt.Errorf("bad unit kind %q", v.Get("kind").String())
			return false
		}
		if _, ok := unitKinds[kind[0]]; !ok {
			err = fmt.Errorf("unknown unit kind %q", string(kind))
			return false
		}
		p := core.Pt(int(v.Get("x").Int()), int(v.Get("y").Int()))
		if s.tile(p) == 0 {
			err = fmt.Errorf("unit outside the map at %v", p)
			return false
		}
		u := s.addUnit(kind[0], int(v.Get("owner").Int()), p)
		u.target = core.Pt(int(v.Get("tx").Int()), int(v.Get("ty").Int()))
		u.hp = int(v.Get("hp").Int())
		return true
	})
	return err
}

// saveGame stores the running game. With start set the savegame restarts
// level from its initial units instead.
func (s *Session) saveGame(name string, level engine.LevelChoice, start bool) error {
	if s.store == nil {
		return errors.New("tui: no savegame store")
	}

	payload := []byte(`{"version":1}`)
	var err error
	set := func(path string, v any) {
		if err == nil {
			payload, err = sjson.SetBytes(payload, path, v)
		}
	}
	set("level", level.Name)
	set("hash", level.Hash)
	set("difficulty", s.difficulty.String())
	if start {
		set("start", true)
	} else {
		set("frame", s.frame)
		set("units", []any{})
		for _, u := range s.units {
			set("units.-1", map[string]any{
				"kind":  string(u.kind),
				"owner": u.owner,
				"x":     u.pos.X,
				"y":     u.pos.Y,
				"tx":    u.target.X,
				"ty":    u.target.Y,
				"hp":    u.hp,
			})
		}
	}
	if err != nil {
		return fmt.Errorf("tui: cannot encode savegame: %w", err)
	}

	kind := storage.KindSkirmish
	if s.level.Ref.Type == registry.TypeCampaign {
		kind = storage.KindCampaign
	}
	return s.store.SaveGame(storage.Savegame{
		Name:       name,
		Kind:       kind,
		Level:      level.Name,
		LevelHash:  level.Hash,
		Difficulty: s.difficulty.String(),
		Payload:    payload,
	})
}

func (s *Session) current() engine.LevelChoice {
	return engine.LevelChoice{Name: s.level.Ref.Name, Hash: s.level.Ref.Hash}
}

// StartLevel starts the mission clock.
func (s *Session) StartLevel() {
	s.started = true
	s.frame = 0
	if s.level != nil {
		s.say(s.level.Objective)
		s.logger.Info("mission started", "level", s.level.Ref.Name, "difficulty", s.difficulty)
	}
}

// Update runs one gameplay frame.
func (s *Session) Update(f *engine.FrameContext) engine.Status {
	if s.level == nil {
		return engine.StatusQuit
	}
	in := f.Input
	if s.messageTTL > 0 {
		s.messageTTL--
		if s.messageTTL == 0 {
			s.message = ""
		}
	}

	if s.over > 0 {
		s.over--
		if s.over == 0 {
			return engine.StatusQuit
		}
		return engine.StatusContinue
	}

	if s.naming {
		s.editName(in)
		return engine.StatusContinue
	}

	if f.Keymap.Pressed(in, input.ActionQuit) {
		s.record("quit")
		return engine.StatusQuit
	}

	switch f.Mission.State() {
	case engine.MissionSaveContinue:
		s.prompt = true
		s.continuePrompt(in, f.Mission)
		return engine.StatusContinue
	case engine.MissionNormal:
		s.prompt = false
	default:
		return engine.StatusContinue
	}

	switch {
	case f.Keymap.Pressed(in, input.ActionQuickSave):
		if err := s.saveGame(QuickSaveName, s.current(), false); err != nil {
			s.logger.Error("quicksave failed", "err", err)
			s.say("Quicksave failed")
		} else {
			s.say("Game saved")
		}
	case f.Keymap.Pressed(in, input.ActionSaveGame) && s.store != nil:
		s.startNaming(in)
		return engine.StatusContinue
	case f.Keymap.Pressed(in, input.ActionQuickLoad):
		if err := f.Mission.RequestLoad(QuickSaveName); err != nil {
			s.logger.Warn("quickload refused", "err", err)
		}
		return engine.StatusContinue
	case f.Keymap.Pressed(in, input.ActionEndLevel):
		s.win(f.Mission)
		return engine.StatusContinue
	case f.Keymap.Pressed(in, input.ActionPlayVideo):
		f.StartVideo("brief-" + s.level.Ref.Name)
	}

	if !f.Pause.Scroll {
		s.scroll(in)
	}
	s.handleMouse(in)

	if !f.Pause.GameUpdate {
		s.simulate()
		s.checkOutcome(f.Mission)
	}
	return engine.StatusContinue
}

func (s *Session) continuePrompt(in *input.Tracker, m *engine.Mission) {
	switch {
	case in.KeyPressed(input.KeyReturn) || in.KeyPressed(input.KeyY):
		next := m.Next()
		if err := s.saveGame(savePrefix+next.Name, next, true); err != nil {
			s.logger.Error("continue save failed", "err", err)
		}
	case in.KeyPressed(input.KeyEsc) || in.KeyPressed(input.KeyN):
	default:
		return
	}
	if err := m.ResolveContinue(); err != nil {
		s.logger.Warn("continue refused", "err", err)
	}
}

func (s *Session) startNaming(in *input.Tracker) {
	s.naming = true
	s.name = s.name[:0]
	s.textIn = in
	in.StartTextInput()
	in.ClearText()
}

func (s *Session) stopNaming() {
	if s.textIn != nil {
		s.textIn.StopTextInput()
		s.textIn.ClearText()
	}
	s.naming = false
	s.textIn = nil
}

// editName consumes the typed text of the save-as prompt. Enter saves
// under the typed name, Escape cancels.
func (s *Session) editName(in *input.Tracker) {
	for {
		key, r := in.PopKey()
		if key == 0 {
			return
		}
		switch input.EditCode(key) {
		case input.EditCR:
			s.commitName()
			return
		case input.EditEsc:
			s.stopNaming()
			return
		case input.EditBackspace:
			if len(s.name) > 0 {
				s.name = s.name[:len(s.name)-1]
			}
		default:
			if nameRune(r) && len(s.name) < maxNameLen {
				s.name = append(s.name, r)
			}
		}
	}
}

func nameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return r == '-' || r == '_' || r == ' '
}

func (s *Session) commitName() {
	name := strings.TrimSpace(string(s.name))
	s.stopNaming()
	if name == "" {
		return
	}
	if err := s.saveGame(name, s.current(), false); err != nil {
		s.logger.Error("save failed", "save", name, "err", err)
		s.say("Save failed")
		return
	}
	s.say("Saved " + name)
}

func (s *Session) mapHeight() int {
	return core.Max(s.view.H-hudRows, 0)
}

func (s *Session) scroll(in *input.Tracker) {
	switch {
	case in.KeyPressed(input.KeyLeftArrow):
		s.camera.X--
	case in.KeyPressed(input.KeyRightArrow):
		s.camera.X++
	}
	switch {
	case in.KeyPressed(input.KeyUpArrow) || in.MousePressed(input.MouseWheelUp):
		s.camera.Y--
	case in.KeyPressed(input.KeyDownArrow) || in.MousePressed(input.MouseWheelDown):
		s.camera.Y++
	}

	// Middle button, or left and right together, drags the map.
	p := in.MousePos()
	if in.MouseDown(input.MouseMiddle) {
		s.camera = s.camera.Add(s.lastMouse.Sub(p))
	}
	s.lastMouse = p
	s.clampCamera()
}

func (s *Session) clampCamera() {
	if s.level == nil {
		return
	}
	s.camera.X = core.Clamp(s.camera.X, 0, core.Max(s.level.Width-s.view.W, 0))
	s.camera.Y = core.Clamp(s.camera.Y, 0, core.Max(s.level.Height-s.mapHeight(), 0))
}

func (s *Session) handleMouse(in *input.Tracker) {
	if in.MouseDown(input.MouseMiddle) {
		return
	}
	p := in.MousePos()
	world := p.Add(s.camera)

	if start, ok := in.MouseDrag(input.MouseLeft); ok {
		s.dragging = true
		s.dragFrom = start
		s.dragTo = p
		return
	}

	switch {
	case in.MouseReleased(input.MouseLeft) && s.dragging:
		s.dragging = false
		end := in.MouseReleasePos(input.MouseLeft).Add(s.camera)
		box := core.RectFromCorners(s.dragFrom.Add(s.camera), end)
		additive := in.KeyDown(input.KeyLShift)
		for _, u := range s.units {
			if u.owner != ownerPlayer {
				continue
			}
			inBox := box.Contains(u.pos)
			u.selected = inBox || (additive && u.selected)
		}

	case in.MouseDoubleClicked(input.MouseLeft):
		if target := s.unitAt(world); target != nil && target.owner == ownerPlayer {
			for _, u := range s.units {
				u.selected = u.owner == ownerPlayer && u.kind == target.kind
			}
		}

	case in.MousePressed(input.MouseLeft):
		target := s.unitAt(in.MousePressPos(input.MouseLeft).Add(s.camera))
		additive := in.KeyDown(input.KeyLShift)
		for _, u := range s.units {
			if u == target && u.owner == ownerPlayer {
				u.selected = !(additive && u.selected)
			} else if !additive {
				u.selected = false
			}
		}

	case in.MousePressed(input.MouseRight):
		// Every right press this frame is an order; the last one stands.
		for _, c := range in.Clicks() {
			if c.Button == input.MouseRight && c.Action == input.Press {
				s.order(c.Pos.Add(s.camera))
			}
		}
	}
}

// order sends the selected mobile units to a passable tile.
func (s *Session) order(to core.Point) {
	if s.tile(to) == 0 {
		return
	}
	for _, u := range s.units {
		if u.selected && unitKinds[u.kind].mobile {
			u.target = to
		}
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// simulate advances movement and combat by one frame.
func (s *Session) simulate() {
	s.frame++

	if s.frame%moveEvery == 0 {
		for _, u := range s.units {
			if !unitKinds[u.kind].mobile || u.pos == u.target {
				continue
			}
			d := u.target.Sub(u.pos)
			steps := []core.Point{
				core.Pt(sign(d.X), sign(d.Y)),
				core.Pt(sign(d.X), 0),
				core.Pt(0, sign(d.Y)),
			}
			for _, st := range steps {
				next := u.pos.Add(st)
				if st != (core.Point{}) && s.passable(next) && s.unitAt(next) == nil {
					u.pos = next
					break
				}
			}
		}
	}

	if s.frame%attackEvery == 0 {
		for _, u := range s.units {
			k := unitKinds[u.kind]
			if k.damage == 0 || u.hp <= 0 {
				continue
			}
			if victim := s.nearestEnemy(u, k.rng); victim != nil {
				victim.hp -= s.difficulty.ModifyDamage(k.damage, u.owner == ownerPlayer, s.Multiplayer())
			}
		}
		alive := s.units[:0]
		for _, u := range s.units {
			if u.hp > 0 {
				alive = append(alive, u)
			}
		}
		clear(s.units[len(alive):])
		s.units = alive
	}
}

func (s *Session) nearestEnemy(u *unit, rng int) *unit {
	var best *unit
	bestDist := rng + 1
	for _, o := range s.units {
		if o.owner == u.owner || o.hp <= 0 {
			continue
		}
		d := core.Max(core.Abs(o.pos.X-u.pos.X), core.Abs(o.pos.Y-u.pos.Y))
		if d < bestDist {
			best, bestDist = o, d
		}
	}
	return best
}

func (s *Session) count(owner int) int {
	n := 0
	for _, u := range s.units {
		if u.owner == owner {
			n++
		}
	}
	return n
}

// elapsed returns mission time derived from the frame count.
func (s *Session) elapsed() time.Duration {
	return time.Duration(s.frame) * time.Second / time.Duration(s.fps)
}

func (s *Session) checkOutcome(m *engine.Mission) {
	switch {
	case s.count(ownerEnemy) == 0:
		s.win(m)
	case s.count(ownerPlayer) == 0:
		s.lose("Mission failed")
	case s.level.TimeLimit > 0 && s.elapsed() >= time.Duration(s.level.TimeLimit)*time.Second:
		if s.level.Metadata["timer"] == "survive" {
			s.win(m)
		} else {
			s.lose("Out of time")
		}
	}
}

// win ends the level. A campaign continues with the next level, asking to
// save first when a store is available; anything else returns to the title
// screen.
func (s *Session) win(m *engine.Mission) {
	s.record("won")
	if next := s.level.Ref.Next; next != "" {
		prompt := s.store != nil && s.level.Ref.Type == registry.TypeCampaign
		if err := m.EndLevel(engine.LevelChoice{Name: next}, prompt); err != nil {
			s.logger.Warn("cannot end level", "err", err)
			return
		}
		s.say("Mission complete")
		return
	}
	s.say("Victory!")
	s.over = endSecs * s.fps
}

func (s *Session) lose(msg string) {
	s.record("lost")
	s.say(msg)
	s.over = endSecs * s.fps
}

// record writes the mission outcome once per level.
func (s *Session) record(outcome string) {
	if s.recorded || s.level == nil || !s.started {
		return
	}
	s.recorded = true
	s.logger.Info("mission finished", "level", s.level.Ref.Name, "outcome", outcome, "time", s.elapsed())
	if s.store == nil {
		return
	}
	if _, err := s.store.RecordMission(s.level.Ref.Name, outcome, s.elapsed()); err != nil {
		s.logger.Error("cannot record mission", "err", err)
	}
}

func (s *Session) say(msg string) {
	s.message = msg
	s.messageTTL = messageSecs * s.fps
}

// DestroyObjects removes every unit of the finished mission.
func (s *Session) DestroyObjects() {
	s.units = nil
	s.dragging = false
}

// SetupMission loads and starts the next level of a running game.
func (s *Session) SetupMission(next engine.LevelChoice) error {
	if err := s.LoadLevel(next); err != nil {
		return err
	}
	s.StartLevel()
	return nil
}

// Stop ends the game. Cached level data is dropped when releaseLevel is
// set.
func (s *Session) Stop(releaseLevel bool) {
	s.record("quit")
	s.level = nil
	s.tiles = nil
	s.units = nil
	s.started = false
	s.over = 0
	s.prompt = false
	s.dragging = false
	s.stopNaming()
	if releaseLevel {
		s.catalog.Release()
	}
}

// Multiplayer reports whether a networked skirmish is running.
func (s *Session) Multiplayer() bool {
	return s.multiplayer && s.level != nil && s.level.Ref.Type == registry.TypeSkirmish
}

// ScreenResized keeps the camera inside the map.
func (s *Session) ScreenResized(r display.Resize) {
	s.view = r.New
	s.clampCamera()
}

// VideoQuit clears the briefing message once the video ends.
func (s *Session) VideoQuit() {
	s.message = ""
	s.messageTTL = 0
}

func tileColor(r rune) core.Color {
	switch r {
	case '^', '#':
		return core.ColorGray
	case '~':
		return core.ColorBlue
	case '=':
		return core.ColorYellow
	}
	return core.ColorDefault
}

// Draw renders the map and the status lines.
func (s *Session) Draw(scr *core.Screen, paused bool) {
	scr.Clear()
	if s.level == nil {
		return
	}
	mapH := core.Max(scr.Height()-hudRows, 0)

	for y := range mapH {
		for x := range scr.Width() {
			r := s.tile(core.Pt(x, y).Add(s.camera))
			if r == 0 || r == '.' {
				continue
			}
			scr.SetCell(x, y, core.Cell{Rune: r, Color: tileColor(r)})
		}
	}

	for _, u := range s.units {
		p := u.pos.Sub(s.camera)
		if p.Y >= mapH {
			continue
		}
		c := core.ColorRed
		switch {
		case u.owner == ownerPlayer && u.selected:
			c = core.ColorBrightGreen
		case u.owner == ownerPlayer:
			c = core.ColorGreen
		}
		scr.SetCell(p.X, p.Y, core.Cell{Rune: u.kind, Color: c})
	}

	if s.dragging {
		scr.DrawBox(core.RectFromCorners(s.dragFrom, s.dragTo), core.ColorYellow)
	}

	clock := s.elapsed()
	if s.level.TimeLimit > 0 {
		clock = max(time.Duration(s.level.TimeLimit)*time.Second-clock, 0)
	}
	status := fmt.Sprintf(" %s | %02d:%02d | %s | units %d | enemies %d",
		s.level.Ref.Title, int(clock.Minutes()), int(clock.Seconds())%60,
		s.difficulty, s.count(ownerPlayer), s.count(ownerEnemy))
	scr.DrawText(0, mapH, status, core.ColorCyan)

	line := s.message
	if line == "" {
		line = "drag: select  right click: move  F5 save  F6 save as  F9 load  P pause  Q quit"
	}
	scr.DrawText(1, mapH+1, line, core.ColorGray)

	if paused {
		scr.DrawTextCentered(mapH/2, " PAUSED ", core.ColorBrightYellow)
	}
	if s.naming {
		w := core.Min(40, scr.Width())
		box := core.NewRect((scr.Width()-w)/2, mapH/2-2, w, 5)
		clearBox(scr, box)
		scr.DrawBox(box, core.ColorYellow)
		scr.DrawText(box.X+2, box.Y+1, "Save game as:", core.ColorBrightYellow)
		scr.DrawText(box.X+2, box.Y+3, string(s.name)+"_", core.ColorWhite)
	}
	if s.prompt {
		w := core.Min(48, scr.Width())
		box := core.NewRect((scr.Width()-w)/2, mapH/2-2, w, 5)
		clearBox(scr, box)
		scr.DrawBox(box, core.ColorYellow)
		scr.DrawTextCentered(box.Y+1, "Mission complete", core.ColorBrightYellow)
		scr.DrawTextCentered(box.Y+3, "Enter: save and continue   Esc: continue", core.ColorWhite)
	}
}

// clearBox blanks the inside of box.
func clearBox(scr *core.Screen, box core.Rect) {
	for y := box.Y + 1; y < box.Bottom()-1; y++ {
		scr.DrawText(box.X+1, y, fmt.Sprintf("%*s", box.W-2, ""), core.ColorDefault)
	}
}
