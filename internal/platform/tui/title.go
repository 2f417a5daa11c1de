package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/frontline/internal/engine"
	"github.com/vovakirdan/frontline/internal/input"
	"github.com/vovakirdan/frontline/internal/registry"
	"github.com/vovakirdan/frontline/internal/storage"
)

var (
	_ engine.Frontend      = (*Title)(nil)
	_ engine.VideoListener = (*Title)(nil)
)

// Title layout constants
const (
	menuTop   = 4  // first menu row in window cells
	maxSaves  = 50 // rows in the load table
	minTableH = 3
)

// TitleKeyMap defines the key bindings for the title screen. Keys are engine
// key names so they can be matched against the input tracker.
type TitleKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Delete key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k TitleKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Delete, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k TitleKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Back, k.Delete, k.Quit},
	}
}

// DefaultTitleKeyMap returns default key bindings.
func DefaultTitleKeyMap() TitleKeyMap {
	return TitleKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("return", "space"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("escape", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete", "x"),
			key.WithHelp("del/x", "delete save"),
			key.WithDisabled(),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// pressed reports whether any key of b went down this frame.
func pressed(in *input.Tracker, b key.Binding) bool {
	if !b.Enabled() {
		return false
	}
	for _, name := range b.Keys() {
		if c, ok := input.ParseKey(name); ok && in.KeyPressed(c) {
			return true
		}
	}
	return false
}

type titlePage int

const (
	pageMain titlePage = iota
	pageLevels
	pageLoad
)

type menuItem int

const (
	itemCampaign menuItem = iota
	itemSkirmish
	itemLoad
	itemIntro
	itemQuit
)

var mainMenu = []struct {
	item  menuItem
	label string
}{
	{itemCampaign, "Single Player Campaign"},
	{itemSkirmish, "Skirmish & Challenges"},
	{itemLoad, "Load Game"},
	{itemIntro, "View Intro"},
	{itemQuit, "Quit to Shell"},
}

// Title is the title screen frontend: the main menu, the level picker and
// the load-game table.
type Title struct {
	catalog    *registry.Catalog
	store      *storage.Store
	logger     *log.Logger
	startLevel string
	now        func() time.Time

	keys  TitleKeyMap
	help  help.Model
	table table.Model

	page   titlePage
	cursor int
	levels []registry.LevelRef
	saves  []storage.SaveInfo
	errMsg string
	active bool
}

// NewTitle creates the title screen. startLevel is the first campaign
// level. store may be nil, which hides saved games.
func NewTitle(catalog *registry.Catalog, store *storage.Store, startLevel string, logger *log.Logger) *Title {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := help.New()
	h.ShowAll = false

	return &Title{
		catalog:    catalog,
		store:      store,
		logger:     logger,
		startLevel: startLevel,
		now:        time.Now,
		keys:       DefaultTitleKeyMap(),
		help:       h,
		table:      newSaveTable(),
	}
}

func newSaveTable() table.Model {
	columns := []table.Column{
		{Title: "Name", Width: 16},
		{Title: "Level", Width: 10},
		{Title: "Difficulty", Width: 10},
		{Title: "Saved", Width: 16},
		{Title: "Size", Width: 8},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// Init builds the menus. It fails when the catalog has no levels.
func (t *Title) Init() error {
	t.levels = t.catalog.List()
	if len(t.levels) == 0 {
		return errors.New("tui: no levels available")
	}
	t.page = pageMain
	t.cursor = 0
	t.active = true
	t.refreshSaves()
	return nil
}

// Shutdown drops the menu data.
func (t *Title) Shutdown() error {
	t.active = false
	t.levels = nil
	t.saves = nil
	t.table.SetRows(nil)
	return nil
}

// ReportError shows err until the next key press.
func (t *Title) ReportError(err error) {
	t.errMsg = err.Error()
}

// VideoQuit returns to the main menu after the intro.
func (t *Title) VideoQuit() {
	t.page = pageMain
}

// Run processes one title frame.
func (t *Title) Run(in *input.Tracker) engine.TitleResult {
	for _, b := range t.keys.ShortHelp() {
		if pressed(in, b) {
			t.errMsg = ""
			break
		}
	}

	switch t.page {
	case pageLevels:
		return t.runLevels(in)
	case pageLoad:
		return t.runLoad(in)
	default:
		return t.runMain(in)
	}
}

// move applies up/down keys to the cursor over n rows, wrapping around.
func (t *Title) move(in *input.Tracker, n int) {
	if n == 0 {
		return
	}
	if pressed(in, t.keys.Up) {
		t.cursor = (t.cursor + n - 1) % n
	}
	if pressed(in, t.keys.Down) {
		t.cursor = (t.cursor + 1) % n
	}
}

// clicked returns the menu row under a left click, if any. Rows are in
// window cells, so the raw pointer position is used.
func (t *Title) clicked(in *input.Tracker, n int) (int, bool) {
	if !in.MouseReleased(input.MouseLeft) {
		return 0, false
	}
	row := in.RawMousePos().Y - menuTop
	if row < 0 || row >= n {
		return 0, false
	}
	return row, true
}

func (t *Title) runMain(in *input.Tracker) engine.TitleResult {
	if pressed(in, t.keys.Quit) {
		return engine.TitleResult{Code: engine.TitleQuitGame}
	}
	t.move(in, len(mainMenu))

	selected := pressed(in, t.keys.Select)
	if row, ok := t.clicked(in, len(mainMenu)); ok {
		t.cursor = row
		selected = true
	}
	if !selected {
		return engine.TitleResult{Code: engine.TitleContinue}
	}

	switch mainMenu[t.cursor].item {
	case itemCampaign:
		return engine.TitleResult{Code: engine.TitleStartGame, Level: engine.LevelChoice{Name: t.startLevel}}
	case itemSkirmish:
		t.page = pageLevels
		t.cursor = 0
	case itemLoad:
		t.refreshSaves()
		t.page = pageLoad
		t.keys.Delete.SetEnabled(t.store != nil)
	case itemIntro:
		return engine.TitleResult{Code: engine.TitleShowIntro}
	case itemQuit:
		return engine.TitleResult{Code: engine.TitleQuitGame}
	}
	return engine.TitleResult{Code: engine.TitleContinue}
}

func (t *Title) back() {
	t.cursor = int(t.pageItem())
	t.page = pageMain
	t.keys.Delete.SetEnabled(false)
}

func (t *Title) pageItem() menuItem {
	if t.page == pageLoad {
		return itemLoad
	}
	return itemSkirmish
}

func (t *Title) runLevels(in *input.Tracker) engine.TitleResult {
	if pressed(in, t.keys.Back) {
		t.back()
		return engine.TitleResult{Code: engine.TitleContinue}
	}
	t.move(in, len(t.levels))

	selected := pressed(in, t.keys.Select)
	if row, ok := t.clicked(in, len(t.levels)); ok {
		t.cursor = row
		selected = true
	}
	if !selected || t.cursor >= len(t.levels) {
		return engine.TitleResult{Code: engine.TitleContinue}
	}
	ref := t.levels[t.cursor]
	return engine.TitleResult{
		Code:  engine.TitleStartGame,
		Level: engine.LevelChoice{Name: ref.Name, Hash: ref.Hash},
	}
}

func (t *Title) runLoad(in *input.Tracker) engine.TitleResult {
	if pressed(in, t.keys.Back) {
		t.back()
		return engine.TitleResult{Code: engine.TitleContinue}
	}
	if pressed(in, t.keys.Up) {
		t.table.MoveUp(1)
	}
	if pressed(in, t.keys.Down) {
		t.table.MoveDown(1)
	}

	i := t.table.Cursor()
	if i < 0 || i >= len(t.saves) {
		return engine.TitleResult{Code: engine.TitleContinue}
	}
	if pressed(in, t.keys.Delete) {
		t.deleteSave(t.saves[i].Name)
		return engine.TitleResult{Code: engine.TitleContinue}
	}
	if pressed(in, t.keys.Select) {
		return engine.TitleResult{Code: engine.TitleLoadSave, SaveName: t.saves[i].Name}
	}
	return engine.TitleResult{Code: engine.TitleContinue}
}

func (t *Title) deleteSave(name string) {
	if err := t.store.DeleteGame(name); err != nil {
		t.logger.Error("cannot delete savegame", "save", name, "err", err)
		t.errMsg = err.Error()
		return
	}
	t.logger.Info("savegame deleted", "save", name)
	t.refreshSaves()
}

// refreshSaves reloads the save list from the store.
func (t *Title) refreshSaves() {
	t.saves = nil
	if t.store != nil {
		saves, err := t.store.ListGames("")
		if err != nil {
			t.logger.Warn("cannot list savegames", "err", err)
		} else {
			t.saves = saves
		}
	}
	if len(t.saves) > maxSaves {
		t.saves = t.saves[:maxSaves]
	}

	now := t.now()
	rows := make([]table.Row, len(t.saves))
	for i, s := range t.saves {
		rows[i] = table.Row{
			s.Name,
			s.Level,
			s.Difficulty,
			humanize.RelTime(s.CreatedAt, now, "ago", "from now"),
			humanize.Bytes(uint64(s.Size)),
		}
	}
	t.table.SetRows(rows)
	t.table.GotoTop()
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	itemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// View renders the title screen into a w x h window.
func (t *Title) View(w, h int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("F R O N T L I N E"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(t.subtitle()))
	b.WriteString("\n\n\n")

	switch t.page {
	case pageMain:
		for i, it := range mainMenu {
			b.WriteString(t.renderItem(i, it.label))
		}
	case pageLevels:
		for i, ref := range t.levels {
			b.WriteString(t.renderItem(i, fmt.Sprintf("%-10s %-34s %s", ref.Name, ref.Title, ref.Type)))
		}
	case pageLoad:
		if len(t.saves) == 0 {
			b.WriteString(subtitleStyle.Italic(true).PaddingLeft(2).Render("No saved games."))
			b.WriteString("\n")
		} else {
			t.table.SetHeight(max(h-menuTop-4, minTableH))
			t.table.SetWidth(w)
			b.WriteString(t.table.View())
			b.WriteString("\n")
		}
	}

	if t.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Width(w).Render(t.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	t.help.Width = w
	b.WriteString(helpStyle.Render(t.help.View(t.keys)))

	return lipgloss.NewStyle().MaxWidth(w).MaxHeight(h).Render(b.String())
}

func (t *Title) subtitle() string {
	switch t.page {
	case pageLevels:
		return "Choose a level"
	case pageLoad:
		return "Load a saved game"
	}
	return "Main menu"
}

func (t *Title) renderItem(i int, label string) string {
	if i == t.cursor {
		return selectedStyle.Render("> "+label) + "\n"
	}
	return itemStyle.Render(label) + "\n"
}
