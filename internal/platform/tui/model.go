package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Model is the Bubble Tea model driving one App. It turns terminal
// messages into tracker and coordinator events and runs one engine frame
// per tick.
type Model struct {
	app *App
}

// NewModel creates a model for a started app.
func NewModel(app *App) Model {
	return Model{app: app}
}

// Init starts the frame ticker and the main-thread queue watcher.
func (m Model) Init() tea.Cmd {
	cmds := append(m.app.term.Cmds(), tickCmd(m.app.fps), waitTask(m.app.queue, m.app.done))
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// ctrl+c always leaves, whatever the keymap says.
		if msg.Type == tea.KeyCtrlC {
			m.app.orch.RequestQuit()
			return m, nil
		}
		MapKey(msg).Apply(m.app.input)

	case tea.MouseMsg:
		m.app.mouse.Handle(msg)

	case tea.WindowSizeMsg:
		m.app.Resize(msg.Width, msg.Height)

	case tea.FocusMsg:
		m.app.SetFocus(true)

	case tea.BlurMsg:
		m.app.SetFocus(false)

	case TickMsg:
		return m.handleTick()

	case taskMsg:
		m.app.queue.Drain()
		return m, waitTask(m.app.queue, m.app.done)
	}

	return m, nil
}

// handleTick runs one frame and schedules the next.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if !m.app.Tick() {
		return m, tea.Quit
	}
	cmds := append(m.app.term.Cmds(), tickCmd(m.app.fps))
	return m, tea.Batch(cmds...)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if !m.app.orch.Running() {
		return ""
	}
	return m.app.View()
}

// Run starts the app and runs it in a Bubble Tea program until the engine
// quits. The app is closed on return.
func Run(app *App, opts ...tea.ProgramOption) (err error) {
	defer func() {
		err = errors.Join(err, app.Err(), app.Close())
	}()
	if err := app.Start(); err != nil {
		return err
	}

	options := []tea.ProgramOption{
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	}
	if app.term.Fullscreen() {
		options = append(options, tea.WithAltScreen())
	}
	options = append(options, opts...)

	p := tea.NewProgram(NewModel(app), options...)
	_, err = p.Run()
	return err
}
