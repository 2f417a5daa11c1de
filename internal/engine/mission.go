package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a mission request does not apply to
// the current state.
var ErrInvalidTransition = errors.New("engine: invalid mission transition")

// MissionState is the sub-state of gameplay.
type MissionState int

const (
	MissionNormal MissionState = iota
	MissionClearObjects
	MissionSetupMission
	MissionSaveContinue
	MissionNewLevel
	MissionLoadGame
)

func (s MissionState) String() string {
	switch s {
	case MissionNormal:
		return "normal"
	case MissionClearObjects:
		return "clearobjects"
	case MissionSetupMission:
		return "setupmission"
	case MissionSaveContinue:
		return "savecontinue"
	case MissionNewLevel:
		return "newlevel"
	case MissionLoadGame:
		return "loadgame"
	default:
		return "unknown"
	}
}

// Mission is the mission state machine of one game. Requests only record
// the target state; the orchestrator acts on it in the next frame.
type Mission struct {
	state MissionState
	next  LevelChoice
	save  string
}

func newMission() *Mission {
	return &Mission{state: MissionNormal}
}

// State returns the current state.
func (m *Mission) State() MissionState {
	return m.state
}

// Next returns the level chosen by EndLevel or RequestNewLevel.
func (m *Mission) Next() LevelChoice {
	return m.next
}

// SaveName returns the savegame chosen by RequestLoad.
func (m *Mission) SaveName() string {
	return m.save
}

// EndLevel finishes the current mission. With prompt the mission waits in
// SaveContinue until ResolveContinue; otherwise objects are cleared next
// frame and next is set up after that.
func (m *Mission) EndLevel(next LevelChoice, prompt bool) error {
	if m.state != MissionNormal {
		return fmt.Errorf("%w: end level from %s", ErrInvalidTransition, m.state)
	}
	m.next = next
	if prompt {
		m.state = MissionSaveContinue
	} else {
		m.state = MissionClearObjects
	}
	return nil
}

// ResolveContinue releases the continue prompt.
func (m *Mission) ResolveContinue() error {
	if m.state != MissionSaveContinue {
		return fmt.Errorf("%w: continue from %s", ErrInvalidTransition, m.state)
	}
	m.state = MissionClearObjects
	return nil
}

// RequestLoad leaves the mission to load a savegame.
func (m *Mission) RequestLoad(save string) error {
	if m.state != MissionNormal && m.state != MissionSaveContinue {
		return fmt.Errorf("%w: load game from %s", ErrInvalidTransition, m.state)
	}
	if save == "" {
		return fmt.Errorf("engine: load game needs a savegame name")
	}
	m.save = save
	m.state = MissionLoadGame
	return nil
}

// RequestNewLevel leaves the mission to start another level from scratch.
func (m *Mission) RequestNewLevel(level LevelChoice) error {
	if m.state != MissionNormal && m.state != MissionSaveContinue {
		return fmt.Errorf("%w: new level from %s", ErrInvalidTransition, m.state)
	}
	if level.Name == "" {
		return fmt.Errorf("engine: new level needs a level name")
	}
	m.next = level
	m.state = MissionNewLevel
	return nil
}

// step advances the mission by one frame. ClearObjects and SetupMission run
// in separate frames so teardown always completes before setup starts.
func (m *Mission) step(s Session, pause *PauseState) (GameCode, error) {
	switch m.state {
	case MissionClearObjects:
		s.DestroyObjects()
		pause.Script = true
		m.state = MissionSetupMission

	case MissionSetupMission:
		pause.Script = false
		if err := s.SetupMission(m.next); err != nil {
			return GameQuit, fmt.Errorf("engine: mission setup failed: %w", err)
		}
		m.state = MissionNormal

	case MissionNewLevel:
		return GameNewLevel, nil

	case MissionLoadGame:
		return GameLoad, nil
	}
	return GameContinue, nil
}
