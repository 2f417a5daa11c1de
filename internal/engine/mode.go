package engine

// GameMode names the top-level frame mode.
type GameMode int

const (
	ModeTitle GameMode = iota
	ModeNormal
	ModeSaveGameLoad
)

func (m GameMode) String() string {
	switch m {
	case ModeTitle:
		return "title"
	case ModeNormal:
		return "normal"
	case ModeSaveGameLoad:
		return "savegameload"
	default:
		return "unknown"
	}
}

// Mode is the current frame mode. Only NormalMode carries a mission, so a
// mission state cannot exist outside gameplay.
type Mode interface {
	GameMode() GameMode
}

// TitleMode runs the front end menus.
type TitleMode struct{}

// GameMode implements Mode.
func (TitleMode) GameMode() GameMode { return ModeTitle }

// NormalMode runs gameplay.
type NormalMode struct {
	Level   LevelChoice
	Mission *Mission
}

// GameMode implements Mode.
func (NormalMode) GameMode() GameMode { return ModeNormal }

// SaveGameLoadMode is held while a savegame is being loaded.
type SaveGameLoadMode struct {
	SaveName string
}

// GameMode implements Mode.
func (SaveGameLoadMode) GameMode() GameMode { return ModeSaveGameLoad }

// LevelChoice names a level by name and, when the name is ambiguous, hash.
type LevelChoice struct {
	Name string
	Hash string
}

// TitleCode is the result of one title screen frame.
type TitleCode int

const (
	TitleContinue TitleCode = iota
	TitleQuitGame
	TitleStartGame
	TitleLoadSave
	TitleShowIntro
)

// TitleResult is returned by Frontend.Run.
type TitleResult struct {
	Code     TitleCode
	Level    LevelChoice // for TitleStartGame
	SaveName string      // for TitleLoadSave
}

// GameCode is the result of one gameplay frame.
type GameCode int

const (
	GameContinue GameCode = iota
	GameQuit
	GameLoad
	GameNewLevel
	GamePlayVideo
	GameFastExit
)

func (c GameCode) String() string {
	switch c {
	case GameContinue:
		return "continue"
	case GameQuit:
		return "quit"
	case GameLoad:
		return "loadgame"
	case GameNewLevel:
		return "newlevel"
	case GamePlayVideo:
		return "playvideo"
	case GameFastExit:
		return "fastexit"
	default:
		return "unknown"
	}
}

// Status is what a session reports after updating one frame.
type Status int

const (
	StatusContinue Status = iota
	StatusQuit            // leave to the title screen
)
