// Package config provides YAML-based engine configuration, config and data
// directory resolution, mod validation and difficulty modifiers.
package config

// Config is the persisted engine configuration.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Input   InputConfig   `yaml:"input"`
	Game    GameConfig    `yaml:"game"`
	Mods    ModsConfig    `yaml:"mods"`
	Log     LogConfig     `yaml:"log"`
}

// DisplayConfig defines the window and display scale settings.
type DisplayConfig struct {
	Width        int  `yaml:"width"`
	Height       int  `yaml:"height"`
	Fullscreen   bool `yaml:"fullscreen"`
	DisplayScale int  `yaml:"display_scale"` // percent
	MinWidth     int  `yaml:"min_width"`     // minimum logical screen width
	MinHeight    int  `yaml:"min_height"`    // minimum logical screen height
	VSync        bool `yaml:"vsync"`
	FPS          int  `yaml:"fps"`
}

// InputConfig defines pointer and focus behaviour.
type InputConfig struct {
	TrapCursor       bool   `yaml:"trap_cursor"`
	PauseOnFocusLoss bool   `yaml:"pause_on_focus_loss"`
	KeymapFile       string `yaml:"keymap_file"` // relative to the config dir
}

// GameConfig defines what the engine starts into.
type GameConfig struct {
	Difficulty  DifficultyLevel `yaml:"difficulty"`
	StartLevel  string          `yaml:"start_level"`
	Multiplayer bool            `yaml:"multiplayer"`
}

// ModsConfig lists mod archives by kind. Each entry is a file name inside
// mods/<kind>/ of the config dir.
type ModsConfig struct {
	Global    []string `yaml:"global"`
	Campaign  []string `yaml:"campaign"`
	Multiplay []string `yaml:"multiplay"`
}

// LogConfig defines logging defaults; command line flags override them.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty means a timestamped file under logs/
}

// Normalize replaces zero or out-of-range values with defaults.
func (c *Config) Normalize() {
	def := Default()
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		c.Display.Width, c.Display.Height = def.Display.Width, def.Display.Height
	}
	if c.Display.DisplayScale <= 0 {
		c.Display.DisplayScale = 100
	}
	if c.Display.MinWidth <= 0 || c.Display.MinHeight <= 0 {
		c.Display.MinWidth, c.Display.MinHeight = def.Display.MinWidth, def.Display.MinHeight
	}
	if c.Display.FPS <= 0 {
		c.Display.FPS = def.Display.FPS
	}
	if !c.Game.Difficulty.Valid() {
		c.Game.Difficulty = DifficultyNormal
	}
	if c.Game.StartLevel == "" {
		c.Game.StartLevel = def.Game.StartLevel
	}
	if c.Input.KeymapFile == "" {
		c.Input.KeymapFile = def.Input.KeymapFile
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
