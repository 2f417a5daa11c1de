package config

import (
	_ "embed"
)

//go:embed defaults/frontline.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Display: DisplayConfig{
			Width:        80,
			Height:       24,
			DisplayScale: 100,
			MinWidth:     80,
			MinHeight:    24,
			VSync:        true,
			FPS:          30,
		},
		Input: InputConfig{
			PauseOnFocusLoss: true,
			KeymapFile:       "keymap.json",
		},
		Game: GameConfig{
			Difficulty: DifficultyNormal,
			StartLevel: "cam1a",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
