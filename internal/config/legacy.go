package config

import (
	"fmt"
	"strconv"

	"gopkg.in/ini.v1"
)

// ImportINI applies settings from a legacy key=value config file on top of
// base. Unknown keys and unparseable values are ignored; the names of the
// keys that were applied are returned.
func ImportINI(path string, base Config) (Config, []string, error) {
	options := ini.LoadOptions{
		Insensitive:             true,
		SkipUnrecognizableLines: true,
		AllowBooleanKeys:        true,
	}
	f, err := ini.LoadSources(options, path)
	if err != nil {
		return base, nil, fmt.Errorf("failed to read legacy config %s: %w", path, err)
	}

	cfg := base
	var applied []string
	for _, section := range f.Sections() {
		for _, key := range section.Keys() {
			if applyLegacyKey(&cfg, key) {
				applied = append(applied, key.Name())
			}
		}
	}
	cfg.Normalize()
	return cfg, applied, nil
}

// applyLegacyKey maps one legacy key onto cfg. Keys are lower-cased by the
// loader.
func applyLegacyKey(cfg *Config, key *ini.Key) bool {
	switch key.Name() {
	case "width":
		return setInt(&cfg.Display.Width, key)
	case "height":
		return setInt(&cfg.Display.Height, key)
	case "displayscale":
		return setInt(&cfg.Display.DisplayScale, key)
	case "fullscreen":
		return setBool(&cfg.Display.Fullscreen, key)
	case "vsync":
		return setBool(&cfg.Display.VSync, key)
	case "trapcursor":
		return setBool(&cfg.Input.TrapCursor, key)
	case "pauseonfocusloss":
		return setBool(&cfg.Input.PauseOnFocusLoss, key)
	case "difficulty":
		// Stored either as the enum index or by name.
		if n, err := strconv.Atoi(key.String()); err == nil {
			if n < 0 || n >= len(DifficultyLevels) {
				return false
			}
			cfg.Game.Difficulty = DifficultyLevels[n]
			return true
		}
		d, err := ParseDifficulty(key.String())
		if err != nil {
			return false
		}
		cfg.Game.Difficulty = d
		return true
	}
	return false
}

func setInt(dst *int, key *ini.Key) bool {
	v, err := key.Int()
	if err != nil {
		return false
	}
	*dst = v
	return true
}

func setBool(dst *bool, key *ini.Key) bool {
	v, err := key.Bool()
	if err != nil {
		return false
	}
	*dst = v
	return true
}
