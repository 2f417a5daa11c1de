package config

import (
	"fmt"
	"strings"
)

// DifficultyLevel is a named game difficulty.
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyNormal DifficultyLevel = "normal"
	DifficultyHard   DifficultyLevel = "hard"
	DifficultyInsane DifficultyLevel = "insane"
	DifficultyTough  DifficultyLevel = "tough"
	DifficultyKiller DifficultyLevel = "killer"
)

// DifficultyLevels lists the levels from easiest to hardest.
var DifficultyLevels = []DifficultyLevel{
	DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyInsane, DifficultyTough, DifficultyKiller,
}

// damage modifiers in percent, applied to damage dealt by and to the player.
type modifier struct {
	player int
	enemy  int
}

var modifiers = map[DifficultyLevel]modifier{
	DifficultyEasy:   {player: 120, enemy: 100},
	DifficultyNormal: {player: 100, enemy: 100},
	DifficultyHard:   {player: 80, enemy: 100},
	DifficultyInsane: {player: 80, enemy: 100},
	DifficultyTough:  {player: 100, enemy: 50},
	DifficultyKiller: {player: 999, enemy: 1},
}

// ParseDifficulty parses a level name, case-insensitively.
func ParseDifficulty(s string) (DifficultyLevel, error) {
	d := DifficultyLevel(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return DifficultyNormal, fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// Valid reports whether d is a known level.
func (d DifficultyLevel) Valid() bool {
	_, ok := modifiers[d]
	return ok
}

func (d DifficultyLevel) String() string {
	return string(d)
}

// ModifyDamage scales base damage for the level. isPlayer selects the
// modifier for damage dealt by the player. In multiplayer only the Killer
// and Tough levels apply. Integer division truncates toward zero.
func (d DifficultyLevel) ModifyDamage(base int, isPlayer, multiplayer bool) int {
	if multiplayer && d != DifficultyKiller && d != DifficultyTough {
		return base
	}
	m, ok := modifiers[d]
	if !ok {
		return base
	}
	if isPlayer {
		return base * m.player / 100
	}
	return base * m.enemy / 100
}
