package registry

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Level is parsed level data.
type Level struct {
	Ref       LevelRef
	Name      string
	Width     int
	Height    int
	Terrain   []string // one string per row, Width runes each
	Objective string
	TimeLimit int // mission timer in seconds, 0 for none
	Metadata  map[string]string
}

// yamlLevel represents the YAML structure for a level file.
type yamlLevel struct {
	Name      string            `yaml:"name"`
	Objective string            `yaml:"objective"`
	TimeLimit int               `yaml:"time_limit,omitempty"`
	Terrain   string            `yaml:"terrain"`
	Metadata  map[string]string `yaml:"metadata,omitempty"`
}

// ParseLevel parses a YAML level file. Terrain rows shorter than the widest
// row are padded with '.'.
func ParseLevel(data []byte) (*Level, error) {
	var yl yamlLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	rows := strings.Split(strings.TrimRight(yl.Terrain, "\n"), "\n")
	if len(rows) == 0 || (len(rows) == 1 && rows[0] == "") {
		return nil, fmt.Errorf("level has no terrain")
	}
	width := 0
	for _, r := range rows {
		if n := len([]rune(r)); n > width {
			width = n
		}
	}
	for i, r := range rows {
		if pad := width - len([]rune(r)); pad > 0 {
			rows[i] = r + strings.Repeat(".", pad)
		}
	}
	if yl.TimeLimit < 0 {
		return nil, fmt.Errorf("negative time limit")
	}

	return &Level{
		Name:      yl.Name,
		Width:     width,
		Height:    len(rows),
		Terrain:   rows,
		Objective: yl.Objective,
		TimeLimit: yl.TimeLimit,
		Metadata:  yl.Metadata,
	}, nil
}
