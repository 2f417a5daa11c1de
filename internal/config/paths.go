package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// AppDir is the application directory name under the user data dir.
const AppDir = "frontline"

// DataMarker is the file that identifies a game data directory.
const DataMarker = "gamedesc.yaml"

// ErrNoDataDir means no candidate directory holds game data.
var ErrNoDataDir = errors.New("config: could not find game data")

// Layout lists the directories created inside the config dir.
var Layout = []string{
	"challenges",
	"logs",
	"maps",
	"mods/autoload",
	"mods/campaign",
	"mods/downloads",
	"mods/global",
	"mods/multiplay",
	"mods/music",
	"multiplay/players",
	"music",
	"savegames/campaign",
	"savegames/skirmish",
	"screenshots",
	"tests",
	"userdata/campaign",
	"userdata/mp",
}

// DirOptions selects how the config dir is resolved.
type DirOptions struct {
	Explicit string // --configdir
	Portable bool   // keep everything next to the executable
	// Getenv and Executable default to os.Getenv and os.Executable.
	Getenv     func(string) string
	Executable func() (string, error)
}

// ResolveConfigDir returns the writable config directory.
// Order: explicit -> portable (<exe prefix>/frontline) -> $XDG_DATA_HOME/frontline
// -> $HOME/.local/share/frontline -> current directory.
func ResolveConfigDir(opts DirOptions) (string, error) {
	if opts.Explicit != "" {
		return expandHome(opts.Explicit)
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	if opts.Portable {
		executable := opts.Executable
		if executable == nil {
			executable = os.Executable
		}
		exe, err := executable()
		if err != nil {
			return "", fmt.Errorf("config: portable mode needs the executable path: %w", err)
		}
		// <prefix>/bin/frontline -> <prefix>/frontline
		prefix := filepath.Dir(filepath.Dir(exe))
		return filepath.Join(prefix, AppDir), nil
	}

	if xdg := getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppDir), nil
	}
	if home := getenv("HOME"); home != "" {
		return filepath.Join(home, ".local", "share", AppDir), nil
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", AppDir), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: no usable config directory: %w", err)
	}
	return wd, nil
}

// EnsureLayout creates dir and the standard subdirectories.
func EnsureLayout(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create %s: %w", dir, err)
	}
	for _, sub := range Layout {
		if err := os.MkdirAll(filepath.Join(dir, filepath.FromSlash(sub)), 0o755); err != nil {
			return fmt.Errorf("config: failed to create %s: %w", sub, err)
		}
	}
	return nil
}

// FindDataDir returns the first candidate that contains DataMarker.
// Candidates: explicit, configDir, ./data, the executable's directory.
func FindDataDir(explicit, configDir string) (string, error) {
	var candidates []string
	if explicit != "" {
		candidates = append(candidates, explicit)
	}
	if configDir != "" {
		candidates = append(candidates, configDir)
	}
	candidates = append(candidates, "data")
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Dir(exe))
	}

	for _, dir := range candidates {
		dir, err := expandHome(dir)
		if err != nil {
			continue
		}
		if fi, err := os.Stat(filepath.Join(dir, DataMarker)); err == nil && fi.Mode().IsRegular() {
			return dir, nil
		}
	}
	return "", ErrNoDataDir
}

func expandHome(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return path, nil
}
