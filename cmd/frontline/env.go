package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/frontline/internal/config"
	"github.com/vovakirdan/frontline/internal/input"
	"github.com/vovakirdan/frontline/internal/logging"
	"github.com/vovakirdan/frontline/internal/registry"
	"github.com/vovakirdan/frontline/internal/storage"
)

// env is the state shared by every command: directories, configuration
// and the logger.
type env struct {
	configDir  string
	configPath string
	cfg        config.Config
	logger     *log.Logger
	closeLog   func() error
}

// setup resolves the config directory, loads the configuration and opens
// the log. Interactive commands log to a file only; the others log to
// stderr.
func setup(interactive bool) (*env, error) {
	dir, err := config.ResolveConfigDir(config.DirOptions{
		Explicit: flagConfigDir,
		Portable: flagPortable,
	})
	if err != nil {
		return nil, err
	}
	if err := config.EnsureLayout(dir); err != nil {
		return nil, err
	}

	cfg, err := config.Load(flagConfig, dir)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if flagDebug != "" {
		level = flagDebug
	}
	opts := logging.Options{Level: level, Prefix: "frontline"}
	if interactive {
		opts.Dir = dir
		opts.File = flagDebugFile
		if opts.File == "" {
			opts.File = cfg.Log.File
		}
	} else {
		opts.Stderr = true
		opts.File = flagDebugFile
	}
	logger, closeLog, err := logging.New(opts)
	if err != nil {
		return nil, err
	}

	path := flagConfig
	if path == "" {
		path = filepath.Join(dir, config.FileName)
	}
	e := &env{
		configDir:  dir,
		configPath: path,
		cfg:        cfg,
		logger:     logger,
		closeLog:   closeLog,
	}
	e.cfg.Mods = config.ValidateMods(dir, cfg.Mods, logger)
	logger.Debug("configuration loaded", "configdir", dir, "config", path)
	return e, nil
}

func (e *env) close() {
	if err := e.closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing log: %v\n", err)
	}
}

// catalog opens the level catalog of the data directory, or the embedded
// one when there is none.
func (e *env) catalog() (*registry.Catalog, error) {
	dir, err := config.FindDataDir(flagDataDir, e.configDir)
	if errors.Is(err, config.ErrNoDataDir) {
		if flagDataDir != "" {
			return nil, fmt.Errorf("%w in %s", err, flagDataDir)
		}
		e.logger.Debug("using embedded game data")
		return registry.Embedded()
	}
	if err != nil {
		return nil, err
	}
	e.logger.Info("using game data", "dir", dir)
	return registry.LoadCatalog(os.DirFS(dir))
}

// openStore opens the savegame database.
func (e *env) openStore() (*storage.Store, error) {
	path := flagDBPath
	if path == "" {
		path = filepath.Join(e.configDir, "savegames", "frontline.db")
	}
	return storage.Open(path)
}

// keymap loads the keymap file of the config directory.
func (e *env) keymap() *input.Keymap {
	path := filepath.Join(e.configDir, e.cfg.Input.KeymapFile)
	km, err := input.LoadKeymap(path)
	if km == nil {
		e.logger.Warn("cannot load keymap, using defaults", "path", path, "err", err)
		return input.DefaultKeymap()
	}
	if err != nil {
		e.logger.Warn("keymap has invalid bindings", "path", path, "err", err)
	}
	return km
}
