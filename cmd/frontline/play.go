package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/frontline/internal/config"
	"github.com/vovakirdan/frontline/internal/platform/tui"
)

var (
	flagLoadSave   string
	flagDifficulty string
	flagFPS        int
	flagFullscreen bool
	flagSize       string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the game",
	Long: `Start the game at the title screen, or directly in a savegame.

Controls:
  Drag       - Select units
  Right click- Move selected units
  Arrows     - Scroll the map
  F5 / F9    - Quicksave / quickload
  F6         - Save as (type a name, Enter to save)
  P          - Pause
  F10        - Screenshot
  + / -      - Display scale
  Alt+Enter  - Toggle fullscreen
  Q/Ctrl+C   - Quit

Difficulty options:
  easy, normal, hard, insane, tough, killer

Examples:
  frontline play
  frontline play --difficulty hard
  frontline play --loadsave quicksave
  frontline play --fps 60
  frontline play --size 120x40`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLoadSave, "loadsave", "", "Start directly into the named savegame")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty level")
	playCmd.Flags().IntVar(&flagFPS, "fps", 0, "Frames per second (0 = from config)")
	playCmd.Flags().BoolVar(&flagFullscreen, "fullscreen", false, "Use the alternate screen")
	playCmd.Flags().StringVar(&flagSize, "size", "", "Play area size in cells, WxH (default: whole terminal)")
}

// parseSize parses a WxH cell size.
func parseSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q, expected WxH", s)
	}
	return w, h, nil
}

func runPlay(cmd *cobra.Command, _ []string) error {
	e, err := setup(true)
	if err != nil {
		return err
	}
	defer e.close()

	if flagDifficulty != "" {
		d, err := config.ParseDifficulty(flagDifficulty)
		if err != nil {
			return err
		}
		e.cfg.Game.Difficulty = d
	}
	if flagFPS > 0 {
		e.cfg.Display.FPS = flagFPS
	}
	if cmd.Flags().Changed("fullscreen") {
		e.cfg.Display.Fullscreen = flagFullscreen
	}
	var playW, playH int
	if flagSize != "" {
		if playW, playH, err = parseSize(flagSize); err != nil {
			return err
		}
	}

	catalog, err := e.catalog()
	if err != nil {
		return err
	}

	store, err := e.openStore()
	if err != nil {
		// Continue without savegames
		e.logger.Warn("could not open savegame database", "err", err)
		store = nil
	} else {
		defer store.Close()
	}

	width, height := 0, 0 // from config
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	app, err := tui.NewApp(tui.AppOptions{
		Config:        &e.cfg,
		Catalog:       catalog,
		Store:         store,
		Keymap:        e.keymap(),
		ConfigPath:    e.configPath,
		ScreenshotDir: filepath.Join(e.configDir, "screenshots"),
		LoadSave:      flagLoadSave,
		Width:         width,
		Height:        height,
		PlayWidth:     playW,
		PlayHeight:    playH,
		Logger:        e.logger,
	})
	if err != nil {
		return err
	}
	return tui.Run(app)
}
