// frontline is a terminal real-time strategy engine.
//
// Usage:
//
//	frontline play                 - Start at the title screen
//	frontline play --loadsave <n>  - Start directly into a savegame
//	frontline serve                - Start SSH server for remote play
//	frontline levels               - List the level catalog
//	frontline saves                - List savegames
//	frontline missions             - Show the mission log
//	frontline config show          - Print the effective configuration
//
// Global flags:
//
//	--configdir <dir>    - Config directory (default: $XDG_DATA_HOME/frontline)
//	--datadir <dir>      - Game data directory (default: embedded data)
//	--config <path>      - Configuration file
//	--debug <level>      - Log level: debug, info, warn, error
//	--debug-file <path>  - Log file (default: <configdir>/logs/frontline-MMDD_HHMMSS.log)
//	--db <path>          - Savegame database (default: <configdir>/savegames/frontline.db)
//	--portable           - Keep the config directory next to the executable
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfigDir string
	flagDataDir   string
	flagConfig    string
	flagDebug     string
	flagDebugFile string
	flagDBPath    string
	flagPortable  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "frontline",
	Short: "Frontline - real-time strategy in your terminal",
	Long: `Frontline is a terminal real-time strategy engine. It runs campaign and
skirmish levels locally or for remote players over SSH.

Available commands:
  play      - Start the game
  serve     - Start SSH server for remote play
  levels    - List the level catalog
  saves     - List and delete savegames
  missions  - Show finished missions
  config    - Show, import and export configuration

Examples:
  frontline play
  frontline play --loadsave quicksave
  frontline serve --ssh :2222
  frontline levels --datadir ./data
  frontline config import-ini ~/old/config`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "configdir", "", "Config directory")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "datadir", "", "Game data directory")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration YAML")
	rootCmd.PersistentFlags().StringVar(&flagDebug, "debug", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagDebugFile, "debug-file", "", "Log file path")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to savegame database")
	rootCmd.PersistentFlags().BoolVar(&flagPortable, "portable", false, "Keep the config directory next to the executable")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(missionsCmd)
	rootCmd.AddCommand(configCmd)
}
