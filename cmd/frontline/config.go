package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/frontline/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show, import and export configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var flagShowDefaults bool

var configImportCmd = &cobra.Command{
	Use:   "import-ini <file>",
	Short: "Import a legacy key=value config file",
	Long: `Apply the settings of a legacy config file (width, height, fullscreen,
displayScale, trapCursor, pauseOnFocusLoss, vsync, difficulty) and save the
result to the config directory.

Examples:
  frontline config import-ini ./old/config`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigImport,
}

var configKeymapCmd = &cobra.Command{
	Use:   "keymap",
	Short: "Print the key bindings and write them to the keymap file",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeymap,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configImportCmd)
	configCmd.AddCommand(configKeymapCmd)
	configShowCmd.Flags().BoolVar(&flagShowDefaults, "defaults", false, "Print the built-in default configuration instead")
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	if flagShowDefaults {
		//nolint:errcheck // Best-effort write to stdout
		os.Stdout.Write(config.DefaultYAML())
		return nil
	}

	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.close()

	data, err := yaml.Marshal(&e.cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	fmt.Printf("# %s\n", e.configPath)
	//nolint:errcheck // Best-effort write to stdout
	os.Stdout.Write(data)
	return nil
}

func runConfigImport(_ *cobra.Command, args []string) error {
	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.close()

	cfg, applied, err := config.ImportINI(args[0], e.cfg)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Println("No known settings found.")
		return nil
	}
	if err := config.Save(cfg, e.configPath); err != nil {
		return err
	}
	fmt.Printf("Imported %s into %s\n", strings.Join(applied, ", "), e.configPath)
	return nil
}

func runConfigKeymap(_ *cobra.Command, _ []string) error {
	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.close()

	km := e.keymap()
	for _, a := range km.Actions() {
		code, _ := km.Key(a)
		fmt.Printf("  %-12s  %s\n", a, code)
	}

	path := filepath.Join(e.configDir, e.cfg.Input.KeymapFile)
	if err := km.Save(path); err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Saved to %s\n", path)
	return nil
}
