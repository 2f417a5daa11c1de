package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the level catalog",
	Long:  `Shows every level registered in the game data, with its type and content hash.`,
	Args:  cobra.NoArgs,
	RunE:  runLevels,
}

func runLevels(_ *cobra.Command, _ []string) error {
	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.close()

	catalog, err := e.catalog()
	if err != nil {
		return err
	}
	levels := catalog.List()

	if len(levels) == 0 {
		fmt.Println("No levels available.")
		return nil
	}

	fmt.Println("Available levels:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, l := range levels {
		maxNameLen = max(maxNameLen, len(l.Name))
	}

	// Print header
	fmt.Printf("  %-*s  %-9s  %-16s  %s\n", maxNameLen, "Name", "Type", "Hash", "Title")
	fmt.Printf("  %-*s  %-9s  %-16s  %s\n", maxNameLen, "----", "----", "----", "-----")

	// Print levels
	for _, l := range levels {
		fmt.Printf("  %-*s  %-9s  %-16s  %s\n", maxNameLen, l.Name, l.Type, l.Hash, l.Title)
	}

	fmt.Println()
	fmt.Println("Run 'frontline play' and pick a level from the title screen.")
	return nil
}
