package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	flagSaveKind    string
	flagMissionsMax int
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List savegames",
	Long: `Display the stored savegames, newest first.

Examples:
  frontline saves
  frontline saves --kind campaign
  frontline saves delete quicksave`,
	Args: cobra.NoArgs,
	RunE: runSaves,
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a savegame",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavesDelete,
}

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "Show finished missions",
	Long:  `Display the latest entries of the mission log.`,
	Args:  cobra.NoArgs,
	RunE:  runMissions,
}

func init() {
	savesCmd.Flags().StringVar(&flagSaveKind, "kind", "", "Only list this kind: campaign or skirmish")
	savesCmd.AddCommand(savesDeleteCmd)
	missionsCmd.Flags().IntVar(&flagMissionsMax, "limit", 10, "Number of missions to show")
}

func runSaves(_ *cobra.Command, _ []string) error {
	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.close()

	store, err := e.openStore()
	if err != nil {
		return fmt.Errorf("cannot open savegame database: %w", err)
	}
	defer store.Close()

	saves, err := store.ListGames(flagSaveKind)
	if err != nil {
		return err
	}
	if len(saves) == 0 {
		fmt.Println("No savegames yet.")
		return nil
	}

	// Print header
	fmt.Printf("  %-20s  %-9s  %-10s  %-10s  %-8s  %s\n", "Name", "Kind", "Level", "Difficulty", "Size", "Saved")
	fmt.Printf("  %-20s  %-9s  %-10s  %-10s  %-8s  %s\n", "----", "----", "-----", "----------", "----", "-----")

	now := time.Now()
	for _, s := range saves {
		fmt.Printf("  %-20s  %-9s  %-10s  %-10s  %-8s  %s\n",
			s.Name, s.Kind, s.Level, s.Difficulty,
			humanize.Bytes(uint64(s.Size)),
			humanize.RelTime(s.CreatedAt, now, "ago", "from now"))
	}
	return nil
}

func runSavesDelete(_ *cobra.Command, args []string) error {
	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.close()

	store, err := e.openStore()
	if err != nil {
		return fmt.Errorf("cannot open savegame database: %w", err)
	}
	defer store.Close()

	if err := store.DeleteGame(args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}

func runMissions(_ *cobra.Command, _ []string) error {
	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.close()

	store, err := e.openStore()
	if err != nil {
		return fmt.Errorf("cannot open savegame database: %w", err)
	}
	defer store.Close()

	records, err := store.RecentMissions(flagMissionsMax)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No missions played yet.")
		return nil
	}

	// Print header
	fmt.Printf("  %-10s  %-7s  %-8s  %s\n", "Level", "Outcome", "Time", "Date")
	fmt.Printf("  %-10s  %-7s  %-8s  %s\n", "-----", "-------", "----", "----")

	won := 0
	for _, r := range records {
		if r.Outcome == "won" {
			won++
		}
		d := time.Duration(r.Duration) * time.Second
		fmt.Printf("  %-10s  %-7s  %-8s  %s\n", r.Level, r.Outcome, d, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Printf("Won %s of %s missions\n", humanize.Comma(int64(won)), humanize.Comma(int64(len(records))))
	return nil
}
