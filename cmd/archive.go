/*
Copyright © 2025 reyyanxjanbaz
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reyyanxjanbaz/tody/internal/taskutil"
)

// archiveCmd represents the archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Archive tasks that have fully decayed",
	Long: `Move all fully decayed tasks (overdue for 7 days or more) to the
archive. Archiving never happens automatically; this command is the only way
tasks leave the active list without being completed or deleted. Archived
tasks can be brought back with 'tody revive'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		taskStore, err := GetStore()
		if err != nil {
			return fmt.Errorf("failed to get task store: %w", err)
		}
		defer func() { _ = taskStore.Close() }()

		archived, err := taskStore.ArchiveDecayedTasks()
		if err != nil {
			return fmt.Errorf("failed to archive decayed tasks: %w", err)
		}

		if len(archived) == 0 {
			cmd.Println("Nothing to archive.")
			return nil
		}
		fmt.Printf("Archived %d task(s):\n", len(archived))
		for _, t := range archived {
			fmt.Printf("  %s %s\n", taskutil.ShortID(t.ID), t.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}
