/*
Copyright © 2025 reyyanxjanbaz
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reyyanxjanbaz/tody/models"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync <file>",
	Short: "Merge tasks exported from another device",
	Long: `Merge a task export (produced by 'tody backup' on another device)
into the local list. For tasks present on both sides, the most recently
updated copy wins. Parent links are repaired after the merge, so a task whose
parent only exists remotely never ends up orphaned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		var doc models.TaskFile
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}

		taskStore, err := GetStore()
		if err != nil {
			return fmt.Errorf("failed to get task store: %w", err)
		}
		defer func() { _ = taskStore.Close() }()

		accepted, err := taskStore.MergeRemote(doc.Tasks)
		if err != nil {
			return fmt.Errorf("merge failed: %w", err)
		}
		fmt.Printf("Merged %d task(s) from %s\n", accepted, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
