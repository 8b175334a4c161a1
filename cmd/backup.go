/*
Copyright © 2025 reyyanxjanbaz
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup <destination>",
	Short: "Back up the task data to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskStore, err := GetStore()
		if err != nil {
			return fmt.Errorf("failed to get task store: %w", err)
		}
		defer func() { _ = taskStore.Close() }()

		if err := taskStore.Backup(args[0]); err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		fmt.Printf("Backed up to %s\n", args[0])
		return nil
	},
}

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore <source>",
	Short: "Restore task data from a backup file",
	RunE: func(cmd *cobra.Command, args []string) error {
		taskStore, err := GetStore()
		if err != nil {
			return fmt.Errorf("failed to get task store: %w", err)
		}
		defer func() { _ = taskStore.Close() }()

		if err := taskStore.Restore(args[0]); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		fmt.Printf("Restored from %s\n", args[0])
		return nil
	},
	Args: cobra.ExactArgs(1),
}

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
