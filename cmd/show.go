/*
Copyright © 2025 reyyanxjanbaz
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/reyyanxjanbaz/tody/internal/ui"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show the full details of a task",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskStore, err := GetStore()
		if err != nil {
			return fmt.Errorf("failed to get task store: %w", err)
		}
		defer func() { _ = taskStore.Close() }()

		task, err := resolveTask(taskStore, args, nil, "Select a task to show")
		if err != nil {
			return err
		}

		ui.RenderTaskDetails(task, time.Now())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
