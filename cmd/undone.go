/*
Copyright © 2025 reyyanxjanbaz
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reyyanxjanbaz/tody/internal/taskutil"
	"github.com/reyyanxjanbaz/tody/models"
)

// undoneCmd represents the undone command
var undoneCmd = &cobra.Command{
	Use:   "undone [task-id]",
	Short: "Reopen a completed task",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskStore, err := GetStore()
		if err != nil {
			return fmt.Errorf("failed to get task store: %w", err)
		}
		defer func() { _ = taskStore.Close() }()

		completedTasks := func(t models.Task) bool { return t.IsCompleted }
		task, err := resolveTask(taskStore, args, completedTasks, "Select a task to reopen")
		if err != nil {
			return err
		}

		reopened, err := taskStore.MarkTaskUndone(task.ID)
		if err != nil {
			return fmt.Errorf("failed to reopen task: %w", err)
		}

		fmt.Printf("Reopened %s: %s\n", taskutil.ShortID(reopened.ID), reopened.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(undoneCmd)
}
