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

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Start working on a task",
	Long: `Start a timer on a task. When the task is later marked done, the
elapsed time is recorded as its actual duration and feeds future estimate
suggestions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskStore, err := GetStore()
		if err != nil {
			return fmt.Errorf("failed to get task store: %w", err)
		}
		defer func() { _ = taskStore.Close() }()

		openTasks := func(t models.Task) bool { return !t.IsCompleted }
		task, err := resolveTask(taskStore, args, openTasks, "Select a task to start")
		if err != nil {
			return err
		}

		started, err := taskStore.StartTask(task.ID)
		if err != nil {
			return fmt.Errorf("failed to start task: %w", err)
		}

		fmt.Printf("Started %s: %s\n", taskutil.ShortID(started.ID), started.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
