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

// deferCmd represents the defer command
var deferCmd = &cobra.Command{
	Use:   "defer [task-id]",
	Short: "Push a task to tomorrow",
	Long: `Defer a task to the end of tomorrow.

Deferring clears the overdue state but is counted: each deferral slightly
lowers the task's urgency score, so chronically deferred tasks sink instead
of nagging from the top of the list.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskStore, err := GetStore()
		if err != nil {
			return fmt.Errorf("failed to get task store: %w", err)
		}
		defer func() { _ = taskStore.Close() }()

		openTasks := func(t models.Task) bool { return !t.IsCompleted }
		task, err := resolveTask(taskStore, args, openTasks, "Select a task to defer")
		if err != nil {
			return err
		}

		deferred, err := taskStore.DeferTask(task.ID)
		if err != nil {
			return fmt.Errorf("failed to defer task: %w", err)
		}

		fmt.Printf("Deferred %s to %s (deferred %d times)\n",
			taskutil.ShortID(deferred.ID),
			deferred.Deadline.Local().Format("Mon Jan 2"),
			deferred.DeferCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deferCmd)
}
