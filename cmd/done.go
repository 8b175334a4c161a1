/*
Copyright © 2025 reyyanxjanbaz
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reyyanxjanbaz/tody/internal/taskutil"
	"github.com/reyyanxjanbaz/tody/models"
	"github.com/reyyanxjanbaz/tody/store"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as completed",
	Long: `Mark a task as completed.

A task with incomplete subtasks cannot be completed until the subtasks are
done. Completing a started task records how long it actually took, which
improves future estimate suggestions. Completing a recurring task schedules
its next occurrence.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskStore, err := GetStore()
		if err != nil {
			return fmt.Errorf("failed to get task store: %w", err)
		}
		defer func() { _ = taskStore.Close() }()

		openTasks := func(t models.Task) bool { return !t.IsCompleted }
		task, err := resolveTask(taskStore, args, openTasks, "Select a task to complete")
		if err != nil {
			return err
		}

		done, err := taskStore.MarkTaskDone(task.ID)
		if err != nil {
			if errors.Is(err, store.ErrTaskLocked) {
				return fmt.Errorf("'%s' still has open subtasks, complete them first", task.Title)
			}
			return fmt.Errorf("failed to mark task done: %w", err)
		}

		fmt.Printf("Completed %s: %s\n", taskutil.ShortID(done.ID), done.Title)
		if done.ActualMinutes != nil {
			fmt.Printf("Took %d min\n", *done.ActualMinutes)
		}
		if done.IsRecurring {
			fmt.Println("Next occurrence scheduled.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
