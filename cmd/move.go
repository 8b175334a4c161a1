/*
Copyright © 2025 reyyanxjanbaz
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reyyanxjanbaz/tody/internal/hierarchy"
	"github.com/reyyanxjanbaz/tody/internal/taskutil"
	"github.com/reyyanxjanbaz/tody/models"
)

// moveCmd represents the move command
var moveCmd = &cobra.Command{
	Use:   "move <task-id> [new-parent-id]",
	Short: "Move a task under a different parent",
	Long: `Re-parent a task. With a second argument the task becomes a subtask
of that parent; without one it becomes a root task. Moves that would create a
cycle or nest deeper than three levels are rejected.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskStore, err := GetStore()
		if err != nil {
			return fmt.Errorf("failed to get task store: %w", err)
		}
		defer func() { _ = taskStore.Close() }()

		task, err := resolveTask(taskStore, args[:1], nil, "")
		if err != nil {
			return err
		}

		var newParentID *string
		if len(args) == 2 {
			notSelf := func(t models.Task) bool { return t.ID != task.ID }
			parent, err := resolveTask(taskStore, args[1:], notSelf, "")
			if err != nil {
				return fmt.Errorf("failed to resolve new parent: %w", err)
			}
			pid := parent.ID
			newParentID = &pid
		}

		moved, err := taskStore.ReparentTask(task.ID, newParentID)
		if err != nil {
			switch {
			case errors.Is(err, hierarchy.ErrWouldCreateCycle):
				return fmt.Errorf("cannot move '%s' under one of its own subtasks", task.Title)
			case errors.Is(err, hierarchy.ErrDepthLimit):
				return fmt.Errorf("moving '%s' there would nest tasks deeper than %d levels", task.Title, models.MaxDepth)
			}
			return fmt.Errorf("failed to move task: %w", err)
		}

		if newParentID == nil {
			fmt.Printf("Moved %s to the top level\n", taskutil.ShortID(moved.ID))
		} else {
			fmt.Printf("Moved %s under %s\n", taskutil.ShortID(moved.ID), taskutil.ShortID(*newParentID))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
