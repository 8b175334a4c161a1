/*
Copyright © 2025 reyyanxjanbaz
*/
package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/reyyanxjanbaz/tody/internal/hierarchy"
	"github.com/reyyanxjanbaz/tody/internal/taskutil"
	"github.com/reyyanxjanbaz/tody/models"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Long: `Delete a task permanently. A task with subtasks is refused unless
--recursive is given, which deletes the whole subtree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

var (
	deleteRecursive bool
	deleteYes       bool
)

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVarP(&deleteRecursive, "recursive", "r", false, "Also delete all subtasks")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return fmt.Errorf("failed to get task store: %w", err)
	}
	defer func() { _ = taskStore.Close() }()

	task, err := resolveTask(taskStore, args, nil, "Select a task to delete")
	if err != nil {
		return err
	}

	if !deleteYes {
		label := fmt.Sprintf("Delete '%s'", task.Title)
		if deleteRecursive && len(task.ChildIDs) > 0 {
			label = fmt.Sprintf("Delete '%s' and all its subtasks", task.Title)
		}
		prompt := promptui.Prompt{Label: label, IsConfirm: true}
		if _, err := prompt.Run(); err != nil {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if deleteRecursive {
		tasks, err := taskStore.ListTasks(nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		all := make(map[string]models.Task, len(tasks))
		for _, t := range tasks {
			all[t.ID] = t
		}

		ids := []string{task.ID}
		for _, d := range hierarchy.Descendants(task.ID, all) {
			ids = append(ids, d.ID)
		}
		deleted, err := taskStore.DeleteTasks(ids)
		if err != nil {
			return fmt.Errorf("failed to delete task tree: %w", err)
		}
		fmt.Printf("Deleted %d task(s)\n", deleted)
		return nil
	}

	if err := taskStore.DeleteTask(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	fmt.Printf("Deleted %s: %s\n", taskutil.ShortID(task.ID), task.Title)
	return nil
}
