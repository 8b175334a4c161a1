/*
Copyright © 2025 reyyanxjanbaz
*/
package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/reyyanxjanbaz/tody/models"
)

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all completed tasks",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var clearYes bool

func init() {
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return fmt.Errorf("failed to get task store: %w", err)
	}
	defer func() { _ = taskStore.Close() }()

	completed, err := taskStore.ListTasks(func(t models.Task) bool { return t.IsCompleted }, nil)
	if err != nil {
		return fmt.Errorf("failed to list completed tasks: %w", err)
	}
	if len(completed) == 0 {
		cmd.Println("No completed tasks to clear.")
		return nil
	}

	if !clearYes {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete %d completed task(s)", len(completed)),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			cmd.Println("Aborted.")
			return nil
		}
	}

	ids := make([]string, len(completed))
	for i, t := range completed {
		ids[i] = t.ID
	}
	deleted, err := taskStore.DeleteTasks(ids)
	if err != nil {
		return fmt.Errorf("failed to clear completed tasks: %w", err)
	}
	fmt.Printf("Cleared %d task(s)\n", deleted)
	return nil
}
