/*
Copyright © 2025 reyyanxjanbaz
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/reyyanxjanbaz/tody/internal/taskutil"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task's fields",
	Long: `Update a task's title, description, priority, energy, deadline, or
estimate. Changing the deadline clears the overdue state and restarts decay
tracking. Use 'tody move' to change a task's parent.

Examples:
  tody update 4f2a1c9e --priority high
  tody update 4f2a1c9e --deadline "2026-09-15 17:00"
  tody update 4f2a1c9e --deadline none`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

var (
	updateTitle       string
	updateDescription string
	updatePriority    string
	updateEnergy      string
	updateDeadline    string
	updateEstimate    int
)

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "New title")
	updateCmd.Flags().StringVarP(&updateDescription, "desc", "d", "", "New description")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "New priority (none, low, medium, high)")
	updateCmd.Flags().StringVarP(&updateEnergy, "energy", "e", "", "New energy level (low, medium, high)")
	updateCmd.Flags().StringVar(&updateDeadline, "deadline", "", "New deadline, or 'none' to remove it")
	updateCmd.Flags().IntVar(&updateEstimate, "estimate", 0, "New estimated minutes")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return fmt.Errorf("failed to get task store: %w", err)
	}
	defer func() { _ = taskStore.Close() }()

	task, err := resolveTask(taskStore, args, nil, "Select a task to update")
	if err != nil {
		return err
	}

	updates := make(map[string]interface{})
	if cmd.Flags().Changed("title") {
		updates["title"] = updateTitle
	}
	if cmd.Flags().Changed("desc") {
		updates["description"] = updateDescription
	}
	if cmd.Flags().Changed("priority") {
		normalized, err := taskutil.NormalizePriorityString(updatePriority)
		if err != nil {
			return err
		}
		updates["priority"] = normalized
	}
	if cmd.Flags().Changed("energy") {
		normalized, err := taskutil.NormalizeEnergyString(updateEnergy)
		if err != nil {
			return err
		}
		updates["energyLevel"] = normalized
	}
	if cmd.Flags().Changed("deadline") {
		if updateDeadline == "none" {
			updates["deadline"] = nil
		} else {
			deadline, err := parseDeadline(updateDeadline, time.Now())
			if err != nil {
				return err
			}
			updates["deadline"] = deadline
		}
	}
	if cmd.Flags().Changed("estimate") {
		updates["estimatedMinutes"] = updateEstimate
	}

	if len(updates) == 0 {
		cmd.Println("Nothing to update. Pass at least one flag.")
		return nil
	}

	updated, err := taskStore.UpdateTask(task.ID, updates)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	fmt.Printf("Updated %s: %s\n", taskutil.ShortID(updated.ID), updated.Title)
	return nil
}
