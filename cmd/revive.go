/*
Copyright © 2025 reyyanxjanbaz
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reyyanxjanbaz/tody/internal/taskutil"
)

// reviveCmd represents the revive command
var reviveCmd = &cobra.Command{
	Use:   "revive <task-id>",
	Short: "Bring a decayed or archived task back",
	Long: `Revive a task that has gone overdue, decayed, or been archived.
The task gets a fresh deadline at the end of today and returns to the
active list.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskStore, err := GetStore()
		if err != nil {
			return fmt.Errorf("failed to get task store: %w", err)
		}
		defer func() { _ = taskStore.Close() }()

		// Resolve against actives first, then fall back to the archive by
		// trying the raw reference directly.
		id := args[0]
		if task, err := resolveTask(taskStore, args, nil, ""); err == nil {
			id = task.ID
		} else {
			archived, listErr := taskStore.ListArchivedTasks()
			if listErr != nil {
				return fmt.Errorf("failed to list archived tasks: %w", listErr)
			}
			for _, t := range archived {
				if t.ID == args[0] || strings.HasPrefix(t.ID, args[0]) {
					id = t.ID
					break
				}
			}
		}

		revived, err := taskStore.ReviveTask(id)
		if err != nil {
			return fmt.Errorf("failed to revive task: %w", err)
		}

		fmt.Printf("Revived %s: %s (due %s)\n",
			taskutil.ShortID(revived.ID),
			revived.Title,
			revived.Deadline.Local().Format("Mon Jan 2 15:04"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reviveCmd)
}
