/*
Copyright © 2025 reyyanxjanbaz
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/reyyanxjanbaz/tody/internal/ui"
	"github.com/reyyanxjanbaz/tody/internal/urgency"
	"github.com/reyyanxjanbaz/tody/models"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks grouped by urgency",
	Long: `List your open tasks, grouped into sections by how soon they need
attention: CARRY FORWARD (overdue), TODAY, NEXT FEW DAYS, LATER, and SOMEDAY
(no deadline). Subtasks appear under their root task's section.

Examples:
  tody list              # Open tasks grouped by section
  tody list --all        # Include completed tasks
  tody list --archived   # Archived tasks only`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listAll      bool
	listArchived bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listAll, "all", false, "Include completed tasks")
	listCmd.Flags().BoolVar(&listArchived, "archived", false, "Show archived tasks instead")
}

func runList(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return fmt.Errorf("failed to get task store: %w", err)
	}
	defer func() { _ = taskStore.Close() }()

	now := time.Now()

	if listArchived {
		archived, err := taskStore.ListArchivedTasks()
		if err != nil {
			return fmt.Errorf("failed to list archived tasks: %w", err)
		}
		if len(archived) == 0 {
			cmd.Println("No archived tasks.")
			return nil
		}
		fmt.Println(ui.StyleSectionTitle.Render("ARCHIVED"))
		for _, task := range archived {
			fmt.Println(ui.RenderTaskLine(task, now))
		}
		return nil
	}

	if listAll {
		tasks, err := taskStore.ListTasks(nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		if len(tasks) == 0 {
			cmd.Println("No tasks yet. Add one with: tody add \"Your task\"")
			return nil
		}
		for _, task := range tasks {
			line := ui.RenderTaskLine(task, now)
			if task.IsCompleted {
				line = ui.StyleSubtle.Render("✔ ") + line
			} else {
				line = "  " + line
			}
			fmt.Println(line)
		}
		return nil
	}

	tasks, err := taskStore.ListTasks(nil, nil)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	all := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		all[t.ID] = t
	}
	sections := urgency.Organize(all, now)
	if len(sections) == 0 {
		cmd.Println("All clear. Add a task with: tody add \"Your task\"")
		return nil
	}
	ui.RenderSections(sections, now)
	return nil
}
