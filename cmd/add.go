/*
Copyright © 2025 reyyanxjanbaz
*/
package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/reyyanxjanbaz/tody/internal/decay"
	"github.com/reyyanxjanbaz/tody/internal/taskutil"
	"github.com/reyyanxjanbaz/tody/internal/ui"
	"github.com/reyyanxjanbaz/tody/models"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Long: `Add a new task to your list.

The deadline accepts a date (2006-01-02), a date with time (2006-01-02 15:04),
or the words "today" and "tomorrow". When no estimate is given and similar
tasks have been completed before, a suggested estimate is shown.

Examples:
  tody add "Write quarterly report" --priority high --deadline tomorrow
  tody add "Water the plants" --recur weekly
  tody add "Draft outline" --parent 4f2a1c9e --estimate 30`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addDescription string
	addPriority    string
	addEnergy      string
	addDeadline    string
	addEstimate    int
	addParent      string
	addRecur       string
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addDescription, "desc", "d", "", "Task description")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "Priority (none, low, medium, high)")
	addCmd.Flags().StringVarP(&addEnergy, "energy", "e", "", "Energy level required (low, medium, high)")
	addCmd.Flags().StringVar(&addDeadline, "deadline", "", "Deadline (2006-01-02, '2006-01-02 15:04', today, tomorrow)")
	addCmd.Flags().IntVar(&addEstimate, "estimate", 0, "Estimated minutes")
	addCmd.Flags().StringVar(&addParent, "parent", "", "Parent task id (full or short)")
	addCmd.Flags().StringVar(&addRecur, "recur", "", "Recurrence (daily, weekly, biweekly, monthly)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}

	taskStore, err := GetStore()
	if err != nil {
		return fmt.Errorf("failed to get task store: %w", err)
	}
	defer func() { _ = taskStore.Close() }()

	task := models.Task{
		Title:       title,
		Description: addDescription,
		Priority:    models.PriorityNone,
	}

	if addPriority != "" {
		normalized, err := taskutil.NormalizePriorityString(addPriority)
		if err != nil {
			return err
		}
		task.Priority = models.TaskPriority(normalized)
	}
	if addEnergy != "" {
		normalized, err := taskutil.NormalizeEnergyString(addEnergy)
		if err != nil {
			return err
		}
		task.Energy = models.EnergyLevel(normalized)
	}
	if addDeadline != "" {
		deadline, err := parseDeadline(addDeadline, time.Now())
		if err != nil {
			return err
		}
		task.Deadline = &deadline
	}
	if addEstimate > 0 {
		estimate := addEstimate
		task.EstimatedMinutes = &estimate
	}
	if addRecur != "" {
		normalized, err := taskutil.NormalizeFrequencyString(addRecur)
		if err != nil {
			return err
		}
		task.IsRecurring = true
		task.RecurringFrequency = models.RecurringFrequency(normalized)
	}
	if addParent != "" {
		parent, err := resolveTask(taskStore, []string{addParent}, nil, "")
		if err != nil {
			return fmt.Errorf("failed to resolve parent: %w", err)
		}
		parentID := parent.ID
		task.ParentID = &parentID
	}

	// Offer an estimate from past completions when none was given.
	if task.EstimatedMinutes == nil {
		if suggestion, ok, err := taskStore.SuggestEstimate(title); err == nil && ok {
			ui.RenderSuggestion(title, suggestion.AverageMinutes, suggestion.SampleSize)
		}
	}

	created, err := taskStore.CreateTask(task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	fmt.Printf("Added task %s: %s\n", taskutil.ShortID(created.ID), created.Title)
	return nil
}

// parseDeadline turns a CLI deadline argument into a concrete time. Bare
// dates and the day keywords resolve to the end of that day.
func parseDeadline(input string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "today":
		return decay.EndOfDay(now), nil
	case "tomorrow":
		return decay.EndOfDay(now.AddDate(0, 0, 1)), nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", input, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", input, now.Location()); err == nil {
		return decay.EndOfDay(t), nil
	}
	return time.Time{}, fmt.Errorf("could not parse deadline '%s'", input)
}
