/*
Copyright © 2025 reyyanxjanbaz
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reyyanxjanbaz/tody/internal/ui"
)

// suggestCmd represents the suggest command
var suggestCmd = &cobra.Command{
	Use:   "suggest <title>",
	Short: "Suggest a time estimate for a task title",
	Long: `Suggest how long a task is likely to take, based on how long
similar completed tasks actually took. Suggestions only appear once enough
similar tasks have been completed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.TrimSpace(strings.Join(args, " "))
		if title == "" {
			return fmt.Errorf("title cannot be empty")
		}

		taskStore, err := GetStore()
		if err != nil {
			return fmt.Errorf("failed to get task store: %w", err)
		}
		defer func() { _ = taskStore.Close() }()

		suggestion, ok, err := taskStore.SuggestEstimate(title)
		if err != nil {
			return fmt.Errorf("failed to look up estimate: %w", err)
		}
		if !ok {
			cmd.Println("Not enough history for a suggestion yet.")
			return nil
		}
		ui.RenderSuggestion(title, suggestion.AverageMinutes, suggestion.SampleSize)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
