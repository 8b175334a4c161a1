/*
Copyright © 2025 reyyanxjanbaz
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reyyanxjanbaz/tody/models"
	"github.com/reyyanxjanbaz/tody/store"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// ErrNoTasksFound is returned when an interactive selection is attempted but no tasks are available.
	ErrNoTasksFound = errors.New("no tasks found matching your criteria")
	// version is the application version.
	version = "0.3.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tody",
	Short: "Tody keeps your personal tasks organized by urgency.",
	Long: `Tody is a personal task manager for the command line.
Tasks are grouped into sections by how soon they need attention, old tasks
decay instead of piling up, and completion times feed estimates for new work.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.tody.yaml or ./.tody.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// GetTaskFilePath returns the full path to the tasks file
func GetTaskFilePath() string {
	config := GetConfig()
	return filepath.Join(config.Project.RootDir, config.Project.TasksDir, config.Data.File)
}

// GetStore initializes and returns the task store for the configured backend.
func GetStore() (store.TaskStore, error) {
	config := GetConfig()

	var s store.TaskStore
	switch config.Data.Backend {
	case "sqlite":
		s = store.NewSQLiteTaskStore()
	default:
		s = store.NewFileTaskStore()
	}

	taskFilePath := GetTaskFilePath()
	err := s.Initialize(map[string]string{
		"dataFile":       taskFilePath,
		"dataFileFormat": config.Data.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store at %s: %w", taskFilePath, err)
	}
	return s, nil
}

// resolveTask finds a single active task from a CLI argument. The argument
// may be a full id or a unique short-id prefix; with no argument, an
// interactive picker is shown.
func resolveTask(taskStore store.TaskStore, args []string, filterFn func(models.Task) bool, label string) (models.Task, error) {
	if len(args) == 0 {
		return selectTaskInteractive(taskStore, filterFn, label)
	}

	ref := args[0]
	tasks, err := taskStore.ListTasks(filterFn, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	var matches []models.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return models.Task{}, fmt.Errorf("no task matches '%s': %w", ref, store.ErrTaskNotFound)
	default:
		return models.Task{}, fmt.Errorf("'%s' is ambiguous, it matches %d tasks", ref, len(matches))
	}
}

// selectTaskInteractive presents a prompt to the user to select a task from a list.
// It can be filtered using the provided filter function.
func selectTaskInteractive(taskStore store.TaskStore, filterFn func(models.Task) bool, label string) (models.Task, error) {
	tasks, err := taskStore.ListTasks(filterFn, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to list tasks for selection: %w", err)
	}

	if len(tasks) == 0 {
		return models.Task{}, ErrNoTasksFound
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ .Title | cyan }} (ID: {{ .ID }}, Priority: {{ .Priority }})`,
		Inactive: `  {{ .Title | faint }} (ID: {{ .ID }}, Priority: {{ .Priority }})`,
		Selected: `{{ "✔" | green }} {{ .Title | faint }} (ID: {{ .ID }})`,
		Details: `
--------- Task Details ----------
{{ "ID:\t" | faint }} {{ .ID }}
{{ "Title:\t" | faint }} {{ .Title }}
{{ "Description:\t" | faint }} {{ .Description }}
{{ "Priority:\t" | faint }} {{ .Priority }}
{{ "Deferred:\t" | faint }} {{ .DeferCount }} times`,
	}

	searcher := func(input string, index int) bool {
		task := tasks[index]
		name := strings.ToLower(task.Title)
		id := task.ID
		input = strings.ToLower(input)
		return strings.Contains(name, input) || strings.Contains(id, input)
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     tasks,
		Templates: templates,
		Searcher:  searcher,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return models.Task{}, err // Return error as is (includes promptui.ErrInterrupt)
	}

	return tasks[i], nil
}
