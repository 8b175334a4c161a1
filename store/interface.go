package store

import (
	"errors"

	"github.com/reyyanxjanbaz/tody/internal/patterns"
	"github.com/reyyanxjanbaz/tody/models"
)

var (
	// ErrTaskNotFound is returned when an id does not resolve to a stored task.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskLocked is returned when completing a task that still has
	// incomplete children.
	ErrTaskLocked = errors.New("task has incomplete subtasks")
)

// TaskStore defines the contract for task and pattern persistence: CRUD over
// the task forest plus the temporal workflows (complete, defer, revive,
// archive, re-parent) and the estimation queries. Structural violations
// (depth overflow, cycles, lock violations) are rejected with the stored
// collection left unchanged.
type TaskStore interface {
	// Initialize configures the store (file path, format, or database path)
	// and runs the session-start decay pass that back-fills overdue starts.
	// It must be called before any other operation.
	Initialize(config map[string]string) error

	// CreateTask adds a new task, wiring it under its parent when ParentID is
	// set. It returns the created task with store-generated fields filled in.
	CreateTask(task models.Task) (models.Task, error)

	// GetTask retrieves an active task by id.
	GetTask(id string) (models.Task, error)

	// UpdateTask applies a map of field updates to an active task. Changing
	// the deadline resets overdue tracking; parent changes must go through
	// ReparentTask.
	UpdateTask(id string, updates map[string]interface{}) (models.Task, error)

	// DeleteTask removes a task. Tasks that still have subtasks are refused.
	DeleteTask(id string) error

	// DeleteTasks removes a batch of tasks and repairs the relationships of
	// the survivors. It returns the number of tasks deleted.
	DeleteTasks(ids []string) (int, error)

	// ListTasks retrieves active tasks, optionally filtered and sorted.
	ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task) []models.Task) ([]models.Task, error)

	// ListArchivedTasks retrieves the archived collection.
	ListArchivedTasks() ([]models.Task, error)

	// MarkTaskDone completes a task. It is rejected with ErrTaskLocked while
	// any child is incomplete. Completion stamps completedAt, derives
	// actualMinutes from a running timer, feeds the pattern learner, and
	// schedules the next occurrence of a recurring task.
	MarkTaskDone(id string) (models.Task, error)

	// MarkTaskUndone reverts a completion, clearing completedAt and
	// actualMinutes.
	MarkTaskUndone(id string) (models.Task, error)

	// StartTask stamps startedAt so completion can derive the actual
	// duration.
	StartTask(id string) (models.Task, error)

	// DeferTask pushes the deadline to end of tomorrow, increments
	// deferCount, and resets overdue tracking.
	DeferTask(id string) (models.Task, error)

	// ReviveTask returns an overdue or archived task to the active list with
	// a fresh end-of-day deadline and cleared overdue tracking.
	ReviveTask(id string) (models.Task, error)

	// ReparentTask moves a task (and its subtree) under a new parent, or to
	// the roots when newParentID is nil. Cycles and depth overflows are
	// rejected without mutation.
	ReparentTask(id string, newParentID *string) (models.Task, error)

	// ArchiveDecayedTasks snapshots every fully decayed task into the
	// archived collection and returns the tasks that were archived.
	ArchiveDecayedTasks() ([]models.Task, error)

	// Patterns returns the learned estimation patterns.
	Patterns() ([]models.TaskPattern, error)

	// SuggestEstimate proposes a duration for a prospective task title, when
	// a sufficiently sampled pattern matches it.
	SuggestEstimate(title string) (patterns.Suggestion, bool, error)

	// MergeRemote merges a remote task list into the store by updatedAt
	// (strictly newer remote copies win) and repairs the result to satisfy
	// the task invariants. It returns the number of remote tasks accepted.
	MergeRemote(remote []models.Task) (int, error)

	// Backup copies the current data to the destination path.
	Backup(destinationPath string) error

	// Restore replaces the current data with the contents of the source path.
	Restore(sourcePath string) error

	// Close releases file locks or database handles.
	Close() error
}
