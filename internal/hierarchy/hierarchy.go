// Package hierarchy implements the dependency-graph engine over the task
// forest: lock computation, descendant traversal, cycle prevention, the depth
// limit, and the hierarchical display order.
//
// Every function is a pure transform of the collection it is given. Structural
// mutations that would violate the depth limit or create a cycle are rejected
// with the input collection untouched.
package hierarchy

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/reyyanxjanbaz/tody/models"
)

var (
	// ErrWouldCreateCycle is returned when a re-parent would make a task its own ancestor.
	ErrWouldCreateCycle = errors.New("re-parenting would create a cycle")
	// ErrDepthLimit is returned when a re-parent would push any task past models.MaxDepth.
	ErrDepthLimit = errors.New("re-parenting would exceed the maximum subtask depth")
	// ErrTaskNotFound is returned when an id does not resolve in the collection.
	ErrTaskNotFound = errors.New("task not found")
)

// IsLocked reports whether a task cannot be completed because at least one
// direct child is incomplete. A task with no children is never locked.
// Dangling child ids are treated as "no such child" and skipped.
func IsLocked(task models.Task, all map[string]models.Task) bool {
	for _, childID := range task.ChildIDs {
		child, ok := all[childID]
		if !ok {
			continue
		}
		if !child.IsCompleted {
			return true
		}
	}
	return false
}

// Descendants collects every task below taskID, depth-first, parents before
// their children, following ChildIDs in display order. A visited set guards
// against malformed input: the forest invariant rules out cycles, but data
// from a partial sync cannot be trusted blindly.
func Descendants(taskID string, all map[string]models.Task) []models.Task {
	visited := map[string]bool{taskID: true}
	var out []models.Task

	var walk func(id string)
	walk = func(id string) {
		t, ok := all[id]
		if !ok {
			return
		}
		for _, childID := range t.ChildIDs {
			if visited[childID] {
				continue
			}
			visited[childID] = true
			child, ok := all[childID]
			if !ok {
				continue
			}
			out = append(out, child)
			walk(child.ID)
		}
	}
	walk(taskID)
	return out
}

// WouldCreateCycle reports whether parenting taskID under candidateParentID
// would make taskID its own ancestor. Self-parenting counts as a cycle.
func WouldCreateCycle(taskID, candidateParentID string, all map[string]models.Task) bool {
	if taskID == candidateParentID {
		return true
	}
	for _, d := range Descendants(taskID, all) {
		if d.ID == candidateParentID {
			return true
		}
	}
	return false
}

// ValidParents returns the tasks eligible as a new parent for taskID:
// not the task itself, not one of its descendants, not already at the maximum
// depth, and not completed.
func ValidParents(taskID string, all map[string]models.Task) []models.Task {
	descendantIDs := make(map[string]bool)
	for _, d := range Descendants(taskID, all) {
		descendantIDs[d.ID] = true
	}

	var out []models.Task
	for _, t := range all {
		if t.ID == taskID || descendantIDs[t.ID] {
			continue
		}
		if t.Depth >= models.MaxDepth {
			continue
		}
		if t.IsCompleted {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Reparent moves taskID under newParentID (nil = promote to root) and returns
// a new collection with ChildIDs on both ends and the depth of the whole moved
// subtree recomputed. The input collection is never modified; on rejection it
// is returned as-is alongside the error.
func Reparent(taskID string, newParentID *string, all map[string]models.Task, now time.Time) (map[string]models.Task, error) {
	task, ok := all[taskID]
	if !ok {
		return all, fmt.Errorf("reparent %s: %w", taskID, ErrTaskNotFound)
	}

	newDepth := 0
	if newParentID != nil {
		parent, ok := all[*newParentID]
		if !ok {
			return all, fmt.Errorf("reparent %s under %s: %w", taskID, *newParentID, ErrTaskNotFound)
		}
		if WouldCreateCycle(taskID, *newParentID, all) {
			return all, fmt.Errorf("reparent %s under %s: %w", taskID, *newParentID, ErrWouldCreateCycle)
		}
		if parent.Depth >= models.MaxDepth {
			return all, fmt.Errorf("reparent %s under %s: %w", taskID, *newParentID, ErrDepthLimit)
		}
		newDepth = parent.Depth + 1
	}

	// The whole subtree shifts by the same delta; reject if any descendant
	// would land past the limit.
	delta := newDepth - task.Depth
	if newDepth > models.MaxDepth {
		return all, fmt.Errorf("reparent %s: %w", taskID, ErrDepthLimit)
	}
	descendants := Descendants(taskID, all)
	for _, d := range descendants {
		if d.Depth+delta > models.MaxDepth {
			return all, fmt.Errorf("reparent %s: descendant %s: %w", taskID, d.ID, ErrDepthLimit)
		}
	}

	updated := make(map[string]models.Task, len(all))
	for id, t := range all {
		updated[id] = t
	}

	if task.ParentID != nil {
		if oldParent, ok := updated[*task.ParentID]; ok {
			oldParent.ChildIDs = removeID(oldParent.ChildIDs, taskID)
			oldParent.UpdatedAt = now
			updated[oldParent.ID] = oldParent
		}
	}
	if newParentID != nil {
		newParent := updated[*newParentID]
		newParent.ChildIDs = appendIDIfMissing(newParent.ChildIDs, taskID)
		newParent.UpdatedAt = now
		updated[newParent.ID] = newParent
	}

	task.ParentID = newParentID
	task.Depth = newDepth
	task.UpdatedAt = now
	updated[taskID] = task

	for _, d := range descendants {
		moved := updated[d.ID]
		moved.Depth += delta
		moved.UpdatedAt = now
		updated[d.ID] = moved
	}

	return updated, nil
}

// Flatten produces the display order for the whole forest: roots sorted by
// creation time, each immediately followed by its subtree with children
// sorted by creation time. Tasks whose parent cannot be resolved are appended
// at the end so nothing is ever dropped.
func Flatten(all map[string]models.Task) []models.Task {
	var roots []models.Task
	for _, t := range all {
		if t.ParentID == nil {
			roots = append(roots, t)
		}
	}
	sortByCreation(roots)

	visited := make(map[string]bool, len(all))
	var out []models.Task

	var walk func(t models.Task)
	walk = func(t models.Task) {
		if visited[t.ID] {
			return
		}
		visited[t.ID] = true
		out = append(out, t)

		children := make([]models.Task, 0, len(t.ChildIDs))
		for _, childID := range t.ChildIDs {
			if child, ok := all[childID]; ok {
				children = append(children, child)
			}
		}
		sortByCreation(children)
		for _, child := range children {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}

	// Orphans: parented tasks whose ancestry never reached a root.
	var orphans []models.Task
	for _, t := range all {
		if !visited[t.ID] {
			orphans = append(orphans, t)
		}
	}
	sortByCreation(orphans)
	for _, o := range orphans {
		if !visited[o.ID] {
			walk(o)
		}
	}

	return out
}

// RootAncestor walks ParentID links upward until none remains, stopping at the
// first task with no resolvable parent. Defensive against dangling links and
// malformed cycles: the walk never visits an id twice.
func RootAncestor(task models.Task, all map[string]models.Task) models.Task {
	current := task
	visited := map[string]bool{current.ID: true}
	for current.ParentID != nil {
		parent, ok := all[*current.ParentID]
		if !ok || visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		current = parent
	}
	return current
}

func sortByCreation(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func appendIDIfMissing(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}
