// Package syncmerge reconciles a remote task list with the local one for the
// sync collaborator. The merge itself is a trivial last-writer-wins by
// updatedAt; the work is the repair pass that restores the task-forest
// invariants on the merged result, since the two sides may each be internally
// consistent but disagree about structure.
package syncmerge

import (
	"sort"
	"time"

	"github.com/reyyanxjanbaz/tody/models"
)

// Merge combines local and remote tasks keyed by id. A remote task replaces
// the local copy only when its updatedAt is strictly greater; on a tie the
// local copy stays. Tasks present on one side only are kept. The merged
// result is then repaired so it satisfies the Task invariants.
func Merge(local, remote map[string]models.Task, now time.Time) map[string]models.Task {
	merged := make(map[string]models.Task, len(local)+len(remote))
	for id, t := range local {
		merged[id] = t
	}
	for id, r := range remote {
		l, exists := merged[id]
		if !exists || r.UpdatedAt.After(l.UpdatedAt) {
			merged[id] = r
		}
	}
	return Repair(merged, now)
}

// Repair restores structural invariants on a possibly inconsistent
// collection: dangling parents are cleared, ChildIDs are rebuilt to exactly
// mirror ParentID, depths are recomputed from the roots, and ancestry chains
// that loop or run past the depth limit are broken by promoting the offending
// task to root. Completion coherence (completedAt iff completed) is also
// enforced. Only tasks that actually changed get their updatedAt bumped.
func Repair(all map[string]models.Task, now time.Time) map[string]models.Task {
	repaired := make(map[string]models.Task, len(all))
	for id, t := range all {
		repaired[id] = t
	}

	// Break dangling parents and self-parenting first.
	for id, t := range repaired {
		if t.ParentID == nil {
			continue
		}
		if *t.ParentID == id {
			t.ParentID = nil
			repaired[id] = t
			continue
		}
		if _, ok := repaired[*t.ParentID]; !ok {
			t.ParentID = nil
			repaired[id] = t
		}
	}

	// Break cycles: walk each task's ancestry; any task whose walk revisits a
	// node gets promoted to root.
	for id := range repaired {
		visited := map[string]bool{id: true}
		current := repaired[id]
		for current.ParentID != nil {
			next := repaired[*current.ParentID]
			if visited[next.ID] {
				t := repaired[id]
				t.ParentID = nil
				repaired[id] = t
				break
			}
			visited[next.ID] = true
			current = next
		}
	}

	// Recompute depth from the roots downward in a fixed id order, so the
	// same corrupt input always repairs the same way. The first task on a
	// branch to cross MaxDepth is promoted to root and keeps its subtree.
	childIdx := make(map[string][]string)
	queue := make([]string, 0, len(repaired))
	for id, t := range repaired {
		if t.ParentID != nil {
			childIdx[*t.ParentID] = append(childIdx[*t.ParentID], id)
		} else {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)
	for _, ids := range childIdx {
		sort.Strings(ids)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		t := repaired[id]
		depth := 0
		if t.ParentID != nil {
			depth = repaired[*t.ParentID].Depth + 1
			if depth > models.MaxDepth {
				t.ParentID = nil
				depth = 0
			}
		}
		t.Depth = depth
		repaired[id] = t
		queue = append(queue, childIdx[id]...)
	}

	// Rebuild ChildIDs to exactly mirror ParentID, preserving any existing
	// display order and appending recovered children by creation time.
	childrenOf := make(map[string][]models.Task)
	for _, t := range repaired {
		if t.ParentID != nil {
			childrenOf[*t.ParentID] = append(childrenOf[*t.ParentID], t)
		}
	}
	for id, t := range repaired {
		actual := make(map[string]bool)
		for _, c := range childrenOf[id] {
			actual[c.ID] = true
		}
		rebuilt := make([]string, 0, len(actual))
		for _, cid := range t.ChildIDs {
			if actual[cid] {
				rebuilt = append(rebuilt, cid)
				actual[cid] = false
			}
		}
		recovered := make([]models.Task, 0)
		for _, c := range childrenOf[id] {
			if actual[c.ID] {
				recovered = append(recovered, c)
			}
		}
		sort.Slice(recovered, func(i, j int) bool {
			return recovered[i].CreatedAt.Before(recovered[j].CreatedAt)
		})
		for _, c := range recovered {
			rebuilt = append(rebuilt, c.ID)
		}
		t.ChildIDs = rebuilt
		repaired[id] = t
	}

	// Completion coherence.
	for id, t := range repaired {
		if t.IsCompleted && t.CompletedAt == nil {
			completedAt := t.UpdatedAt
			t.CompletedAt = &completedAt
			repaired[id] = t
		} else if !t.IsCompleted && t.CompletedAt != nil {
			t.CompletedAt = nil
			repaired[id] = t
		}
	}

	// Bump updatedAt only on tasks the repair actually changed.
	for id, t := range repaired {
		if !tasksStructurallyEqual(t, all[id]) {
			t.UpdatedAt = now
			repaired[id] = t
		}
	}
	return repaired
}

func tasksStructurallyEqual(a, b models.Task) bool {
	if (a.ParentID == nil) != (b.ParentID == nil) {
		return false
	}
	if a.ParentID != nil && *a.ParentID != *b.ParentID {
		return false
	}
	if a.Depth != b.Depth || a.IsCompleted != b.IsCompleted {
		return false
	}
	if (a.CompletedAt == nil) != (b.CompletedAt == nil) {
		return false
	}
	if len(a.ChildIDs) != len(b.ChildIDs) {
		return false
	}
	for i := range a.ChildIDs {
		if a.ChildIDs[i] != b.ChildIDs[i] {
			return false
		}
	}
	return true
}
