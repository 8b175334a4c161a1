package hierarchy

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reyyanxjanbaz/tody/models"
)

var testBase = time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

// buildForest creates a forest from parent links. Order of ids determines
// creation time, so display order in tests is predictable.
func buildForest(t *testing.T, parents map[string]string, order ...string) map[string]models.Task {
	t.Helper()
	ids := make(map[string]string, len(order))
	for _, name := range order {
		ids[name] = uuid.NewString()
	}

	all := make(map[string]models.Task, len(order))
	for i, name := range order {
		task := *models.NewTask(ids[name], name, testBase.Add(time.Duration(i)*time.Minute))
		all[task.ID] = task
	}
	// Wire parents, then depths and child ids.
	for child, parent := range parents {
		childTask := all[ids[child]]
		parentTask := all[ids[parent]]
		pid := parentTask.ID
		childTask.ParentID = &pid
		parentTask.ChildIDs = append(parentTask.ChildIDs, childTask.ID)
		all[childTask.ID] = childTask
		all[parentTask.ID] = parentTask
	}
	var setDepth func(id string, depth int)
	setDepth = func(id string, depth int) {
		task := all[id]
		task.Depth = depth
		all[id] = task
		for _, cid := range task.ChildIDs {
			setDepth(cid, depth+1)
		}
	}
	for _, task := range all {
		if task.ParentID == nil {
			setDepth(task.ID, 0)
		}
	}
	// Remember the name mapping on the test for lookups.
	t.Cleanup(func() {})
	forestIDs[t.Name()] = ids
	return all
}

var forestIDs = map[string]map[string]string{}

func idOf(t *testing.T, name string) string {
	t.Helper()
	id, ok := forestIDs[t.Name()][name]
	if !ok {
		t.Fatalf("no task named %q in forest", name)
	}
	return id
}

func TestIsLocked(t *testing.T) {
	all := buildForest(t, map[string]string{"child": "parent"}, "parent", "child")
	parent := all[idOf(t, "parent")]

	if !IsLocked(parent, all) {
		t.Error("parent with an open child should be locked")
	}

	child := all[idOf(t, "child")]
	child.IsCompleted = true
	all[child.ID] = child
	if IsLocked(parent, all) {
		t.Error("parent should unlock once all children are complete")
	}

	if IsLocked(child, all) {
		t.Error("a leaf task is never locked")
	}
}

func TestIsLockedSkipsDanglingChildren(t *testing.T) {
	all := buildForest(t, nil, "solo")
	task := all[idOf(t, "solo")]
	task.ChildIDs = []string{uuid.NewString()}

	if IsLocked(task, all) {
		t.Error("a dangling child id should not lock the task")
	}
}

func TestDescendantsOrder(t *testing.T) {
	all := buildForest(t, map[string]string{
		"a": "root", "b": "root", "a1": "a",
	}, "root", "a", "b", "a1")

	got := Descendants(idOf(t, "root"), all)
	want := []string{"a", "a1", "b"}
	if len(got) != len(want) {
		t.Fatalf("got %d descendants, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].ID != idOf(t, name) {
			t.Errorf("descendant %d = %q, want %q", i, got[i].Title, name)
		}
	}
}

func TestWouldCreateCycle(t *testing.T) {
	all := buildForest(t, map[string]string{"a": "root", "a1": "a"}, "root", "a", "a1")

	if !WouldCreateCycle(idOf(t, "root"), idOf(t, "a1"), all) {
		t.Error("moving root under its grandchild must be a cycle")
	}
	if !WouldCreateCycle(idOf(t, "a"), idOf(t, "a"), all) {
		t.Error("self-parenting must be a cycle")
	}
	if WouldCreateCycle(idOf(t, "a1"), idOf(t, "root"), all) {
		t.Error("moving a leaf under the root is not a cycle")
	}
}

func TestReparentRejectsCycleUnchanged(t *testing.T) {
	all := buildForest(t, map[string]string{"a": "root", "a1": "a"}, "root", "a", "a1")

	target := idOf(t, "a1")
	got, err := Reparent(idOf(t, "root"), &target, all, testBase)
	if !errors.Is(err, ErrWouldCreateCycle) {
		t.Fatalf("err = %v, want ErrWouldCreateCycle", err)
	}
	// The rejected move must leave the collection untouched.
	for id, task := range all {
		after := got[id]
		if (task.ParentID == nil) != (after.ParentID == nil) || task.Depth != after.Depth {
			t.Errorf("task %q changed after a rejected reparent", task.Title)
		}
	}
}

func TestReparentRejectsDepthOverflow(t *testing.T) {
	// chain: r -> c1 -> c2 -> c3 (c3 at MaxDepth), plus a task with a child.
	all := buildForest(t, map[string]string{
		"c1": "r", "c2": "c1", "c3": "c2", "x1": "x",
	}, "r", "c1", "c2", "c3", "x", "x1")

	// Moving x (with child x1) under c3 would push x1 to depth 5.
	target := idOf(t, "c3")
	_, err := Reparent(idOf(t, "x"), &target, all, testBase)
	if !errors.Is(err, ErrDepthLimit) {
		t.Fatalf("err = %v, want ErrDepthLimit", err)
	}

	// Moving the leaf x1 under c2 is fine (depth 3 = limit).
	target = idOf(t, "c2")
	got, err := Reparent(idOf(t, "x1"), &target, all, testBase)
	if err != nil {
		t.Fatalf("Reparent: %v", err)
	}
	if got[idOf(t, "x1")].Depth != models.MaxDepth {
		t.Errorf("depth = %d, want %d", got[idOf(t, "x1")].Depth, models.MaxDepth)
	}
}

func TestReparentMovesSubtree(t *testing.T) {
	all := buildForest(t, map[string]string{"a": "root", "a1": "a"}, "root", "a", "a1", "other")

	target := idOf(t, "other")
	got, err := Reparent(idOf(t, "a"), &target, all, testBase.Add(time.Hour))
	if err != nil {
		t.Fatalf("Reparent: %v", err)
	}

	a := got[idOf(t, "a")]
	if a.ParentID == nil || *a.ParentID != target {
		t.Error("a should now be parented under other")
	}
	if a.Depth != 1 {
		t.Errorf("a depth = %d, want 1", a.Depth)
	}
	if got[idOf(t, "a1")].Depth != 2 {
		t.Errorf("a1 depth = %d, want 2", got[idOf(t, "a1")].Depth)
	}

	oldParent := got[idOf(t, "root")]
	for _, cid := range oldParent.ChildIDs {
		if cid == a.ID {
			t.Error("old parent still lists the moved task")
		}
	}
	newParent := got[target]
	found := false
	for _, cid := range newParent.ChildIDs {
		if cid == a.ID {
			found = true
		}
	}
	if !found {
		t.Error("new parent does not list the moved task")
	}
}

func TestReparentToRoot(t *testing.T) {
	all := buildForest(t, map[string]string{"a": "root"}, "root", "a")

	got, err := Reparent(idOf(t, "a"), nil, all, testBase)
	if err != nil {
		t.Fatalf("Reparent: %v", err)
	}
	a := got[idOf(t, "a")]
	if a.ParentID != nil || a.Depth != 0 {
		t.Error("promoted task should be a root at depth 0")
	}
}

func TestFlattenDisplayOrder(t *testing.T) {
	all := buildForest(t, map[string]string{
		"a1": "a", "a2": "a",
	}, "a", "b", "a1", "a2")

	got := Flatten(all)
	want := []string{"a", "a1", "a2", "b"}
	if len(got) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].ID != idOf(t, name) {
			t.Errorf("position %d = %q, want %q", i, got[i].Title, name)
		}
	}
}

func TestFlattenKeepsOrphans(t *testing.T) {
	all := buildForest(t, nil, "solo")
	orphan := *models.NewTask(uuid.NewString(), "orphan", testBase)
	missing := uuid.NewString()
	orphan.ParentID = &missing
	orphan.Depth = 1
	all[orphan.ID] = orphan

	got := Flatten(all)
	if len(got) != 2 {
		t.Fatalf("got %d tasks, want 2 (orphan must not be dropped)", len(got))
	}
}

func TestRootAncestor(t *testing.T) {
	all := buildForest(t, map[string]string{"a": "root", "a1": "a"}, "root", "a", "a1")

	got := RootAncestor(all[idOf(t, "a1")], all)
	if got.ID != idOf(t, "root") {
		t.Errorf("root ancestor = %q, want root", got.Title)
	}

	root := all[idOf(t, "root")]
	if RootAncestor(root, all).ID != root.ID {
		t.Error("a root is its own root ancestor")
	}
}

func TestValidParents(t *testing.T) {
	all := buildForest(t, map[string]string{"a1": "a"}, "a", "a1", "b")
	done := all[idOf(t, "b")]
	done.IsCompleted = true
	completedAt := testBase
	done.CompletedAt = &completedAt
	all[done.ID] = done

	got := ValidParents(idOf(t, "a"), all)
	// Excludes a itself, its descendant a1, and the completed b.
	if len(got) != 0 {
		t.Errorf("got %d valid parents, want 0", len(got))
	}

	got = ValidParents(idOf(t, "a1"), all)
	if len(got) != 1 || got[0].ID != idOf(t, "a") {
		t.Errorf("a1 should have exactly its parent a as valid parent, got %d", len(got))
	}
}
