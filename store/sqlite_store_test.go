package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/reyyanxjanbaz/tody/models"
)

func setupSQLiteStore(t *testing.T) *SQLiteTaskStore {
	t.Helper()
	return openSQLiteStoreAt(t, filepath.Join(t.TempDir(), "tody.db"))
}

func openSQLiteStoreAt(t *testing.T, dbPath string) *SQLiteTaskStore {
	t.Helper()

	store := NewSQLiteTaskStore()
	if err := store.Initialize(map[string]string{"dataFile": dbPath}); err != nil {
		t.Fatalf("Failed to initialize sqlite store: %v", err)
	}
	return store
}

func TestSQLiteTaskStore_BasicOperations(t *testing.T) {
	store := setupSQLiteStore(t)
	defer func() { _ = store.Close() }()

	created := mustCreate(t, store, models.Task{
		Title:       "Test Task",
		Description: "Test Description",
		Priority:    models.PriorityMedium,
	})
	if created.ID == "" {
		t.Error("Created task should have an ID")
	}

	retrieved, err := store.GetTask(created.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if retrieved.Title != created.Title || retrieved.Priority != models.PriorityMedium {
		t.Errorf("round-trip mismatch: %+v", retrieved)
	}

	updated, err := store.UpdateTask(created.ID, map[string]interface{}{"title": "Updated", "priority": "high"})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated.Title != "Updated" || updated.Priority != models.PriorityHigh {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := store.DeleteTask(created.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if _, err := store.GetTask(created.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("GetTask after delete = %v, want ErrTaskNotFound", err)
	}
}

func TestSQLiteTaskStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tody.db")

	store := openSQLiteStoreAt(t, dbPath)
	deadline := time.Now().UTC().Add(24 * time.Hour)
	estimate := 30
	created := mustCreate(t, store, models.Task{
		Title:            "Persist me",
		Priority:         models.PriorityLow,
		Energy:           models.EnergyHigh,
		Deadline:         &deadline,
		EstimatedMinutes: &estimate,
	})
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := openSQLiteStoreAt(t, dbPath)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetTask(created.ID)
	if err != nil {
		t.Fatalf("GetTask after reopen failed: %v", err)
	}
	if got.Title != "Persist me" || got.Energy != models.EnergyHigh {
		t.Errorf("scalar fields lost on reopen: %+v", got)
	}
	if got.Deadline == nil || !got.Deadline.Equal(deadline) {
		t.Errorf("deadline = %v, want %v", got.Deadline, deadline)
	}
	if got.EstimatedMinutes == nil || *got.EstimatedMinutes != 30 {
		t.Errorf("estimatedMinutes lost on reopen: %v", got.EstimatedMinutes)
	}
}

func TestSQLiteTaskStore_HierarchyAndLocking(t *testing.T) {
	store := setupSQLiteStore(t)
	defer func() { _ = store.Close() }()

	parent := mustCreate(t, store, models.Task{Title: "Parent", Priority: models.PriorityNone})
	pid := parent.ID
	child := mustCreate(t, store, models.Task{Title: "Child", Priority: models.PriorityNone, ParentID: &pid})

	if child.Depth != 1 {
		t.Errorf("child depth = %d, want 1", child.Depth)
	}
	gotParent, _ := store.GetTask(parent.ID)
	if len(gotParent.ChildIDs) != 1 || gotParent.ChildIDs[0] != child.ID {
		t.Errorf("parent childIds = %v", gotParent.ChildIDs)
	}

	if _, err := store.MarkTaskDone(parent.ID); !errors.Is(err, ErrTaskLocked) {
		t.Fatalf("MarkTaskDone on locked parent = %v, want ErrTaskLocked", err)
	}
	if _, err := store.MarkTaskDone(child.ID); err != nil {
		t.Fatalf("MarkTaskDone on child failed: %v", err)
	}
	if _, err := store.MarkTaskDone(parent.ID); err != nil {
		t.Fatalf("MarkTaskDone on parent failed: %v", err)
	}
}

func TestSQLiteTaskStore_ReparentTask(t *testing.T) {
	store := setupSQLiteStore(t)
	defer func() { _ = store.Close() }()

	a := mustCreate(t, store, models.Task{Title: "A", Priority: models.PriorityNone})
	b := mustCreate(t, store, models.Task{Title: "B", Priority: models.PriorityNone})

	bID := b.ID
	moved, err := store.ReparentTask(a.ID, &bID)
	if err != nil {
		t.Fatalf("ReparentTask failed: %v", err)
	}
	if moved.ParentID == nil || *moved.ParentID != b.ID || moved.Depth != 1 {
		t.Errorf("reparent not applied: %+v", moved)
	}

	aID := a.ID
	if _, err := store.ReparentTask(b.ID, &aID); err == nil {
		t.Fatal("cycle-creating reparent should fail")
	}

	detached, err := store.ReparentTask(a.ID, nil)
	if err != nil {
		t.Fatalf("ReparentTask to root failed: %v", err)
	}
	if detached.ParentID != nil || detached.Depth != 0 {
		t.Errorf("detach not applied: %+v", detached)
	}
}

func TestSQLiteTaskStore_ArchiveAndRevive(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tody.db")
	store := openSQLiteStoreAt(t, dbPath)
	defer func() { _ = store.Close() }()

	created := mustCreate(t, store, models.Task{Title: "Forgotten", Priority: models.PriorityNone})
	past := time.Now().UTC().Add(-10 * 24 * time.Hour)
	if _, err := store.UpdateTask(created.ID, map[string]interface{}{"deadline": past}); err != nil {
		t.Fatalf("set past deadline: %v", err)
	}

	archived, err := store.ArchiveDecayedTasks()
	if err != nil {
		t.Fatalf("ArchiveDecayedTasks failed: %v", err)
	}
	if len(archived) != 1 {
		t.Fatalf("archived %d tasks, want 1", len(archived))
	}
	if _, err := store.GetTask(created.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Error("archived task must leave the active list")
	}

	revived, err := store.ReviveTask(created.ID)
	if err != nil {
		t.Fatalf("ReviveTask failed: %v", err)
	}
	if revived.IsArchived {
		t.Error("revived task should not be archived")
	}
	if revived.RevivedAt == nil {
		t.Error("revived task should carry a revival timestamp")
	}
	archivedList, _ := store.ListArchivedTasks()
	if len(archivedList) != 0 {
		t.Errorf("archive should be empty after revive, got %d", len(archivedList))
	}

	// The revival timestamp survives the database round trip.
	_ = store.Close()
	reopened := openSQLiteStoreAt(t, dbPath)
	defer func() { _ = reopened.Close() }()
	got, err := reopened.GetTask(created.ID)
	if err != nil {
		t.Fatalf("GetTask after reopen failed: %v", err)
	}
	if got.RevivedAt == nil {
		t.Error("revival timestamp lost on reopen")
	}
}

func TestSQLiteTaskStore_PatternsSurviveReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tody.db")

	store := openSQLiteStoreAt(t, dbPath)
	for i := 0; i < 5; i++ {
		created := mustCreate(t, store, models.Task{Title: "Review pull requests", Priority: models.PriorityNone})
		if _, err := store.UpdateTask(created.ID, map[string]interface{}{"actualMinutes": 45}); err != nil {
			t.Fatalf("set actual minutes: %v", err)
		}
		if _, err := store.MarkTaskDone(created.ID); err != nil {
			t.Fatalf("MarkTaskDone failed: %v", err)
		}
	}
	_ = store.Close()

	reopened := openSQLiteStoreAt(t, dbPath)
	defer func() { _ = reopened.Close() }()

	suggestion, ok, err := reopened.SuggestEstimate("Review the pull requests")
	if err != nil || !ok {
		t.Fatalf("expected a suggestion after reopen (ok=%v, err=%v)", ok, err)
	}
	if suggestion.AverageMinutes != 45 {
		t.Errorf("suggested minutes = %d, want 45", suggestion.AverageMinutes)
	}
}

// Sqlite backups are written as the portable JSON document so they can be
// restored into either backend.
func TestSQLiteTaskStore_BackupRestore(t *testing.T) {
	tempDir := t.TempDir()
	store := openSQLiteStoreAt(t, filepath.Join(tempDir, "tody.db"))
	defer func() { _ = store.Close() }()

	created := mustCreate(t, store, models.Task{Title: "Keep me", Priority: models.PriorityNone})

	backupPath := filepath.Join(tempDir, "backup.json")
	if err := store.Backup(backupPath); err != nil {
		t.Fatalf("Backup failed: %v", err)
	}

	if err := store.DeleteTask(created.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if err := store.Restore(backupPath); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if _, err := store.GetTask(created.ID); err != nil {
		t.Errorf("restored task should be back: %v", err)
	}
}

func TestSQLiteTaskStore_BackupRestoresIntoFileStore(t *testing.T) {
	tempDir := t.TempDir()

	sqliteStore := openSQLiteStoreAt(t, filepath.Join(tempDir, "tody.db"))
	created := mustCreate(t, sqliteStore, models.Task{Title: "Cross-backend", Priority: models.PriorityNone})

	backupPath := filepath.Join(tempDir, "backup.json")
	if err := sqliteStore.Backup(backupPath); err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	_ = sqliteStore.Close()

	fileStore := openStoreAt(t, filepath.Join(tempDir, "tasks.json"), "json")
	defer func() { _ = fileStore.Close() }()
	if err := fileStore.Restore(backupPath); err != nil {
		t.Fatalf("Restore into file store failed: %v", err)
	}
	got, err := fileStore.GetTask(created.ID)
	if err != nil {
		t.Fatalf("GetTask after cross-backend restore failed: %v", err)
	}
	if got.Title != "Cross-backend" {
		t.Errorf("Title = %q", got.Title)
	}
}
