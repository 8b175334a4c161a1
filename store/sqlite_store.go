package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/reyyanxjanbaz/tody/internal/decay"
	"github.com/reyyanxjanbaz/tody/internal/hierarchy"
	"github.com/reyyanxjanbaz/tody/internal/patterns"
	"github.com/reyyanxjanbaz/tody/internal/syncmerge"
	"github.com/reyyanxjanbaz/tody/models"
)

const sqliteSchemaVersion = 1

// SQLiteTaskStore implements TaskStore on a local SQLite database. It mirrors
// the file store's behavior; the database gives durable storage without the
// checksum bookkeeping, at the cost of a driver dependency.
type SQLiteTaskStore struct {
	db       *sql.DB
	tooShort patterns.TooShortFunc
}

// NewSQLiteTaskStore creates a new instance; Initialize must be called before use.
func NewSQLiteTaskStore() *SQLiteTaskStore {
	return &SQLiteTaskStore{tooShort: patterns.DefaultTooShort}
}

// SetTooShortFunc overrides the predicate that excludes accidental
// completions from the pattern learner.
func (s *SQLiteTaskStore) SetTooShortFunc(fn patterns.TooShortFunc) {
	if fn != nil {
		s.tooShort = fn
	}
}

// Initialize opens (or creates) the database named by the 'dataFile' config
// key, runs migrations, and performs the session-start overdue back-fill.
func (s *SQLiteTaskStore) Initialize(config map[string]string) error {
	dbPath := config[dataFileKey]
	if dbPath == "" {
		dbPath = "tody.db"
	}
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create db directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s.db = db
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate: %w", err)
	}

	return s.withTx("initialize", func(tx *sql.Tx, state *docState, now time.Time) error {
		updated, stamped := decay.MarkOverdueStarts(state.tasks, now)
		if stamped > 0 {
			state.tasks = updated
			state.dirty = true
		}
		return nil
	})
}

func (s *SQLiteTaskStore) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= sqliteSchemaVersion {
		return nil
	}
	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", sqliteSchemaVersion))
	return err
}

func (s *SQLiteTaskStore) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS tasks (
		id                  TEXT PRIMARY KEY,
		title               TEXT NOT NULL,
		description         TEXT NOT NULL DEFAULT '',
		priority            TEXT NOT NULL DEFAULT 'none',
		energy              TEXT NOT NULL DEFAULT '',
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL,
		created_hour        INTEGER NOT NULL DEFAULT 0,
		deadline            TEXT,
		is_completed        INTEGER NOT NULL DEFAULT 0,
		completed_at        TEXT,
		defer_count         INTEGER NOT NULL DEFAULT 0,
		overdue_start_date  TEXT,
		is_archived         INTEGER NOT NULL DEFAULT 0,
		archived_at         TEXT,
		revived_at          TEXT,
		estimated_minutes   INTEGER,
		actual_minutes      INTEGER,
		started_at          TEXT,
		is_recurring        INTEGER NOT NULL DEFAULT 0,
		recurring_frequency TEXT NOT NULL DEFAULT '',
		parent_id           TEXT,
		child_ids           TEXT NOT NULL DEFAULT '[]',
		depth               INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_archived ON tasks(is_archived);
	CREATE INDEX IF NOT EXISTS idx_tasks_parent   ON tasks(parent_id);

	CREATE TABLE IF NOT EXISTS patterns (
		id              TEXT PRIMARY KEY,
		keywords        TEXT NOT NULL DEFAULT '[]',
		average_minutes REAL NOT NULL DEFAULT 0,
		sample_size     INTEGER NOT NULL DEFAULT 0,
		accuracy        REAL NOT NULL DEFAULT 50,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// docState carries the working copy of the stored document through a
// transaction. Setting dirty makes withTx write everything back.
type docState struct {
	tasks    map[string]models.Task
	archived []models.Task
	patterns []models.TaskPattern
	dirty    bool
}

// withTx loads the document inside a transaction, runs fn, and writes the
// document back if fn marked it dirty. The dataset is personal-scale, so a
// full read-modify-write keeps the engine logic identical across backends.
func (s *SQLiteTaskStore) withTx(op string, fn func(tx *sql.Tx, state *docState, now time.Time) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction for %s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	state, err := loadDocument(tx)
	if err != nil {
		return fmt.Errorf("load tasks for %s: %w", op, err)
	}
	if err := fn(tx, state, time.Now().UTC()); err != nil {
		return err
	}
	if state.dirty {
		if err := saveDocument(tx, state); err != nil {
			return fmt.Errorf("save tasks for %s: %w", op, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", op, err)
	}
	return nil
}

func loadDocument(tx *sql.Tx) (*docState, error) {
	state := &docState{tasks: make(map[string]models.Task)}

	rows, err := tx.Query(`SELECT id, title, description, priority, energy,
		created_at, updated_at, created_hour, deadline, is_completed,
		completed_at, defer_count, overdue_start_date, is_archived,
		archived_at, revived_at, estimated_minutes, actual_minutes, started_at,
		is_recurring, recurring_frequency, parent_id, child_ids, depth
		FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		task, archived, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		if archived {
			state.archived = append(state.archived, task)
		} else {
			state.tasks[task.ID] = task
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prows, err := tx.Query(`SELECT id, keywords, average_minutes, sample_size,
		accuracy, created_at, updated_at FROM patterns ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var p models.TaskPattern
		var keywordsJSON, createdAt, updatedAt string
		if err := prows.Scan(&p.ID, &keywordsJSON, &p.AverageMinutes, &p.SampleSize, &p.Accuracy, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(keywordsJSON), &p.Keywords); err != nil {
			return nil, fmt.Errorf("decode keywords for pattern %s: %w", p.ID, err)
		}
		if p.CreatedAt, err = parseDBTime(createdAt); err != nil {
			return nil, err
		}
		if p.UpdatedAt, err = parseDBTime(updatedAt); err != nil {
			return nil, err
		}
		state.patterns = append(state.patterns, p)
	}
	return state, prows.Err()
}

func scanTask(rows *sql.Rows) (models.Task, bool, error) {
	var t models.Task
	var createdAt, updatedAt string
	var deadline, completedAt, overdueStart, archivedAt, revivedAt, startedAt, parentID sql.NullString
	var estimated, actual sql.NullInt64
	var isCompleted, isArchived, isRecurring int
	var childIDsJSON string

	err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Energy,
		&createdAt, &updatedAt, &t.CreatedHour, &deadline, &isCompleted,
		&completedAt, &t.DeferCount, &overdueStart, &isArchived,
		&archivedAt, &revivedAt, &estimated, &actual, &startedAt,
		&isRecurring, &t.RecurringFrequency, &parentID, &childIDsJSON, &t.Depth)
	if err != nil {
		return t, false, err
	}

	if t.CreatedAt, err = parseDBTime(createdAt); err != nil {
		return t, false, err
	}
	if t.UpdatedAt, err = parseDBTime(updatedAt); err != nil {
		return t, false, err
	}
	if t.Deadline, err = parseDBTimePtr(deadline); err != nil {
		return t, false, err
	}
	if t.CompletedAt, err = parseDBTimePtr(completedAt); err != nil {
		return t, false, err
	}
	if t.OverdueStartDate, err = parseDBTimePtr(overdueStart); err != nil {
		return t, false, err
	}
	if t.ArchivedAt, err = parseDBTimePtr(archivedAt); err != nil {
		return t, false, err
	}
	if t.RevivedAt, err = parseDBTimePtr(revivedAt); err != nil {
		return t, false, err
	}
	if t.StartedAt, err = parseDBTimePtr(startedAt); err != nil {
		return t, false, err
	}
	t.IsCompleted = isCompleted != 0
	t.IsArchived = isArchived != 0
	t.IsRecurring = isRecurring != 0
	if parentID.Valid && parentID.String != "" {
		pid := parentID.String
		t.ParentID = &pid
	}
	if estimated.Valid {
		v := int(estimated.Int64)
		t.EstimatedMinutes = &v
	}
	if actual.Valid {
		v := int(actual.Int64)
		t.ActualMinutes = &v
	}
	if err := json.Unmarshal([]byte(childIDsJSON), &t.ChildIDs); err != nil {
		return t, false, fmt.Errorf("decode child ids for task %s: %w", t.ID, err)
	}
	return t, t.IsArchived, nil
}

func saveDocument(tx *sql.Tx, state *docState) error {
	if _, err := tx.Exec("DELETE FROM tasks"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM patterns"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO tasks (id, title, description,
		priority, energy, created_at, updated_at, created_hour, deadline,
		is_completed, completed_at, defer_count, overdue_start_date,
		is_archived, archived_at, revived_at, estimated_minutes, actual_minutes,
		started_at, is_recurring, recurring_frequency, parent_id, child_ids,
		depth) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	insert := func(t models.Task) error {
		childIDs := t.ChildIDs
		if childIDs == nil {
			childIDs = []string{}
		}
		childIDsJSON, err := json.Marshal(childIDs)
		if err != nil {
			return err
		}
		_, err = stmt.Exec(t.ID, t.Title, t.Description, string(t.Priority),
			string(t.Energy), formatDBTime(t.CreatedAt), formatDBTime(t.UpdatedAt),
			t.CreatedHour, formatDBTimePtr(t.Deadline), boolToInt(t.IsCompleted),
			formatDBTimePtr(t.CompletedAt), t.DeferCount,
			formatDBTimePtr(t.OverdueStartDate), boolToInt(t.IsArchived),
			formatDBTimePtr(t.ArchivedAt), formatDBTimePtr(t.RevivedAt),
			intPtrToNull(t.EstimatedMinutes),
			intPtrToNull(t.ActualMinutes), formatDBTimePtr(t.StartedAt),
			boolToInt(t.IsRecurring), string(t.RecurringFrequency),
			stringPtrToNull(t.ParentID), string(childIDsJSON), t.Depth)
		return err
	}

	for _, t := range hierarchy.Flatten(state.tasks) {
		if err := insert(t); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}
	for _, t := range state.archived {
		if err := insert(t); err != nil {
			return fmt.Errorf("insert archived task %s: %w", t.ID, err)
		}
	}

	pstmt, err := tx.Prepare(`INSERT INTO patterns (id, keywords,
		average_minutes, sample_size, accuracy, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer pstmt.Close()
	for _, p := range state.patterns {
		keywordsJSON, err := json.Marshal(p.Keywords)
		if err != nil {
			return err
		}
		if _, err := pstmt.Exec(p.ID, string(keywordsJSON), p.AverageMinutes,
			p.SampleSize, p.Accuracy, formatDBTime(p.CreatedAt), formatDBTime(p.UpdatedAt)); err != nil {
			return fmt.Errorf("insert pattern %s: %w", p.ID, err)
		}
	}
	return nil
}

func formatDBTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatDBTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatDBTime(*t)
}

func parseDBTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

func parseDBTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseDBTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intPtrToNull(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func stringPtrToNull(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// CreateTask adds a new task, wiring the parent link and enforcing the depth
// limit like the file backend.
func (s *SQLiteTaskStore) CreateTask(task models.Task) (created models.Task, err error) {
	err = s.withTx("create", func(tx *sql.Tx, state *docState, now time.Time) error {
		if task.ID == "" {
			task.ID = generateID()
		} else if _, exists := state.tasks[task.ID]; exists {
			return fmt.Errorf("task with ID '%s' already exists", task.ID)
		}

		task.CreatedAt = now
		task.UpdatedAt = now
		task.CreatedHour = now.Hour()
		task.ChildIDs = []string{}
		task.Depth = 0

		if task.ParentID != nil && *task.ParentID != "" {
			parent, exists := state.tasks[*task.ParentID]
			if !exists {
				return fmt.Errorf("parent task with ID '%s': %w", *task.ParentID, ErrTaskNotFound)
			}
			if parent.Depth >= models.MaxDepth {
				return fmt.Errorf("parent '%s' is already at the maximum depth: %w", parent.Title, hierarchy.ErrDepthLimit)
			}
			task.Depth = parent.Depth + 1
			parent.ChildIDs = append(parent.ChildIDs, task.ID)
			parent.UpdatedAt = now
			state.tasks[parent.ID] = parent
		} else {
			task.ParentID = nil
		}

		if err := models.ValidateTask(task); err != nil {
			return fmt.Errorf("validation failed for new task: %w", err)
		}

		state.tasks[task.ID] = task
		state.dirty = true
		created = task
		return nil
	})
	return created, err
}

// GetTask retrieves an active task by its id.
func (s *SQLiteTaskStore) GetTask(id string) (task models.Task, err error) {
	err = s.withTx("get", func(tx *sql.Tx, state *docState, now time.Time) error {
		t, ok := state.tasks[id]
		if !ok {
			return fmt.Errorf("task with ID %s: %w", id, ErrTaskNotFound)
		}
		task = t
		return nil
	})
	return task, err
}

// UpdateTask applies a map of field updates, with the same field rules as the
// file backend.
func (s *SQLiteTaskStore) UpdateTask(id string, updates map[string]interface{}) (updated models.Task, err error) {
	err = s.withTx("update", func(tx *sql.Tx, state *docState, now time.Time) error {
		task, exists := state.tasks[id]
		if !exists {
			return fmt.Errorf("task with ID '%s': %w", id, ErrTaskNotFound)
		}
		applied, applyErr := applyTaskUpdates(task, updates, now)
		if applyErr != nil {
			return applyErr
		}
		if err := models.ValidateTask(applied); err != nil {
			return fmt.Errorf("validation failed for updated task: %w", err)
		}
		state.tasks[id] = applied
		state.dirty = true
		updated = applied
		return nil
	})
	return updated, err
}

// DeleteTask removes a childless task and detaches it from its parent.
func (s *SQLiteTaskStore) DeleteTask(id string) error {
	return s.withTx("delete", func(tx *sql.Tx, state *docState, now time.Time) error {
		task, exists := state.tasks[id]
		if !exists {
			return fmt.Errorf("task with ID '%s': %w", id, ErrTaskNotFound)
		}
		if len(task.ChildIDs) > 0 {
			return fmt.Errorf("cannot delete task '%s' - it has subtasks - delete or re-assign them first", task.Title)
		}
		if task.ParentID != nil {
			if parent, ok := state.tasks[*task.ParentID]; ok {
				parent.ChildIDs = removeString(parent.ChildIDs, id)
				parent.UpdatedAt = now
				state.tasks[parent.ID] = parent
			}
		}
		delete(state.tasks, id)
		state.dirty = true
		return nil
	})
}

// DeleteTasks removes a batch of tasks and repairs the survivors.
func (s *SQLiteTaskStore) DeleteTasks(ids []string) (deleted int, err error) {
	err = s.withTx("batch delete", func(tx *sql.Tx, state *docState, now time.Time) error {
		deleteSet := make(map[string]bool, len(ids))
		for _, id := range ids {
			deleteSet[id] = true
		}
		kept := make(map[string]models.Task)
		for id, task := range state.tasks {
			if !deleteSet[id] {
				kept[id] = task
			}
		}
		deleted = len(state.tasks) - len(kept)
		state.tasks = syncmerge.Repair(kept, now)
		state.dirty = true
		return nil
	})
	return deleted, err
}

// ListTasks retrieves active tasks, optionally filtered and sorted.
func (s *SQLiteTaskStore) ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task) []models.Task) (list []models.Task, err error) {
	err = s.withTx("list", func(tx *sql.Tx, state *docState, now time.Time) error {
		tasks := hierarchy.Flatten(state.tasks)
		if filterFn != nil {
			filtered := make([]models.Task, 0, len(tasks))
			for _, task := range tasks {
				if filterFn(task) {
					filtered = append(filtered, task)
				}
			}
			tasks = filtered
		}
		if sortFn != nil {
			tasks = sortFn(tasks)
		}
		list = tasks
		return nil
	})
	return list, err
}

// ListArchivedTasks retrieves the archived collection.
func (s *SQLiteTaskStore) ListArchivedTasks() (list []models.Task, err error) {
	err = s.withTx("list archived", func(tx *sql.Tx, state *docState, now time.Time) error {
		list = append([]models.Task(nil), state.archived...)
		return nil
	})
	return list, err
}

// MarkTaskDone completes a task with the same workflow as the file backend.
func (s *SQLiteTaskStore) MarkTaskDone(id string) (done models.Task, err error) {
	err = s.withTx("mark done", func(tx *sql.Tx, state *docState, now time.Time) error {
		task, ok := state.tasks[id]
		if !ok {
			return fmt.Errorf("task with ID %s: %w", id, ErrTaskNotFound)
		}
		if task.IsCompleted {
			done = task
			return nil
		}
		if hierarchy.IsLocked(task, state.tasks) {
			return fmt.Errorf("cannot complete '%s': %w", task.Title, ErrTaskLocked)
		}

		task.IsCompleted = true
		completedAt := now
		task.CompletedAt = &completedAt
		task.UpdatedAt = now
		if task.ActualMinutes == nil && task.StartedAt != nil {
			minutes := int(math.Round(now.Sub(*task.StartedAt).Minutes()))
			if minutes < 0 {
				minutes = 0
			}
			task.ActualMinutes = &minutes
		}
		task.StartedAt = nil
		state.tasks[id] = task

		var history []models.Task
		for _, t := range state.tasks {
			if t.ID != id && t.IsCompleted {
				history = append(history, t)
			}
		}
		state.patterns = patterns.RecordCompletion(task, history, state.patterns, s.tooShort, now)

		if task.IsRecurring && task.RecurringFrequency != "" && task.ParentID == nil {
			next := nextRecurringTask(task, now)
			state.tasks[next.ID] = next
		}
		state.dirty = true
		done = task
		return nil
	})
	return done, err
}

// MarkTaskUndone reverts a completion.
func (s *SQLiteTaskStore) MarkTaskUndone(id string) (task models.Task, err error) {
	err = s.withTx("mark undone", func(tx *sql.Tx, state *docState, now time.Time) error {
		t, ok := state.tasks[id]
		if !ok {
			return fmt.Errorf("task with ID %s: %w", id, ErrTaskNotFound)
		}
		t.IsCompleted = false
		t.CompletedAt = nil
		t.ActualMinutes = nil
		t.UpdatedAt = now
		state.tasks[id] = t
		state.dirty = true
		task = t
		return nil
	})
	return task, err
}

// StartTask stamps startedAt.
func (s *SQLiteTaskStore) StartTask(id string) (task models.Task, err error) {
	err = s.withTx("start", func(tx *sql.Tx, state *docState, now time.Time) error {
		t, ok := state.tasks[id]
		if !ok {
			return fmt.Errorf("task with ID %s: %w", id, ErrTaskNotFound)
		}
		if t.IsCompleted {
			return fmt.Errorf("cannot start completed task '%s'", t.Title)
		}
		startedAt := now
		t.StartedAt = &startedAt
		t.UpdatedAt = now
		state.tasks[id] = t
		state.dirty = true
		task = t
		return nil
	})
	return task, err
}

// DeferTask postpones a task to the end of tomorrow.
func (s *SQLiteTaskStore) DeferTask(id string) (task models.Task, err error) {
	err = s.withTx("defer", func(tx *sql.Tx, state *docState, now time.Time) error {
		t, ok := state.tasks[id]
		if !ok {
			return fmt.Errorf("task with ID %s: %w", id, ErrTaskNotFound)
		}
		deadline := decay.EndOfDay(now.AddDate(0, 0, 1))
		t.Deadline = &deadline
		t.DeferCount++
		t.OverdueStartDate = nil
		t.UpdatedAt = now
		state.tasks[id] = t
		state.dirty = true
		task = t
		return nil
	})
	return task, err
}

// ReviveTask returns an overdue or archived task to the active list.
func (s *SQLiteTaskStore) ReviveTask(id string) (task models.Task, err error) {
	err = s.withTx("revive", func(tx *sql.Tx, state *docState, now time.Time) error {
		if t, ok := state.tasks[id]; ok {
			revived := decay.Revive(t, now)
			state.tasks[id] = revived
			state.dirty = true
			task = revived
			return nil
		}
		for i, t := range state.archived {
			if t.ID == id {
				revived := decay.Revive(t, now)
				state.archived = append(state.archived[:i], state.archived[i+1:]...)
				state.tasks[id] = revived
				state.dirty = true
				task = revived
				return nil
			}
		}
		return fmt.Errorf("task with ID %s: %w", id, ErrTaskNotFound)
	})
	return task, err
}

// ReparentTask moves a task under a new parent with cycle and depth checks.
func (s *SQLiteTaskStore) ReparentTask(id string, newParentID *string) (task models.Task, err error) {
	err = s.withTx("reparent", func(tx *sql.Tx, state *docState, now time.Time) error {
		updated, reparentErr := hierarchy.Reparent(id, newParentID, state.tasks, now)
		if reparentErr != nil {
			return reparentErr
		}
		state.tasks = updated
		state.dirty = true
		task = state.tasks[id]
		return nil
	})
	return task, err
}

// ArchiveDecayedTasks moves all fully decayed tasks to the archive.
func (s *SQLiteTaskStore) ArchiveDecayedTasks() (archived []models.Task, err error) {
	err = s.withTx("archive decayed", func(tx *sql.Tx, state *docState, now time.Time) error {
		active, newlyArchived := decay.ArchiveDecayed(state.tasks, now)
		if len(newlyArchived) == 0 {
			return nil
		}
		state.tasks = active
		state.archived = append(state.archived, newlyArchived...)
		state.dirty = true
		archived = newlyArchived
		return nil
	})
	return archived, err
}

// Patterns returns the learned estimation patterns.
func (s *SQLiteTaskStore) Patterns() (pats []models.TaskPattern, err error) {
	err = s.withTx("patterns", func(tx *sql.Tx, state *docState, now time.Time) error {
		pats = append([]models.TaskPattern(nil), state.patterns...)
		return nil
	})
	return pats, err
}

// SuggestEstimate proposes a duration for a prospective task title.
func (s *SQLiteTaskStore) SuggestEstimate(title string) (suggestion patterns.Suggestion, ok bool, err error) {
	err = s.withTx("suggest", func(tx *sql.Tx, state *docState, now time.Time) error {
		suggestion, ok = patterns.SuggestEstimate(title, state.patterns)
		return nil
	})
	return suggestion, ok, err
}

// MergeRemote merges a remote task list by updatedAt.
func (s *SQLiteTaskStore) MergeRemote(remote []models.Task) (accepted int, err error) {
	err = s.withTx("merge remote", func(tx *sql.Tx, state *docState, now time.Time) error {
		remoteMap := make(map[string]models.Task, len(remote))
		for _, t := range remote {
			if t.ID == "" {
				continue
			}
			remoteMap[t.ID] = t
		}
		for id, r := range remoteMap {
			local, exists := state.tasks[id]
			if !exists || r.UpdatedAt.After(local.UpdatedAt) {
				accepted++
			}
		}
		state.tasks = syncmerge.Merge(state.tasks, remoteMap, now)
		state.dirty = true
		return nil
	})
	return accepted, err
}

// Backup writes the document as JSON to the destination path, so backups stay
// portable across backends.
func (s *SQLiteTaskStore) Backup(destinationPath string) error {
	var doc models.TaskFile
	err := s.withTx("backup", func(tx *sql.Tx, state *docState, now time.Time) error {
		doc.Tasks = hierarchy.Flatten(state.tasks)
		doc.Archived = state.archived
		doc.Patterns = state.patterns
		doc.TotalCount = len(state.tasks)
		return nil
	})
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal backup: %w", err)
	}
	if err := os.WriteFile(destinationPath, data, 0o644); err != nil {
		return fmt.Errorf("write backup file to %s: %w", destinationPath, err)
	}
	return nil
}

// Restore replaces the database contents with a JSON backup.
func (s *SQLiteTaskStore) Restore(sourcePath string) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("read backup file %s: %w", sourcePath, err)
	}
	var doc models.TaskFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode backup file %s: %w", sourcePath, err)
	}
	return s.withTx("restore", func(tx *sql.Tx, state *docState, now time.Time) error {
		state.tasks = make(map[string]models.Task, len(doc.Tasks))
		for _, t := range doc.Tasks {
			state.tasks[t.ID] = t
		}
		state.archived = doc.Archived
		state.patterns = doc.Patterns
		state.dirty = true
		return nil
	})
}

// Close closes the database.
func (s *SQLiteTaskStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
