package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	yaml "gopkg.in/yaml.v3"

	"github.com/reyyanxjanbaz/tody/internal/decay"
	"github.com/reyyanxjanbaz/tody/internal/hierarchy"
	"github.com/reyyanxjanbaz/tody/internal/patterns"
	"github.com/reyyanxjanbaz/tody/internal/syncmerge"
	"github.com/reyyanxjanbaz/tody/models"
)

const (
	defaultDataFile   = "tody.json"
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	formatTOML        = "toml"
	checksumSuffix    = ".checksum"
)

// FileTaskStore implements TaskStore over a single document file holding the
// active tasks, the archived tasks, and the learned patterns. It supports
// JSON, YAML, and TOML formats and serializes access with a file lock.
type FileTaskStore struct {
	filePath string
	format   string
	flk      *flock.Flock

	tasks    map[string]models.Task
	archived []models.Task
	patterns []models.TaskPattern

	// tooShort filters implausibly short completions out of the learner.
	tooShort patterns.TooShortFunc
}

// NewFileTaskStore creates a new instance; Initialize must be called before use.
func NewFileTaskStore() *FileTaskStore {
	return &FileTaskStore{
		tasks:    make(map[string]models.Task),
		tooShort: patterns.DefaultTooShort,
	}
}

// SetTooShortFunc overrides the predicate that excludes accidental
// completions from the pattern learner.
func (s *FileTaskStore) SetTooShortFunc(fn patterns.TooShortFunc) {
	if fn != nil {
		s.tooShort = fn
	}
}

// Initialize configures the store from a config map with 'dataFile' and
// 'dataFileFormat' keys, loads the document, and runs the session-start decay
// pass that back-fills overdueStartDate for tasks that crossed their deadline
// while the app was not running.
func (s *FileTaskStore) Initialize(config map[string]string) error {
	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	} else {
		s.filePath = defaultDataFile
	}

	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		formatLower := strings.ToLower(val)
		switch formatLower {
		case formatJSON, formatYAML, formatTOML:
			s.format = formatLower
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s. Supported formats are json, yaml, toml", val)
		}
	} else {
		s.format = defaultDataFormat
	}
	if s.filePath == defaultDataFile && s.format != formatJSON {
		ext := filepath.Ext(s.filePath)
		s.filePath = strings.TrimSuffix(s.filePath, ext) + "." + s.format
	}

	dir := filepath.Dir(s.filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	s.flk = flock.New(s.filePath)
	locked, err := s.flk.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire initial lock for %s: %w", s.filePath, err)
	}
	if !locked {
		if err := s.flk.Lock(); err != nil {
			return fmt.Errorf("failed to acquire blocking initial lock for %s: %w", s.filePath, err)
		}
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return err
	}

	// Session-start decay pass: record overdue starts observed while the
	// process was down.
	updated, stamped := decay.MarkOverdueStarts(s.tasks, time.Now().UTC())
	if stamped > 0 {
		s.tasks = updated
		if err := s.saveInternal(); err != nil {
			return fmt.Errorf("failed to persist overdue back-fill: %w", err)
		}
	}
	return nil
}

func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// loadInternal reads the document, verifies its checksum, and unmarshals.
// Assumes the file lock is held.
func (s *FileTaskStore) loadInternal() error {
	checksumFilePath := s.filePath + checksumSuffix

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.resetState()
			_ = os.Remove(checksumFilePath)
			f, createErr := os.OpenFile(s.filePath, os.O_CREATE|os.O_RDWR, 0o644)
			if createErr != nil {
				return fmt.Errorf("failed to create data file %s: %w", s.filePath, createErr)
			}
			_ = f.Close()
			_ = os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644)
			return nil
		}
		return fmt.Errorf("failed to read data file %s: %w", s.filePath, err)
	}

	if _, err := os.Stat(checksumFilePath); err == nil {
		expectedChecksumBytes, readErr := os.ReadFile(checksumFilePath)
		if readErr != nil {
			return fmt.Errorf("failed to read checksum file %s: %w", checksumFilePath, readErr)
		}
		expectedChecksum := strings.TrimSpace(string(expectedChecksumBytes))
		if actual := calculateChecksum(data); actual != expectedChecksum {
			return fmt.Errorf("checksum mismatch for %s - expected %s, got %s - file is corrupt or tampered", s.filePath, expectedChecksum, actual)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking checksum file %s: %w", checksumFilePath, err)
	}

	if len(data) == 0 {
		_ = os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644)
		s.resetState()
		return nil
	}

	var doc models.TaskFile
	switch s.format {
	case formatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal JSON from %s: %w", s.filePath, err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from %s: %w", s.filePath, err)
		}
	case formatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal TOML from %s: %w", s.filePath, err)
		}
	default:
		return fmt.Errorf("unsupported data format for loading: %s", s.format)
	}

	s.tasks = make(map[string]models.Task, len(doc.Tasks))
	for _, task := range doc.Tasks {
		s.tasks[task.ID] = task
	}
	s.archived = doc.Archived
	s.patterns = doc.Patterns
	return nil
}

func (s *FileTaskStore) resetState() {
	s.tasks = make(map[string]models.Task)
	s.archived = nil
	s.patterns = nil
}

// saveInternal writes the document atomically, then its checksum. Assumes the
// file lock is held.
func (s *FileTaskStore) saveInternal() error {
	doc := models.TaskFile{
		Tasks:      make([]models.Task, 0, len(s.tasks)),
		Archived:   s.archived,
		Patterns:   s.patterns,
		TotalCount: len(s.tasks),
	}
	for _, task := range hierarchy.Flatten(s.tasks) {
		doc.Tasks = append(doc.Tasks, task)
	}

	var marshaledData []byte
	var err error
	switch s.format {
	case formatJSON:
		marshaledData, err = json.MarshalIndent(doc, "", "  ")
	case formatYAML:
		marshaledData, err = yaml.Marshal(doc)
	case formatTOML:
		buf := new(bytes.Buffer)
		if encodeErr := toml.NewEncoder(buf).Encode(doc); encodeErr == nil {
			marshaledData = buf.Bytes()
		} else {
			err = fmt.Errorf("failed to marshal TOML: %w", encodeErr)
		}
	default:
		return fmt.Errorf("unsupported data format for saving: %s", s.format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal tasks to %s: %w", s.format, err)
	}

	tempFilePath := s.filePath + ".tmp"
	checksumFilePath := s.filePath + checksumSuffix
	tempChecksumFilePath := checksumFilePath + ".tmp"
	defer func() { _ = os.Remove(tempFilePath) }()
	defer func() { _ = os.Remove(tempChecksumFilePath) }()

	if err := os.WriteFile(tempFilePath, marshaledData, 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary data file %s: %w", tempFilePath, err)
	}
	if err := os.WriteFile(tempChecksumFilePath, []byte(calculateChecksum(marshaledData)), 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary checksum file %s: %w", tempChecksumFilePath, err)
	}
	if err := os.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temporary data file %s to %s: %w", tempFilePath, s.filePath, err)
	}
	if err := os.Rename(tempChecksumFilePath, checksumFilePath); err != nil {
		return fmt.Errorf("data file %s updated, but failed to update checksum file %s: %w - store may be inconsistent", s.filePath, checksumFilePath, err)
	}
	return nil
}

// withLock serializes an operation against the file and reloads state first,
// so concurrent processes always act on the latest document.
func (s *FileTaskStore) withLock(op string, fn func(now time.Time) error) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock file for %s: %w", op, err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return fmt.Errorf("failed to reload tasks before %s: %w", op, err)
	}
	return fn(time.Now().UTC())
}

func generateID() string {
	return uuid.NewString()
}

// CreateTask adds a new task to the store. It fills in the id, timestamps,
// and creation hour, wires the parent link, and enforces the depth limit.
func (s *FileTaskStore) CreateTask(task models.Task) (created models.Task, err error) {
	err = s.withLock("create", func(now time.Time) error {
		if task.ID == "" {
			task.ID = generateID()
		} else if _, exists := s.tasks[task.ID]; exists {
			return fmt.Errorf("task with ID '%s' already exists", task.ID)
		}

		task.CreatedAt = now
		task.UpdatedAt = now
		task.CreatedHour = now.Hour()
		task.ChildIDs = []string{}
		task.Depth = 0

		if task.ParentID != nil && *task.ParentID != "" {
			parent, exists := s.tasks[*task.ParentID]
			if !exists {
				return fmt.Errorf("parent task with ID '%s': %w", *task.ParentID, ErrTaskNotFound)
			}
			if parent.Depth >= models.MaxDepth {
				return fmt.Errorf("parent '%s' is already at the maximum depth: %w", parent.Title, hierarchy.ErrDepthLimit)
			}
			task.Depth = parent.Depth + 1
			parent.ChildIDs = append(parent.ChildIDs, task.ID)
			parent.UpdatedAt = now
			s.tasks[parent.ID] = parent
		} else {
			task.ParentID = nil
		}

		if err := models.ValidateTask(task); err != nil {
			_ = s.loadInternal() // discard the parent link
			return fmt.Errorf("validation failed for new task: %w", err)
		}

		s.tasks[task.ID] = task
		if err := s.saveInternal(); err != nil {
			_ = s.loadInternal()
			return fmt.Errorf("failed to save new task: %w", err)
		}
		created = task
		return nil
	})
	return created, err
}

// GetTask retrieves an active task by its id.
func (s *FileTaskStore) GetTask(id string) (task models.Task, err error) {
	err = s.withLock("get", func(time.Time) error {
		t, ok := s.tasks[id]
		if !ok {
			return fmt.Errorf("task with ID %s: %w", id, ErrTaskNotFound)
		}
		task = t
		return nil
	})
	return task, err
}

// UpdateTask modifies an existing task from a map of field updates. Changing
// the deadline resets overdue tracking; structural fields (parentId,
// childIds, depth) are refused here; re-parenting goes through ReparentTask
// so cycle and depth checks cannot be bypassed.
func (s *FileTaskStore) UpdateTask(id string, updates map[string]interface{}) (updated models.Task, err error) {
	err = s.withLock("update", func(now time.Time) error {
		task, exists := s.tasks[id]
		if !exists {
			return fmt.Errorf("task with ID '%s': %w", id, ErrTaskNotFound)
		}
		originalTask := task

		task, err := applyTaskUpdates(task, updates, now)
		if err != nil {
			return err
		}
		if err := models.ValidateTask(task); err != nil {
			return fmt.Errorf("validation failed for updated task: %w", err)
		}

		s.tasks[id] = task
		if err := s.saveInternal(); err != nil {
			s.tasks[id] = originalTask
			return fmt.Errorf("failed to save updated task: %w", err)
		}
		updated = task
		return nil
	})
	return updated, err
}

// DeleteTask removes a task. Tasks that still have subtasks are refused so a
// subtree is never silently orphaned; DeleteTasks handles recursive removal.
func (s *FileTaskStore) DeleteTask(id string) error {
	return s.withLock("delete", func(now time.Time) error {
		task, exists := s.tasks[id]
		if !exists {
			return fmt.Errorf("task with ID '%s': %w", id, ErrTaskNotFound)
		}
		if len(task.ChildIDs) > 0 {
			return fmt.Errorf("cannot delete task '%s' - it has subtasks - delete or re-assign them first", task.Title)
		}

		if task.ParentID != nil {
			if parent, ok := s.tasks[*task.ParentID]; ok {
				parent.ChildIDs = removeString(parent.ChildIDs, id)
				parent.UpdatedAt = now
				s.tasks[parent.ID] = parent
			}
		}
		delete(s.tasks, id)

		if err := s.saveInternal(); err != nil {
			_ = s.loadInternal()
			return fmt.Errorf("failed to save after deleting task: %w", err)
		}
		return nil
	})
}

// DeleteTasks removes a batch of tasks in one operation and repairs the
// survivors' relationships (orphaned children are promoted to roots with
// their depth recomputed).
func (s *FileTaskStore) DeleteTasks(ids []string) (deleted int, err error) {
	err = s.withLock("batch delete", func(now time.Time) error {
		deleteSet := make(map[string]bool, len(ids))
		for _, id := range ids {
			deleteSet[id] = true
		}

		kept := make(map[string]models.Task)
		for id, task := range s.tasks {
			if !deleteSet[id] {
				kept[id] = task
			}
		}
		deleted = len(s.tasks) - len(kept)
		s.tasks = syncmerge.Repair(kept, now)

		if err := s.saveInternal(); err != nil {
			_ = s.loadInternal()
			return fmt.Errorf("failed to save after batch deleting tasks: %w", err)
		}
		return nil
	})
	return deleted, err
}

// ListTasks retrieves active tasks, optionally filtered and sorted. With no
// sort function, tasks come back in hierarchical display order.
func (s *FileTaskStore) ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task) []models.Task) (list []models.Task, err error) {
	err = s.withLock("list", func(time.Time) error {
		tasks := hierarchy.Flatten(s.tasks)
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
func (s *FileTaskStore) ListArchivedTasks() (list []models.Task, err error) {
	err = s.withLock("list archived", func(time.Time) error {
		list = append([]models.Task(nil), s.archived...)
		return nil
	})
	return list, err
}

// MarkTaskDone completes a task, derives the actual duration from a running
// timer, feeds the completion into the pattern learner, and schedules the
// next occurrence of a recurring task. Rejected while any child is
// incomplete.
func (s *FileTaskStore) MarkTaskDone(id string) (done models.Task, err error) {
	err = s.withLock("mark done", func(now time.Time) error {
		task, ok := s.tasks[id]
		if !ok {
			return fmt.Errorf("task with ID %s: %w", id, ErrTaskNotFound)
		}
		if task.IsCompleted {
			done = task
			return nil
		}
		if hierarchy.IsLocked(task, s.tasks) {
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
		s.tasks[id] = task

		// Feed the learner with the completion history.
		var history []models.Task
		for _, t := range s.tasks {
			if t.ID != id && t.IsCompleted {
				history = append(history, t)
			}
		}
		s.patterns = patterns.RecordCompletion(task, history, s.patterns, s.tooShort, now)

		if task.IsRecurring && task.RecurringFrequency != "" && task.ParentID == nil {
			next := nextRecurringTask(task, now)
			s.tasks[next.ID] = next
		}

		if err := s.saveInternal(); err != nil {
			_ = s.loadInternal()
			return fmt.Errorf("failed to save task %s after marking done: %w", id, err)
		}
		done = task
		return nil
	})
	return done, err
}

// MarkTaskUndone reverts a completion.
func (s *FileTaskStore) MarkTaskUndone(id string) (task models.Task, err error) {
	err = s.withLock("mark undone", func(now time.Time) error {
		t, ok := s.tasks[id]
		if !ok {
			return fmt.Errorf("task with ID %s: %w", id, ErrTaskNotFound)
		}
		t.IsCompleted = false
		t.CompletedAt = nil
		t.ActualMinutes = nil
		t.UpdatedAt = now
		s.tasks[id] = t

		if err := s.saveInternal(); err != nil {
			_ = s.loadInternal()
			return fmt.Errorf("failed to save task %s after un-completing: %w", id, err)
		}
		task = t
		return nil
	})
	return task, err
}

// StartTask stamps startedAt so a later completion can derive actualMinutes.
func (s *FileTaskStore) StartTask(id string) (task models.Task, err error) {
	err = s.withLock("start", func(now time.Time) error {
		t, ok := s.tasks[id]
		if !ok {
			return fmt.Errorf("task with ID %s: %w", id, ErrTaskNotFound)
		}
		if t.IsCompleted {
			return fmt.Errorf("cannot start completed task '%s'", t.Title)
		}
		startedAt := now
		t.StartedAt = &startedAt
		t.UpdatedAt = now
		s.tasks[id] = t

		if err := s.saveInternal(); err != nil {
			_ = s.loadInternal()
			return fmt.Errorf("failed to save task %s after starting timer: %w", id, err)
		}
		task = t
		return nil
	})
	return task, err
}

// DeferTask postpones a task to the end of tomorrow, counts the deferral, and
// restarts overdue tracking.
func (s *FileTaskStore) DeferTask(id string) (task models.Task, err error) {
	err = s.withLock("defer", func(now time.Time) error {
		t, ok := s.tasks[id]
		if !ok {
			return fmt.Errorf("task with ID %s: %w", id, ErrTaskNotFound)
		}
		deadline := decay.EndOfDay(now.AddDate(0, 0, 1))
		t.Deadline = &deadline
		t.DeferCount++
		t.OverdueStartDate = nil
		t.UpdatedAt = now
		s.tasks[id] = t

		if err := s.saveInternal(); err != nil {
			_ = s.loadInternal()
			return fmt.Errorf("failed to save task %s after deferring: %w", id, err)
		}
		task = t
		return nil
	})
	return task, err
}

// ReviveTask returns an overdue or archived task to the active list with a
// fresh end-of-day deadline.
func (s *FileTaskStore) ReviveTask(id string) (task models.Task, err error) {
	err = s.withLock("revive", func(now time.Time) error {
		if t, ok := s.tasks[id]; ok {
			revived := decay.Revive(t, now)
			s.tasks[id] = revived
			if err := s.saveInternal(); err != nil {
				_ = s.loadInternal()
				return fmt.Errorf("failed to save task %s after reviving: %w", id, err)
			}
			task = revived
			return nil
		}
		for i, t := range s.archived {
			if t.ID == id {
				revived := decay.Revive(t, now)
				s.archived = append(s.archived[:i], s.archived[i+1:]...)
				s.tasks[id] = revived
				if err := s.saveInternal(); err != nil {
					_ = s.loadInternal()
					return fmt.Errorf("failed to save task %s after reviving from archive: %w", id, err)
				}
				task = revived
				return nil
			}
		}
		return fmt.Errorf("task with ID %s: %w", id, ErrTaskNotFound)
	})
	return task, err
}

// ReparentTask moves a task under a new parent (nil = to the roots). Cycles
// and depth overflows are rejected with the collection unchanged.
func (s *FileTaskStore) ReparentTask(id string, newParentID *string) (task models.Task, err error) {
	err = s.withLock("reparent", func(now time.Time) error {
		updated, reparentErr := hierarchy.Reparent(id, newParentID, s.tasks, now)
		if reparentErr != nil {
			return reparentErr
		}
		s.tasks = updated
		if err := s.saveInternal(); err != nil {
			_ = s.loadInternal()
			return fmt.Errorf("failed to save after re-parenting task %s: %w", id, err)
		}
		task = s.tasks[id]
		return nil
	})
	return task, err
}

// ArchiveDecayedTasks snapshots all fully decayed tasks into the archived
// collection. This is the only path into archival and is never automatic.
func (s *FileTaskStore) ArchiveDecayedTasks() (archived []models.Task, err error) {
	err = s.withLock("archive decayed", func(now time.Time) error {
		active, newlyArchived := decay.ArchiveDecayed(s.tasks, now)
		if len(newlyArchived) == 0 {
			return nil
		}
		s.tasks = active
		s.archived = append(s.archived, newlyArchived...)
		if err := s.saveInternal(); err != nil {
			_ = s.loadInternal()
			return fmt.Errorf("failed to save after archiving decayed tasks: %w", err)
		}
		archived = newlyArchived
		return nil
	})
	return archived, err
}

// Patterns returns the learned estimation patterns.
func (s *FileTaskStore) Patterns() (pats []models.TaskPattern, err error) {
	err = s.withLock("patterns", func(time.Time) error {
		pats = append([]models.TaskPattern(nil), s.patterns...)
		return nil
	})
	return pats, err
}

// SuggestEstimate proposes a duration for a prospective task title.
func (s *FileTaskStore) SuggestEstimate(title string) (suggestion patterns.Suggestion, ok bool, err error) {
	err = s.withLock("suggest", func(time.Time) error {
		suggestion, ok = patterns.SuggestEstimate(title, s.patterns)
		return nil
	})
	return suggestion, ok, err
}

// MergeRemote merges a remote task list into the store by updatedAt and
// repairs the result. Returns how many remote tasks were accepted.
func (s *FileTaskStore) MergeRemote(remote []models.Task) (accepted int, err error) {
	err = s.withLock("merge remote", func(now time.Time) error {
		remoteMap := make(map[string]models.Task, len(remote))
		for _, t := range remote {
			if t.ID == "" {
				continue
			}
			remoteMap[t.ID] = t
		}
		for id, r := range remoteMap {
			local, exists := s.tasks[id]
			if !exists || r.UpdatedAt.After(local.UpdatedAt) {
				accepted++
			}
		}
		s.tasks = syncmerge.Merge(s.tasks, remoteMap, now)
		if err := s.saveInternal(); err != nil {
			_ = s.loadInternal()
			return fmt.Errorf("failed to save after merging remote tasks: %w", err)
		}
		return nil
	})
	return accepted, err
}

// Backup copies the current data file to the destination path.
func (s *FileTaskStore) Backup(destinationPath string) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock for backup: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	input, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read source file %s for backup: %w", s.filePath, err)
	}
	if err = os.WriteFile(destinationPath, input, 0o644); err != nil {
		return fmt.Errorf("failed to write backup file to %s: %w", destinationPath, err)
	}
	return nil
}

// Restore replaces the current data with the contents of the source path and
// drops the stale checksum; a fresh one is written on the next save.
func (s *FileTaskStore) Restore(sourcePath string) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock for restore: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	sourceData, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read source backup file %s: %w", sourcePath, err)
	}

	tempFilePath := s.filePath + ".tmp_restore"
	defer func() { _ = os.Remove(tempFilePath) }()
	if err = os.WriteFile(tempFilePath, sourceData, 0o644); err != nil {
		return fmt.Errorf("failed to write restored data to temporary file %s: %w", tempFilePath, err)
	}
	if err = os.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to atomically replace file %s with restored data: %w", s.filePath, err)
	}
	_ = os.Remove(s.filePath + checksumSuffix)

	return s.loadInternal()
}

// Close releases the file lock.
func (s *FileTaskStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}

func removeString(slice []string, item string) []string {
	out := make([]string, 0, len(slice))
	for _, v := range slice {
		if v != item {
			out = append(out, v)
		}
	}
	return out
}
