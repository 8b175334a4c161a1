package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func validTask(t *testing.T) Task {
	t.Helper()
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	return *NewTask(uuid.NewString(), "Write report", now)
}

func TestNewTaskDefaults(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)
	task := NewTask(uuid.NewString(), "Water plants", now)

	if task.Priority != PriorityNone {
		t.Errorf("default priority = %q, want %q", task.Priority, PriorityNone)
	}
	if task.CreatedHour != 14 {
		t.Errorf("createdHour = %d, want 14", task.CreatedHour)
	}
	if task.ParentID != nil {
		t.Error("new task should be a root")
	}
	if task.Depth != 0 {
		t.Errorf("depth = %d, want 0", task.Depth)
	}
	if err := ValidateTask(*task); err != nil {
		t.Errorf("new task should validate: %v", err)
	}
}

func TestValidateTaskCrossField(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr string
	}{
		{
			name:    "completed without completedAt",
			mutate:  func(task *Task) { task.IsCompleted = true },
			wantErr: "completedAt",
		},
		{
			name: "completedAt without completed",
			mutate: func(task *Task) {
				task.CompletedAt = &now
			},
			wantErr: "not completed",
		},
		{
			name:    "archived without archivedAt",
			mutate:  func(task *Task) { task.IsArchived = true },
			wantErr: "archivedAt",
		},
		{
			name: "self parent",
			mutate: func(task *Task) {
				id := task.ID
				task.ParentID = &id
			},
			wantErr: "own parent",
		},
		{
			name:    "root with nonzero depth",
			mutate:  func(task *Task) { task.Depth = 1 },
			wantErr: "depth",
		},
		{
			name:    "recurring without frequency",
			mutate:  func(task *Task) { task.IsRecurring = true },
			wantErr: "frequency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask(t)
			tt.mutate(&task)
			err := ValidateTask(task)
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTaskTagRules(t *testing.T) {
	task := validTask(t)
	task.Title = ""
	if err := ValidateTask(task); err == nil {
		t.Error("empty title should fail validation")
	}

	task = validTask(t)
	task.Depth = MaxDepth + 1
	parentID := uuid.NewString()
	task.ParentID = &parentID
	if err := ValidateTask(task); err == nil {
		t.Errorf("depth %d should fail validation", MaxDepth+1)
	}

	task = validTask(t)
	task.Priority = "urgent"
	if err := ValidateTask(task); err == nil {
		t.Error("unknown priority should fail validation")
	}

	task = validTask(t)
	bad := 0
	task.EstimatedMinutes = &bad
	if err := ValidateTask(task); err == nil {
		t.Error("zero estimate should fail validation")
	}
}
