package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TaskPriority represents the priority levels of a task.
type TaskPriority string

const (
	PriorityNone   TaskPriority = "none"
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// EnergyLevel represents how much energy a task demands from the user.
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

// RecurringFrequency represents how often a recurring task repeats.
type RecurringFrequency string

const (
	RecurDaily    RecurringFrequency = "daily"
	RecurWeekly   RecurringFrequency = "weekly"
	RecurBiweekly RecurringFrequency = "biweekly"
	RecurMonthly  RecurringFrequency = "monthly"
)

// MaxDepth is the deepest level a subtask may sit at (0 = root).
const MaxDepth = 3

// Task is the central entity: one item in the task forest.
// Hierarchy is expressed purely through ids (ParentID/ChildIDs), never
// embedded pointers, so the model stays serializable and cycle-safe.
type Task struct {
	ID          string       `json:"id" validate:"required,uuid4"`
	Title       string       `json:"title" validate:"required,min=1,max=255"`
	Description string       `json:"description,omitempty"`
	Priority    TaskPriority `json:"priority" validate:"required,oneof=none low medium high"`
	Energy      EnergyLevel  `json:"energyLevel,omitempty" validate:"omitempty,oneof=low medium high"`

	CreatedAt   time.Time  `json:"createdAt" validate:"required"`
	UpdatedAt   time.Time  `json:"updatedAt" validate:"required"`
	CreatedHour int        `json:"createdHour" validate:"min=0,max=23"` // hour of day at creation, for time-of-day relevance
	Deadline    *time.Time `json:"deadline,omitempty"`

	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	DeferCount       int        `json:"deferCount" validate:"min=0"`
	OverdueStartDate *time.Time `json:"overdueStartDate,omitempty"` // first observation of deadline crossing; nil until then

	IsArchived bool       `json:"isArchived"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
	RevivedAt  *time.Time `json:"revivedAt,omitempty"`

	EstimatedMinutes *int       `json:"estimatedMinutes,omitempty" validate:"omitempty,min=1"`
	ActualMinutes    *int       `json:"actualMinutes,omitempty" validate:"omitempty,min=0"`
	StartedAt        *time.Time `json:"startedAt,omitempty"`

	IsRecurring        bool               `json:"isRecurring"`
	RecurringFrequency RecurringFrequency `json:"recurringFrequency,omitempty" validate:"omitempty,oneof=daily weekly biweekly monthly"`

	ParentID *string  `json:"parentId,omitempty" validate:"omitempty,uuid4"` // nil = root
	ChildIDs []string `json:"childIds,omitempty" validate:"dive,uuid4"`      // display order, maintained bidirectionally
	Depth    int      `json:"depth" validate:"min=0,max=3"`
}

// TaskPattern is a learned estimation model keyed by a set of title keywords.
// Patterns are only ever created or recomputed by the pattern learning
// engine; they are never deleted.
type TaskPattern struct {
	ID             string    `json:"id" validate:"required,uuid4"`
	Keywords       []string  `json:"keywords" validate:"required,min=1,dive,min=2"`
	AverageMinutes float64   `json:"averageMinutes" validate:"min=0"`
	SampleSize     int       `json:"sampleSize" validate:"min=1"`
	Accuracy       float64   `json:"accuracy" validate:"min=0,max=100"` // how close past estimates were to actuals
	CreatedAt      time.Time `json:"createdAt" validate:"required"`
	UpdatedAt      time.Time `json:"updatedAt" validate:"required"`
}

// TaskFile is the on-disk document: active tasks, archived tasks, and the
// learned patterns, serialized together by the persistence layer.
type TaskFile struct {
	Tasks      []Task        `json:"tasks"`
	Archived   []Task        `json:"archived,omitempty"`
	Patterns   []TaskPattern `json:"patterns,omitempty"`
	TotalCount int           `json:"totalCount"`
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}

// ValidateTask runs tag validation plus the cross-field invariants that
// struct tags cannot express.
func ValidateTask(t Task) error {
	if err := ValidateStruct(t); err != nil {
		return err
	}
	if t.IsCompleted && t.CompletedAt == nil {
		return fmt.Errorf("task %s is completed but has no completedAt", t.ID)
	}
	if !t.IsCompleted && t.CompletedAt != nil {
		return fmt.Errorf("task %s is not completed but has a completedAt", t.ID)
	}
	if t.IsArchived && t.ArchivedAt == nil {
		return fmt.Errorf("task %s is archived but has no archivedAt", t.ID)
	}
	if t.ParentID != nil && *t.ParentID == t.ID {
		return fmt.Errorf("task %s cannot be its own parent", t.ID)
	}
	if t.ParentID == nil && t.Depth != 0 {
		return fmt.Errorf("task %s has no parent but depth %d", t.ID, t.Depth)
	}
	if t.IsRecurring && t.RecurringFrequency == "" {
		return fmt.Errorf("task %s is recurring but has no frequency", t.ID)
	}
	return nil
}

// NewTask creates a root task with defaults and creation timestamps.
func NewTask(id, title string, now time.Time) *Task {
	return &Task{
		ID:          id,
		Title:       title,
		Priority:    PriorityNone,
		Energy:      EnergyMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedHour: now.Hour(),
		ParentID:    nil,
		ChildIDs:    []string{},
	}
}
