package store

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/reyyanxjanbaz/tody/models"
)

// fieldNameMapping maps JSON field names to struct field names for updates.
var fieldNameMapping = map[string]string{
	"id":                 "ID",
	"title":              "Title",
	"description":        "Description",
	"priority":           "Priority",
	"energyLevel":        "Energy",
	"deadline":           "Deadline",
	"isCompleted":        "IsCompleted",
	"completedAt":        "CompletedAt",
	"deferCount":         "DeferCount",
	"overdueStartDate":   "OverdueStartDate",
	"isArchived":         "IsArchived",
	"archivedAt":         "ArchivedAt",
	"revivedAt":          "RevivedAt",
	"estimatedMinutes":   "EstimatedMinutes",
	"actualMinutes":      "ActualMinutes",
	"startedAt":          "StartedAt",
	"isRecurring":        "IsRecurring",
	"recurringFrequency": "RecurringFrequency",
	"parentId":           "ParentID",
	"childIds":           "ChildIDs",
	"createdAt":          "CreatedAt",
	"updatedAt":          "UpdatedAt",
}

// applyTaskUpdates applies a map of field updates to a copy of the task.
// Structural fields (parentId, childIds, depth) are refused so re-parenting
// cannot bypass the cycle and depth checks, and changing the deadline resets
// overdue tracking. Validation is the caller's job.
func applyTaskUpdates(task models.Task, updates map[string]interface{}, now time.Time) (models.Task, error) {
	for key, value := range updates {
		switch key {
		case "parentId", "childIds", "depth":
			return task, fmt.Errorf("field %s cannot be updated directly; use ReparentTask", key)
		}
		fieldName, ok := fieldNameMapping[key]
		if !ok {
			if len(key) > 0 {
				fieldName = strings.ToUpper(key[:1]) + key[1:]
			}
		}

		field := reflect.ValueOf(&task).Elem().FieldByName(fieldName)
		if !field.IsValid() || !field.CanSet() {
			continue
		}
		if value == nil {
			field.Set(reflect.Zero(field.Type()))
			continue
		}
		val := reflect.ValueOf(value)
		if field.Type() != val.Type() {
			converted, convErr := convertType(value, field.Type())
			if convErr != nil {
				return task, fmt.Errorf("type conversion error for field %s: %w", key, convErr)
			}
			val = converted
		}
		field.Set(val)
	}

	// A new deadline restarts the overdue clock.
	if _, ok := updates["deadline"]; ok {
		task.OverdueStartDate = nil
	}
	task.UpdatedAt = now
	return task, nil
}

// convertType converts an update value to the target field type. Strings map
// onto the enum types, and bare values onto the pointer fields.
func convertType(value interface{}, targetType reflect.Type) (reflect.Value, error) {
	if valueStr, ok := value.(string); ok {
		switch targetType {
		case reflect.TypeOf(models.TaskPriority("")):
			return reflect.ValueOf(models.TaskPriority(valueStr)), nil
		case reflect.TypeOf(models.EnergyLevel("")):
			return reflect.ValueOf(models.EnergyLevel(valueStr)), nil
		case reflect.TypeOf(models.RecurringFrequency("")):
			return reflect.ValueOf(models.RecurringFrequency(valueStr)), nil
		}
	}
	// Wrap concrete values for the optional pointer fields (*int, *time.Time, *string).
	if targetType.Kind() == reflect.Ptr && reflect.TypeOf(value) == targetType.Elem() {
		ptr := reflect.New(targetType.Elem())
		ptr.Elem().Set(reflect.ValueOf(value))
		return ptr, nil
	}
	if reflect.TypeOf(value).ConvertibleTo(targetType) {
		return reflect.ValueOf(value).Convert(targetType), nil
	}
	return reflect.Value{}, fmt.Errorf("unsupported type conversion from %v to %v", reflect.TypeOf(value), targetType)
}

// nextRecurringTask builds the follow-up task for a completed recurring
// task, advancing the deadline by the recurrence frequency from the old
// deadline when it is still in the future, otherwise from now.
func nextRecurringTask(task models.Task, now time.Time) models.Task {
	next := *models.NewTask(generateID(), task.Title, now)
	next.Description = task.Description
	next.Priority = task.Priority
	next.Energy = task.Energy
	next.EstimatedMinutes = task.EstimatedMinutes
	next.IsRecurring = true
	next.RecurringFrequency = task.RecurringFrequency

	base := now
	if task.Deadline != nil && task.Deadline.After(now) {
		base = *task.Deadline
	}
	var deadline time.Time
	switch task.RecurringFrequency {
	case models.RecurDaily:
		deadline = base.AddDate(0, 0, 1)
	case models.RecurWeekly:
		deadline = base.AddDate(0, 0, 7)
	case models.RecurBiweekly:
		deadline = base.AddDate(0, 0, 14)
	case models.RecurMonthly:
		deadline = base.AddDate(0, 1, 0)
	}
	next.Deadline = &deadline
	return next
}
