// Package decay implements per-task overdue aging: the
// Fresh → Overdue → Decayed → Archived progression, the overdue back-fill run
// at session start, and the revive path back to an active state.
//
// Archival is the only terminal state and is never automatic; it happens only
// through an explicit archive action over the currently decayed tasks.
package decay

import (
	"fmt"
	"time"

	"github.com/reyyanxjanbaz/tody/models"
)

// DecayDays is how many whole days past the deadline an incomplete task must
// sit before it is eligible for archival.
const DecayDays = 7

// State is a task's position in the decay lifecycle.
type State int

const (
	StateFresh State = iota
	StateOverdue
	StateDecayed
	StateArchived
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateOverdue:
		return "overdue"
	case StateDecayed:
		return "decayed"
	case StateArchived:
		return "archived"
	}
	return "unknown"
}

// StateOf classifies a task at the given instant. Completed tasks and tasks
// without a deadline never decay.
func StateOf(t models.Task, now time.Time) State {
	if t.IsArchived {
		return StateArchived
	}
	if IsFullyDecayed(t, now) {
		return StateDecayed
	}
	if IsOverdue(t, now) {
		return StateOverdue
	}
	return StateFresh
}

// IsOverdue reports whether an incomplete task's deadline has passed.
func IsOverdue(t models.Task, now time.Time) bool {
	if t.IsCompleted || t.IsArchived || t.Deadline == nil {
		return false
	}
	return now.After(*t.Deadline)
}

// IsFullyDecayed reports whether a task has been overdue long enough to be
// archive-eligible. The overdue clock starts at OverdueStartDate when the
// crossing was recorded, falling back to the deadline itself.
func IsFullyDecayed(t models.Task, now time.Time) bool {
	if t.IsArchived || t.IsCompleted || t.Deadline == nil {
		return false
	}
	start := t.Deadline
	if t.OverdueStartDate != nil {
		start = t.OverdueStartDate
	}
	return now.Sub(*start) >= DecayDays*24*time.Hour
}

// MarkOverdueStarts back-fills OverdueStartDate for every task observed past
// its deadline without one, recording the deadline itself as the start of the
// overdue period. Idempotent: tasks that already carry a start date are left
// alone. This is also the initialization pass run at session start, covering
// tasks that crossed their deadline while the system was not running.
// Returns the updated collection and how many tasks were stamped.
func MarkOverdueStarts(all map[string]models.Task, now time.Time) (map[string]models.Task, int) {
	updated := make(map[string]models.Task, len(all))
	stamped := 0
	for id, t := range all {
		if IsOverdue(t, now) && t.OverdueStartDate == nil {
			start := *t.Deadline
			t.OverdueStartDate = &start
			t.UpdatedAt = now
			stamped++
		}
		updated[id] = t
	}
	return updated, stamped
}

// ArchiveDecayed snapshots every fully decayed task, marks it archived, and
// splits it out of the active collection. The returned archived slice is what
// the caller moves into the archived store.
func ArchiveDecayed(all map[string]models.Task, now time.Time) (map[string]models.Task, []models.Task) {
	active := make(map[string]models.Task, len(all))
	var archived []models.Task
	for id, t := range all {
		if IsFullyDecayed(t, now) {
			t.IsArchived = true
			archivedAt := now
			t.ArchivedAt = &archivedAt
			t.UpdatedAt = now
			archived = append(archived, t)
			continue
		}
		active[id] = t
	}
	return active, archived
}

// Revive returns a task to an active state: overdue tracking and archival are
// cleared, the revival is stamped, and a fresh deadline is set at the end of
// the current day.
func Revive(t models.Task, now time.Time) models.Task {
	deadline := EndOfDay(now)
	t.Deadline = &deadline
	t.OverdueStartDate = nil
	t.IsArchived = false
	t.ArchivedAt = nil
	revivedAt := now
	t.RevivedAt = &revivedAt
	t.UpdatedAt = now
	return t
}

// OverdueLabel derives the gentle "N days ago" label by whole-day difference
// between now and the deadline. A task overdue by hours but not a full
// calendar day gets an empty label.
func OverdueLabel(t models.Task, now time.Time) string {
	if t.Deadline == nil || t.IsCompleted {
		return ""
	}
	days := WholeDaysBetween(*t.Deadline, now)
	switch {
	case days <= 0:
		return ""
	case days == 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// WholeDaysBetween counts calendar days from a to b in b's location.
// Negative when a is after b.
func WholeDaysBetween(a, b time.Time) int {
	loc := b.Location()
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.Date()
	aDay := time.Date(ay, am, ad, 0, 0, 0, 0, loc)
	bDay := time.Date(by, bm, bd, 0, 0, 0, 0, loc)
	return int(bDay.Sub(aDay) / (24 * time.Hour))
}

// EndOfDay returns the last second of the day containing now.
func EndOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, now.Location())
}
