// Package urgency implements the urgency score and the temporal sectioning of
// the active task list. Scores and sections are deterministic functions of a
// task and an explicit "now"; callers read the wall clock once and thread it
// through.
package urgency

import (
	"math"
	"time"

	"github.com/reyyanxjanbaz/tody/internal/decay"
	"github.com/reyyanxjanbaz/tody/models"
)

// Component weights. The four components are independently capped, then the
// defer penalty discounts the combined total only.
const (
	weightDeadline  = 0.40
	weightPriority  = 0.30
	weightAge       = 0.15
	weightTimeOfDay = 0.15

	deferPenaltyStep  = 0.05
	deferPenaltyFloor = 0.70

	ageSaturationHours = 168 // one week
)

var priorityFactor = map[models.TaskPriority]float64{
	models.PriorityHigh:   1.0,
	models.PriorityMedium: 0.6,
	models.PriorityLow:    0.3,
	models.PriorityNone:   0.05,
}

// Score computes the urgency of a task in [0,1] at the given instant.
func Score(t models.Task, now time.Time) float64 {
	score := deadlineComponent(t, now) +
		priorityComponent(t) +
		ageComponent(t, now) +
		timeOfDayComponent(t, now)

	penalty := 1 - float64(t.DeferCount)*deferPenaltyStep
	if penalty < deferPenaltyFloor {
		penalty = deferPenaltyFloor
	}
	score *= penalty

	return math.Max(0, math.Min(1, score))
}

func deadlineComponent(t models.Task, now time.Time) float64 {
	if t.Deadline == nil {
		return 0
	}
	hoursUntil := t.Deadline.Sub(now).Hours()
	switch {
	case hoursUntil < 0:
		return weightDeadline
	case hoursUntil <= 24:
		return weightDeadline * (1 - hoursUntil/24)
	case hoursUntil <= 72:
		return weightDeadline * math.Max(0, 0.5-(hoursUntil-24)/96)
	default:
		return weightDeadline * math.Max(0, 0.15-hoursUntil/1440)
	}
}

func priorityComponent(t models.Task) float64 {
	return weightPriority * priorityFactor[t.Priority]
}

func ageComponent(t models.Task, now time.Time) float64 {
	ageHours := now.Sub(t.CreatedAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	return weightAge * math.Min(1, ageHours/ageSaturationHours)
}

// timeOfDayComponent rewards tasks being viewed in the same half of the day
// they were created in: morning tasks surface in the morning.
func timeOfDayComponent(t models.Task, now time.Time) float64 {
	morningNow := now.Hour() < 12
	morningCreated := t.CreatedHour < 12
	if morningNow == morningCreated {
		return weightTimeOfDay
	}
	return 0.05
}

// SectionKey identifies one of the five temporal buckets.
type SectionKey string

const (
	SectionOverdue SectionKey = "overdue"
	SectionNow     SectionKey = "now"
	SectionNext    SectionKey = "next"
	SectionLater   SectionKey = "later"
	SectionSomeday SectionKey = "someday"
)

// sectionOrder is the fixed display order.
var sectionOrder = []SectionKey{SectionOverdue, SectionNow, SectionNext, SectionLater, SectionSomeday}

var sectionTitles = map[SectionKey]string{
	SectionOverdue: "CARRY FORWARD",
	SectionNow:     "TODAY",
	SectionNext:    "NEXT FEW DAYS",
	SectionLater:   "LATER",
	SectionSomeday: "SOMEDAY",
}

// Title returns the display title for a section.
func (k SectionKey) Title() string {
	return sectionTitles[k]
}

// Section buckets a task by the whole-day difference between its deadline and
// today. No deadline lands in someday.
func Section(t models.Task, now time.Time) SectionKey {
	if t.Deadline == nil {
		return SectionSomeday
	}
	days := decay.WholeDaysBetween(now, *t.Deadline)
	switch {
	case days < 0:
		return SectionOverdue
	case days == 0:
		return SectionNow
	case days <= 3:
		return SectionNext
	default:
		return SectionLater
	}
}
