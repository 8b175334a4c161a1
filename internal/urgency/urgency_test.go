package urgency

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reyyanxjanbaz/tody/models"
)

var now = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

func newTask(t *testing.T, title string) models.Task {
	t.Helper()
	return *models.NewTask(uuid.NewString(), title, now.Add(-time.Hour))
}

func TestScoreBounds(t *testing.T) {
	// Maximal inputs: overdue, high priority, old, matching time of day.
	task := newTask(t, "max")
	task.Priority = models.PriorityHigh
	task.CreatedAt = now.Add(-14 * 24 * time.Hour)
	task.CreatedHour = 9
	deadline := now.Add(-time.Hour)
	task.Deadline = &deadline

	score := Score(task, now)
	if score < 0 || score > 1 {
		t.Fatalf("score %f out of [0,1]", score)
	}
	if score < 0.9 {
		t.Errorf("maximal task score = %f, want close to 1", score)
	}

	// Minimal inputs: no deadline, no priority, brand new, mismatched hour.
	task = newTask(t, "min")
	task.CreatedAt = now
	task.CreatedHour = 20
	score = Score(task, now)
	if score < 0 || score > 1 {
		t.Fatalf("score %f out of [0,1]", score)
	}
	if score > 0.2 {
		t.Errorf("minimal task score = %f, want near 0", score)
	}
}

func TestScoreDeadlineMonotonicNearTerm(t *testing.T) {
	// Within the last 24 hours a closer deadline never scores lower.
	prev := -1.0
	for _, hours := range []float64{24, 18, 12, 6, 1, -1} {
		task := newTask(t, "due")
		deadline := now.Add(time.Duration(hours * float64(time.Hour)))
		task.Deadline = &deadline
		score := Score(task, now)
		if score < prev {
			t.Errorf("score fell from %f to %f as the deadline got closer (%v hours)", prev, score, hours)
		}
		prev = score
	}
}

func TestScoreDeferPenalty(t *testing.T) {
	base := newTask(t, "deferred")
	deadline := now.Add(2 * time.Hour)
	base.Deadline = &deadline
	base.Priority = models.PriorityHigh

	prev := Score(base, now)
	for deferCount := 1; deferCount <= 10; deferCount++ {
		task := base
		task.DeferCount = deferCount
		score := Score(task, now)
		if score > prev {
			t.Errorf("defer %d raised the score (%f -> %f)", deferCount, prev, score)
		}
		prev = score
	}

	// The penalty floors at 70% of the undeferred score.
	task := base
	task.DeferCount = 100
	floor := Score(base, now) * 0.7
	got := Score(task, now)
	if diff := got - floor; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("heavily deferred score = %f, want floor %f", got, floor)
	}
}

func TestScorePriorityOrder(t *testing.T) {
	priorities := []models.TaskPriority{
		models.PriorityNone, models.PriorityLow, models.PriorityMedium, models.PriorityHigh,
	}
	prev := -1.0
	for _, p := range priorities {
		task := newTask(t, "prio")
		task.Priority = p
		score := Score(task, now)
		if score <= prev {
			t.Errorf("priority %s did not raise the score (%f <= %f)", p, score, prev)
		}
		prev = score
	}
}

func TestSection(t *testing.T) {
	tests := []struct {
		name     string
		deadline *time.Time
		want     SectionKey
	}{
		{"no deadline", nil, SectionSomeday},
		{"yesterday", ptr(now.Add(-24 * time.Hour)), SectionOverdue},
		{"later today", ptr(now.Add(8 * time.Hour)), SectionNow},
		{"in two days", ptr(now.Add(2 * 24 * time.Hour)), SectionNext},
		{"in three days", ptr(now.Add(3 * 24 * time.Hour)), SectionNext},
		{"next week", ptr(now.Add(7 * 24 * time.Hour)), SectionLater},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := newTask(t, "x")
			task.Deadline = tt.deadline
			if got := Section(task, now); got != tt.want {
				t.Errorf("Section = %v, want %v", got, tt.want)
			}
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }

func TestSectionTitles(t *testing.T) {
	want := map[SectionKey]string{
		SectionOverdue: "CARRY FORWARD",
		SectionNow:     "TODAY",
		SectionNext:    "NEXT FEW DAYS",
		SectionLater:   "LATER",
		SectionSomeday: "SOMEDAY",
	}
	for key, title := range want {
		if key.Title() != title {
			t.Errorf("%v title = %q, want %q", key, key.Title(), title)
		}
	}
}

func TestOrganizeGroupsSubtreeByRoot(t *testing.T) {
	// Root due today, child due next week: the child follows the root into
	// TODAY because sectioning goes by the root ancestor.
	root := newTask(t, "root")
	rootDeadline := now.Add(6 * time.Hour)
	root.Deadline = &rootDeadline

	child := newTask(t, "child")
	childDeadline := now.Add(7 * 24 * time.Hour)
	child.Deadline = &childDeadline
	pid := root.ID
	child.ParentID = &pid
	child.Depth = 1
	root.ChildIDs = []string{child.ID}

	all := map[string]models.Task{root.ID: root, child.ID: child}
	sections := Organize(all, now)

	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	if sections[0].Key != SectionNow {
		t.Errorf("section = %v, want %v", sections[0].Key, SectionNow)
	}
	if len(sections[0].Tasks) != 2 {
		t.Fatalf("section holds %d tasks, want 2", len(sections[0].Tasks))
	}
	if sections[0].Tasks[0].ID != root.ID {
		t.Error("parent must come before its child")
	}
}

func TestOrganizeNoDropNoDuplicate(t *testing.T) {
	all := make(map[string]models.Task)
	deadlines := []*time.Time{
		nil,
		ptr(now.Add(-48 * time.Hour)),
		ptr(now.Add(4 * time.Hour)),
		ptr(now.Add(2 * 24 * time.Hour)),
		ptr(now.Add(10 * 24 * time.Hour)),
	}
	for i, d := range deadlines {
		task := newTask(t, "t")
		task.CreatedAt = now.Add(time.Duration(-i) * time.Hour)
		task.Deadline = d
		all[task.ID] = task
	}
	// Completed and archived tasks are excluded from the board.
	done := newTask(t, "done")
	done.IsCompleted = true
	completedAt := now
	done.CompletedAt = &completedAt
	all[done.ID] = done

	sections := Organize(all, now)
	seen := make(map[string]int)
	total := 0
	for _, s := range sections {
		if len(s.Tasks) == 0 {
			t.Errorf("section %v is empty but was emitted", s.Key)
		}
		for _, task := range s.Tasks {
			seen[task.ID]++
			total++
		}
	}
	if total != len(deadlines) {
		t.Errorf("board shows %d tasks, want %d", total, len(deadlines))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("task %s appears %d times", id, n)
		}
	}
	if _, ok := seen[done.ID]; ok {
		t.Error("completed task must not appear")
	}
}

func TestOrganizeRanksByScoreWithinSection(t *testing.T) {
	low := newTask(t, "low")
	lowDeadline := now.Add(5 * time.Hour)
	low.Deadline = &lowDeadline
	low.Priority = models.PriorityLow

	high := newTask(t, "high")
	highDeadline := now.Add(5 * time.Hour)
	high.Deadline = &highDeadline
	high.Priority = models.PriorityHigh

	all := map[string]models.Task{low.ID: low, high.ID: high}
	sections := Organize(all, now)
	if len(sections) != 1 || len(sections[0].Tasks) != 2 {
		t.Fatalf("unexpected sections shape")
	}
	if sections[0].Tasks[0].ID != high.ID {
		t.Error("higher-scoring task should come first")
	}
}
