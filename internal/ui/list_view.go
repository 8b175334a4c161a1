package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/reyyanxjanbaz/tody/internal/decay"
	"github.com/reyyanxjanbaz/tody/internal/taskutil"
	"github.com/reyyanxjanbaz/tody/internal/urgency"
	"github.com/reyyanxjanbaz/tody/models"
)

// RenderSections prints the organized board, one titled block per non-empty
// section with tasks indented by hierarchy depth.
func RenderSections(sections []urgency.OrganizedSection, now time.Time) {
	for i, section := range sections {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(StyleSectionTitle.Render(section.Title))
		for _, task := range section.Tasks {
			fmt.Println(RenderTaskLine(task, now))
		}
	}
}

// RenderTaskLine formats one task row: indent, short id, title, and the
// priority and overdue annotations that apply.
func RenderTaskLine(task models.Task, now time.Time) string {
	indent := strings.Repeat("  ", task.Depth)

	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(StyleSubtle.Render(taskutil.ShortID(task.ID)))
	b.WriteString(" ")

	title := task.Title
	if decay.IsFullyDecayed(task, now) {
		title = StyleDecayed.Render(title)
	} else {
		title = StyleTitle.Render(title)
	}
	b.WriteString(title)

	if badge := priorityBadge(task.Priority); badge != "" {
		b.WriteString(" ")
		b.WriteString(badge)
	}
	if label := decay.OverdueLabel(task, now); label != "" {
		b.WriteString(" ")
		b.WriteString(StyleOverdue.Render("(" + label + ")"))
	}
	if task.DeferCount > 0 {
		b.WriteString(" ")
		b.WriteString(StyleWarning.Render(fmt.Sprintf("↻%d", task.DeferCount)))
	}
	if task.IsRecurring {
		b.WriteString(" ")
		b.WriteString(StyleSubtle.Render("⟳ " + string(task.RecurringFrequency)))
	}
	return b.String()
}

func priorityBadge(p models.TaskPriority) string {
	switch p {
	case models.PriorityHigh:
		return StylePriorityHigh.Render("[high]")
	case models.PriorityMedium:
		return StylePriorityMedium.Render("[med]")
	case models.PriorityLow:
		return StylePriorityLow.Render("[low]")
	default:
		return ""
	}
}

// RenderTaskDetails prints the full record of a single task.
func RenderTaskDetails(task models.Task, now time.Time) {
	label := func(s string) string { return StyleSubtle.Render(s + ":") }

	fmt.Println(StyleTitle.Render(task.Title))
	fmt.Println(label("ID"), task.ID)
	if task.Description != "" {
		fmt.Println(label("Description"), task.Description)
	}
	if task.Priority != models.PriorityNone {
		fmt.Println(label("Priority"), string(task.Priority))
	}
	if task.Energy != "" {
		fmt.Println(label("Energy"), string(task.Energy))
	}
	if task.Deadline != nil {
		line := task.Deadline.Local().Format("2006-01-02 15:04")
		if overdueLabel := decay.OverdueLabel(task, now); overdueLabel != "" {
			line += " " + StyleOverdue.Render("("+overdueLabel+")")
		}
		fmt.Println(label("Deadline"), line)
	}
	if task.EstimatedMinutes != nil {
		fmt.Println(label("Estimated"), fmt.Sprintf("%d min", *task.EstimatedMinutes))
	}
	if task.ActualMinutes != nil {
		fmt.Println(label("Actual"), fmt.Sprintf("%d min", *task.ActualMinutes))
	}
	if task.StartedAt != nil {
		fmt.Println(label("Started"), task.StartedAt.Local().Format("2006-01-02 15:04"))
	}
	if task.DeferCount > 0 {
		fmt.Println(label("Deferred"), fmt.Sprintf("%d times", task.DeferCount))
	}
	if task.RevivedAt != nil {
		fmt.Println(label("Revived"), task.RevivedAt.Local().Format("2006-01-02 15:04"))
	}
	if task.IsRecurring {
		fmt.Println(label("Recurs"), string(task.RecurringFrequency))
	}
	if task.IsCompleted && task.CompletedAt != nil {
		fmt.Println(label("Completed"), task.CompletedAt.Local().Format("2006-01-02 15:04"))
	}
	if task.ParentID != nil {
		fmt.Println(label("Parent"), taskutil.ShortID(*task.ParentID))
	}
	if len(task.ChildIDs) > 0 {
		shorts := make([]string, len(task.ChildIDs))
		for i, id := range task.ChildIDs {
			shorts[i] = taskutil.ShortID(id)
		}
		fmt.Println(label("Subtasks"), strings.Join(shorts, ", "))
	}
	fmt.Println(label("Urgency"), fmt.Sprintf("%.2f", urgency.Score(task, now)))
	fmt.Println(label("Created"), task.CreatedAt.Local().Format("2006-01-02 15:04"))
}

// RenderSuggestion prints an estimate suggestion with its confidence basis.
// Minutes arrive already rounded to a whole value.
func RenderSuggestion(title string, averageMinutes int, sampleSize int) {
	fmt.Printf("%s %s %s\n",
		StyleSuccess.Render("Suggested estimate for"),
		StyleTitle.Render("\""+title+"\":"),
		StyleTitle.Render(fmt.Sprintf("%d min", averageMinutes)))
	fmt.Println(StyleSubtle.Render(fmt.Sprintf("based on %d similar completed tasks", sampleSize)))
}
