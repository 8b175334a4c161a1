package urgency

import (
	"sort"
	"time"

	"github.com/reyyanxjanbaz/tody/internal/hierarchy"
	"github.com/reyyanxjanbaz/tody/models"
)

// OrganizedSection is one titled bucket of the organized view.
type OrganizedSection struct {
	Key   SectionKey
	Title string
	Tasks []models.Task
}

// Organize builds the ranked, sectioned view of the active list. Only
// incomplete, non-archived tasks appear. A task is always bucketed and ranked
// by its root ancestor so whole subtask trees move together: the root's
// deadline picks the section and the root's urgency score sets the primary
// order. Within one root, parents come before children (depth ascending, then
// creation time). Empty sections are omitted.
func Organize(all map[string]models.Task, now time.Time) []OrganizedSection {
	type entry struct {
		task      models.Task
		rootID    string
		rootScore float64
		rootBorn  time.Time
	}

	buckets := make(map[SectionKey][]entry)
	for _, t := range all {
		if t.IsCompleted || t.IsArchived {
			continue
		}
		root := hierarchy.RootAncestor(t, all)
		key := Section(root, now)
		buckets[key] = append(buckets[key], entry{
			task:      t,
			rootID:    root.ID,
			rootScore: Score(root, now),
			rootBorn:  root.CreatedAt,
		})
	}

	var out []OrganizedSection
	for _, key := range sectionOrder {
		entries := buckets[key]
		if len(entries) == 0 {
			continue
		}
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i], entries[j]
			if a.rootID != b.rootID {
				if a.rootScore != b.rootScore {
					return a.rootScore > b.rootScore
				}
				// Equal scores: keep trees contiguous and deterministic.
				if !a.rootBorn.Equal(b.rootBorn) {
					return a.rootBorn.Before(b.rootBorn)
				}
				return a.rootID < b.rootID
			}
			if a.task.Depth != b.task.Depth {
				return a.task.Depth < b.task.Depth
			}
			if !a.task.CreatedAt.Equal(b.task.CreatedAt) {
				return a.task.CreatedAt.Before(b.task.CreatedAt)
			}
			return a.task.ID < b.task.ID
		})

		tasks := make([]models.Task, len(entries))
		for i, e := range entries {
			tasks[i] = e.task
		}
		out = append(out, OrganizedSection{Key: key, Title: key.Title(), Tasks: tasks})
	}
	return out
}
