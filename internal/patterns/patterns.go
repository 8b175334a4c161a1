// Package patterns implements the pattern-learning engine: keyword extraction
// from task titles, Jaccard similarity matching, and the running-average
// estimation model fed by task completions.
//
// The pattern store is treated as a value: it is passed in and a new slice is
// returned, never mutated behind the caller's back, so the caller controls
// when (and whether) an update is persisted.
package patterns

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reyyanxjanbaz/tody/models"
)

const (
	// MatchThreshold is the minimum Jaccard similarity for two keyword sets
	// to be considered the same kind of task.
	MatchThreshold = 0.7
	// MinClusterMatches is how many prior similar completions are needed
	// (besides the triggering task) before a new pattern is formed.
	MinClusterMatches = 2
	// MinSamplesForSuggestion guards suggestions against noisy early data.
	MinSamplesForSuggestion = 5
	// defaultAccuracy is used when no cluster member carried an estimate.
	defaultAccuracy = 50
)

// stopWords are common English function words excluded from keyword extraction.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "as": true, "is": true, "was": true,
	"are": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "must": true, "can": true, "need": true, "this": true,
	"that": true, "these": true, "those": true, "it": true, "its": true,
	"my": true, "your": true, "up": true, "out": true, "if": true, "then": true,
}

// TooShortFunc judges whether an actual duration is implausibly short and
// should be excluded from the model (an accidental tap, not real work).
type TooShortFunc func(actualMinutes int) bool

// DefaultTooShort excludes anything under one minute.
func DefaultTooShort(actualMinutes int) bool {
	return actualMinutes < 1
}

// ExtractKeywords tokenizes a title into lowercase alphanumeric keywords,
// dropping stop words and single-character tokens. Order of first appearance
// is preserved; duplicates are removed.
func ExtractKeywords(title string) []string {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})

	seen := make(map[string]bool, len(fields))
	var keywords []string
	for _, w := range fields {
		if len(w) <= 1 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}
	return keywords
}

// Similarity computes the Jaccard index of two keyword sets in [0,1].
// Either set being empty yields 0.
func Similarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, w := range a {
		setA[w] = true
	}
	setB := make(map[string]bool, len(b))
	for _, w := range b {
		setB[w] = true
	}
	intersection := 0
	for w := range setB {
		if setA[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// FindMatch returns the index of the pattern most similar to the given
// keywords, provided the similarity reaches MatchThreshold. Ties keep the
// first-found pattern so matching stays stable. Returns -1 when nothing
// qualifies.
func FindMatch(keywords []string, pats []models.TaskPattern) int {
	best := -1
	bestSim := 0.0
	for i, p := range pats {
		sim := Similarity(keywords, p.Keywords)
		if sim >= MatchThreshold && sim > bestSim {
			best = i
			bestSim = sim
		}
	}
	return best
}

// Suggestion is a duration estimate derived from a learned pattern.
type Suggestion struct {
	AverageMinutes int
	SampleSize     int
}

// SuggestEstimate proposes a duration for a new task title. It only answers
// when a matching pattern has accumulated MinSamplesForSuggestion completions.
func SuggestEstimate(title string, pats []models.TaskPattern) (Suggestion, bool) {
	keywords := ExtractKeywords(title)
	if len(keywords) == 0 {
		return Suggestion{}, false
	}
	idx := FindMatch(keywords, pats)
	if idx < 0 {
		return Suggestion{}, false
	}
	p := pats[idx]
	if p.SampleSize < MinSamplesForSuggestion {
		return Suggestion{}, false
	}
	return Suggestion{
		AverageMinutes: int(math.Round(p.AverageMinutes)),
		SampleSize:     p.SampleSize,
	}, true
}

// RecordCompletion folds a finished task into the pattern store. history is
// the set of previously completed tasks, used to seed a new pattern when no
// existing one matches. The returned slice is a copy; the input is untouched.
//
// Tasks without a valid actual duration, or judged too short, never touch the
// model.
func RecordCompletion(completed models.Task, history []models.Task, pats []models.TaskPattern, tooShort TooShortFunc, now time.Time) []models.TaskPattern {
	if tooShort == nil {
		tooShort = DefaultTooShort
	}
	if completed.ActualMinutes == nil || *completed.ActualMinutes < 1 || tooShort(*completed.ActualMinutes) {
		return pats
	}
	keywords := ExtractKeywords(completed.Title)
	if len(keywords) == 0 {
		return pats
	}

	actual := float64(*completed.ActualMinutes)
	out := make([]models.TaskPattern, len(pats))
	copy(out, pats)

	if idx := FindMatch(keywords, out); idx >= 0 {
		p := out[idx]
		oldSize := float64(p.SampleSize)
		p.AverageMinutes = (p.AverageMinutes*oldSize + actual) / (oldSize + 1)
		if completed.EstimatedMinutes != nil {
			acc := accuracyScore(*completed.EstimatedMinutes, *completed.ActualMinutes)
			p.Accuracy = (p.Accuracy*oldSize + acc) / (oldSize + 1)
		}
		p.SampleSize++
		p.UpdatedAt = now
		out[idx] = p
		return out
	}

	// No pattern fits. Look for a cluster of prior similar completions.
	cluster := []models.Task{completed}
	for _, t := range history {
		if t.ID == completed.ID || !t.IsCompleted {
			continue
		}
		if t.ActualMinutes == nil || *t.ActualMinutes < 1 || tooShort(*t.ActualMinutes) {
			continue
		}
		if Similarity(keywords, ExtractKeywords(t.Title)) >= MatchThreshold {
			cluster = append(cluster, t)
		}
	}
	if len(cluster) < MinClusterMatches+1 {
		return out
	}

	var minutesSum, accSum float64
	accCount := 0
	for _, t := range cluster {
		minutesSum += float64(*t.ActualMinutes)
		if t.EstimatedMinutes != nil {
			accSum += accuracyScore(*t.EstimatedMinutes, *t.ActualMinutes)
			accCount++
		}
	}
	accuracy := float64(defaultAccuracy)
	if accCount > 0 {
		accuracy = accSum / float64(accCount)
	}

	return append(out, models.TaskPattern{
		ID:             uuid.NewString(),
		Keywords:       keywords,
		AverageMinutes: math.Round(minutesSum / float64(len(cluster))),
		SampleSize:     len(cluster),
		Accuracy:       accuracy,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

// accuracyScore grades an estimate against the actual duration on a 0–100
// scale, floored at 0.
func accuracyScore(estimated, actual int) float64 {
	diff := math.Abs(float64(estimated - actual))
	score := 100 - diff/float64(actual)*100
	if score < 0 {
		return 0
	}
	return score
}
