package taskutil

import (
	"fmt"
	"strings"

	"github.com/reyyanxjanbaz/tody/models"
)

// NormalizePriorityString maps common inputs and typos to canonical priorities.
// Returns one of: none, low, medium, high. Empty input stays empty.
func NormalizePriorityString(input string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", nil
	}

	switch s {
	case "none", "low", "medium", "high":
		return s, nil
	case "no", "n", "-":
		return "none", nil
	case "lo", "l", "minor":
		return "low", nil
	case "med", "m", "normal", "regular":
		return "medium", nil
	case "hi", "h", "important", "imp", "urgent", "critical", "asap", "p1":
		return "high", nil
	case "p2", "p3":
		return "medium", nil
	case "p4", "p5":
		return "low", nil
	}

	return "", fmt.Errorf("unknown priority '%s'", input)
}

// NormalizeEnergyString maps common inputs to canonical energy levels.
// Returns one of: low, medium, high. Empty input stays empty.
func NormalizeEnergyString(input string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", nil
	}

	switch s {
	case "low", "medium", "high":
		return s, nil
	case "lo", "l", "light", "easy":
		return "low", nil
	case "med", "m", "normal":
		return "medium", nil
	case "hi", "h", "deep", "focus", "hard":
		return "high", nil
	}

	return "", fmt.Errorf("unknown energy level '%s'", input)
}

// NormalizeFrequencyString maps common inputs to canonical recurrence
// frequencies. Returns one of: daily, weekly, biweekly, monthly. Empty input
// stays empty.
func NormalizeFrequencyString(input string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", nil
	}

	switch s {
	case "daily", "weekly", "biweekly", "monthly":
		return s, nil
	case "day", "d", "everyday":
		return "daily", nil
	case "week", "w":
		return "weekly", nil
	case "biweek", "fortnightly", "2w":
		return "biweekly", nil
	case "month", "mo":
		return "monthly", nil
	}

	return "", fmt.Errorf("unknown recurrence frequency '%s'", input)
}

// ShortID returns the first 8 characters of a UUID-like string for display purposes.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// PriorityToInt maps priorities to sortable integer weights (higher = more urgent).
func PriorityToInt(p models.TaskPriority) int {
	switch p {
	case models.PriorityHigh:
		return 3
	case models.PriorityMedium:
		return 2
	case models.PriorityLow:
		return 1
	default:
		return 0
	}
}

// Truncate shortens s to max characters, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		if len(s) <= max {
			return s
		}
		return s[:max]
	}
	return s[:max-3] + "..."
}
