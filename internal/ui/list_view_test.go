package ui

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/reyyanxjanbaz/tody/internal/patterns"
	"github.com/reyyanxjanbaz/tody/models"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe failed: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	_ = w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read captured output: %v", err)
	}
	return string(out)
}

func TestRenderSuggestionUsesPatternAverages(t *testing.T) {
	suggestion := patterns.Suggestion{AverageMinutes: 12, SampleSize: 5}

	out := captureStdout(t, func() {
		RenderSuggestion("Write report", suggestion.AverageMinutes, suggestion.SampleSize)
	})

	if !strings.Contains(out, "12 min") {
		t.Errorf("output should carry the suggested minutes, got %q", out)
	}
	if !strings.Contains(out, "5 similar completed tasks") {
		t.Errorf("output should carry the sample size, got %q", out)
	}
}

func TestRenderTaskLineAnnotations(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(-49 * time.Hour)

	task := *models.NewTask("9a2b3c4d-1111-2222-3333-444455556666", "Pay rent", now.Add(-72*time.Hour))
	task.Priority = models.PriorityHigh
	task.Deadline = &deadline
	task.DeferCount = 2

	line := RenderTaskLine(task, now)
	for _, want := range []string{"9a2b3c4d", "Pay rent", "[high]", "2 days ago", "↻2"} {
		if !strings.Contains(line, want) {
			t.Errorf("line missing %q: %q", want, line)
		}
	}
}
