package cmd

import (
	"testing"
	"time"

	"github.com/reyyanxjanbaz/tody/internal/decay"
)

func TestParseDeadline(t *testing.T) {
	now := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"today", decay.EndOfDay(now), false},
		{"Tomorrow", decay.EndOfDay(now.AddDate(0, 0, 1)), false},
		{"2025-07-01 09:15", time.Date(2025, 7, 1, 9, 15, 0, 0, time.UTC), false},
		{"2025-07-01", decay.EndOfDay(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)), false},
		{"next tuesday", time.Time{}, true},
		{"", time.Time{}, true},
	}
	for _, tt := range tests {
		got, err := parseDeadline(tt.input, now)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDeadline(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("parseDeadline(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
