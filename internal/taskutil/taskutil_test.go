package taskutil

import "testing"

func TestNormalizePriorityString(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"high", "high", false},
		{"HIGH", "high", false},
		{"h", "high", false},
		{"urgent", "high", false},
		{"medium", "medium", false},
		{"med", "medium", false},
		{"m", "medium", false},
		{"low", "low", false},
		{"l", "low", false},
		{"none", "none", false},
		{"critical", "high", false},
		{"", "", false},
		{"banana", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizePriorityString(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizePriorityString(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("NormalizePriorityString(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeEnergyString(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"high", "high", false},
		{"medium", "medium", false},
		{"low", "low", false},
		{"", "", false},
		{"max", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeEnergyString(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeEnergyString(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("NormalizeEnergyString(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeFrequencyString(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"daily", "daily", false},
		{"weekly", "weekly", false},
		{"biweekly", "biweekly", false},
		{"monthly", "monthly", false},
		{"fortnightly", "biweekly", false},
		{"yearly", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeFrequencyString(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeFrequencyString(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("NormalizeFrequencyString(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("9a2b3c4d-1111-2222-3333-444455556666"); got != "9a2b3c4d" {
		t.Errorf("ShortID = %q, want 9a2b3c4d", got)
	}
	if got := ShortID("abc"); got != "abc" {
		t.Errorf("ShortID on short input = %q, want abc", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 8); got != "hello..." {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate should leave short strings alone, got %q", got)
	}
}
