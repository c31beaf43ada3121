package cmd

import "testing"

func TestShortID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"abc", "abc"},
		{"123456789012", "123456789012"},
		{"1234567890123", "123456789012…"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := shortID(tt.id); got != tt.want {
			t.Errorf("shortID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	// A valid RFC3339 stamp renders as HH:MM in local time; anything
	// else passes through untouched.
	if got := formatTimestamp("not-a-time"); got != "not-a-time" {
		t.Errorf("formatTimestamp passthrough = %q", got)
	}
	got := formatTimestamp("2024-06-01T12:30:00Z")
	if len(got) != 5 || got[2] != ':' {
		t.Errorf("formatTimestamp = %q, want HH:MM", got)
	}
}
