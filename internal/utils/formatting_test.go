package utils

import (
	"testing"
	"time"
)

func TestFormatCreatedAt(t *testing.T) {
	ms := time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local).UnixMilli()

	if got := FormatCreatedAt(ms); got != "2024-03-05 14:07:09" {
		t.Errorf("Expected '2024-03-05 14:07:09', got '%s'", got)
	}

	if got := FormatCreatedAt(0); got != "unknown" {
		t.Errorf("Expected 'unknown' for zero timestamp, got '%s'", got)
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(1, "contact", "contacts"); got != "1 contact" {
		t.Errorf("Expected '1 contact', got '%s'", got)
	}
	if got := FormatCount(0, "contact", "contacts"); got != "0 contacts" {
		t.Errorf("Expected '0 contacts', got '%s'", got)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a much longer name", 10, "a much ..."},
		{"Nguyễn Văn Anh", 8, "Nguyễ..."},
		{"abc", 2, "ab"},
		{"abc", 0, ""},
	}

	for _, tt := range tests {
		if got := TruncateString(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestPadString(t *testing.T) {
	if got := PadString("ab", 4, '.'); got != "ab.." {
		t.Errorf("Expected 'ab..', got '%s'", got)
	}
	if got := PadString("abcdef", 4, '.'); got != "abcdef" {
		t.Errorf("Expected unchanged string, got '%s'", got)
	}
}
