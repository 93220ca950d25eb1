package domain

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		parts    []string
		expected string
	}{
		{
			name:     "lowercases and trims",
			parts:    []string{"  Tầng Vật Lý  ", "Tầng nào truyền bit?"},
			expected: "tầng vật lý\ntầng nào truyền bit?",
		},
		{
			name:     "normalizes CRLF",
			parts:    []string{"line one\r\nline two", "q"},
			expected: "line one\nline two\nq",
		},
		{
			name:     "empty parts keep separators",
			parts:    []string{"", "question"},
			expected: "\nquestion",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.parts...)
			if got != tc.expected {
				t.Errorf("Normalize() = %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestKey(t *testing.T) {
	base := Key("Tầng vật lý", "Tầng nào truyền bit?")

	if base == "" || len(base) != 64 {
		t.Fatalf("Key() should be a 64-char hex string, got %q", base)
	}

	sameDifferentCase := Key("TẦNG VẬT LÝ", "  tầng nào truyền bit?  ")
	if sameDifferentCase != base {
		t.Errorf("Key() should be case and whitespace insensitive")
	}

	different := Key("Tầng liên kết", "Tầng nào truyền bit?")
	if different == base {
		t.Errorf("Key() should differ for a different answer")
	}

	swapped := Key("Tầng nào truyền bit?", "Tầng vật lý")
	if swapped == base {
		t.Errorf("Key() should depend on field order")
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Fatalf("NewID() returned the same value twice: %s", a)
	}
	if strings.Count(a, "-") != 4 {
		t.Errorf("NewID() = %q, expected a UUID", a)
	}
}
