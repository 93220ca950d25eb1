package render

import (
	"strings"
	"testing"
)

func TestExpand(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text untouched",
			input:    "Tầng vật lý",
			expected: "Tầng vật lý",
		},
		{
			name:     "color token becomes escape",
			input:    "{RED}sai{RESET}",
			expected: "\x1b[31msai\x1b[0m",
		},
		{
			name:     "escapes become characters",
			input:    `dòng một\ndòng hai`,
			expected: "dòng một\ndòng hai",
		},
		{
			name:     "unknown token left visible",
			input:    "{NOPE}text",
			expected: "{NOPE}text",
		},
		{
			name:     "backslash marker",
			input:    `C:{BACKSLASH}Windows`,
			expected: `C:\Windows`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Expand(tc.input); got != tc.expected {
				t.Errorf("Expand(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestStrip(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tokens removed",
			input:    "{BRIGHT_GREEN}Tầng vật lý{RESET}",
			expected: "Tầng vật lý",
		},
		{
			name:     "whitespace trimmed",
			input:    "  {CYAN} Switch {RESET}  ",
			expected: "Switch",
		},
		{
			name:     "unknown token kept",
			input:    "{NOPE}x",
			expected: "{NOPE}x",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Strip(tc.input); got != tc.expected {
				t.Errorf("Strip(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestProgressBar(t *testing.T) {
	bar := ProgressBar(50, 30)
	if !strings.HasPrefix(bar, "[") || !strings.Contains(bar, "50.0%") {
		t.Errorf("ProgressBar(50, 30) = %q", bar)
	}
	if strings.Count(bar, "=") != 15 {
		t.Errorf("expected 15 filled cells, got %d in %q", strings.Count(bar, "="), bar)
	}

	if got := ProgressBar(150, 10); strings.Count(got, "=") != 10 {
		t.Errorf("percent should clamp at 100: %q", got)
	}
	if got := ProgressBar(-5, 10); strings.Count(got, "=") != 0 {
		t.Errorf("percent should clamp at 0: %q", got)
	}
}
