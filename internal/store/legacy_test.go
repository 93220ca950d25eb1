package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLegacy(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected int
	}{
		{
			name:     "simple records",
			input:    "1;Tầng vật lý;Tầng nào truyền bit?\n2;Switch;Thiết bị nào chuyển mạch?\n",
			expected: 2,
		},
		{
			name:     "semicolons inside question are kept",
			input:    "1;a;một câu; có dấu chấm phẩy\n",
			expected: 1,
		},
		{
			name:     "malformed lines skipped",
			input:    "chỉ một trường\n1;;câu hỏi thiếu đáp án\n2;đáp án;câu hỏi\n",
			expected: 1,
		},
		{
			name:     "blank lines ignored",
			input:    "\n\n1;a;q\n\n",
			expected: 1,
		},
		{
			name:     "empty input",
			input:    "",
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := ParseLegacy(strings.NewReader(tc.input), "legacy.txt")
			if err != nil {
				t.Fatalf("ParseLegacy() returned an unexpected error: %v", err)
			}
			if len(records) != tc.expected {
				t.Fatalf("expected %d records, got %d", tc.expected, len(records))
			}
			for _, rec := range records {
				if rec.ID == "" {
					t.Errorf("legacy record should get a generated id")
				}
				if rec.Source != "legacy.txt" {
					t.Errorf("Source = %q, want legacy.txt", rec.Source)
				}
			}
		})
	}
}

func TestParseLegacyKeepsTrailingFields(t *testing.T) {
	records, err := ParseLegacy(strings.NewReader("1;a;q; phần hai\n"), "legacy.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Question != "q; phần hai" {
		t.Errorf("Question = %q, want the semicolon preserved", records[0].Question)
	}
}

func TestImportLegacy(t *testing.T) {
	s := newTestStore(t)

	src := filepath.Join(t.TempDir(), "history.txt")
	content := "1;1945;Việt Nam tuyên bố độc lập năm nào?\n2;1975;Chiến tranh kết thúc năm nào?\n"
	if err := os.WriteFile(src, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	name, n, err := s.ImportLegacy(src)
	if err != nil {
		t.Fatalf("ImportLegacy() returned an unexpected error: %v", err)
	}
	if name != "history.csv" || n != 2 {
		t.Fatalf("ImportLegacy() = (%s, %d), want (history.csv, 2)", name, n)
	}

	records, err := s.LoadBank(name)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records in imported bank, got %d", len(records))
	}

	// A second import must not overwrite the converted bank.
	if _, _, err := s.ImportLegacy(src); !errors.Is(err, ErrBankExists) {
		t.Errorf("ImportLegacy() over existing bank = %v, want ErrBankExists", err)
	}
}
