package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogWritesFormattedLine(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() returned an unexpected error: %v", err)
	}
	defer l.Close()

	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	l.now = func() time.Time { return fixed }
	l.user = "tester"

	l.Log("ADD_Q", "networking.csv | Q: Tầng nào truyền bit?")

	data, err := os.ReadFile(filepath.Join(dir, "flashdeck-2026-03-14.log"))
	if err != nil {
		t.Fatalf("expected audit file to exist: %v", err)
	}
	want := "2026-03-14 09:26:53 | tester | ADD_Q | networking.csv | Q: Tầng nào truyền bit?\n"
	if string(data) != want {
		t.Errorf("audit line = %q, want %q", string(data), want)
	}
}

func TestLogRotatesDaily(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	day1 := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	day2 := day1.Add(2 * time.Minute)

	l.now = func() time.Time { return day1 }
	l.Log("CREATE_FILE", "a.csv")
	l.now = func() time.Time { return day2 }
	l.Log("DELETE_FILE", "a.csv")

	for _, name := range []string{"flashdeck-2026-03-14.log", "flashdeck-2026-03-15.log"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestLogSwallowsFailures(t *testing.T) {
	l, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	// Point the logger at a directory that cannot be created.
	l.dir = filepath.Join(string(os.PathSeparator), "dev", "null", "nope")

	// Must not panic or surface an error.
	l.Log("ADD_Q", "whatever")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Log("ADD_Q", "no-op")
	if err := l.Close(); err != nil {
		t.Errorf("Close() on nil logger = %v, want nil", err)
	}
}

func TestCurrentUserNonEmpty(t *testing.T) {
	if strings.TrimSpace(CurrentUser()) == "" {
		t.Errorf("CurrentUser() should never be empty")
	}
}
