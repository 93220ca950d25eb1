package gitsource

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocalPathFor(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		expected string
		wantErr  bool
	}{
		{
			name:     "https url",
			url:      "https://github.com/acme/decks.git",
			expected: filepath.Join("repos", "github.com", "acme", "decks"),
		},
		{
			name:     "https url without suffix",
			url:      "https://github.com/acme/decks",
			expected: filepath.Join("repos", "github.com", "acme", "decks"),
		},
		{
			name:     "scp style url",
			url:      "git@github.com:acme/decks.git",
			expected: filepath.Join("repos", "github.com", "acme", "decks"),
		},
		{
			name:    "garbage",
			url:     "not a url at all",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := localPathFor("repos", tc.url)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("localPathFor(%q) should fail", tc.url)
				}
				return
			}
			if err != nil {
				t.Fatalf("localPathFor(%q) returned an unexpected error: %v", tc.url, err)
			}
			if got != tc.expected {
				t.Errorf("localPathFor(%q) = %q, want %q", tc.url, got, tc.expected)
			}
		})
	}
}

func TestReconcile(t *testing.T) {
	repo := t.TempDir()
	questions := t.TempDir()

	write := func(dir, name, content string) {
		t.Helper()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write(repo, "net.csv", "id,answer,question,desc,ref\n1,a,q,,\n")
	write(filepath.Join(repo, "sub"), "osi.csv", "id,answer,question,desc,ref\n")
	write(repo, "README.md", "not a bank")
	write(filepath.Join(repo, ".git"), "config", "gitdata")
	write(questions, "local.csv", "id,answer,question,desc,ref\n")

	added, updated, err := Reconcile(repo, questions)
	if err != nil {
		t.Fatalf("Reconcile() returned an unexpected error: %v", err)
	}
	if added != 2 || updated != 0 {
		t.Fatalf("Reconcile() = (%d added, %d updated), want (2, 0)", added, updated)
	}

	for _, name := range []string{"net.csv", "osi.csv", "local.csv"} {
		if _, err := os.Stat(filepath.Join(questions, name)); err != nil {
			t.Errorf("expected %s in question directory: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(questions, "README.md")); err == nil {
		t.Errorf("non-bank files must not be copied")
	}
	if _, err := os.Stat(filepath.Join(questions, "config")); err == nil {
		t.Errorf(".git contents must be skipped")
	}

	// Second run with identical content changes nothing.
	added, updated, err = Reconcile(repo, questions)
	if err != nil {
		t.Fatal(err)
	}
	if added != 0 || updated != 0 {
		t.Errorf("idempotent run = (%d, %d), want (0, 0)", added, updated)
	}

	// Changed remote content counts as an update.
	write(repo, "net.csv", "id,answer,question,desc,ref\n1,a2,q,,\n")
	added, updated, err = Reconcile(repo, questions)
	if err != nil {
		t.Fatal(err)
	}
	if added != 0 || updated != 1 {
		t.Errorf("changed bank run = (%d, %d), want (0, 1)", added, updated)
	}
}
