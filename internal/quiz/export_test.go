package quiz

import (
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/conorfennell/flashdeck/internal/domain"
)

func sampleReport(results int) domain.Report {
	var rs []domain.Result
	for i := 1; i <= results; i++ {
		rs = append(rs, domain.Result{
			Index:    i,
			Question: "câu hỏi",
			Chosen:   "đáp án",
			Correct:  "đáp án",
			OK:       i%2 == 1,
		})
	}
	return domain.NewReport(
		time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		"tester", "net.csv", rs,
	)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	rep := sampleReport(3)

	path, err := Export(dir, rep)
	if err != nil {
		t.Fatalf("Export() returned an unexpected error: %v", err)
	}
	if !strings.HasSuffix(path, "quiz_results_20260314_092653.csv") {
		t.Errorf("export path = %q, want the session timestamp in the name", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	meta := map[string]string{}
	for _, row := range rows[:7] {
		if len(row) == 2 {
			meta[row[0]] = row[1]
		}
	}
	if meta["total_questions"] != "3" || meta["user"] != "tester" {
		t.Errorf("metadata block = %v", meta)
	}
	if meta["score"] != "2" || meta["wrong"] != "1" {
		t.Errorf("score/wrong = %s/%s, want 2/1", meta["score"], meta["wrong"])
	}

	// The csv reader skips the blank separator line, so the detail header
	// comes right after the seven metadata rows, then one row per result.
	header := rows[7]
	if strings.Join(header, ",") != "idx,question,chosen,correct,ok,desc,reference" {
		t.Errorf("detail header = %v", header)
	}
	detail := rows[8:]
	if len(detail) != 3 {
		t.Fatalf("expected 3 detail rows, got %d", len(detail))
	}
}

func TestExportAbortedSessionRowCount(t *testing.T) {
	for _, k := range []int{0, 1, 4} {
		rep := sampleReport(k)
		path, err := Export(t.TempDir(), rep)
		if err != nil {
			t.Fatalf("Export() returned an unexpected error: %v", err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		f.Close()
		if err != nil {
			t.Fatal(err)
		}
		// 7 metadata rows + the detail header; the blank separator is
		// skipped by the csv reader.
		if got := len(rows) - 8; got != k {
			t.Errorf("aborted session with %d answers exported %d detail rows", k, got)
		}
	}
}
