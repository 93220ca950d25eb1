package domain

import (
	"time"

	"github.com/google/uuid"
)

// Record represents a single question entry in a bank.
type Record struct {
	ID       string
	Answer   string
	Question string
	Desc     string
	Ref      string
	// Source is the bank file the record was loaded from. It is derived at
	// load time and never written back to disk.
	Source string
}

// NewID returns a fresh identifier for a record.
func NewID() string {
	return uuid.NewString()
}

// Result records the outcome of one presented question.
type Result struct {
	Index    int
	Question string
	Chosen   string
	Correct  string
	OK       bool
	Desc     string
	Ref      string
}

// Report summarises a finished (or aborted) quiz session.
type Report struct {
	StartedAt time.Time
	User      string
	Bank      string
	Total     int
	Score     int
	Wrong     int
	Percent   float64
	Results   []Result
}

// NewReport builds a Report from accumulated results.
func NewReport(startedAt time.Time, user, bank string, results []Result) Report {
	score := 0
	for _, r := range results {
		if r.OK {
			score++
		}
	}
	total := len(results)
	percent := 0.0
	if total > 0 {
		percent = float64(score) / float64(total) * 100
	}
	return Report{
		StartedAt: startedAt,
		User:      user,
		Bank:      bank,
		Total:     total,
		Score:     score,
		Wrong:     total - score,
		Percent:   percent,
		Results:   results,
	}
}
