package domain

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize concatenates the given parts after cleaning each one.
// It trims whitespace, lowercases, and normalizes line endings per part
// before joining them.
func Normalize(parts ...string) string {
	cleaned := make([]string, len(parts))
	for i, part := range parts {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		cleaned[i] = p
	}

	// Join with a newline to keep the fields separated, so "question" and
	// "answer" can never collapse into "questionanswer".
	return strings.Join(cleaned, "\n")
}

// Key returns the identity key used for duplicate detection: the SHA-256 of
// the normalized (answer, question) pair as a hex string. Two records with
// the same key are considered the same flashcard regardless of case or
// surrounding whitespace.
func Key(answer, question string) string {
	normalized := Normalize(answer, question)
	hashBytes := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", hashBytes)
}
