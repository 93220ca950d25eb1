package store

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/conorfennell/flashdeck/internal/domain"
)

// legacyDelim is the field separator of the old .txt bank format:
// one `id;answer;question` record per line.
const legacyDelim = ";"

// ParseLegacy reads legacy semicolon-delimited records from r. Lines that do
// not have at least an answer and a question are skipped with a warning;
// parsing never fails the whole input for one bad line. The legacy positional
// ids are discarded and fresh ones generated, since the old scheme reassigned
// them on every save.
func ParseLegacy(r io.Reader, source string) ([]domain.Record, error) {
	scanner := bufio.NewScanner(r)
	var records []domain.Record

	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		parts := strings.SplitN(text, legacyDelim, 3)
		if len(parts) < 3 {
			slog.Warn("skipping malformed legacy line", "source", source, "line", line)
			continue
		}
		answer := strings.TrimSpace(parts[1])
		question := strings.TrimSpace(parts[2])
		if answer == "" || question == "" {
			slog.Warn("skipping legacy line with empty fields", "source", source, "line", line)
			continue
		}
		records = append(records, domain.Record{
			ID:       domain.NewID(),
			Answer:   answer,
			Question: question,
			Source:   source,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan legacy file %s: %w", source, err)
	}
	return records, nil
}

// ImportLegacy converts a legacy .txt bank file into a CSV bank in the
// question directory, named after the file's base name. It refuses to
// overwrite an existing bank. Returns the new bank name and the number of
// imported records.
func (s *Store) ImportLegacy(path string) (string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open legacy file %s: %w", path, err)
	}
	defer f.Close()

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + bankExt

	if _, err := os.Stat(s.bankPath(name)); err == nil {
		return "", 0, fmt.Errorf("bank %s: %w", name, ErrBankExists)
	}

	records, err := ParseLegacy(f, name)
	if err != nil {
		return "", 0, err
	}
	if err := s.SaveBank(name, records); err != nil {
		return "", 0, err
	}
	s.audit.Log("IMPORT_FILE", fmt.Sprintf("%s -> %s (%d records)", base, name, len(records)))
	return name, len(records), nil
}
