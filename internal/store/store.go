// Package store implements the question store: durable CRUD over one
// directory of CSV bank files, one file per named bank.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/flashdeck/internal/audit"
	"github.com/conorfennell/flashdeck/internal/domain"
)

const bankExt = ".csv"

var (
	ErrBankNotFound   = errors.New("bank not found")
	ErrBankExists     = errors.New("bank already exists")
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicate      = errors.New("duplicate question")
)

// header is the persisted column order. It is written on every save and
// validated on every load.
var header = []string{"id", "answer", "question", "desc", "ref"}

// Store owns the question directory. All mutations are full-bank rewrites:
// load, change in memory, save.
type Store struct {
	dir      string
	audit    *audit.Logger
	validate *validator.Validate
}

// New returns a Store over dir, creating the directory if needed.
func New(dir string, auditLog *audit.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create question directory %s: %w", dir, err)
	}
	return &Store{dir: dir, audit: auditLog, validate: validator.New()}, nil
}

// Dir returns the question directory path.
func (s *Store) Dir() string {
	return s.dir
}

// BankInfo describes one bank for listing purposes.
type BankInfo struct {
	Name  string
	Count int
}

// ListBanks enumerates the bank files in the question directory. Files
// without the bank extension are ignored.
func (s *Store) ListBanks() ([]BankInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read question directory %s: %w", s.dir, err)
	}

	var banks []BankInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), bankExt) {
			continue
		}
		name := e.Name()
		records, err := s.LoadBank(name)
		if err != nil {
			slog.Warn("skipping unreadable bank", "bank", name, "error", err)
			continue
		}
		banks = append(banks, BankInfo{Name: name, Count: len(records)})
	}
	sort.Slice(banks, func(i, j int) bool { return banks[i].Name < banks[j].Name })
	return banks, nil
}

// bankPath resolves a bank name (with or without extension) to its file path.
func (s *Store) bankPath(name string) string {
	if !strings.HasSuffix(strings.ToLower(name), bankExt) {
		name += bankExt
	}
	return filepath.Join(s.dir, name)
}

func bankName(path string) string {
	return filepath.Base(path)
}

// LoadBank parses every row of the named bank. Loading is tolerant: a
// malformed row is skipped with a warning, short rows have their optional
// fields defaulted, and a row with an empty id gets a freshly generated one.
// A single bad row never fails the whole bank.
func (s *Store) LoadBank(name string) ([]domain.Record, error) {
	path := s.bankPath(name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("bank %s: %w", name, ErrBankNotFound)
		}
		return nil, fmt.Errorf("failed to open bank %s: %w", name, err)
	}
	defer f.Close()

	return readBank(f, bankName(path))
}

// readBank parses CSV bank content, tagging each record with source.
func readBank(r io.Reader, source string) ([]domain.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", source, err)
	}
	if err := validateHeader(head); err != nil {
		return nil, fmt.Errorf("bank %s: %w", source, err)
	}

	var records []domain.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("skipping malformed row", "bank", source, "line", line, "error", err)
			continue
		}
		if len(row) < 3 || len(row) > len(header) {
			slog.Warn("skipping row with wrong field count", "bank", source, "line", line, "fields", len(row))
			continue
		}
		for len(row) < len(header) {
			row = append(row, "")
		}

		rec := domain.Record{
			ID:       strings.TrimSpace(row[0]),
			Answer:   strings.TrimSpace(row[1]),
			Question: strings.TrimSpace(row[2]),
			Desc:     strings.TrimSpace(row[3]),
			Ref:      strings.TrimSpace(row[4]),
			Source:   source,
		}
		if rec.Answer == "" && rec.Question == "" {
			slog.Warn("skipping empty row", "bank", source, "line", line)
			continue
		}
		if rec.ID == "" {
			rec.ID = domain.NewID()
			slog.Warn("row missing id, generated one", "bank", source, "line", line, "id", rec.ID)
		}
		records = append(records, rec)
	}
	return records, nil
}

func validateHeader(head []string) error {
	if len(head) < 3 {
		return fmt.Errorf("invalid header %v", head)
	}
	for i, want := range header[:3] {
		got := strings.ToLower(strings.TrimSpace(head[i]))
		// Strip a UTF-8 BOM left behind by spreadsheet tools.
		got = strings.TrimPrefix(got, "\ufeff")
		if got != want {
			return fmt.Errorf("invalid header %v: column %d is %q, want %q", head, i+1, head[i], want)
		}
	}
	return nil
}

// SaveBank rewrites the named bank with the given records. The write goes to
// a temp file in the same directory and is renamed into place, so a crash
// mid-write never loses the previous contents. Records are persisted sorted
// by (answer, question) case-insensitively; ids are written through untouched.
func (s *Store) SaveBank(name string, records []domain.Record) error {
	path := s.bankPath(name)

	sorted := make([]domain.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		ai := strings.ToLower(strings.TrimSpace(sorted[i].Answer))
		aj := strings.ToLower(strings.TrimSpace(sorted[j].Answer))
		if ai != aj {
			return ai < aj
		}
		qi := strings.ToLower(strings.TrimSpace(sorted[i].Question))
		qj := strings.ToLower(strings.TrimSpace(sorted[j].Question))
		return qi < qj
	})

	tmp, err := os.CreateTemp(s.dir, bankName(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for bank %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header for bank %s: %w", name, err)
	}
	for _, rec := range sorted {
		row := []string{rec.ID, rec.Answer, rec.Question, rec.Desc, rec.Ref}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write record %s: %w", rec.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush bank %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file for bank %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace bank %s: %w", name, err)
	}
	return nil
}

// LoadAll returns the union of every bank in the directory.
func (s *Store) LoadAll() ([]domain.Record, error) {
	banks, err := s.ListBanks()
	if err != nil {
		return nil, err
	}
	var all []domain.Record
	for _, b := range banks {
		records, err := s.LoadBank(b.Name)
		if err != nil {
			slog.Warn("skipping bank", "bank", b.Name, "error", err)
			continue
		}
		all = append(all, records...)
	}
	return all, nil
}

// CreateBank creates an empty bank file containing only the header.
func (s *Store) CreateBank(name string) error {
	path := s.bankPath(name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("bank %s: %w", name, ErrBankExists)
	}
	if err := s.SaveBank(name, nil); err != nil {
		return err
	}
	s.audit.Log("CREATE_FILE", bankName(path))
	return nil
}

// DeleteBank removes a bank file.
func (s *Store) DeleteBank(name string) error {
	path := s.bankPath(name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("bank %s: %w", name, ErrBankNotFound)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete bank %s: %w", name, err)
	}
	s.audit.Log("DELETE_FILE", bankName(path))
	return nil
}

// RenameBank renames a bank, refusing to overwrite an existing one.
func (s *Store) RenameBank(oldName, newName string) error {
	oldPath := s.bankPath(oldName)
	newPath := s.bankPath(newName)
	if _, err := os.Stat(oldPath); err != nil {
		return fmt.Errorf("bank %s: %w", oldName, ErrBankNotFound)
	}
	if _, err := os.Stat(newPath); err == nil {
		return fmt.Errorf("bank %s: %w", newName, ErrBankExists)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("failed to rename bank %s: %w", oldName, err)
	}
	s.audit.Log("RENAME_FILE", fmt.Sprintf("%s -> %s", bankName(oldPath), bankName(newPath)))
	return nil
}
