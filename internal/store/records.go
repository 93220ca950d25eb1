package store

import (
	"fmt"
	"strings"

	"github.com/conorfennell/flashdeck/internal/domain"
)

// recordInput is what add/update flows must satisfy before a record is
// persisted: answer and question are never both allowed to be empty, and we
// go further and require each individually.
type recordInput struct {
	Answer   string `validate:"required"`
	Question string `validate:"required"`
}

func (s *Store) validateRecord(rec domain.Record) error {
	in := recordInput{
		Answer:   strings.TrimSpace(rec.Answer),
		Question: strings.TrimSpace(rec.Question),
	}
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}
	return nil
}

// AddRecord validates rec, rejects case-insensitive (question, answer)
// duplicates, assigns an id if missing, and persists the bank. The stored
// record is returned.
func (s *Store) AddRecord(bank string, rec domain.Record) (domain.Record, error) {
	if err := s.validateRecord(rec); err != nil {
		return domain.Record{}, err
	}

	records, err := s.LoadBank(bank)
	if err != nil {
		return domain.Record{}, err
	}

	key := domain.Key(rec.Answer, rec.Question)
	for _, old := range records {
		if domain.Key(old.Answer, old.Question) == key {
			return domain.Record{}, fmt.Errorf("record %q / %q: %w", rec.Question, rec.Answer, ErrDuplicate)
		}
	}

	if rec.ID == "" {
		rec.ID = domain.NewID()
	}
	rec.Source = bankName(s.bankPath(bank))

	records = append(records, rec)
	if err := s.SaveBank(bank, records); err != nil {
		return domain.Record{}, err
	}
	s.audit.Log("ADD_Q", fmt.Sprintf("%s | Q: %s", rec.Source, rec.Question))
	return rec, nil
}

// UpdateRecord replaces the record with rec.ID in the bank. The id itself is
// never changed.
func (s *Store) UpdateRecord(bank string, rec domain.Record) error {
	if err := s.validateRecord(rec); err != nil {
		return err
	}

	records, err := s.LoadBank(bank)
	if err != nil {
		return err
	}

	found := false
	for i, old := range records {
		if old.ID == rec.ID {
			rec.Source = old.Source
			records[i] = rec
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("record %s: %w", rec.ID, ErrRecordNotFound)
	}

	if err := s.SaveBank(bank, records); err != nil {
		return err
	}
	s.audit.Log("EDIT_Q", fmt.Sprintf("%s | Q: %s", bankName(s.bankPath(bank)), rec.Question))
	return nil
}

// UpdateField sets a single field of the record with the given id. Field is
// one of "question", "answer", "desc", "ref". Question and answer may not be
// set to an empty value; desc and ref may.
func (s *Store) UpdateField(bank, id, field, value string) error {
	records, err := s.LoadBank(bank)
	if err != nil {
		return err
	}

	idx := -1
	for i, rec := range records {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("record %s: %w", id, ErrRecordNotFound)
	}

	rec := records[idx]
	switch strings.ToLower(field) {
	case "question":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("invalid record: question must not be empty")
		}
		rec.Question = value
	case "answer":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("invalid record: answer must not be empty")
		}
		rec.Answer = value
	case "desc":
		rec.Desc = value
	case "ref":
		rec.Ref = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	records[idx] = rec

	if err := s.SaveBank(bank, records); err != nil {
		return err
	}
	s.audit.Log("EDIT_Q", fmt.Sprintf("%s | %s of %s", bankName(s.bankPath(bank)), field, id))
	return nil
}

// DeleteRecord removes the record with the given id from the bank.
func (s *Store) DeleteRecord(bank, id string) error {
	records, err := s.LoadBank(bank)
	if err != nil {
		return err
	}

	idx := -1
	for i, rec := range records {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("record %s: %w", id, ErrRecordNotFound)
	}

	removed := records[idx]
	records = append(records[:idx], records[idx+1:]...)
	if err := s.SaveBank(bank, records); err != nil {
		return err
	}
	s.audit.Log("DEL_Q", fmt.Sprintf("%s | Q: %s", bankName(s.bankPath(bank)), removed.Question))
	return nil
}
