package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/adala/case-intake/internal/models"
)

var (
	ErrNotFound      = errors.New("case not found")
	ErrDuplicateID   = errors.New("case id already exists")
	ErrInvalidStatus = errors.New("unknown case status")
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Store is the session-scoped case repository. Records are kept most recent
// first and are never updated or removed.
type Store struct {
	mu    sync.RWMutex
	cases []models.CaseRecord
	ids   map[string]struct{}
}

func New() *Store {
	return &Store{ids: map[string]struct{}{}}
}

// Prepend inserts c at the front of the repository.
func (s *Store) Prepend(c models.CaseRecord) error {
	if !c.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, c.Status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[c.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
	}
	s.ids[c.ID] = struct{}{}
	s.cases = append([]models.CaseRecord{c}, s.cases...)
	return nil
}

// List returns a snapshot of every record, most recent first.
func (s *Store) List() []models.CaseRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CaseRecord, len(s.cases))
	copy(out, s.cases)
	return out
}

func (s *Store) Get(id string) (models.CaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.cases {
		if c.ID == id {
			return c, nil
		}
	}
	return models.CaseRecord{}, ErrNotFound
}

func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cases)
}

// Page is one window of search results. Limit and Offset are the values
// actually applied after clamping.
type Page struct {
	Items  []models.CaseRecord `json:"items"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// Search filters by substring over plaintiff name, id and description and
// returns one page plus the total number of matches. A limit outside
// 1..200 falls back to 50; a negative offset is treated as 0.
func (s *Store) Search(q string, limit, offset int) Page {
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	page := Page{Items: []models.CaseRecord{}, Limit: limit, Offset: offset}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.CaseRecord
	for _, c := range s.cases {
		if q == "" ||
			strings.Contains(c.PlaintiffName, q) ||
			strings.Contains(c.ID, q) ||
			strings.Contains(c.Description, q) {
			matched = append(matched, c)
		}
	}

	page.Total = len(matched)
	if offset >= page.Total {
		return page
	}
	end := offset + limit
	if end > page.Total {
		end = page.Total
	}
	page.Items = make([]models.CaseRecord, end-offset)
	copy(page.Items, matched[offset:end])
	return page
}
