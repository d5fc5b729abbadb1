package dataset

import (
	"github.com/rotisserie/eris"

	"github.com/reformlab/impact-cli/internal/model"
)

// Stats reports what a load accepted and dropped.
type Stats struct {
	Rows           int `json:"rows"`
	Loaded         int `json:"loaded"`
	MissingID      int `json:"missing_id"`
	NegativeWeight int `json:"negative_weight"`
}

// Store is the immutable in-memory household table. It is loaded once and
// never mutated; every recompute pass reads from it.
type Store struct {
	catalog    *model.Catalog
	households []model.Household
	byID       map[string]int
	stats      Stats
	source     string
}

// NewStore indexes a set of already-decoded households. Household IDs must
// be unique; impact slices must match the catalog.
func NewStore(source string, cat *model.Catalog, households []model.Household, stats Stats) (*Store, error) {
	s := &Store{
		catalog:    cat,
		households: households,
		byID:       make(map[string]int, len(households)),
		stats:      stats,
		source:     source,
	}
	for i := range households {
		h := &households[i]
		if h.ID == "" {
			return nil, eris.Errorf("dataset: household %d has no id", i)
		}
		if _, dup := s.byID[h.ID]; dup {
			return nil, eris.Errorf("dataset: duplicate household id %q", h.ID)
		}
		if len(h.Impacts) != cat.Len() {
			return nil, eris.Errorf("dataset: household %q has %d component impacts, catalog %q has %d",
				h.ID, len(h.Impacts), cat.Reform, cat.Len())
		}
		s.byID[h.ID] = i
	}
	if s.stats.Loaded == 0 {
		s.stats.Rows = len(households)
		s.stats.Loaded = len(households)
	}
	return s, nil
}

// Households returns the full table in load order. Callers treat the slice
// as read-only.
func (s *Store) Households() []model.Household { return s.households }

// ByID returns the household with the given id.
func (s *Store) ByID(id string) (*model.Household, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.households[i], true
}

// Len returns the number of loaded households.
func (s *Store) Len() int { return len(s.households) }

// Catalog returns the component catalog the table was loaded against.
func (s *Store) Catalog() *model.Catalog { return s.catalog }

// Stats returns the load statistics.
func (s *Store) Stats() Stats { return s.stats }

// Source describes where the table came from (file path or table name).
func (s *Store) Source() string { return s.source }
