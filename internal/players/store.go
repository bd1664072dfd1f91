package players

import (
	"errors"
	"slices"
)

// ErrNotFound is returned when no record matches a lookup.
var ErrNotFound = errors.New("player not found")

// Store is the immutable set of joined records. It is built once by Join
// and only read afterwards, so it is safe for concurrent use. Every method
// returns copies.
type Store struct {
	records []Record
	byID    map[string]int
	byName  map[string]int
}

func newStore(records []Record) *Store {
	s := &Store{
		records: records,
		byID:    make(map[string]int, len(records)),
		byName:  make(map[string]int, len(records)),
	}
	for i, r := range records {
		s.byID[r.PlayerID] = i
		if r.Name == "" {
			continue
		}
		// Duplicate display names resolve to the first record.
		if _, ok := s.byName[r.Name]; !ok {
			s.byName[r.Name] = i
		}
	}
	return s
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// All returns every record in ingestion order.
func (s *Store) All() []Record {
	return s.Filter()
}

// Get returns the record for a player id.
func (s *Store) Get(playerID string) (Record, error) {
	i, ok := s.byID[playerID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return s.records[i].clone(), nil
}

// LookupByName returns the first record whose display name equals name
// exactly. The match is case sensitive.
func (s *Store) LookupByName(name string) (Record, error) {
	i, ok := s.byName[name]
	if !ok {
		return Record{}, ErrNotFound
	}
	return s.records[i].clone(), nil
}

// TopN returns up to n named records ordered by predicted value, highest
// first. Records without a prediction sort last. Ties keep ingestion order.
func (s *Store) TopN(n int) []Record {
	if n <= 0 {
		return []Record{}
	}

	named := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if r.Name != "" {
			named = append(named, r)
		}
	}

	slices.SortStableFunc(named, func(a, b Record) int {
		switch {
		case !a.Predicted2026.Valid && !b.Predicted2026.Valid:
			return 0
		case !a.Predicted2026.Valid:
			return 1
		case !b.Predicted2026.Valid:
			return -1
		}
		return b.Predicted2026.Decimal.Cmp(a.Predicted2026.Decimal)
	})

	named = named[:min(n, len(named))]
	for i := range named {
		named[i] = named[i].clone()
	}
	return named
}

// Filter returns, in ingestion order, the records matching every filter.
// With no filters it returns all records.
func (s *Store) Filter(filters ...Filter) []Record {
	match := All(filters...)
	out := make([]Record, 0, len(s.records))
	for i := range s.records {
		if match(&s.records[i]) {
			out = append(out, s.records[i].clone())
		}
	}
	return out
}

// Names returns the distinct non-empty display names, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Clubs returns the distinct non-empty club names, sorted.
func (s *Store) Clubs() []string {
	seen := make(map[string]struct{})
	clubs := []string{}
	for _, r := range s.records {
		if r.Club == "" {
			continue
		}
		if _, ok := seen[r.Club]; ok {
			continue
		}
		seen[r.Club] = struct{}{}
		clubs = append(clubs, r.Club)
	}
	slices.Sort(clubs)
	return clubs
}
