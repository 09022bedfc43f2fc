package catalog

import (
	"log"
	"strings"
	"sync"
	"time"

	"spacebook/internal/domain"
)

// Store is the in-memory mirror of all known spaces. It is rebuilt by
// ReplaceAll after a bulk load and kept current by the Apply* operations
// driven from the change feed. Reads never block writes for long: the
// collection is small and every query copies matching records out.
//
// Order is significant: Query returns records in insertion order, and
// ApplyUpdate keeps a record at its original position.
type Store struct {
	mu     sync.RWMutex
	spaces []domain.Space
	index  map[string]int
	loaded bool
}

func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// ReplaceAll swaps the whole collection for the result of a bulk load.
func (s *Store) ReplaceAll(spaces []domain.Space) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.spaces = make([]domain.Space, len(spaces))
	copy(s.spaces, spaces)

	s.index = make(map[string]int, len(spaces))
	for i, sp := range s.spaces {
		s.index[sp.ID] = i
	}
	s.loaded = true
}

// Loaded reports whether at least one bulk load has been applied.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// ApplyInsert adds a space. If the id is already present the event is
// treated as an update of the supplied fields, so replayed or racing
// insert events cannot duplicate a record.
func (s *Store) ApplyInsert(sp domain.Space) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[sp.ID]; ok {
		s.spaces[i] = sp
		return
	}

	s.spaces = append(s.spaces, sp)
	s.index[sp.ID] = len(s.spaces) - 1
}

// Patch carries the fields of a partial update. Nil fields are left
// untouched on the stored record (last-writer-wins per supplied field).
type Patch struct {
	Title       *string
	Description *string
	Location    *string
	HourlyRate  *float64
	Capacity    *int
	Category    *domain.SpaceCategory
	Amenities   *[]string
	Images      *[]string
	OwnerID     *string
	OwnerName   *string
	Rating      *float64
	Reviews     *int
	UpdatedAt   *time.Time
}

// ApplyUpdate merges patch into the record matching id. Unknown ids are a
// logged no-op: update events may race ahead of store population.
func (s *Store) ApplyUpdate(id string, patch Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		log.Printf("catalog: update for unknown space id=%s ignored", id)
		return
	}

	sp := &s.spaces[i]
	if patch.Title != nil {
		sp.Title = *patch.Title
	}
	if patch.Description != nil {
		sp.Description = *patch.Description
	}
	if patch.Location != nil {
		sp.Location = *patch.Location
	}
	if patch.HourlyRate != nil {
		sp.HourlyRate = *patch.HourlyRate
	}
	if patch.Capacity != nil {
		sp.Capacity = *patch.Capacity
	}
	if patch.Category != nil {
		sp.Category = *patch.Category
	}
	if patch.Amenities != nil {
		sp.Amenities = *patch.Amenities
	}
	if patch.Images != nil {
		sp.Images = *patch.Images
	}
	if patch.OwnerID != nil {
		sp.OwnerID = *patch.OwnerID
	}
	if patch.OwnerName != nil {
		sp.OwnerName = *patch.OwnerName
	}
	if patch.Rating != nil {
		sp.Rating = *patch.Rating
	}
	if patch.Reviews != nil {
		sp.Reviews = *patch.Reviews
	}
	if patch.UpdatedAt != nil {
		sp.UpdatedAt = *patch.UpdatedAt
	}
}

// ApplyDelete removes the record matching id. Unknown ids are a no-op.
func (s *Store) ApplyDelete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		log.Printf("catalog: delete for unknown space id=%s ignored", id)
		return
	}

	s.spaces = append(s.spaces[:i], s.spaces[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.spaces); j++ {
		s.index[s.spaces[j].ID] = j
	}
}

// Get returns a snapshot of the record matching id.
func (s *Store) Get(id string) (domain.Space, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Space{}, false
	}
	return s.spaces[i], true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.spaces)
}

// Filters restricts a Query. Zero values disable the corresponding filter.
type Filters struct {
	Category domain.SpaceCategory
	PriceMin float64
	PriceMax float64
}

// Query returns every space matching search and filters, in store order.
// search matches case-insensitively as a substring of title, description
// or location; all active filters combine with AND.
func (s *Store) Query(search string, f Filters) []domain.Space {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(search))

	out := make([]domain.Space, 0, len(s.spaces))
	for _, sp := range s.spaces {
		if needle != "" && !matchesSearch(sp, needle) {
			continue
		}
		if f.Category != "" && sp.Category != f.Category {
			continue
		}
		if sp.HourlyRate < f.PriceMin {
			continue
		}
		if f.PriceMax > 0 && sp.HourlyRate > f.PriceMax {
			continue
		}
		out = append(out, sp)
	}
	return out
}

func matchesSearch(sp domain.Space, needle string) bool {
	return strings.Contains(strings.ToLower(sp.Title), needle) ||
		strings.Contains(strings.ToLower(sp.Description), needle) ||
		strings.Contains(strings.ToLower(sp.Location), needle)
}
