package server

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jmcrae/catman/internal/catalog"
)

// Store errors returned to handlers
var (
	// ErrNotFound indicates no category exists with the given key
	ErrNotFound = errors.New("category not found")

	// ErrEmptyDescription indicates a write with a blank description
	ErrEmptyDescription = errors.New("description must not be empty")
)

// Store is an in-memory category store.
//
// Records are held by key and kept in insertion order, which is the order
// List returns them in. IDs are assigned from a monotonic counter and are
// never reused; keys are opaque UUIDs minted at creation time.
type Store struct {
	mu     sync.RWMutex
	byKey  map[string]catalog.Category
	order  []string // keys in insertion order
	nextID int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		byKey:  make(map[string]catalog.Category),
		nextID: 1,
	}
}

// List returns all categories in insertion order.
// The returned slice is a copy and safe for the caller to hold.
func (s *Store) List() []catalog.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Category, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.byKey[key])
	}
	return out
}

// Create adds a new category with the given description and returns it.
// The store assigns both the ID and the key.
func (s *Store) Create(description string) (catalog.Category, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return catalog.Category{}, ErrEmptyDescription
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat := catalog.Category{
		ID:          s.nextID,
		Key:         uuid.NewString(),
		Description: description,
	}
	s.nextID++

	s.byKey[cat.Key] = cat
	s.order = append(s.order, cat.Key)
	return cat, nil
}

// Update replaces the description of the category addressed by key.
// The category keeps its ID, key and position in the list.
func (s *Store) Update(key, description string) (catalog.Category, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return catalog.Category{}, ErrEmptyDescription
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.byKey[key]
	if !ok {
		return catalog.Category{}, ErrNotFound
	}

	cat.Description = description
	s.byKey[key] = cat
	return cat, nil
}

// Delete removes the category addressed by key and returns it.
func (s *Store) Delete(key string) (catalog.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.byKey[key]
	if !ok {
		return catalog.Category{}, ErrNotFound
	}

	delete(s.byKey, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return cat, nil
}

// Count returns the number of categories in the store.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Seed loads initial descriptions into an empty-or-not store.
// Blank descriptions are skipped rather than rejected so a hand-edited
// seed file with stray empty lines still loads.
func (s *Store) Seed(descriptions []string) int {
	loaded := 0
	for _, d := range descriptions {
		if _, err := s.Create(d); err == nil {
			loaded++
		}
	}
	return loaded
}
