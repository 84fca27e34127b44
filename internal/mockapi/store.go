package mockapi

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Definition is the mock's record of an imported API definition.
type Definition struct {
	ID               string    `json:"apiDefinitionId"`
	ProjectVersionID string    `json:"projectDocumentVersionId"`
	Title            string    `json:"title"`
	Version          string    `json:"version"`
	Content          string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Store keeps definitions in memory. One store models one project
// document version, matching how tests exercise one version at a time.
type Store struct {
	mu               sync.RWMutex
	projectVersionID string
	definitions      map[string]*Definition
}

// NewStore creates a store with a generated project version ID.
func NewStore() *Store {
	return &Store{
		projectVersionID: uuid.New().String(),
		definitions:      make(map[string]*Definition),
	}
}

// ProjectVersionID returns the version ID this store answers for.
func (s *Store) ProjectVersionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectVersionID
}

// Create stores a new definition and returns it.
func (s *Store) Create(title, version, content string) *Definition {
	s.mu.Lock()
	defer s.mu.Unlock()

	def := &Definition{
		ID:               uuid.New().String(),
		ProjectVersionID: s.projectVersionID,
		Title:            title,
		Version:          version,
		Content:          content,
		CreatedAt:        time.Now(),
	}
	s.definitions[def.ID] = def
	return def
}

// Get retrieves a definition by ID.
func (s *Store) Get(id string) (*Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, exists := s.definitions[id]
	if !exists {
		return nil, fmt.Errorf("api definition not found: %s", id)
	}
	return def, nil
}

// Delete removes a definition. Deleting a missing ID is not an error;
// bulk deletes are allowed to race with out-of-band cleanup.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.definitions, id)
}

// List returns all definitions sorted by title.
func (s *Store) List() []*Definition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	defs := make([]*Definition, 0, len(s.definitions))
	for _, def := range s.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Title < defs[j].Title
	})
	return defs
}

// Reset drops all definitions and issues a fresh project version ID.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.definitions = make(map[string]*Definition)
	s.projectVersionID = uuid.New().String()
}
