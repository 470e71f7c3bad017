package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/turing/pkg/domain"
)

// Store implements ports.ProgramStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Save stores a copy of source.
func (s *Store) Save(ctx context.Context, name string, source []byte) error {
	if err := domain.ValidateProgramName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = slices.Clone(source)
	return nil
}

// Load returns a copy so callers can't mutate the stored source.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if err := domain.ValidateProgramName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	source, ok := s.data[name]
	if !ok {
		return nil, domain.ErrProgramNotFound
	}
	return slices.Clone(source), nil
}

// Delete removes a program.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := domain.ValidateProgramName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[name]; !ok {
		return domain.ErrProgramNotFound
	}
	delete(s.data, name)
	return nil
}

// List returns the stored names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
