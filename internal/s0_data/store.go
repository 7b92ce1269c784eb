package s0_data

import (
	"fmt"
	"sort"
	"sync"

	"github.com/wonny/pulse/backend/internal/contracts"
)

// Store holds the published hard data sets, one per universe. A daily build
// assembles its set privately and replaces the previous one in a single
// step, so readers never observe a half-built universe.
// ⭐ SSOT: 하드 데이터 발행/조회는 여기서만
type Store struct {
	mu   sync.RWMutex
	sets map[string]*contracts.HardDataSet
}

// NewStore creates an empty hard data store.
func NewStore() *Store {
	return &Store{
		sets: make(map[string]*contracts.HardDataSet),
	}
}

// Publish replaces the universe's hard data set wholesale.
func (s *Store) Publish(set *contracts.HardDataSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[set.Universe] = set
}

// Get returns the published set for a universe. A universe that has not
// finished a build yet is contracts.ErrHardDataNotBuilt.
func (s *Store) Get(universe string) (*contracts.HardDataSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[universe]
	if !ok {
		return nil, fmt.Errorf("universe %q: %w", universe, contracts.ErrHardDataNotBuilt)
	}
	return set, nil
}

// Universes returns the sorted names of universes with a published set.
func (s *Store) Universes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.sets))
	for name := range s.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
