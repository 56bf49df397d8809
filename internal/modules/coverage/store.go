// README: In-memory retention of completed coverage results.
package coverage

import (
	"sync"

	"skyline/internal/types"
)

// Store retains completed results for the API layer. Retention is a
// collaborator concern, not the orchestrator's: results live here only for
// the lifetime of the process, and removal is driven by the caller.
type Store struct {
	mu      sync.RWMutex
	results map[types.ID]Result
	order   []types.ID
}

func NewStore() *Store {
	return &Store{results: make(map[types.ID]Result)}
}

func (s *Store) Add(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.results[r.ID]; !exists {
		s.order = append(s.order, r.ID)
	}
	s.results[r.ID] = r
}

func (s *Store) Get(id types.ID) (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[id]
	return r, ok
}

// List returns retained results in completion order.
func (s *Store) List() []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Result, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.results[id])
	}
	return out
}

func (s *Store) Remove(id types.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[id]; !ok {
		return false
	}
	delete(s.results, id)
	for i, got := range s.order {
		if got == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}
