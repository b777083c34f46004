// internal/session/store.go
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"mcp-diet-calc/internal/diet"
)

var ErrNotFound = errors.New("session not found")

// Store keeps calculator plans in memory, keyed by session id. Nothing is
// persisted; a restart starts every user over.
type Store struct {
	mu    sync.Mutex
	plans map[string]*diet.Plan
}

func NewStore() *Store {
	return &Store{plans: make(map[string]*diet.Plan)}
}

// Create starts a new session with an empty selection and default targets.
func (s *Store) Create() string {
	id := uuid.NewString()

	s.mu.Lock()
	s.plans[id] = diet.NewPlan()
	s.mu.Unlock()

	return id
}

// Update runs fn against the session's plan while holding the store lock.
// fn must not retain the plan.
func (s *Store) Update(id string, fn func(p *diet.Plan) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := s.plans[id]
	if !ok {
		return ErrNotFound
	}
	return fn(plan)
}

// Snapshot returns a copy of the session's plan that is safe to read
// without the lock.
func (s *Store) Snapshot(id string) (*diet.Plan, error) {
	var out *diet.Plan
	err := s.Update(id, func(p *diet.Plan) error {
		out = p.Clone()
		return nil
	})
	return out, err
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.plans)
}
