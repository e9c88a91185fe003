package orchestrator

import (
	"context"
	"log"
	"sync"
	"time"
)

// Store is the keyed table of live session plans, one per candidate. It is
// injected into the orchestrator so ownership and eviction are explicit
// rather than process-global.
type Store struct {
	mu      sync.RWMutex
	plans   map[string]*storeEntry
	ttl     time.Duration
	nowFunc func() time.Time
}

type storeEntry struct {
	plan    *SessionPlan
	touched time.Time
}

// NewStore creates a store whose entries expire after ttl of inactivity.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		plans:   make(map[string]*storeEntry),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// Get returns the candidate's plan and refreshes its idle timer.
func (s *Store) Get(candidateID string) (*SessionPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.plans[candidateID]
	if !ok {
		return nil, false
	}
	entry.touched = s.nowFunc()
	return entry.plan, true
}

// Put installs or replaces the candidate's plan.
func (s *Store) Put(candidateID string, plan *SessionPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[candidateID] = &storeEntry{plan: plan, touched: s.nowFunc()}
}

// Delete removes the candidate's plan.
func (s *Store) Delete(candidateID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.plans, candidateID)
}

// Len returns the number of live plans.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.plans)
}

// Evict drops every plan idle longer than the TTL and returns how many
// were removed.
func (s *Store) Evict() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.nowFunc().Add(-s.ttl)
	evicted := 0
	for id, entry := range s.plans {
		if entry.touched.Before(cutoff) {
			delete(s.plans, id)
			evicted++
		}
	}
	return evicted
}

// Janitor evicts stale plans on the given interval until the context is
// cancelled.
func (s *Store) Janitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.Evict(); n > 0 {
				log.Printf("evicted %d stale session(s)", n)
			}
		}
	}
}
