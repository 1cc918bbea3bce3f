package domain

import (
	"sync"
	"sync/atomic"
	"time"
)

// Store holds the current Snapshot. Readers get clones; writers dispatch a
// reducer that produces the next snapshot, which replaces the old one whole.
type Store struct {
	mu      sync.Mutex
	current Snapshot
	now     func() time.Time
}

func NewStore(initial Snapshot) *Store {
	return &Store{current: initial.Clone(), now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Load() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

func (s *Store) Dispatch(r Reducer) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(r)
}

// DispatchIf applies r only while guard holds, evaluated under the same lock
// as the swap. It reports whether the reducer ran.
func (s *Store) DispatchIf(guard func() bool, r Reducer) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !guard() {
		return s.current.Clone(), false
	}
	return s.apply(r), true
}

// Replace swaps in a restored snapshot, keeping revisions monotonic.
func (s *Store) Replace(next Snapshot) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	rev := s.current.Revision
	s.current = next.Clone()
	if s.current.Revision < rev {
		s.current.Revision = rev
	}
	return s.current.Clone()
}

func (s *Store) apply(r Reducer) Snapshot {
	next := r(s.current.Clone())
	next.Revision = s.current.Revision + 1
	next.UpdatedAt = s.now()
	s.current = next
	return next.Clone()
}

// Tokens issues monotonically increasing request tokens. Only the most
// recently issued token is current; responses carrying older ones are stale.
type Tokens struct {
	latest atomic.Uint64
}

func (t *Tokens) Issue() uint64 {
	return t.latest.Add(1)
}

func (t *Tokens) IsLatest(token uint64) bool {
	return t.latest.Load() == token
}

// Invalidate makes every token issued so far stale.
func (t *Tokens) Invalidate() {
	t.latest.Add(1)
}
