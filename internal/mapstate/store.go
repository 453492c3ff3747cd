package mapstate

import "sync"

// Store owns the current State. Front ends receive a *Store explicitly;
// there is no package-level instance.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// NewStore returns a Store holding initial.
func NewStore(initial State) *Store {
	return &Store{state: initial, subs: make(map[int]func(State))}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update replaces the state with fn(current) and notifies subscribers with
// the result. Updates are applied one at a time; subscribers run on the
// caller's goroutine after the lock is released and may call Update again.
func (s *Store) Update(fn func(State) State) State {
	s.mu.Lock()
	s.state = fn(s.state)
	next := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, f := range s.subs {
		subs = append(subs, f)
	}
	s.mu.Unlock()

	for _, f := range subs {
		f(next)
	}
	return next
}

// Subscribe registers fn to receive every new state. The returned function
// unregisters it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
