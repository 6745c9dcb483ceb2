package session

import (
	"sync"

	"concierge/models"
)

// Store keeps one dialog session per user id in process memory. Sessions are
// created on first access and live for the lifetime of the process.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	session *models.Session
}

func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Acquire returns the user's session with its per-user lock held. The caller
// owns the session until it calls release, so a user's turns are processed
// strictly one at a time while other users proceed in parallel.
func (s *Store) Acquire(userID string) (*models.Session, func()) {
	s.mu.Lock()
	e, ok := s.entries[userID]
	if !ok {
		e = &entry{session: &models.Session{
			UserID: userID,
			Action: models.ActionIdle,
		}}
		s.entries[userID] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	return e.session, e.mu.Unlock
}

// Peek returns a snapshot of the user's session without holding its lock,
// or nil when the user has no session yet.
func (s *Store) Peek(userID string) *models.Session {
	s.mu.Lock()
	e, ok := s.entries[userID]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	snapshot := *e.session
	return &snapshot
}

// Clear removes the user's session entirely.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	delete(s.entries, userID)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
