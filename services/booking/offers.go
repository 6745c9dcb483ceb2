package booking

import (
	"sync"
	"time"

	"concierge/models"

	"github.com/google/uuid"
)

// OfferStore keeps bookable offers under opaque UUIDv4 identifiers for a
// fixed retention window. Offers are snapshots of provider state; once the
// window passes the user is asked to search again rather than book stale
// prices. Reads never consume an entry, so a failed reservation attempt can
// be retried against the same option id.
type OfferStore struct {
	mu      sync.Mutex
	entries map[string]offerEntry
	ttl     time.Duration
	now     func() time.Time
}

type offerEntry struct {
	offer    models.RoomStay
	storedAt time.Time
}

// NewOfferStore builds a store with the given retention window.
func NewOfferStore(ttl time.Duration) *OfferStore {
	return &OfferStore{
		entries: make(map[string]offerEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores an offer and returns its freshly minted option id.
func (s *OfferStore) Put(offer models.RoomStay) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.entries[id] = offerEntry{offer: offer, storedAt: s.now()}
	s.mu.Unlock()
	return id
}

// Get returns the offer stored under id. Expired entries are dropped on
// access and reported as absent.
func (s *OfferStore) Get(id string) (models.RoomStay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return models.RoomStay{}, false
	}
	if s.now().Sub(entry.storedAt) > s.ttl {
		delete(s.entries, id)
		return models.RoomStay{}, false
	}
	return entry.offer, true
}

// Len reports the number of entries currently held, expired or not.
func (s *OfferStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes all expired entries and returns how many were dropped.
func (s *OfferStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	cutoff := s.now().Add(-s.ttl)
	for id, entry := range s.entries {
		if entry.storedAt.Before(cutoff) {
			delete(s.entries, id)
			dropped++
		}
	}
	return dropped
}

// StartSweeper runs Sweep on the given interval until stop is closed.
func (s *OfferStore) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-stop:
				return
			}
		}
	}()
}
