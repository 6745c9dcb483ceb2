package booking

import (
	"context"
	"sync"
	"time"

	"concierge/models"
	"concierge/utils"

	"go.uber.org/zap"
)

// HotelFetchFunc loads a hotel's metadata from the provider.
type HotelFetchFunc func(ctx context.Context) (*models.HotelDetail, error)

// HotelInfoCache is a TTL cache of static hotel metadata keyed by hotel code
// and language. Concurrent misses for the same key may each fetch; the last
// write wins, which is harmless for idempotent metadata.
type HotelInfoCache struct {
	mu      sync.Mutex
	entries map[string]hotelEntry
	ttl     time.Duration
	now     func() time.Time
}

type hotelEntry struct {
	detail    *models.HotelDetail
	fetchedAt time.Time
}

// NewHotelInfoCache builds a cache with the given TTL.
func NewHotelInfoCache(ttl time.Duration) *HotelInfoCache {
	return &HotelInfoCache{
		entries: make(map[string]hotelEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func hotelCacheKey(hotelCode, language string) string {
	return hotelCode + "|" + language
}

// GetOrFetch returns the cached metadata for the hotel, fetching it when the
// entry is absent, stale, or fails validation. Fetched structures missing
// their hotel code are rejected and not cached.
func (c *HotelInfoCache) GetOrFetch(ctx context.Context, hotelCode, language string, fetch HotelFetchFunc) (*models.HotelDetail, error) {
	logger := utils.GetLogger()
	key := hotelCacheKey(hotelCode, language)

	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok {
		if c.now().Sub(entry.fetchedAt) < c.ttl && validHotelDetail(entry.detail) {
			c.mu.Unlock()
			logger.Debug("Hotel metadata cache hit", zap.String("hotel", hotelCode), zap.String("lang", language))
			return entry.detail, nil
		}
		delete(c.entries, key)
	}
	c.mu.Unlock()

	detail, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if !validHotelDetail(detail) {
		logger.Error("Fetched hotel metadata failed validation, not caching", zap.String("hotel", hotelCode))
		return nil, NewBookingError(CodeMissingPlacementData, "hotel metadata response is missing required fields")
	}

	c.mu.Lock()
	c.entries[key] = hotelEntry{detail: detail, fetchedAt: c.now()}
	c.mu.Unlock()

	logger.Info("Hotel metadata cached", zap.String("hotel", hotelCode), zap.String("lang", language), zap.String("name", detail.Name))
	return detail, nil
}

// Invalidate drops the entry for the hotel/language pair.
func (c *HotelInfoCache) Invalidate(hotelCode, language string) {
	c.mu.Lock()
	delete(c.entries, hotelCacheKey(hotelCode, language))
	c.mu.Unlock()
}

func validHotelDetail(d *models.HotelDetail) bool {
	return d != nil && d.Code != ""
}
