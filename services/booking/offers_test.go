package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferStorePutGet(t *testing.T) {
	store := NewOfferStore(30 * time.Minute)
	offer := twoPlacementOffer()

	id := store.Put(offer)
	require.NotEmpty(t, id)

	got, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, offer, got)

	// Reads are idempotent: the entry is not consumed.
	again, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, offer, again)
}

func TestOfferStoreDistinctIDs(t *testing.T) {
	store := NewOfferStore(time.Minute)
	a := store.Put(twoPlacementOffer())
	b := store.Put(twoPlacementOffer())
	assert.NotEqual(t, a, b)
}

func TestOfferStoreMiss(t *testing.T) {
	store := NewOfferStore(time.Minute)
	_, ok := store.Get("b5b5bc9e-0000-0000-0000-000000000000")
	assert.False(t, ok)
}

func TestOfferStoreExpiry(t *testing.T) {
	store := NewOfferStore(30 * time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }

	id := store.Put(twoPlacementOffer())

	now = now.Add(29 * time.Minute)
	_, ok := store.Get(id)
	assert.True(t, ok, "entry inside the window stays readable")

	now = now.Add(2 * time.Minute)
	_, ok = store.Get(id)
	assert.False(t, ok, "entry past the window reads as absent")
	assert.Zero(t, store.Len(), "expired entry is dropped on access")
}

func TestOfferStoreSweep(t *testing.T) {
	store := NewOfferStore(10 * time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }

	store.Put(twoPlacementOffer())
	store.Put(twoPlacementOffer())
	now = now.Add(11 * time.Minute)
	fresh := store.Put(twoPlacementOffer())

	dropped := store.Sweep()
	assert.Equal(t, 2, dropped)
	assert.Equal(t, 1, store.Len())

	_, ok := store.Get(fresh)
	assert.True(t, ok)
}
