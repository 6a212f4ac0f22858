package refcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testhelpers "github.com/aequitas-re/dealengine/internal/testing"
)

type snapshot struct {
	RentDecile int     `msgpack:"rent_decile"`
	NetYield   float64 `msgpack:"net_yield"`
	Level      string  `msgpack:"level"`
}

func newStore(t *testing.T) (*Store, func()) {
	t.Helper()
	db, cleanup := testhelpers.NewTestDB(t, "cache")
	return NewStore(db.Conn(), testhelpers.NewTestLogger()), cleanup
}

func TestStoreAndGetIfFresh(t *testing.T) {
	store, cleanup := newStore(t)
	defer cleanup()

	in := snapshot{RentDecile: 3, NetYield: 4.25, Level: "Moderate"}
	require.NoError(t, store.Store("deal-abc", in, time.Hour))

	var out snapshot
	found, err := store.GetIfFresh("deal-abc", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)
}

func TestGetIfFreshMissingKey(t *testing.T) {
	store, cleanup := newStore(t)
	defer cleanup()

	var out snapshot
	found, err := store.GetIfFresh("nope", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExpiredSnapshotIsStaleButRetrievable(t *testing.T) {
	store, cleanup := newStore(t)
	defer cleanup()

	in := snapshot{RentDecile: 1, NetYield: 5.1, Level: "Low"}
	require.NoError(t, store.Store("deal-old", in, -time.Second))

	var out snapshot
	found, err := store.GetIfFresh("deal-old", &out)
	require.NoError(t, err)
	assert.False(t, found)

	// Stale fallback still works
	found, err = store.Get("deal-old", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)
}

func TestStoreReplacesExisting(t *testing.T) {
	store, cleanup := newStore(t)
	defer cleanup()

	require.NoError(t, store.Store("deal-x", snapshot{RentDecile: 2}, time.Hour))
	require.NoError(t, store.Store("deal-x", snapshot{RentDecile: 7}, time.Hour))

	var out snapshot
	found, err := store.GetIfFresh("deal-x", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 7, out.RentDecile)
}

func TestDeleteExpired(t *testing.T) {
	store, cleanup := newStore(t)
	defer cleanup()

	require.NoError(t, store.Store("fresh", snapshot{RentDecile: 1}, time.Hour))
	require.NoError(t, store.Store("stale-1", snapshot{RentDecile: 2}, -time.Minute))
	require.NoError(t, store.Store("stale-2", snapshot{RentDecile: 3}, -time.Minute))

	deleted, err := store.DeleteExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var out snapshot
	found, err := store.Get("fresh", &out)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestDelete(t *testing.T) {
	store, cleanup := newStore(t)
	defer cleanup()

	require.NoError(t, store.Store("deal-y", snapshot{RentDecile: 4}, time.Hour))
	require.NoError(t, store.Delete("deal-y"))

	var out snapshot
	found, err := store.Get("deal-y", &out)
	require.NoError(t, err)
	assert.False(t, found)
}
