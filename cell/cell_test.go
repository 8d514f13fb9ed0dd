package cell_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/pos-admin-cache/cell"
)

//
// ================= FRESHNESS =================
//

func TestFreshValueIsReturned(t *testing.T) {
	c := cell.New("test", time.Minute, nil)

	c.Set("key1", "value1")

	v, ok := c.Get("key1")
	require.True(t, ok)
	assert.Equal(t, "value1", v)
}

func TestStaleValueIsEvictedOnRead(t *testing.T) {
	c := cell.New("test", time.Minute, nil)

	c.SetWithTTL("key1", "value1", 30*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	_, ok := c.Get("key1")
	require.False(t, ok)

	// lazy eviction removed the entry, not just hid it
	assert.Equal(t, 0, c.Size())
}

func TestZeroTTLIsImmediatelyStale(t *testing.T) {
	c := cell.New("test", time.Minute, nil)

	c.SetWithTTL("key1", "value1", 0)
	time.Sleep(time.Millisecond)

	_, ok := c.Get("key1")
	assert.False(t, ok)
}

func TestNegativeTTLClampsToZero(t *testing.T) {
	c := cell.New("test", time.Minute, nil)

	c.SetWithTTL("key1", "value1", -time.Second)
	time.Sleep(time.Millisecond)

	_, ok := c.Get("key1")
	assert.False(t, ok)
}

//
// ================= FORCED BYPASS =================
//

func TestForceRefreshMissesEvenWhenFresh(t *testing.T) {
	c := cell.New("test", time.Minute, nil)

	c.Set("key1", "value1")

	_, ok := c.Lookup("key1", true)
	require.False(t, ok)

	// the forced lookup evicted the entry
	_, ok = c.Get("key1")
	assert.False(t, ok)
}

//
// ================= OVERWRITE =================
//

func TestSetReplacesExistingEntry(t *testing.T) {
	c := cell.New("test", time.Minute, nil)

	c.Set("key1", "value1")
	c.Set("key1", "value2")

	v, ok := c.Get("key1")
	require.True(t, ok)
	assert.Equal(t, "value2", v)
	assert.Equal(t, 1, c.Size())
}

func TestSetAfterExpiryStoresNewEntry(t *testing.T) {
	// The inventory walkthrough: value cached, read while fresh, read
	// after expiry, replaced, read again.
	c := cell.New("inventory", time.Minute, nil)

	c.SetWithTTL("inventory_items", map[string]int{"count": 5}, 300*time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	v, ok := c.Get("inventory_items")
	require.True(t, ok)
	assert.Equal(t, map[string]int{"count": 5}, v)

	time.Sleep(150 * time.Millisecond) // past the TTL now
	_, ok = c.Get("inventory_items")
	require.False(t, ok)

	c.SetWithTTL("inventory_items", map[string]int{"count": 7}, 300*time.Millisecond)
	v, ok = c.Get("inventory_items")
	require.True(t, ok)
	assert.Equal(t, map[string]int{"count": 7}, v)
}

//
// ================= REMOVAL =================
//

func TestDeleteIsIdempotent(t *testing.T) {
	c := cell.New("test", time.Minute, nil)

	c.Set("key1", "value1")
	c.Delete("key1")
	c.Delete("key1") // second delete is a no-op

	_, ok := c.Get("key1")
	assert.False(t, ok)
}

func TestClearEmptiesEverything(t *testing.T) {
	c := cell.New("test", time.Minute, nil)

	c.Set("key1", "value1")
	c.Set("key2", "value2")

	c.Clear()
	assert.Equal(t, 0, c.Size())

	c.Clear() // clearing an empty cell is a no-op, not an error
	assert.Equal(t, 0, c.Size())
}

//
// ================= DIAGNOSTICS =================
//

func TestHasAndKeys(t *testing.T) {
	c := cell.New("test", time.Minute, nil)

	c.Set("key1", "value1")
	c.Set("key2", "value2")

	assert.True(t, c.Has("key1"))
	assert.False(t, c.Has("missing"))
	assert.ElementsMatch(t, []string{"key1", "key2"}, c.Keys())
	assert.Equal(t, "test", c.Name())
	assert.Equal(t, time.Minute, c.DefaultTTL())
}

func TestDefaultTTLAppliesToSet(t *testing.T) {
	c := cell.New("test", 30*time.Millisecond, nil)

	c.Set("key1", "value1")
	time.Sleep(60 * time.Millisecond)

	_, ok := c.Get("key1")
	assert.False(t, ok)
}
