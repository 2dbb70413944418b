package upload

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUT_UC_01_01_Put_ThenTake_RoundTripsByteForByte(t *testing.T) {
	cache := NewURICache()

	cache.Put("a.bin", "https://x/put/a", "corr-1")

	uri, ok := cache.Take("a.bin")
	require.True(t, ok)
	assert.Equal(t, "https://x/put/a", uri)
}

func TestUT_UC_01_02_Take_AfterSuccessfulFirst_ReturnsAbsent(t *testing.T) {
	cache := NewURICache()
	cache.Put("a.bin", "https://x/put/a", "corr-1")

	_, ok := cache.Take("a.bin")
	require.True(t, ok)

	_, ok = cache.Take("a.bin")
	assert.False(t, ok)
}

func TestUT_UC_01_03_Take_UnknownFile_ReturnsAbsent(t *testing.T) {
	cache := NewURICache()
	_, ok := cache.Take("never-put.bin")
	assert.False(t, ok)
}

func TestUT_UC_02_01_Put_ElevenEntries_EvictsOldestFirst(t *testing.T) {
	cache := NewURICache()

	for i := 0; i < 11; i++ {
		cache.Put(fmt.Sprintf("file-%02d.bin", i), fmt.Sprintf("https://x/put/%d", i), "corr-1")
		time.Sleep(time.Millisecond)
	}

	assert.Equal(t, MaxCacheSize, cache.Size())

	_, ok := cache.Take("file-00.bin")
	assert.False(t, ok, "first-inserted entry should have been evicted")

	_, ok = cache.Take("file-10.bin")
	assert.True(t, ok, "most recently inserted entry should still be present")
}

func TestUT_UC_02_02_Put_Overwrite_ReplacesURIAndCreatedAt(t *testing.T) {
	cache := NewURICache()
	cache.Put("a.bin", "https://x/put/old", "corr-1")
	cache.Put("a.bin", "https://x/put/new", "corr-2")

	assert.Equal(t, 1, cache.Size())

	uri, ok := cache.Take("a.bin")
	require.True(t, ok)
	assert.Equal(t, "https://x/put/new", uri)
}

func TestUT_UC_03_01_WaitFor_ReturnsOnceEntryArrives(t *testing.T) {
	cache := NewURICache()
	cache.SetPollInterval(5 * time.Millisecond)

	go func() {
		time.Sleep(50 * time.Millisecond)
		cache.Put("a.bin", "https://x/put/a", "corr-1")
	}()

	uri, ok := cache.WaitFor(context.Background(), "a.bin", 5*time.Second)
	require.True(t, ok)
	assert.Equal(t, "https://x/put/a", uri)
}

func TestUT_UC_03_02_WaitFor_ContextCancelled_ReturnsAbsent(t *testing.T) {
	cache := NewURICache()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := cache.WaitFor(ctx, "a.bin", 5*time.Second)
	assert.False(t, ok)
}
