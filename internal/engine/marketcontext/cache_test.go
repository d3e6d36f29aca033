package marketcontext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-insight/internal/engine/dto"
)

func testResponse(summary string) *dto.EnrichmentResponse {
	return &dto.EnrichmentResponse{
		ContextSummary:   summary,
		SupportingPoints: []dto.SupportingPoint{},
		DataSourcesUsed:  []string{"example.com"},
		MCPStatus:        dto.MCPStatusSuccess,
		EnrichedAt:       time.Now(),
	}
}

func TestCacheStore_HitAndFingerprintMiss(t *testing.T) {
	store := NewCacheStore(time.Minute)
	store.Set("BBCA", "F1", testResponse("ctx"))

	got, ok := store.Get("BBCA", "F1")
	require.True(t, ok)
	assert.Equal(t, "ctx", got.ContextSummary)
	assert.False(t, got.Stale)

	// A different fingerprint is a miss by construction.
	_, ok = store.Get("BBCA", "F2")
	assert.False(t, ok)

	_, ok = store.Get("TLKM", "F1")
	assert.False(t, ok)
}

func TestCacheStore_TTLExpiry(t *testing.T) {
	store := NewCacheStore(20 * time.Millisecond)
	store.Set("BBCA", "F1", testResponse("ctx"))

	time.Sleep(40 * time.Millisecond)

	_, ok := store.Get("BBCA", "F1")
	assert.False(t, ok, "expired entry must miss on read")

	// The stale index outlives the TTL and is annotated.
	stale, ok := store.GetStale("BBCA")
	require.True(t, ok)
	assert.True(t, stale.Stale)
	assert.Equal(t, "ctx", stale.ContextSummary)
}

func TestCacheStore_StaleDoesNotMutateOriginal(t *testing.T) {
	store := NewCacheStore(time.Minute)
	store.Set("BBCA", "F1", testResponse("ctx"))

	stale, ok := store.GetStale("BBCA")
	require.True(t, ok)
	assert.True(t, stale.Stale)

	fresh, ok := store.Get("BBCA", "F1")
	require.True(t, ok)
	assert.False(t, fresh.Stale, "stale annotation must not leak into the cached entry")
}

func TestCacheStore_LatestFollowsFingerprint(t *testing.T) {
	store := NewCacheStore(time.Minute)
	store.Set("BBCA", "F1", testResponse("old"))
	store.Set("BBCA", "F2", testResponse("new"))

	stale, ok := store.GetStale("BBCA")
	require.True(t, ok)
	assert.Equal(t, "new", stale.ContextSummary)
}

func TestCacheStore_GetStaleMissingTicker(t *testing.T) {
	store := NewCacheStore(time.Minute)
	_, ok := store.GetStale("UNKNOWN")
	assert.False(t, ok)
}
