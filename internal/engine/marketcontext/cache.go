package marketcontext

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"golang-stock-insight/internal/engine/dto"
)

// DefaultCacheTTL bounds how long an enrichment result is served without a
// refresh.
const DefaultCacheTTL = 300 * time.Second

// CacheStore holds enrichment results keyed by (ticker, fingerprint).
// Entries expire lazily on read; the periodic sweep only reclaims memory and
// is not needed for correctness. A separate per-ticker index keeps the last
// result around past its TTL so a skipped refresh can still serve a clearly
// marked stale answer.
type CacheStore struct {
	entries *cache.Cache
	latest  *cache.Cache
}

// NewCacheStore creates a cache store with the given TTL.
func NewCacheStore(ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CacheStore{
		entries: cache.New(ttl, 2*ttl),
		latest:  cache.New(cache.NoExpiration, 0),
	}
}

// Get returns the cached response for the exact (ticker, fingerprint) pair
// if it has not expired. A fingerprint change misses by construction since
// the fingerprint is part of the key.
func (s *CacheStore) Get(ticker, fingerprint string) (*dto.EnrichmentResponse, bool) {
	v, ok := s.entries.Get(entryKey(ticker, fingerprint))
	if !ok {
		return nil, false
	}
	return v.(*dto.EnrichmentResponse), true
}

// GetStale returns the last response written for the ticker regardless of
// TTL or fingerprint, annotated as stale. Used when a refresh is skipped.
func (s *CacheStore) GetStale(ticker string) (*dto.EnrichmentResponse, bool) {
	v, ok := s.latest.Get(ticker)
	if !ok {
		return nil, false
	}
	stale := *v.(*dto.EnrichmentResponse)
	stale.Stale = true
	return &stale, true
}

// Set stores the response under the (ticker, fingerprint) key and updates
// the per-ticker latest index.
func (s *CacheStore) Set(ticker, fingerprint string, resp *dto.EnrichmentResponse) {
	s.entries.SetDefault(entryKey(ticker, fingerprint), resp)
	s.latest.Set(ticker, resp, cache.NoExpiration)
}

func entryKey(ticker, fingerprint string) string {
	return fmt.Sprintf("%s|%s", ticker, fingerprint)
}
