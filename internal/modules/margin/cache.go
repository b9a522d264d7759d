package margin

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/incomeclarity/marginsight/internal/domain"
)

// CachingService decorates an Analyzer with an in-memory TTL cache keyed by
// the normalized request. Requests that pin a seed bypass the cache: the
// caller asked for a specific reproducible run, not a recent answer.
type CachingService struct {
	inner Analyzer
	ttl   time.Duration
	now   func() time.Time
	log   zerolog.Logger

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewCachingService wraps inner with a TTL cache. A non-positive ttl disables
// caching entirely.
func NewCachingService(inner Analyzer, ttl time.Duration, log zerolog.Logger) *CachingService {
	return &CachingService{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		log:     log.With().Str("component", "margin_cache").Logger(),
		entries: make(map[string]cacheEntry),
	}
}

// Analyze returns a cached result when a fresh one exists for the same
// normalized request, otherwise delegates and stores the outcome. Cached
// results are stored serialized so callers can mutate what they receive.
func (c *CachingService) Analyze(ctx context.Context, req domain.SimulationRequest) (*domain.SimulationResult, error) {
	if c.ttl <= 0 || req.Seed != 0 {
		return c.inner.Analyze(ctx, req)
	}

	key, err := cacheKey(req.Normalize())
	if err != nil {
		// A request that cannot be serialized is still a valid request.
		c.log.Warn().Err(err).Msg("Failed to build cache key, bypassing cache")
		return c.inner.Analyze(ctx, req)
	}

	if result, ok := c.get(key); ok {
		c.log.Debug().Str("key", key[:12]).Msg("Cache hit")
		return result, nil
	}

	result, err := c.inner.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	c.put(key, result)
	return result, nil
}

func (c *CachingService) get(key string) (*domain.SimulationResult, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock, another goroutine may have refreshed it.
		if e, ok := c.entries[key]; ok && c.now().After(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	var result domain.SimulationResult
	if err := msgpack.Unmarshal(entry.payload, &result); err != nil {
		c.log.Warn().Err(err).Msg("Failed to decode cached result, discarding")
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return &result, true
}

func (c *CachingService) put(key string, result *domain.SimulationResult) {
	payload, err := msgpack.Marshal(result)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to encode result for cache")
		return
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{
		payload:   payload,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// Len returns the number of cached entries, expired ones included. Eviction
// is lazy: entries disappear on the first read past their TTL.
func (c *CachingService) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cacheKey(req domain.SimulationRequest) (string, error) {
	payload, err := msgpack.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
