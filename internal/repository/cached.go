package repository

import (
	"context"
	"io"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/preop-assessment-server/internal/domain"
)

// cachedEntry is one archived report held in memory.
type cachedEntry struct {
	meta     *domain.ReportMeta
	document []byte
}

// CacheStats represents cache performance statistics.
type CacheStats struct {
	Hits      int64     `json:"hits"`
	Misses    int64     `json:"misses"`
	LastReset time.Time `json:"last_reset"`
}

// CachedStore wraps a Store with an in-memory LRU cache on Get, so repeated
// downloads of the same report skip the database.
type CachedStore struct {
	inner  Store
	cache  *lru.Cache[string, *cachedEntry]
	logger *logrus.Logger

	stats   CacheStats
	statsMu sync.RWMutex
}

// NewCachedStore wraps inner with an LRU cache of the given size.
func NewCachedStore(inner Store, size int, logger *logrus.Logger) (*CachedStore, error) {
	cache, err := lru.New[string, *cachedEntry](size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{
		inner:  inner,
		cache:  cache,
		logger: logger,
		stats:  CacheStats{LastReset: time.Now()},
	}, nil
}

// Save archives the report and primes the cache with it.
func (s *CachedStore) Save(ctx context.Context, meta *domain.ReportMeta, document []byte) error {
	if err := s.inner.Save(ctx, meta, document); err != nil {
		return err
	}
	s.cache.Add(meta.ID, &cachedEntry{meta: meta, document: document})
	return nil
}

// Get serves from the cache when possible, falling back to the inner store.
func (s *CachedStore) Get(ctx context.Context, id string) (*domain.ReportMeta, []byte, error) {
	if entry, ok := s.cache.Get(id); ok {
		s.recordHit(true)
		return entry.meta, entry.document, nil
	}
	s.recordHit(false)

	meta, document, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	s.cache.Add(id, &cachedEntry{meta: meta, document: document})
	return meta, document, nil
}

// List delegates to the inner store; listings are not cached.
func (s *CachedStore) List(ctx context.Context, limit, offset int) ([]*domain.ReportMeta, error) {
	return s.inner.List(ctx, limit, offset)
}

// Count delegates to the inner store.
func (s *CachedStore) Count(ctx context.Context) (int64, error) {
	return s.inner.Count(ctx)
}

// Delete removes the report from both the cache and the inner store.
func (s *CachedStore) Delete(ctx context.Context, id string) error {
	s.cache.Remove(id)
	return s.inner.Delete(ctx, id)
}

// ExportJSON delegates to the inner store.
func (s *CachedStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	return s.inner.ExportJSON(ctx, writer)
}

// Close purges the cache and closes the inner store.
func (s *CachedStore) Close() error {
	s.cache.Purge()
	return s.inner.Close()
}

// Stats returns a snapshot of cache performance counters.
func (s *CachedStore) Stats() CacheStats {
	s.statsMu.RLock()
	defer s.statsMu.RUnlock()
	return s.stats
}

func (s *CachedStore) recordHit(hit bool) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	if hit {
		s.stats.Hits++
	} else {
		s.stats.Misses++
	}
}
