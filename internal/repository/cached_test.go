package repository

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preop-assessment-server/internal/domain"
)

func createCachedStore(t *testing.T) *CachedStore {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress logs during testing

	cached, err := NewCachedStore(createTestStore(t), 8, logger)
	require.NoError(t, err)
	t.Cleanup(func() { cached.Close() })
	return cached
}

func TestCachedStore_GetHitsCache(t *testing.T) {
	store := createCachedStore(t)
	ctx := context.Background()

	meta := testMeta("Jane Roe", 2)
	require.NoError(t, store.Save(ctx, meta, []byte("doc")))

	// Save primes the cache, so the first Get is already a hit
	got, document, err := store.Get(ctx, meta.ID)
	require.NoError(t, err)
	assert.Equal(t, meta.ID, got.ID)
	assert.Equal(t, []byte("doc"), document)

	stats := store.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(0), stats.Misses)
}

func TestCachedStore_MissFallsThrough(t *testing.T) {
	store := createCachedStore(t)
	ctx := context.Background()

	_, _, err := store.Get(ctx, "missing-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stats := store.Stats()
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCachedStore_DeleteEvicts(t *testing.T) {
	store := createCachedStore(t)
	ctx := context.Background()

	meta := testMeta("Jane Roe", 2)
	require.NoError(t, store.Save(ctx, meta, []byte("doc")))
	require.NoError(t, store.Delete(ctx, meta.ID))

	_, _, err := store.Get(ctx, meta.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
