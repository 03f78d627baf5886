package zaptec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryTokenCache(t *testing.T) {
	cache, err := NewMemoryTokenCache()
	assert.NoError(t, err)

	value, err := cache.Get(TokensCacheKey)
	assert.NoError(t, err)
	assert.Nil(t, value)

	assert.NoError(t, cache.Set(TokensCacheKey, []byte("payload")))

	value, err = cache.Get(TokensCacheKey)
	assert.NoError(t, err)
	assert.Equal(t, []byte("payload"), value)
}

func TestFileTokenCache(t *testing.T) {
	cache, err := NewFileTokenCache(":memory:")
	assert.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	value, err := cache.Get(TokensCacheKey)
	assert.NoError(t, err)
	assert.Nil(t, value)

	assert.NoError(t, cache.Set(TokensCacheKey, []byte("payload")))

	value, err = cache.Get(TokensCacheKey)
	assert.NoError(t, err)
	assert.Equal(t, []byte("payload"), value)

	assert.NoError(t, cache.Set(TokensCacheKey, []byte("updated")))

	value, err = cache.Get(TokensCacheKey)
	assert.NoError(t, err)
	assert.Equal(t, []byte("updated"), value)
}

func TestFileTokenCache_entryExpiry(t *testing.T) {
	cache, err := NewFileTokenCache(":memory:")
	assert.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	clock := &MockClock{CurTime: time.Now().UTC()}
	cache.Time = clock

	assert.NoError(t, cache.Set(TokensCacheKey, []byte("payload")))

	clock.CurTime = clock.CurTime.Add(CacheTTL + time.Minute)

	value, err := cache.Get(TokensCacheKey)
	assert.NoError(t, err)
	assert.Nil(t, value)
}
