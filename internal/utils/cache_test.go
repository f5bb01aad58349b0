package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoCacheGetOrFetch(t *testing.T) {
	cache := NewMemoCache[string](10, time.Minute)

	fetches := 0
	fetch := func() (string, error) {
		fetches++
		return "value", nil
	}

	first, err := cache.GetOrFetch("k", fetch)
	require.NoError(t, err)
	second, err := cache.GetOrFetch("k", fetch)
	require.NoError(t, err)

	assert.Equal(t, "value", first)
	assert.Equal(t, "value", second)
	assert.Equal(t, 1, fetches)
}

func TestMemoCacheGetOrFetchDoesNotCacheErrors(t *testing.T) {
	cache := NewMemoCache[string](10, time.Minute)

	fetches := 0
	failing := func() (string, error) {
		fetches++
		return "", errors.New("upstream down")
	}

	_, err := cache.GetOrFetch("k", failing)
	require.Error(t, err)
	_, err = cache.GetOrFetch("k", failing)
	require.Error(t, err)
	assert.Equal(t, 2, fetches)

	_, found := cache.Get("k")
	assert.False(t, found)
}

func TestMemoCacheExpiry(t *testing.T) {
	cache := NewMemoCache[int](10, 10*time.Millisecond)
	cache.Set("k", 7)

	value, found := cache.Get("k")
	require.True(t, found)
	assert.Equal(t, 7, value)

	time.Sleep(20 * time.Millisecond)
	_, found = cache.Get("k")
	assert.False(t, found)
	assert.Equal(t, 0, cache.Len())
}
