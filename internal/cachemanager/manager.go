// Package cachemanager provides a small typed cache over go-cache.
package cachemanager

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/cheerioskun/textmarker/internal/utils"
)

// NoExpiration keeps an entry until it is deleted or the cache is flushed.
const NoExpiration = gocache.NoExpiration

// CacheManager is a typed key/value cache.
type CacheManager[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, ttl time.Duration)
	Delete(keys ...string)
	Keys() []string
	Flush()
}

// InMemoryCacheManager is the go-cache backed CacheManager.
type InMemoryCacheManager[V any] struct {
	useCase string
	cache   *gocache.Cache
}

// NewInMemoryCacheManager creates a cache. A zero cleanupInterval disables the janitor.
func NewInMemoryCacheManager[V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[V] {
	return &InMemoryCacheManager[V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get retrieves an item from the cache by its key
func (c *InMemoryCacheManager[V]) Get(key string) (V, bool) {
	var zeroValue V

	value, found := c.cache.Get(key)
	if !found {
		return zeroValue, false
	}

	v, ok := value.(V)
	if !ok {
		utils.Error(utils.CatRegistry, "wrong type assertion when getting value", "cache", c.useCase, "key", key)
		return zeroValue, false
	}

	return v, true
}

// Set stores value under key for ttl
func (c *InMemoryCacheManager[V]) Set(key string, value V, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}

// Delete removes values by key
func (c *InMemoryCacheManager[V]) Delete(keys ...string) {
	for _, key := range keys {
		c.cache.Delete(key)
	}
}

// Keys returns the keys of every unexpired item
func (c *InMemoryCacheManager[V]) Keys() []string {
	items := c.cache.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	return keys
}

// Flush drops every item
func (c *InMemoryCacheManager[V]) Flush() {
	c.cache.Flush()
}
