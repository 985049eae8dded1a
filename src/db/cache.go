package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// The category catalog changes rarely (only when a user adds or removes a
// custom category), so reads go through a small in-process cache. Balance
// summaries and conversation history are never cached: both must reflect
// the latest writes on every request.
var (
	Cache *ristretto.Cache

	CategoryCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

func SetCategoryCache(cacheKey string, value interface{}) {
	CategoryCacheKeys.Lock()
	CategoryCacheKeys.m[cacheKey] = struct{}{}
	CategoryCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func DelCategoryCache(cacheKey string) {
	CategoryCacheKeys.Lock()
	delete(CategoryCacheKeys.m, cacheKey)
	CategoryCacheKeys.Unlock()
	Cache.Del(cacheKey)
}

func ClearAllCategoryCaches() {
	CategoryCacheKeys.Lock()
	for key := range CategoryCacheKeys.m {
		Cache.Del(key)
	}
	CategoryCacheKeys.m = make(map[string]struct{})
	CategoryCacheKeys.Unlock()
}
