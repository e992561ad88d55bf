package common

import (
	lru "github.com/hashicorp/golang-lru"
)

// LRU is a fixed-size cache used to memoize expensive graph predicates.
type LRU struct {
	cache *lru.Cache
}

// NewLRU creates an LRU of the given size. onEvict is optional.
func NewLRU(size int, onEvict func(key interface{}, value interface{})) *LRU {
	if size < 1 {
		size = 1
	}

	var (
		c   *lru.Cache
		err error
	)
	if onEvict != nil {
		c, err = lru.NewWithEvict(size, onEvict)
	} else {
		c, err = lru.New(size)
	}
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}

	return &LRU{cache: c}
}

// Get ...
func (l *LRU) Get(key interface{}) (interface{}, bool) {
	return l.cache.Get(key)
}

// Add returns true if an eviction occurred.
func (l *LRU) Add(key, value interface{}) bool {
	return l.cache.Add(key, value)
}

// Remove ...
func (l *LRU) Remove(key interface{}) {
	l.cache.Remove(key)
}

// Purge ...
func (l *LRU) Purge() {
	l.cache.Purge()
}

// Len ...
func (l *LRU) Len() int {
	return l.cache.Len()
}
