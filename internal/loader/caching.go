package loader

import (
	"context"
	"sync"

	"github.com/bizrules/jdm/internal/document"
)

// Caching wraps a Loader with a read-through cache keyed by key, so a
// document (and its already-compiled ASTs) is parsed at most once per key
// for the lifetime of the wrapper, per the "caches parsed documents ...
// unless the loader opts out" contract in spec §4.G.
type Caching struct {
	inner Loader
	mu    sync.RWMutex
	cache map[string]*document.Document
}

// NewCaching wraps inner with an in-process document cache.
func NewCaching(inner Loader) *Caching {
	return &Caching{inner: inner, cache: make(map[string]*document.Document)}
}

func (c *Caching) Load(ctx context.Context, key string) (*document.Document, error) {
	c.mu.RLock()
	doc, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return doc, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if doc, ok := c.cache[key]; ok { // re-check: another goroutine may have won the race
		return doc, nil
	}

	doc, err := c.inner.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	c.cache[key] = doc
	return doc, nil
}

// Invalidate drops key from the cache, forcing the next Load to go to
// inner. Not part of the Loader interface — callers that need hot-reload
// semantics (explicitly out of scope for the core engine) reach for this on
// the concrete type.
func (c *Caching) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, key)
}
