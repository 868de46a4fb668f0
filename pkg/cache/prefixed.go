package cache

import (
	"context"
	"strings"
	"time"
)

// Prefixed wraps a Cache and prepends a namespace to every key, so that one
// backend can hold several kinds of entries.
//
//	geo := cache.NewPrefixed(backend, "geocode:")
//	maps := cache.NewPrefixed(backend, "mapdata:")
type Prefixed struct {
	inner  Cache
	prefix string
}

// NewPrefixed creates a namespaced view of inner.
// A nil inner is replaced by a NullCache.
func NewPrefixed(inner Cache, prefix string) *Prefixed {
	if inner == nil {
		inner = NewNullCache()
	}
	return &Prefixed{inner: inner, prefix: prefix}
}

func (p *Prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *Prefixed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return p.inner.Set(ctx, p.prefix+key, data, ttl)
}

func (p *Prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}

// Keys lists keys under the namespace with the namespace stripped.
// It returns nil when the wrapped cache cannot enumerate.
func (p *Prefixed) Keys(ctx context.Context, prefix string) ([]string, error) {
	l, ok := p.inner.(Lister)
	if !ok {
		return nil, nil
	}
	keys, err := l.Keys(ctx, p.prefix+prefix)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, p.prefix)
	}
	return keys, nil
}

// Close closes the wrapped cache.
func (p *Prefixed) Close() error { return p.inner.Close() }

var (
	_ Cache  = (*Prefixed)(nil)
	_ Lister = (*Prefixed)(nil)
)
