package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. It backs the "disabled" backend and stands in
// when a client is built without a cache, so every lookup is a miss and
// every Overpass or Nominatim answer is fetched fresh.
type NullCache struct{}

var (
	_ Cache  = NullCache{}
	_ Lister = NullCache{}
)

// NewNullCache returns a cache that stores nothing.
func NewNullCache() NullCache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Keys(context.Context, string) ([]string, error)           { return nil, nil }
func (NullCache) Close() error                                             { return nil }
