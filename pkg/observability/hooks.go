// Package observability lets the CLI, or any embedding program, watch the
// poster pipeline without the pipeline depending on a metrics backend.
//
// Three hook sets exist: PipelineHooks for map data fetches and renders,
// CacheHooks for the map data and geocoder caches, and HTTPHooks for calls
// to Overpass and Nominatim. Each defaults to a no-op. Register replacements
// once at startup:
//
//	observability.Install(myHooks) // registers every set myHooks implements
//
// Library code emits events through the accessors:
//
//	observability.Pipeline().OnFetchStart(ctx, key)
//	observability.Pipeline().OnFetchComplete(ctx, key, layers, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Hook Sets
// =============================================================================

// PipelineHooks observes the two slow stages of a poster. key is the map
// data key, e.g. "map_48.8566_2.3522_8000_1a2b3c4d". layers counts the
// optional layers (water, parks, coastline) that came back present. bytes
// is the size of the primary artifact.
type PipelineHooks interface {
	OnFetchStart(ctx context.Context, key string)
	OnFetchComplete(ctx context.Context, key string, layers int, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, bytes int, duration time.Duration, err error)
}

// CacheHooks observes cache lookups. keyType names the store: "mapdata"
// for bundles, "nominatim" for geocoder answers.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks observes calls to Overpass and Nominatim. OnError covers
// transport failures; HTTP error statuses arrive through OnResponse.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnFetchStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnFetchComplete(context.Context, string, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

var registry struct {
	sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

func init() { Reset() }

// SetPipelineHooks replaces the pipeline hooks. nil is ignored.
func SetPipelineHooks(h PipelineHooks) { set(&registry.pipeline, h) }

// SetCacheHooks replaces the cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) { set(&registry.cache, h) }

// SetHTTPHooks replaces the HTTP hooks. nil is ignored.
func SetHTTPHooks(h HTTPHooks) { set(&registry.http, h) }

func set[T comparable](slot *T, h T) {
	var zero T
	if h == zero {
		return
	}
	registry.Lock()
	*slot = h
	registry.Unlock()
}

func get[T any](slot *T) T {
	registry.RLock()
	defer registry.RUnlock()
	return *slot
}

// Pipeline returns the current pipeline hooks.
func Pipeline() PipelineHooks { return get(&registry.pipeline) }

// Cache returns the current cache hooks.
func Cache() CacheHooks { return get(&registry.cache) }

// HTTP returns the current HTTP hooks.
func HTTP() HTTPHooks { return get(&registry.http) }

// Install registers h for every hook set it implements and reports how
// many sets it replaced.
func Install(h any) int {
	n := 0
	if p, ok := h.(PipelineHooks); ok {
		SetPipelineHooks(p)
		n++
	}
	if c, ok := h.(CacheHooks); ok {
		SetCacheHooks(c)
		n++
	}
	if t, ok := h.(HTTPHooks); ok {
		SetHTTPHooks(t)
		n++
	}
	return n
}

// Reset restores the no-op hooks. Tests call it to undo Install.
func Reset() {
	registry.Lock()
	defer registry.Unlock()
	registry.pipeline = NoopPipelineHooks{}
	registry.cache = NoopCacheHooks{}
	registry.http = NoopHTTPHooks{}
}
