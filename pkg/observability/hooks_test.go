package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

// recorder counts the events it receives.
type recorder struct {
	NoopPipelineHooks
	NoopHTTPHooks

	mu     sync.Mutex
	hits   map[string]int
	misses map[string]int
	bytes  int
}

func newRecorder() *recorder {
	return &recorder{hits: map[string]int{}, misses: map[string]int{}}
}

func (r *recorder) OnCacheHit(_ context.Context, keyType string) {
	r.mu.Lock()
	r.hits[keyType]++
	r.mu.Unlock()
}

func (r *recorder) OnCacheMiss(_ context.Context, keyType string) {
	r.mu.Lock()
	r.misses[keyType]++
	r.mu.Unlock()
}

func (r *recorder) OnCacheSet(_ context.Context, _ string, size int) {
	r.mu.Lock()
	r.bytes += size
	r.mu.Unlock()
}

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	Pipeline().OnFetchStart(ctx, "map_48.8566_2.3522_8000_1a2b3c4d")
	Pipeline().OnFetchComplete(ctx, "map_48.8566_2.3522_8000_1a2b3c4d", 3, time.Second, nil)
	Pipeline().OnRenderComplete(ctx, "svg-laser", 2048, time.Second, nil)
	Cache().OnCacheSet(ctx, "mapdata", 1024)
	HTTP().OnResponse(ctx, "POST", "overpass-api.de", "/api/interpreter", 200, time.Second)
	HTTP().OnError(ctx, "GET", "nominatim.openstreetmap.org", "/search", nil)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}
}

func TestInstall(t *testing.T) {
	defer Reset()

	tests := []struct {
		name  string
		hooks any
		want  int
	}{
		{"all three sets", newRecorder(), 3},
		{"cache only", NoopCacheHooks{}, 1},
		{"nothing", "not hooks", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			if got := Install(tt.hooks); got != tt.want {
				t.Errorf("Install() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInstalledHooksReceiveEvents(t *testing.T) {
	defer Reset()
	rec := newRecorder()
	Install(rec)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Cache().OnCacheMiss(ctx, "mapdata")
			Cache().OnCacheSet(ctx, "mapdata", 100)
			Cache().OnCacheHit(ctx, "nominatim")
		}()
	}
	wg.Wait()

	if rec.misses["mapdata"] != 8 || rec.hits["nominatim"] != 8 || rec.bytes != 800 {
		t.Errorf("recorded misses=%v hits=%v bytes=%d", rec.misses, rec.hits, rec.bytes)
	}
}

func TestSetNilKeepsCurrentHooks(t *testing.T) {
	defer Reset()
	rec := newRecorder()
	Install(rec)

	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetHTTPHooks(nil)

	if Cache() != CacheHooks(rec) {
		t.Errorf("Cache() = %T after SetCacheHooks(nil), want recorder", Cache())
	}
}
