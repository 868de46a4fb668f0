package mapdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/mapposter/pkg/cache"
)

func sampleBundle() *Bundle {
	water := geojson.NewFeatureCollection()
	water.Append(geojson.NewFeature(orb.Polygon{{{2.35, 48.85}, {2.36, 48.85}, {2.36, 48.86}, {2.35, 48.85}}}))
	parks := geojson.NewFeatureCollection()
	parks.Append(geojson.NewFeature(orb.Polygon{{{2.30, 48.80}, {2.31, 48.80}, {2.31, 48.81}, {2.30, 48.80}}}))
	coast := geojson.NewFeatureCollection()
	coast.Append(geojson.NewFeature(orb.LineString{{2.0, 48.0}, {2.1, 48.1}}))

	return &Bundle{
		Streets: &StreetGraph{
			Nodes: []Node{{ID: 1, Lon: 2.3522, Lat: 48.8566}, {ID: 2, Lon: 2.3530, Lat: 48.8570}, {ID: 3, Lon: 2.3540, Lat: 48.8560}},
			Edges: []Edge{
				{U: 1, V: 2, Highway: []string{"primary"}, Name: "Rue de Rivoli"},
				{U: 2, V: 3, Highway: []string{"residential"}, Geometry: orb.LineString{{2.3530, 48.8570}, {2.3535, 48.8565}, {2.3540, 48.8560}}},
			},
		},
		Water:     water,
		Parks:     parks,
		Coastline: coast,
		CachedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func assertBundleEqual(t *testing.T, got, want *Bundle) {
	t.Helper()
	if len(got.Streets.Nodes) != len(want.Streets.Nodes) || len(got.Streets.Edges) != len(want.Streets.Edges) {
		t.Fatalf("graph size = %d/%d, want %d/%d",
			len(got.Streets.Nodes), len(got.Streets.Edges), len(want.Streets.Nodes), len(want.Streets.Edges))
	}
	for i, n := range want.Streets.Nodes {
		if got.Streets.Nodes[i] != n {
			t.Errorf("node %d = %+v, want %+v", i, got.Streets.Nodes[i], n)
		}
	}
	for i, e := range want.Streets.Edges {
		g := got.Streets.Edges[i]
		if g.U != e.U || g.V != e.V || g.Name != e.Name || len(g.Highway) != len(e.Highway) || !g.Geometry.Equal(e.Geometry) {
			t.Errorf("edge %d = %+v, want %+v", i, g, e)
		}
	}
	layers := []struct {
		name      string
		got, want *geojson.FeatureCollection
	}{
		{"water", got.Water, want.Water},
		{"parks", got.Parks, want.Parks},
		{"coastline", got.Coastline, want.Coastline},
	}
	for _, l := range layers {
		if l.got == nil || len(l.got.Features) != len(l.want.Features) {
			t.Fatalf("%s layer lost", l.name)
		}
		if !orb.Equal(l.got.Features[0].Geometry, l.want.Features[0].Geometry) {
			t.Errorf("%s geometry = %v, want %v", l.name, l.got.Features[0].Geometry, l.want.Features[0].Geometry)
		}
	}
	if !got.CachedAt.Equal(want.CachedAt) {
		t.Errorf("CachedAt = %v, want %v", got.CachedAt, want.CachedAt)
	}
}

func TestKeyParis(t *testing.T) {
	k := NewKey(48.85661234, 2.35222, 8000)
	if k.Lat != 48.8566 || k.Lon != 2.3522 || k.Radius != 8000 {
		t.Fatalf("NewKey = %+v", k)
	}
	want := "map_48.8566_2.3522_8000_" + cache.ShortDigest("48.8566_2.3522_8000", 8) + ".json"
	if k.Filename() != want {
		t.Errorf("Filename() = %q, want %q", k.Filename(), want)
	}
	if len(k.Hash()) != 8 {
		t.Errorf("Hash() length = %d", len(k.Hash()))
	}
}

// Requests within the rounding cell share an entry. This is relied upon
// and must not change silently.
func TestKeyCollisionBoundary(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Key
		collide bool
	}{
		{"few meters apart", NewKey(48.85661, 2.35221, 8000), NewKey(48.85664, 2.35224, 8000), true},
		{"adjacent cells", NewKey(48.85661, 2.3522, 8000), NewKey(48.85676, 2.3522, 8000), false},
		{"different radius", NewKey(48.8566, 2.3522, 8000), NewKey(48.8566, 2.3522, 8001), false},
		{"negative zero", NewKey(-0.00001, 0, 1000), NewKey(0.00001, 0, 1000), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Filename() == tt.b.Filename(); got != tt.collide {
				t.Errorf("%s vs %s: collide = %v, want %v", tt.a, tt.b, got, tt.collide)
			}
		})
	}
}

func TestParseKey(t *testing.T) {
	k := NewKey(-33.8688, 151.2093, 12000)
	got, ok := ParseKey(k.Filename())
	if !ok || got != k {
		t.Fatalf("ParseKey(%q) = %+v, %v", k.Filename(), got, ok)
	}

	for _, bad := range []string{
		"notes.json",
		"map_1_2_3.json",
		"map_a_b_c_deadbeef.json",
		"map_48.8566_2.3522_8000_deadbeef.json",
	} {
		if _, ok := ParseKey(bad); ok {
			t.Errorf("ParseKey(%q) should fail", bad)
		}
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	key := NewKey(48.8566, 2.3522, 8000)
	want := sampleBundle()

	if _, ok := s.Load(ctx, key); ok {
		t.Fatal("empty store should miss")
	}
	if err := s.Save(ctx, key, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok := s.Load(ctx, key)
	if !ok {
		t.Fatal("Load after Save should hit")
	}
	assertBundleEqual(t, got, want)

	if got == want {
		t.Error("Load should return a fresh value")
	}
}

func TestFileStoreCorruptEntry(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated", []byte(`{"version":1,"street_graph":{"nodes":[`)},
		{"garbage", []byte{0xff, 0x00, 0x13}},
		{"wrong version", []byte(`{"version":99,"street_graph":{"nodes":[],"edges":[]}}`)},
		{"no streets", []byte(`{"version":1}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := NewFileStore(t.TempDir(), nil)
			key := NewKey(1, 2, 3000)
			if err := os.WriteFile(s.Path(key), tt.data, 0644); err != nil {
				t.Fatal(err)
			}
			if b, ok := s.Load(context.Background(), key); ok || b != nil {
				t.Error("corrupt entry should load as absent")
			}
		})
	}
}

func TestFileStoreListAndClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, _ := NewFileStore(dir, nil)

	keys := []Key{NewKey(48.8566, 2.3522, 8000), NewKey(40.7128, -74.006, 12000)}
	for _, k := range keys {
		if err := s.Save(ctx, k, sampleBundle()); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "map_bad.json"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() = %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Size == 0 || e.ModTime.IsZero() {
			t.Errorf("entry %s missing size or modtime", e.Name)
		}
	}

	n, err := s.Clear(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Clear() = %d, %v", n, err)
	}
	if _, ok := s.Load(ctx, keys[0]); ok {
		t.Error("entry survived Clear")
	}
	if _, err := os.Stat(filepath.Join(dir, "README.txt")); err != nil {
		t.Error("Clear removed an unrelated file")
	}
}

func TestKVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := cache.NewMemoryCache(0)
	s := NewKVStore(backend, nil)
	key := NewKey(48.8566, 2.3522, 8000)
	want := sampleBundle()

	if err := s.Save(ctx, key, want); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Load(ctx, key)
	if !ok {
		t.Fatal("Load after Save should hit")
	}
	assertBundleEqual(t, got, want)

	if _, ok, _ := backend.Get(ctx, KVPrefix+key.String()); !ok {
		t.Error("bundle should be stored under the mapdata namespace")
	}

	entries, err := s.List(ctx)
	if err != nil || len(entries) != 1 || entries[0].Key != key {
		t.Fatalf("List() = %+v, %v", entries, err)
	}
	if !entries[0].ModTime.Equal(want.CachedAt) {
		t.Errorf("ModTime = %v, want cached_at", entries[0].ModTime)
	}

	if n, err := s.Clear(ctx); err != nil || n != 1 {
		t.Fatalf("Clear() = %d, %v", n, err)
	}
	if _, ok := s.Load(ctx, key); ok {
		t.Error("entry survived Clear")
	}
}

func TestKVStoreCorruptAndNull(t *testing.T) {
	ctx := context.Background()
	key := NewKey(1, 1, 1000)

	backend := cache.NewMemoryCache(0)
	_ = backend.Set(ctx, KVPrefix+key.String(), []byte("{oops"), 0)
	if _, ok := NewKVStore(backend, nil).Load(ctx, key); ok {
		t.Error("corrupt KV entry should be a miss")
	}

	null := NewKVStore(cache.NewNullCache(), nil)
	if err := null.Save(ctx, key, sampleBundle()); err != nil {
		t.Fatalf("Save on null backend: %v", err)
	}
	if _, ok := null.Load(ctx, key); ok {
		t.Error("null backend should always miss")
	}
}

func TestEncodeRequiresStreets(t *testing.T) {
	if _, err := Encode(&Bundle{}); err == nil {
		t.Error("Encode without street graph should fail")
	}
}

func TestEdgeGeometryFallback(t *testing.T) {
	g := sampleBundle().Streets
	ls, ok := g.EdgeGeometry(g.Edges[0])
	if !ok || len(ls) != 2 || ls[0] != (orb.Point{2.3522, 48.8566}) {
		t.Errorf("straight segment = %v, %v", ls, ok)
	}
	ls, ok = g.EdgeGeometry(g.Edges[1])
	if !ok || len(ls) != 3 {
		t.Errorf("explicit geometry = %v, %v", ls, ok)
	}
	if _, ok := g.EdgeGeometry(Edge{U: 1, V: 99}); ok {
		t.Error("missing endpoint should fail")
	}
}
