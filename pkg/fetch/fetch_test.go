package fetch

import (
	"context"
	stderrors "errors"
	"math"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"

	"github.com/matzehuels/mapposter/pkg/errors"
	"github.com/matzehuels/mapposter/pkg/integrations/overpass"
	"github.com/matzehuels/mapposter/pkg/mapdata"
)

// fakeSource answers queries from fixed data. errs maps a layer to the
// error it returns.
type fakeSource struct {
	streets   *osm.OSM
	features  map[string]*osm.OSM
	errs      map[string]error
	calls     []string
	failIfHit *testing.T
}

func layerOf(tags []overpass.Tag) string {
	switch tags[0] {
	case overpass.WaterTags[0]:
		return LayerWater
	case overpass.ParkTags[0]:
		return LayerParks
	default:
		return LayerCoastline
	}
}

func (s *fakeSource) Streets(ctx context.Context, b *osm.Bounds) (*osm.OSM, error) {
	if s.failIfHit != nil {
		s.failIfHit.Fatal("street network requested despite cached data")
	}
	s.calls = append(s.calls, LayerStreets)
	if err := s.errs[LayerStreets]; err != nil {
		return nil, err
	}
	return s.streets, nil
}

func (s *fakeSource) Features(ctx context.Context, tags []overpass.Tag, lat, lon float64, radius int) (*osm.OSM, error) {
	if s.failIfHit != nil {
		s.failIfHit.Fatal("features requested despite cached data")
	}
	layer := layerOf(tags)
	s.calls = append(s.calls, layer)
	if err := s.errs[layer]; err != nil {
		return nil, err
	}
	if o, ok := s.features[layer]; ok {
		return o, nil
	}
	return &osm.OSM{}, nil
}

func tags(kv ...string) osm.Tags {
	var t osm.Tags
	for i := 0; i+1 < len(kv); i += 2 {
		t = append(t, osm.Tag{Key: kv[i], Value: kv[i+1]})
	}
	return t
}

func way(id osm.WayID, t osm.Tags, nodes ...osm.NodeID) *osm.Way {
	w := &osm.Way{ID: id, Tags: t}
	for _, n := range nodes {
		w.Nodes = append(w.Nodes, osm.WayNode{ID: n})
	}
	return w
}

// crossStreets is a plus shape: way 10 runs 1-2-3 west to east and way 11
// runs 4-2-5 south to north, so node 2 is an intersection.
func crossStreets() *osm.OSM {
	return &osm.OSM{
		Nodes: osm.Nodes{
			{ID: 1, Lat: 48.8566, Lon: 2.3500},
			{ID: 2, Lat: 48.8566, Lon: 2.3522},
			{ID: 3, Lat: 48.8566, Lon: 2.3544},
			{ID: 4, Lat: 48.8550, Lon: 2.3522},
			{ID: 5, Lat: 48.8580, Lon: 2.3522},
		},
		Ways: osm.Ways{
			way(10, tags("highway", "primary;secondary", "name", "Rue A"), 1, 2, 3),
			way(11, tags("highway", "residential"), 4, 2, 5),
			way(12, tags("building", "yes"), 1, 3, 5, 1),
		},
	}
}

func pond() *osm.OSM {
	return &osm.OSM{
		Nodes: osm.Nodes{
			{ID: 100, Lat: 48.850, Lon: 2.340},
			{ID: 101, Lat: 48.850, Lon: 2.345},
			{ID: 102, Lat: 48.853, Lon: 2.345},
			{ID: 103, Lat: 48.853, Lon: 2.340},
			{ID: 104, Lat: 48.851, Lon: 2.341, Tags: tags("amenity", "bench")},
		},
		Ways: osm.Ways{way(200, tags("natural", "water"), 100, 101, 102, 103, 100)},
	}
}

func shore() *osm.OSM {
	return &osm.OSM{
		Nodes: osm.Nodes{
			{ID: 300, Lat: 48.84, Lon: 2.30},
			{ID: 301, Lat: 48.86, Lon: 2.40},
		},
		Ways: osm.Ways{way(400, tags("natural", "coastline"), 300, 301)},
	}
}

func quiet() Options { return Options{NoPause: true, Timeout: time.Second} }

func TestStreetGraphSplitsAtIntersections(t *testing.T) {
	g := StreetGraph(crossStreets())

	if len(g.Edges) != 4 {
		t.Fatalf("edges = %d, want 4", len(g.Edges))
	}
	if len(g.Nodes) != 5 {
		t.Errorf("nodes = %d, want 5", len(g.Nodes))
	}
	for _, e := range g.Edges {
		if e.U != 2 && e.V != 2 {
			t.Errorf("edge %d-%d does not touch the intersection", e.U, e.V)
		}
		if e.Geometry != nil {
			t.Errorf("straight edge %d-%d should have no explicit geometry", e.U, e.V)
		}
	}
	first := g.Edges[0]
	if len(first.Highway) != 2 || first.Highway[0] != "primary" || first.Highway[1] != "secondary" {
		t.Errorf("highway = %v, want [primary secondary]", first.Highway)
	}
	if first.Name != "Rue A" {
		t.Errorf("name = %q", first.Name)
	}
}

func TestStreetGraphKeepsInteriorGeometry(t *testing.T) {
	o := &osm.OSM{
		Nodes: osm.Nodes{
			{ID: 1, Lat: 0, Lon: 0.001},
			{ID: 2, Lat: 0.001, Lon: 0.001},
			{ID: 3, Lat: 0.001, Lon: 0.002},
		},
		Ways: osm.Ways{way(1, tags("highway", "service"), 1, 2, 3)},
	}
	g := StreetGraph(o)
	if len(g.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(g.Edges))
	}
	want := orb.LineString{{0.001, 0}, {0.001, 0.001}, {0.002, 0.001}}
	if !g.Edges[0].Geometry.Equal(want) {
		t.Errorf("geometry = %v, want %v", g.Edges[0].Geometry, want)
	}
	if len(g.Nodes) != 2 {
		t.Errorf("interior node should not become a graph node: %d nodes", len(g.Nodes))
	}
}

func TestFeaturesFiltersByKind(t *testing.T) {
	fc, err := Features(pond(), Areas)
	if err != nil {
		t.Fatal(err)
	}
	if fc == nil || len(fc.Features) != 1 {
		t.Fatalf("want one water polygon, got %v", fc)
	}
	if _, ok := fc.Features[0].Geometry.(orb.Polygon); !ok {
		t.Errorf("geometry = %T, want orb.Polygon", fc.Features[0].Geometry)
	}

	if fc, _ := Features(pond(), Lines); fc != nil {
		t.Errorf("pond has no lines, got %d features", len(fc.Features))
	}

	lines, err := Features(shore(), Lines)
	if err != nil || lines == nil {
		t.Fatalf("coastline: %v %v", lines, err)
	}
	if _, ok := lines.Features[0].Geometry.(orb.LineString); !ok {
		t.Errorf("geometry = %T, want orb.LineString", lines.Features[0].Geometry)
	}
}

func TestBoundsAround(t *testing.T) {
	b := BoundsAround(48.8566, 2.3522, 1000)
	if !(b.MinLat < 48.8566 && 48.8566 < b.MaxLat && b.MinLon < 2.3522 && 2.3522 < b.MaxLon) {
		t.Fatalf("bounds %+v do not contain the centre", b)
	}

	north := Distance(48.8566, 2.3522, b.MaxLat, 2.3522)
	if math.Abs(north-1000) > 5 {
		t.Errorf("north extent = %.1f m, want about 1000", north)
	}
	east := Distance(48.8566, 2.3522, 48.8566, b.MaxLon)
	if east < 995 {
		t.Errorf("east extent = %.1f m, want at least 1000", east)
	}
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{
		streets:  crossStreets(),
		features: map[string]*osm.OSM{LayerWater: pond(), LayerCoastline: shore()},
		errs:     map[string]error{LayerParks: stderrors.New("boom")},
	}
	store, err := mapdata.NewFileStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	var seen []string
	opts := quiet()
	opts.OnLayer = func(l string) { seen = append(seen, l) }
	b, rep, err := New(src, store, opts).Fetch(ctx, 48.8566, 2.3522, 1000)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{LayerStreets, LayerWater, LayerParks, LayerCoastline}
	if len(src.calls) != len(want) || len(seen) != len(want) {
		t.Fatalf("calls = %v, progress = %v, want %v", src.calls, seen, want)
	}
	for i := range want {
		if src.calls[i] != want[i] || seen[i] != want[i] {
			t.Errorf("step %d: call %s, progress %s, want %s", i, src.calls[i], seen[i], want[i])
		}
	}

	if !rep.Water.Present || rep.Water.Features != 1 {
		t.Errorf("water = %v", rep.Water)
	}
	if rep.Parks.Present || rep.Parks.Reason != "error: boom" {
		t.Errorf("parks = %v", rep.Parks)
	}
	if !rep.Coastline.Present {
		t.Errorf("coastline = %v", rep.Coastline)
	}
	if b.Parks != nil || b.Water == nil || b.Coastline == nil {
		t.Error("bundle layers do not match the report")
	}
	if rep.Edges != 4 {
		t.Errorf("edges = %d", rep.Edges)
	}

	if _, ok := store.Load(ctx, mapdata.NewKey(48.8566, 2.3522, 1000)); !ok {
		t.Error("fetch should write through to the store")
	}
}

func TestFetchEmptyLayer(t *testing.T) {
	src := &fakeSource{streets: crossStreets()}
	_, rep, err := New(src, nil, quiet()).Fetch(context.Background(), 48.8566, 2.3522, 1000)
	if err != nil {
		t.Fatal(err)
	}
	for name, r := range map[string]LayerResult{"water": rep.Water, "parks": rep.Parks, "coastline": rep.Coastline} {
		if r.Present || r.Reason != ReasonEmpty {
			t.Errorf("%s = %v, want absent (empty)", name, r)
		}
	}
}

func TestFetchStreetErrors(t *testing.T) {
	tests := []struct {
		name string
		src  *fakeSource
		code errors.Code
	}{
		{
			name: "network failure",
			src:  &fakeSource{errs: map[string]error{LayerStreets: stderrors.New("connection refused")}},
			code: errors.ErrCodeNetwork,
		},
		{
			name: "timeout",
			src:  &fakeSource{errs: map[string]error{LayerStreets: context.DeadlineExceeded}},
			code: errors.ErrCodeTimeout,
		},
		{
			name: "no streets",
			src:  &fakeSource{streets: &osm.OSM{}},
			code: errors.ErrCodeNoData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := New(tt.src, nil, quiet()).Fetch(context.Background(), 1, 1, 500)
			if !errors.Is(err, tt.code) {
				t.Fatalf("err = %v, want code %s", err, tt.code)
			}
			if len(tt.src.calls) != 1 {
				t.Errorf("feature layers should not be queried after a street failure: %v", tt.src.calls)
			}
		})
	}
}

func TestFetchPaceHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &fakeSource{streets: crossStreets()}
	opts := Options{StreetPause: time.Hour, OnLayer: func(l string) {
		if l == LayerStreets {
			cancel()
		}
	}}

	done := make(chan error, 1)
	go func() {
		_, _, err := New(src, nil, opts).Fetch(ctx, 48.8566, 2.3522, 1000)
		done <- err
	}()
	select {
	case err := <-done:
		if !stderrors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("pause did not observe cancellation")
	}
}

func TestFetchOrLoadCacheHit(t *testing.T) {
	ctx := context.Background()
	store, err := mapdata.NewFileStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	seed := &fakeSource{streets: crossStreets(), features: map[string]*osm.OSM{LayerWater: pond()}}
	if _, _, err := New(seed, store, quiet()).Fetch(ctx, 48.8566, 2.3522, 8000); err != nil {
		t.Fatal(err)
	}

	b, hit, err := New(&fakeSource{failIfHit: t}, store, quiet()).FetchOrLoad(ctx, 48.8566, 2.3522, 8000)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("expected a cache hit")
	}
	if len(b.Streets.Edges) != 4 || b.Water == nil {
		t.Errorf("cached bundle lost data: %d edges, water=%v", len(b.Streets.Edges), b.Water != nil)
	}
}

func TestFetchOrLoadMiss(t *testing.T) {
	src := &fakeSource{streets: crossStreets()}
	_, hit, err := New(src, nil, quiet()).FetchOrLoad(context.Background(), 48.8566, 2.3522, 8000)
	if err != nil {
		t.Fatal(err)
	}
	if hit || len(src.calls) != 4 {
		t.Errorf("hit=%v calls=%v", hit, src.calls)
	}
}
