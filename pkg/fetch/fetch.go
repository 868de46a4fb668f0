package fetch

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"

	"github.com/matzehuels/mapposter/pkg/errors"
	"github.com/matzehuels/mapposter/pkg/integrations"
	"github.com/matzehuels/mapposter/pkg/integrations/overpass"
	"github.com/matzehuels/mapposter/pkg/mapdata"
	"github.com/matzehuels/mapposter/pkg/observability"
)

// Source runs Overpass queries. *overpass.Client implements it.
type Source interface {
	Streets(ctx context.Context, b *osm.Bounds) (*osm.OSM, error)
	Features(ctx context.Context, tags []overpass.Tag, lat, lon float64, radius int) (*osm.OSM, error)
}

var _ Source = (*overpass.Client)(nil)

// Layer names, in query order.
const (
	LayerStreets   = "network"
	LayerWater     = "water"
	LayerParks     = "parks"
	LayerCoastline = "coastline"
)

// Default pauses between queries.
const (
	DefaultStreetPause  = 500 * time.Millisecond
	DefaultFeaturePause = 300 * time.Millisecond
	DefaultTimeout      = overpass.DefaultTimeout
)

// Reasons recorded for absent layers.
const (
	ReasonEmpty   = "empty"
	ReasonTimeout = "timeout"
)

// Options configures a Fetcher. Zero values select the defaults; set
// NoPause to disable pacing entirely.
type Options struct {
	Timeout      time.Duration
	StreetPause  time.Duration
	FeaturePause time.Duration
	NoPause      bool
	Logger       *log.Logger

	// OnLayer is called before each query with the layer name.
	OnLayer func(layer string)
}

// LayerResult describes the outcome of one optional layer.
type LayerResult struct {
	Present  bool
	Features int
	Reason   string
}

func (r LayerResult) String() string {
	if r.Present {
		return fmt.Sprintf("%d features", r.Features)
	}
	return "absent (" + r.Reason + ")"
}

// Report summarises a fetch.
type Report struct {
	Nodes     int
	Edges     int
	Water     LayerResult
	Parks     LayerResult
	Coastline LayerResult
	Duration  time.Duration
	Cached    bool
}

// Fetcher downloads bundles and writes them through to a store.
type Fetcher struct {
	src    Source
	store  mapdata.Store
	opts   Options
	logger *log.Logger
}

// New creates a Fetcher. store may be nil, in which case nothing is cached.
func New(src Source, store mapdata.Store, opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.StreetPause <= 0 {
		opts.StreetPause = DefaultStreetPause
	}
	if opts.FeaturePause <= 0 {
		opts.FeaturePause = DefaultFeaturePause
	}
	if opts.NoPause {
		opts.StreetPause, opts.FeaturePause = 0, 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{src: src, store: store, opts: opts, logger: logger}
}

// FetchOrLoad returns the stored bundle for the rounded key of (lat, lon,
// radius), or fetches and stores it. The bool reports a cache hit.
func (f *Fetcher) FetchOrLoad(ctx context.Context, lat, lon float64, radius int) (*mapdata.Bundle, bool, error) {
	key := mapdata.NewKey(lat, lon, radius)
	if f.store != nil {
		if b, ok := f.store.Load(ctx, key); ok {
			f.logger.Debug("using cached map data", "key", key)
			return b, true, nil
		}
	}
	b, _, err := f.Fetch(ctx, lat, lon, radius)
	if err != nil {
		return nil, false, err
	}
	return b, false, nil
}

// Fetch downloads the street network and the optional layers around
// (lat, lon). The street network is required; optional layers that fail are
// recorded as absent in the report.
func (f *Fetcher) Fetch(ctx context.Context, lat, lon float64, radius int) (b *mapdata.Bundle, rep Report, err error) {
	key := mapdata.NewKey(lat, lon, radius)
	start := time.Now()
	observability.Pipeline().OnFetchStart(ctx, key.String())
	defer func() {
		rep.Duration = time.Since(start)
		layers := 0
		if b != nil {
			layers = b.Layers()
		}
		observability.Pipeline().OnFetchComplete(ctx, key.String(), layers, rep.Duration, err)
	}()

	graph, err := f.streets(ctx, lat, lon, radius)
	if err != nil {
		return nil, rep, err
	}
	rep.Nodes, rep.Edges = len(graph.Nodes), len(graph.Edges)
	if err := f.pause(ctx, f.opts.StreetPause); err != nil {
		return nil, rep, err
	}

	b = &mapdata.Bundle{Streets: graph}
	layers := []struct {
		name   string
		tags   []overpass.Tag
		kind   Kind
		dst    **geojson.FeatureCollection
		result *LayerResult
	}{
		{LayerWater, overpass.WaterTags, Areas, &b.Water, &rep.Water},
		{LayerParks, overpass.ParkTags, Areas, &b.Parks, &rep.Parks},
		{LayerCoastline, overpass.CoastlineTags, Lines, &b.Coastline, &rep.Coastline},
	}
	for i, l := range layers {
		fc, res := f.features(ctx, l.name, l.tags, l.kind, lat, lon, radius)
		if ctx.Err() != nil {
			return nil, rep, ctx.Err()
		}
		*l.dst, *l.result = fc, res
		if i < len(layers)-1 {
			if err := f.pause(ctx, f.opts.FeaturePause); err != nil {
				return nil, rep, err
			}
		}
	}

	b.CachedAt = time.Now().UTC()
	if f.store != nil {
		if err := f.store.Save(ctx, key, b); err != nil {
			f.logger.Warn("could not cache map data", "key", key, "err", err)
		}
	}
	return b, rep, nil
}

func (f *Fetcher) streets(ctx context.Context, lat, lon float64, radius int) (*mapdata.StreetGraph, error) {
	f.notify(LayerStreets)
	bounds := BoundsAround(lat, lon, radius)
	f.logger.Info("downloading street network", "radius", radius,
		"bbox", fmt.Sprintf("%.4f,%.4f,%.4f,%.4f", bounds.MinLat, bounds.MinLon, bounds.MaxLat, bounds.MaxLon))

	qctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()
	o, err := f.src.Streets(qctx, bounds)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "street network query timed out")
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "could not download street network")
	}
	g := StreetGraph(o)
	if g.Empty() {
		return nil, errors.New(errors.ErrCodeNoData, "no streets found within %d m of %.4f, %.4f", radius, lat, lon)
	}
	f.logger.Info("street network ready", "nodes", len(g.Nodes), "edges", len(g.Edges))
	return g, nil
}

func (f *Fetcher) features(ctx context.Context, layer string, tags []overpass.Tag, kind Kind, lat, lon float64, radius int) (*geojson.FeatureCollection, LayerResult) {
	f.notify(layer)
	f.logger.Debug("downloading features", "layer", layer)

	qctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	res := LayerResult{}
	o, err := f.src.Features(qctx, tags, lat, lon, radius)
	if err != nil {
		res.Reason = "error: " + err.Error()
		if ctx.Err() == nil && stderrors.Is(err, context.DeadlineExceeded) {
			res.Reason = ReasonTimeout
		}
		f.logger.Warn("skipping layer", "layer", layer, "reason", res.Reason)
		return nil, res
	}
	fc, err := Features(o, kind)
	if err != nil {
		res.Reason = "error: " + err.Error()
		f.logger.Warn("skipping layer", "layer", layer, "reason", res.Reason)
		return nil, res
	}
	if fc == nil {
		res.Reason = ReasonEmpty
		f.logger.Warn("skipping layer", "layer", layer, "reason", res.Reason)
		return nil, res
	}
	res.Present, res.Features = true, len(fc.Features)
	f.logger.Info("fetched layer", "layer", layer, "features", res.Features)
	return fc, res
}

func (f *Fetcher) notify(layer string) {
	if f.opts.OnLayer != nil {
		f.opts.OnLayer(layer)
	}
}

func (f *Fetcher) pause(ctx context.Context, d time.Duration) error {
	return integrations.Sleep(ctx, d)
}
