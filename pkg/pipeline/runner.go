package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/matzehuels/mapposter/pkg/errors"
	"github.com/matzehuels/mapposter/pkg/fetch"
	"github.com/matzehuels/mapposter/pkg/fonts"
	"github.com/matzehuels/mapposter/pkg/geo"
	"github.com/matzehuels/mapposter/pkg/integrations/nominatim"
	"github.com/matzehuels/mapposter/pkg/mapdata"
	"github.com/matzehuels/mapposter/pkg/ocean"
	"github.com/matzehuels/mapposter/pkg/render"
	"github.com/matzehuels/mapposter/pkg/render/laser"
	"github.com/matzehuels/mapposter/pkg/roads"
	"github.com/matzehuels/mapposter/pkg/theme"
)

// Geocoder resolves place names to coordinates. *nominatim.Client
// implements it.
type Geocoder interface {
	Geocode(ctx context.Context, city, country string, refresh bool) (*nominatim.Place, error)
	Reverse(ctx context.Context, lat, lon float64, refresh bool) (*nominatim.Place, error)
}

var _ Geocoder = (*nominatim.Client)(nil)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Source   fetch.Source
	Store    mapdata.Store // nil disables map data caching
	Geocoder Geocoder      // nil requires coordinates in Options
	Themes   *theme.Catalog
	FontsDir string
	Fetch    fetch.Options
	Logger   *log.Logger

	// Now stamps output names and configs. Tests replace it.
	Now func() time.Time
}

// NewRunner creates a runner over the given map data source, store and
// geocoder. The built-in theme catalog is used until Themes is replaced.
func NewRunner(src fetch.Source, store mapdata.Store, geocoder Geocoder, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source:   src,
		Store:    store,
		Geocoder: geocoder,
		Themes:   theme.Builtin(),
		Logger:   logger,
		Now:      time.Now,
	}
}

// job is the shared state of one poster run after geocoding and fetching.
type job struct {
	opts      Options
	bundle    *mapdata.Bundle
	cached    bool
	fetchTime time.Duration
	family    *fonts.Family
}

// FetchOrLoad returns the map data around (lat, lon), from the store when
// present. The bool reports a cache hit.
func (r *Runner) FetchOrLoad(ctx context.Context, lat, lon float64, radius int) (*mapdata.Bundle, bool, error) {
	if err := errors.ValidateCoordinates(lat, geo.NormalizeLon(lon)); err != nil {
		return nil, false, err
	}
	if err := errors.ValidateRadius(radius); err != nil {
		return nil, false, err
	}
	return r.fetcher(nil).FetchOrLoad(ctx, lat, geo.NormalizeLon(lon), radius)
}

// RenderPoster runs the full pipeline for one poster and writes the
// artifact, its thumbnail and the config sidecar to opts.OutputDir.
func (r *Runner) RenderPoster(ctx context.Context, opts Options) (*Result, error) {
	j, err := r.prepare(ctx, opts, []string{opts.Theme})
	if err != nil {
		return nil, err
	}
	res, err := r.renderTheme(ctx, j, j.opts.Theme, "")
	if err != nil {
		return nil, err
	}
	j.opts.report(StageDone, 100, "Poster ready")
	return res, nil
}

// Variations renders one poster per theme over a single fetch. All configs
// share a batch id. On error the posters written so far are returned.
func (r *Runner) Variations(ctx context.Context, opts Options, themes []string) ([]*Result, error) {
	if len(themes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no themes given")
	}
	j, err := r.prepare(ctx, opts, themes)
	if err != nil {
		return nil, err
	}
	batch := uuid.NewString()
	j.opts.Logger.Info("rendering variations", "themes", len(themes), "batch", batch)

	results := make([]*Result, 0, len(themes))
	for _, id := range themes {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := r.renderTheme(ctx, j, id, batch)
		if err != nil {
			return results, fmt.Errorf("theme %s: %w", id, err)
		}
		results = append(results, res)
	}
	j.opts.report(StageDone, 100, fmt.Sprintf("%d posters ready", len(results)))
	return results, nil
}

// prepare validates opts, checks every theme exists, resolves the font,
// geocodes and loads the map data.
func (r *Runner) prepare(ctx context.Context, opts Options, themes []string) (*job, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	for _, id := range themes {
		if _, err := r.catalog().Get(id); err != nil {
			return nil, err
		}
	}
	family, err := fonts.Resolve(r.FontsDir, opts.Font)
	if err != nil {
		return nil, err
	}

	if err := r.locate(ctx, &opts); err != nil {
		return nil, err
	}

	start := time.Now()
	f := r.fetcher(&opts)
	lat, lon := opts.Coords.Lat, opts.Coords.Lon
	var (
		b      *mapdata.Bundle
		cached bool
	)
	if opts.Refresh {
		b, _, err = f.Fetch(ctx, lat, lon, opts.Distance)
	} else {
		b, cached, err = f.FetchOrLoad(ctx, lat, lon, opts.Distance)
	}
	if err != nil {
		return nil, err
	}
	if cached {
		opts.report(StageNetwork, 60, "Using cached map data")
	} else {
		opts.report(StageCoastline, 60, "Map data downloaded")
	}
	logger.Info("map data ready",
		"edges", len(b.Streets.Edges),
		"layers", b.Layers(),
		"cached", cached,
		"duration", time.Since(start))

	return &job{opts: opts, bundle: b, cached: cached, fetchTime: time.Since(start), family: family}, nil
}

// locate fills opts.Coords by geocoding, or opts.City by reverse geocoding
// when only coordinates are given.
func (r *Runner) locate(ctx context.Context, opts *Options) error {
	if opts.Coords != nil {
		opts.report(StageGeocode, 10, "Using provided coordinates")
		if opts.City == "" && r.Geocoder != nil {
			place, err := r.Geocoder.Reverse(ctx, opts.Coords.Lat, opts.Coords.Lon, opts.Refresh)
			if err != nil {
				opts.Logger.Warn("reverse geocoding failed", "err", err)
			} else {
				opts.City, opts.Country = place.City, place.Country
			}
		}
		return nil
	}

	if r.Geocoder == nil {
		return errors.New(errors.ErrCodeGeocode, "no geocoder configured for %s, %s", opts.City, opts.Country)
	}
	opts.report(StageGeocode, 5, "Looking up coordinates")
	place, err := r.Geocoder.Geocode(ctx, opts.City, opts.Country, opts.Refresh)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(errors.ErrCodeGeocode, err, "could not find coordinates for %s, %s", opts.City, opts.Country)
	}
	opts.Coords = &Coords{Lat: place.Lat, Lon: geo.NormalizeLon(place.Lon)}
	opts.Logger.Info("found coordinates", "place", place.DisplayName, "lat", place.Lat, "lon", place.Lon)
	opts.report(StageGeocode, 12, "Coordinates found")
	return nil
}

// renderTheme draws the prepared map with one theme and saves it.
func (r *Runner) renderTheme(ctx context.Context, j *job, themeID, batch string) (*Result, error) {
	opts := j.opts
	opts.Theme = themeID
	th, err := r.catalog().Get(themeID)
	if err != nil {
		return nil, err
	}

	opts.report(StageRender, 70, "Rendering map")
	renderStart := time.Now()
	art, stats, err := r.draw(ctx, j.bundle, &opts, th, j.family)
	if err != nil {
		return nil, err
	}
	stats.RenderTime = time.Since(renderStart)
	stats.FetchTime = j.fetchTime
	stats.Cached = j.cached
	stats.Bytes = len(art.Data)
	opts.Logger.Info("rendered poster",
		"theme", themeID,
		"format", opts.Format,
		"bytes", stats.Bytes,
		"duration", stats.RenderTime)

	opts.report(StageSave, 90, "Saving poster")
	saveStart := time.Now()
	res, err := r.save(&opts, art, batch)
	if err != nil {
		return nil, err
	}
	stats.SaveTime = time.Since(saveStart)
	res.Stats = stats
	opts.Logger.Info("saved poster", "path", res.Path)
	return res, nil
}

// draw builds the scene and renders it, or emits laser layers.
func (r *Runner) draw(ctx context.Context, b *mapdata.Bundle, opts *Options, th *theme.Theme, family *fonts.Family) (*render.Artifact, Stats, error) {
	var stats Stats
	center := orb.Point{opts.Coords.Lon, opts.Coords.Lat}
	p := geo.Project(b, center)
	stats.Streets = len(p.Streets)

	crop, err := geo.CropBox(p.Bounds, opts.aspect.Ratio)
	if err != nil {
		return nil, stats, errors.Wrap(errors.ErrCodeNoData, err, "map area around %.4f, %.4f", opts.Coords.Lat, opts.Coords.Lon)
	}

	sea := ocean.Reconstruct(p.Coastline, crop)
	stats.Ocean = sea.Present
	if !sea.Present {
		stats.OceanNote = sea.Reason
		opts.Logger.Debug("no ocean layer", "reason", sea.Reason)
	}

	scene := &render.Scene{
		Map:      p,
		Ocean:    sea.Polygon,
		Crop:     crop,
		Theme:    th,
		Labels:   opts.Labels(),
		Pin:      opts.pin,
		PinColor: opts.PinColor,
	}

	if !opts.IsLaser() {
		art, err := render.Render(ctx, scene, render.Options{
			Format:     opts.format,
			DPI:        opts.DPI,
			Fonts:      family,
			EmbedFonts: opts.EmbedFonts,
		})
		return art, stats, err
	}

	polys, rep := roads.Polygonize(p, crop)
	if rep.Skipped > 0 {
		opts.Logger.Warn("skipped degenerate streets", "count", rep.Skipped)
	}
	lopts := laser.Options{WidthMM: opts.LaserWidthMM, HeightMM: opts.LaserHeightMM}
	data := laser.Emit(laser.Layers{
		Roads: polys,
		Ocean: sea.Polygon,
		Water: p.Water,
		Parks: p.Parks,
	}, crop, th, opts.Labels(), lopts)

	wmm, hmm := lopts.WidthMM, lopts.HeightMM
	if wmm == 0 {
		wmm = laser.DefaultWidthMM
	}
	if hmm == 0 {
		hmm = laser.DefaultHeightMM
	}
	return &render.Artifact{
		Format: render.FormatSVGLaser,
		Data:   data,
		Width:  mmToPoints(wmm),
		Height: mmToPoints(hmm),
	}, stats, nil
}

func mmToPoints(mm float64) int {
	return int(math.Round(mm * 72 / 25.4))
}

func (r *Runner) fetcher(opts *Options) *fetch.Fetcher {
	fo := r.Fetch
	if fo.Logger == nil {
		fo.Logger = r.Logger
	}
	if opts != nil {
		fo.Logger = opts.Logger
		fo.OnLayer = func(layer string) {
			if p, ok := layerProgress[layer]; ok {
				opts.report(p.Stage, p.Percent, p.Message)
			}
		}
	}
	return fetch.New(r.Source, r.Store, fo)
}

var layerProgress = map[string]Progress{
	fetch.LayerStreets:   {StageNetwork, 20, "Downloading street network"},
	fetch.LayerWater:     {StageWater, 38, "Downloading water features"},
	fetch.LayerParks:     {StageParks, 50, "Downloading parks/green spaces"},
	fetch.LayerCoastline: {StageCoastline, 55, "Downloading coastline"},
}

func (r *Runner) catalog() *theme.Catalog {
	if r.Themes == nil {
		return theme.Builtin()
	}
	return r.Themes
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// applyLogger sets the runner's logger on opts if opts has no logger.
// This ensures pipeline stages log through the runner's configured logger.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
