// Package pipeline provides the complete mapposter workflow as reusable
// components.
//
// The pipeline package encapsulates the full map poster generation process:
// geocode → fetch (or load) → project and crop → render → save. Both the CLI
// and tests use the same Runner so caching, defaults and file naming are
// consistent everywhere.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Geocode: Resolve "city, country" to coordinates with Nominatim (skipped
//     when coordinates are given)
//  2. Fetch: Download the street network and optional layers from Overpass,
//     or load them from the map data store
//  3. Render: Project, crop, reconstruct the ocean and draw the poster (or
//     emit laser layers)
//  4. Save: Write the poster, its thumbnail and a JSON config sidecar
//
// Each stage reports progress to an optional [ProgressSink].
//
// # Usage
//
//	runner := pipeline.NewRunner(overpassClient, store, nominatimClient, logger)
//	result, err := runner.RenderPoster(ctx, pipeline.Options{
//	    City:    "Paris",
//	    Country: "France",
//	    Theme:   "noir",
//	})
//
// # Options
//
// [Options] carries every per-poster setting. Zero values are replaced by
// the defaults in [Options.ValidateAndSetDefaults], which is the single
// place defaults are decided.
package pipeline

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mapposter/pkg/errors"
	"github.com/matzehuels/mapposter/pkg/geo"
	"github.com/matzehuels/mapposter/pkg/render"
	"github.com/matzehuels/mapposter/pkg/theme"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultDistance  = 29000
	DefaultDPI       = 300
	DefaultFormat    = string(render.FormatPNG)
	DefaultTheme     = theme.DefaultID
	DefaultAspect    = geo.DefaultAspect
	DefaultOutputDir = "posters"
)

// =============================================================================
// Options
// =============================================================================

// Coords is a WGS84 position.
type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

// Options contains all configuration for one poster.
type Options struct {
	// Place
	City    string  `json:"city,omitempty"`
	Country string  `json:"country,omitempty"`
	Coords  *Coords `json:"coords,omitempty"` // skips geocoding when set

	// Map
	Distance    int    `json:"distance,omitempty"` // radius in metres
	AspectRatio string `json:"aspect_ratio,omitempty"`

	// Look
	Theme    string `json:"theme,omitempty"`
	Font     string `json:"font,omitempty"`
	Tagline  string `json:"tagline,omitempty"`
	Pin      string `json:"pin,omitempty"`
	PinColor string `json:"pin_color,omitempty"`

	// Output
	Format     string `json:"format,omitempty"`
	DPI        int    `json:"dpi,omitempty"`
	OutputDir  string `json:"output_dir,omitempty"`
	EmbedFonts bool   `json:"embed_fonts,omitempty"`

	// Laser canvas in millimetres, svg-laser only
	LaserWidthMM  float64 `json:"laser_width_mm,omitempty"`
	LaserHeightMM float64 `json:"laser_height_mm,omitempty"`

	// Refresh bypasses the geocode cache and the map data store.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime (not serialized)
	Logger   *log.Logger  `json:"-"`
	Progress ProgressSink `json:"-"`

	// Parsed during validation
	format render.Format
	pin    render.Pin
	aspect geo.Aspect

	// Internal state
	validated bool
}

// =============================================================================
// Progress
// =============================================================================

// Stage names a pipeline step in progress reports.
type Stage string

const (
	StageGeocode   Stage = "geocode"
	StageNetwork   Stage = "network"
	StageWater     Stage = "water"
	StageParks     Stage = "parks"
	StageCoastline Stage = "coastline"
	StageRender    Stage = "render"
	StageSave      Stage = "save"
	StageDone      Stage = "done"
)

// Progress is one progress report.
type Progress struct {
	Stage   Stage  `json:"stage"`
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// ProgressSink receives progress reports. Report is called synchronously
// from the goroutine running the pipeline.
type ProgressSink interface {
	Report(Progress)
}

// ProgressFunc adapts a function to a ProgressSink.
type ProgressFunc func(Progress)

// Report calls f(p).
func (f ProgressFunc) Report(p Progress) { f(p) }

type nopSink struct{}

func (nopSink) Report(Progress) {}

// =============================================================================
// Results
// =============================================================================

// Result contains the output of a poster run.
type Result struct {
	Path       string       // primary artifact
	ThumbPath  string       // {base}_thumb.png
	ConfigPath string       // {base}_config.json
	Config     PosterConfig // contents of ConfigPath
	Width      int          // pixels for PNG, points otherwise
	Height     int
	Stats      Stats
}

// Stats contains timing and size information for a run.
type Stats struct {
	FetchTime  time.Duration
	RenderTime time.Duration
	SaveTime   time.Duration
	Streets    int
	Cached     bool   // map data came from the store
	Ocean      bool   // an ocean polygon was drawn
	OceanNote  string // why there is no ocean, when Ocean is false
	Bytes      int
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	o.City = strings.TrimSpace(o.City)
	o.Country = strings.TrimSpace(o.Country)
	if o.Coords == nil {
		if o.City == "" || o.Country == "" {
			return errors.New(errors.ErrCodeInvalidInput, "city and country are required when no coordinates are given")
		}
	} else {
		c := Coords{Lat: o.Coords.Lat, Lon: geo.NormalizeLon(o.Coords.Lon)}
		if err := errors.ValidateCoordinates(c.Lat, c.Lon); err != nil {
			return err
		}
		o.Coords = &c
	}
	if o.City != "" {
		if err := errors.ValidatePlaceName("city", o.City); err != nil {
			return err
		}
	}
	if o.Country != "" {
		if err := errors.ValidatePlaceName("country", o.Country); err != nil {
			return err
		}
	}

	if o.Distance == 0 {
		o.Distance = DefaultDistance
	}
	if err := errors.ValidateRadius(o.Distance); err != nil {
		return err
	}

	if o.Format == "" {
		o.Format = DefaultFormat
	}
	f, err := render.ParseFormat(o.Format)
	if err != nil {
		return err
	}
	o.format, o.Format = f, string(f)

	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if err := errors.ValidateDPI(o.DPI); err != nil {
		return err
	}

	if o.Theme == "" {
		o.Theme = DefaultTheme
	}

	pin, err := render.ParsePin(o.Pin)
	if err != nil {
		return err
	}
	o.pin = pin
	if o.PinColor != "" {
		if err := errors.ValidateHexColor(o.PinColor); err != nil {
			return err
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Progress == nil {
		o.Progress = nopSink{}
	}

	aspect, ok := geo.ParseAspect(o.AspectRatio)
	if !ok && o.AspectRatio != "" {
		o.Logger.Warn("unknown aspect ratio, using default", "aspect", o.AspectRatio, "default", DefaultAspect)
	}
	o.aspect, o.AspectRatio = aspect, aspect.Name

	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if math.IsNaN(o.LaserWidthMM) || math.IsNaN(o.LaserHeightMM) || o.LaserWidthMM < 0 || o.LaserHeightMM < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "laser canvas size must be positive")
	}

	o.validated = true
	return nil
}

// RenderFormat returns the parsed output format. Valid after
// ValidateAndSetDefaults.
func (o *Options) RenderFormat() render.Format { return o.format }

// Aspect returns the parsed poster aspect. Valid after
// ValidateAndSetDefaults.
func (o *Options) Aspect() geo.Aspect { return o.aspect }

// IsLaser returns true if the output is the layered laser SVG.
func (o *Options) IsLaser() bool {
	return o.format == render.FormatSVGLaser
}

// Labels returns the text printed under the map for the resolved
// coordinates.
func (o *Options) Labels() render.Labels {
	l := render.Labels{City: o.City, Country: o.Country, Tagline: o.Tagline}
	if o.Coords != nil {
		l.Lat, l.Lon = o.Coords.Lat, o.Coords.Lon
	}
	return l
}

func (o *Options) report(stage Stage, percent int, msg string) {
	o.Progress.Report(Progress{Stage: stage, Percent: percent, Message: msg})
}
