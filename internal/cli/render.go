package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/mapposter/pkg/errors"
	"github.com/matzehuels/mapposter/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
// Zero values defer to the config file and then to the pipeline defaults.
type renderOpts struct {
	city        string  // city name, also the poster title
	country     string  // country name, printed under the title
	lat         float64 // latitude, skips geocoding together with lon
	lon         float64 // longitude
	distance    int     // map radius in metres
	theme       string  // theme id
	format      string  // png, svg, pdf or svg-laser
	dpi         int     // raster resolution
	font        string  // font family directory name
	tagline     string  // replaces the coordinates line
	pin         string  // marker drawn at the centre
	pinColor    string  // pin fill, #RRGGBB
	aspect      string  // poster aspect preset
	outputDir   string  // where posters are written
	variations  string  // comma-separated theme ids
	embedFonts  bool    // inline fonts into svg/pdf
	refresh     bool    // bypass the caches
	laserWidth  float64 // laser canvas width in mm
	laserHeight float64 // laser canvas height in mm
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a city map poster",
		Long: `Render downloads the street network, water and parks around a city and
draws them as a poster. Map data is cached, so rendering the same place again
with another theme needs no network access.`,
		Example: `  mapposter render -c Paris -C France -t noir
  mapposter render -c Venice -C Italy -d 4000 -f svg-laser
  mapposter render --lat 35.6762 --lon 139.6503 -c Tokyo -C Japan --variations noir,japanese_ink`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, themes, err := c.pipelineOptions(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), popts, themes)
		},
	}

	opts.addFlags(cmd.Flags())
	c.registerValueCompletions(cmd)

	return cmd
}

// addFlags registers the render flags on f.
func (o *renderOpts) addFlags(f *pflag.FlagSet) {
	f.StringVarP(&o.city, "city", "c", "", "city name")
	f.StringVarP(&o.country, "country", "C", "", "country name")
	f.Float64Var(&o.lat, "lat", 0, "latitude (skips geocoding, requires --lon)")
	f.Float64Var(&o.lon, "lon", 0, "longitude (skips geocoding, requires --lat)")
	f.IntVarP(&o.distance, "distance", "d", 0, fmt.Sprintf("map radius in metres (default %d)", pipeline.DefaultDistance))
	f.StringVarP(&o.theme, "theme", "t", "", fmt.Sprintf("theme id (default %s)", pipeline.DefaultTheme))
	f.StringVarP(&o.format, "format", "f", "", "output format: png (default), svg, pdf, svg-laser")
	f.IntVar(&o.dpi, "dpi", 0, fmt.Sprintf("PNG resolution, 72-600 (default %d)", pipeline.DefaultDPI))
	f.StringVar(&o.font, "font", "", "font family from the fonts directory (default embedded Go font)")
	f.StringVar(&o.tagline, "tagline", "", "text shown instead of the coordinates")
	f.StringVar(&o.pin, "pin", "", "centre marker: marker, heart, star, home, circle")
	f.StringVar(&o.pinColor, "pin-color", "", "pin color as #RRGGBB (default theme text color)")
	f.StringVar(&o.aspect, "aspect", "", fmt.Sprintf("aspect ratio preset (default %s)", pipeline.DefaultAspect))
	f.StringVarP(&o.outputDir, "output-dir", "o", "", fmt.Sprintf("output directory (default %s)", pipeline.DefaultOutputDir))
	f.StringVar(&o.variations, "variations", "", "render one poster per theme (comma-separated)")
	f.BoolVar(&o.embedFonts, "embed-fonts", false, "embed fonts in svg and pdf output")
	f.BoolVar(&o.refresh, "refresh", false, "ignore cached map data and geocoder answers")
	f.Float64Var(&o.laserWidth, "laser-width", 0, "svg-laser canvas width in mm (default 300)")
	f.Float64Var(&o.laserHeight, "laser-height", 0, "svg-laser canvas height in mm (default 450)")
}

// pipelineOptions turns flags into pipeline options. Flags win over the
// config file, which wins over the pipeline defaults.
func (c *CLI) pipelineOptions(flags *pflag.FlagSet, opts renderOpts) (pipeline.Options, []string, error) {
	po := pipeline.Options{
		City:          opts.city,
		Country:       opts.country,
		Distance:      opts.distance,
		Theme:         opts.theme,
		Format:        opts.format,
		DPI:           opts.dpi,
		Font:          opts.font,
		Tagline:       opts.tagline,
		Pin:           opts.pin,
		PinColor:      opts.pinColor,
		AspectRatio:   opts.aspect,
		OutputDir:     opts.outputDir,
		EmbedFonts:    opts.embedFonts,
		Refresh:       opts.refresh,
		LaserWidthMM:  opts.laserWidth,
		LaserHeightMM: opts.laserHeight,
		Logger:        c.Logger,
	}

	latSet, lonSet := flags.Changed("lat"), flags.Changed("lon")
	if latSet != lonSet {
		return po, nil, errors.New(errors.ErrCodeInvalidInput, "--lat and --lon must be given together")
	}
	if latSet {
		po.Coords = &pipeline.Coords{Lat: opts.lat, Lon: opts.lon}
	}

	c.Config.applyDefaults(&po)

	var themes []string
	for _, t := range strings.Split(opts.variations, ",") {
		if t = strings.TrimSpace(t); t != "" {
			themes = append(themes, t)
		}
	}
	return po, themes, nil
}

// runRender renders one poster, or one per theme when themes is non-empty.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, themes []string) error {
	svc, err := c.newServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()
	runner := c.runner(svc)

	title := "Rendering " + placeName(opts)
	var results []*pipeline.Result
	err = c.withProgress(ctx, title, func(ctx context.Context, sink pipeline.ProgressSink) error {
		opts.Progress = sink
		if len(themes) > 0 {
			var err error
			results, err = runner.Variations(ctx, opts, themes)
			return err
		}
		res, err := runner.RenderPoster(ctx, opts)
		if res != nil {
			results = append(results, res)
		}
		return err
	})

	for _, res := range results {
		printResult(res)
	}
	if err != nil {
		return err
	}
	if len(results) > 0 {
		printNewline()
		printNextStep("Try another theme", fmt.Sprintf("%s themes", appName))
	}
	return nil
}

func placeName(opts pipeline.Options) string {
	switch {
	case opts.City != "" && opts.Country != "":
		return opts.City + ", " + opts.Country
	case opts.City != "":
		return opts.City
	case opts.Coords != nil:
		return fmt.Sprintf("%.4f, %.4f", opts.Coords.Lat, opts.Coords.Lon)
	default:
		return "map"
	}
}
