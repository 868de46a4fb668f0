package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mapposter/pkg/errors"
	"github.com/matzehuels/mapposter/pkg/geo"
	"github.com/matzehuels/mapposter/pkg/integrations/nominatim"
)

type geocodeOpts struct {
	reverse bool
	lat     float64
	lon     float64
	limit   int
	refresh bool
}

// geocodeCommand creates the geocode command.
func (c *CLI) geocodeCommand() *cobra.Command {
	var opts geocodeOpts

	cmd := &cobra.Command{
		Use:   "geocode [query]",
		Short: "Look up coordinates for a place",
		Example: `  mapposter geocode "Paris, France"
  mapposter geocode --reverse --lat 48.8566 --lon 2.3522`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.reverse {
				if len(args) > 0 {
					return errors.New(errors.ErrCodeInvalidInput, "--reverse takes --lat and --lon, not a query")
				}
				if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
					return errors.New(errors.ErrCodeInvalidInput, "--reverse requires --lat and --lon")
				}
				return c.runReverse(cmd.Context(), opts)
			}
			if len(args) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "a query is required")
			}
			return c.runGeocode(cmd.Context(), strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.reverse, "reverse", false, "find the place at --lat/--lon")
	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "latitude for --reverse")
	cmd.Flags().Float64Var(&opts.lon, "lon", 0, "longitude for --reverse")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 5, "maximum number of results")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached answers")

	return cmd
}

func (c *CLI) runGeocode(ctx context.Context, query string, opts geocodeOpts) error {
	svc, err := c.newServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	start := time.Now()
	spinner := startSpinner(ctx, "Searching "+query+"...")
	places, err := svc.geocoder.Search(ctx, query, opts.limit, opts.refresh)
	if err != nil {
		spinner.Fail("No match for " + query)
		return errors.Wrap(errors.ErrCodeGeocode, err, "geocode %q", query)
	}
	spinner.Succeed(fmt.Sprintf("Found %d place(s) in %s", len(places), since(start)))

	rows := make([][]string, len(places))
	for i, p := range places {
		rows[i] = placeRow(p)
	}
	fmt.Println(renderTable([]string{"City", "Country", "Coordinates", "Name"}, rows, -1))
	if len(places) > 0 {
		p := places[0]
		printNextStep("Render it", fmt.Sprintf("%s render --lat %.4f --lon %.4f -c %q -C %q",
			appName, p.Lat, p.Lon, p.City, p.Country))
	}
	return nil
}

func (c *CLI) runReverse(ctx context.Context, opts geocodeOpts) error {
	lon := geo.NormalizeLon(opts.lon)
	if err := errors.ValidateCoordinates(opts.lat, lon); err != nil {
		return err
	}
	svc, err := c.newServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	prog := newProgress(c.Logger)
	place, err := svc.geocoder.Reverse(ctx, opts.lat, lon, opts.refresh)
	if err != nil {
		return errors.Wrap(errors.ErrCodeGeocode, err, "reverse geocode %.4f, %.4f", opts.lat, lon)
	}
	prog.done("Reverse geocoded")

	printKeyValue("City", place.City)
	printKeyValue("Country", place.Country)
	printKeyValue("Coordinates", fmt.Sprintf("%.4f, %.4f", place.Lat, place.Lon))
	printKeyValue("Name", place.DisplayName)
	return nil
}

func placeRow(p nominatim.Place) []string {
	name := p.DisplayName
	if r := []rune(name); len(r) > 48 {
		name = string(r[:45]) + "..."
	}
	return []string{p.City, p.Country, fmt.Sprintf("%.4f, %.4f", p.Lat, p.Lon), name}
}
