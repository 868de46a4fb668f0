package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mapposter/pkg/errors"
	"github.com/matzehuels/mapposter/pkg/pipeline"
)

// postersCommand creates the posters command.
func (c *CLI) postersCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "posters",
		Short: "List rendered posters",
		Long: `Posters lists the posters in the output directory, newest first, using the
config sidecar written next to each poster.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPosters(c.postersDirOr(dir))
		},
	}
	cmd.PersistentFlags().StringVarP(&dir, "dir", "o", "", "poster directory (default from config)")

	cmd.AddCommand(c.postersRerenderCommand(&dir))
	return cmd
}

func (c *CLI) postersDirOr(dir string) string {
	if dir != "" {
		return dir
	}
	return c.Config.postersDir()
}

func (c *CLI) runPosters(dir string) error {
	posters, err := pipeline.ListPosters(dir)
	if err != nil {
		return err
	}
	if len(posters) == 0 {
		printInfo("No posters in %s", dir)
		printNextStep("Render one", appName+" render -c Paris -C France")
		return nil
	}

	rows := make([][]string, len(posters))
	for i, p := range posters {
		cfg := p.Config
		rows[i] = []string{
			cfg.ID,
			placeLabel(cfg.City, cfg.Country),
			cfg.Theme,
			cfg.Format,
			fmt.Sprintf("%.1f km", float64(cfg.Distance)/1000),
			cfg.CreatedAt,
			filepath.Base(p.Path),
		}
	}
	fmt.Println(renderTable([]string{"ID", "Place", "Theme", "Format", "Radius", "Created", "File"}, rows, -1))
	printDetail("%d posters in %s", len(posters), dir)
	return nil
}

type rerenderOpts struct {
	theme  string
	format string
	dpi    int
}

// postersRerenderCommand creates the "posters rerender" subcommand.
func (c *CLI) postersRerenderCommand(dir *string) *cobra.Command {
	var opts rerenderOpts

	cmd := &cobra.Command{
		Use:   "rerender <id>",
		Short: "Render a listed poster again, optionally with another theme or format",
		Example: `  mapposter posters rerender 6f1c2a -t noir
  mapposter posters rerender 6f1c2a -f svg-laser`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := findPoster(c.postersDirOr(*dir), args[0])
			if err != nil {
				return err
			}
			return c.rerender(cmd.Context(), cfg, opts, c.postersDirOr(*dir))
		},
	}

	cmd.Flags().StringVarP(&opts.theme, "theme", "t", "", "theme id (default the poster's)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format (default the poster's)")
	cmd.Flags().IntVar(&opts.dpi, "dpi", 0, "PNG resolution (default the poster's)")
	c.registerValueCompletions(cmd)

	return cmd
}

// findPoster returns the config whose ID equals or starts with id.
func findPoster(dir, id string) (pipeline.PosterConfig, error) {
	posters, err := pipeline.ListPosters(dir)
	if err != nil {
		return pipeline.PosterConfig{}, err
	}
	var found []pipeline.PosterConfig
	for _, p := range posters {
		if p.Config.ID == id {
			return p.Config, nil
		}
		if len(id) >= 4 && len(p.Config.ID) > len(id) && p.Config.ID[:len(id)] == id {
			found = append(found, p.Config)
		}
	}
	switch len(found) {
	case 0:
		return pipeline.PosterConfig{}, errors.New(errors.ErrCodeNotFound, "no poster with id %q in %s", id, dir)
	case 1:
		return found[0], nil
	default:
		return pipeline.PosterConfig{}, errors.New(errors.ErrCodeInvalidInput, "id %q matches %d posters", id, len(found))
	}
}

func (c *CLI) rerender(ctx context.Context, cfg pipeline.PosterConfig, opts rerenderOpts, dir string) error {
	po := cfg.Options()
	if opts.theme != "" {
		po.Theme = opts.theme
	}
	if opts.format != "" {
		po.Format = opts.format
	}
	if opts.dpi != 0 {
		po.DPI = opts.dpi
	}
	po.OutputDir = dir
	po.Logger = c.Logger
	c.Logger.Debug("rerendering poster", "id", cfg.ID, "theme", po.Theme, "format", po.Format)
	return c.runRender(ctx, po, nil)
}

func placeLabel(city, country string) string {
	if country == "" {
		return city
	}
	return city + ", " + country
}
