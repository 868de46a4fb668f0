package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mapposter/pkg/cache"
	"github.com/matzehuels/mapposter/pkg/integrations/nominatim"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached map data and geocoder answers",
	}

	cmd.AddCommand(c.cacheListCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheListCommand creates the "cache list" subcommand.
func (c *CLI) cacheListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached map data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.newServices(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			entries, err := svc.store.List(ctx)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No cached map data")
				return nil
			}

			rows := make([][]string, len(entries))
			var total int64
			for i, e := range entries {
				total += e.Size
				rows[i] = []string{
					fmt.Sprintf("%.4f, %.4f", e.Key.Lat, e.Key.Lon),
					fmt.Sprintf("%d m", e.Key.Radius),
					formatBytes(int(e.Size)),
					e.ModTime.Local().Format("2006-01-02 15:04"),
				}
			}
			fmt.Println(renderTable([]string{"Center", "Radius", "Size", "Cached"}, rows, -1))
			printDetail("%d entries, %s", len(entries), formatBytes(int(total)))
			return nil
		},
	}
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var geocode bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached map data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.newServices(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			n, err := svc.store.Clear(ctx)
			if err != nil {
				return err
			}
			printSuccess("Cleared %d map data entries", n)

			if geocode {
				g, err := clearGeocode(ctx, svc.backend)
				if err != nil {
					return err
				}
				printSuccess("Cleared %d geocoder answers", g)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&geocode, "geocode", false, "also clear cached geocoder answers")

	return cmd
}

// clearGeocode deletes the geocoder entries in backend. Backends that cannot
// enumerate keys are left alone.
func clearGeocode(ctx context.Context, backend cache.Cache) (int, error) {
	lister, ok := backend.(cache.Lister)
	if !ok {
		return 0, nil
	}
	keys, err := lister.Keys(ctx, nominatim.KeyPrefix)
	if err != nil {
		return 0, err
	}
	for i, k := range keys {
		if err := backend.Delete(ctx, k); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.Config.cacheConfig()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if cfg.Backend != "" && cfg.Backend != cache.BackendFile {
				printInfo("Backend %s does not use the cache directory", cfg.Backend)
			}
			fmt.Println(filepath.Join(cfg.Dir, mapsSubdir))
			fmt.Println(filepath.Join(cfg.Dir, httpSubdir))
			return nil
		},
	}
}
