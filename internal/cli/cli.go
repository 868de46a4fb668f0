// Package cli implements the mapposter command-line interface.
//
// This package provides commands for rendering city map posters, geocoding
// places, browsing themes and rendered posters, and managing the map data
// cache. The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - render: Fetch map data and render a poster (png, svg, pdf, svg-laser)
//   - geocode: Look up coordinates for a place, or a place for coordinates
//   - themes: List the available color themes
//   - fonts: List the font families usable with --font
//   - posters: List rendered posters and their settings
//   - cache: Manage the map data cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mapposter/pkg/buildinfo"
	"github.com/matzehuels/mapposter/pkg/cache"
	"github.com/matzehuels/mapposter/pkg/fetch"
	"github.com/matzehuels/mapposter/pkg/integrations"
	"github.com/matzehuels/mapposter/pkg/integrations/nominatim"
	"github.com/matzehuels/mapposter/pkg/integrations/overpass"
	"github.com/matzehuels/mapposter/pkg/mapdata"
	"github.com/matzehuels/mapposter/pkg/pipeline"
	"github.com/matzehuels/mapposter/pkg/theme"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "mapposter"

	// mapsSubdir holds map data bundles inside the file cache directory.
	mapsSubdir = "maps"

	// httpSubdir holds geocoder responses inside the file cache directory.
	httpSubdir = "http"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config

	configPath string
	logOut     io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: &Config{},
		logOut: w,
	}
}

// SetLogLevel updates the logger's level. At debug level, fetch, cache and
// HTTP events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		installDebugHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Mapposter renders minimalist city map posters",
		Long:         `Mapposter downloads OpenStreetMap streets, water and parks around a city and renders them as a themed poster for print, screen or laser cutting.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd.Flags().Changed("config"))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", defaultConfigPath(), "config file (TOML)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.geocodeCommand())
	root.AddCommand(c.themesCommand())
	root.AddCommand(c.fontsCommand())
	root.AddCommand(c.postersCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig(explicit bool) error {
	cfg, err := loadConfig(c.configPath, explicit)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", c.configPath)
	return nil
}

// =============================================================================
// Service Factory
// =============================================================================

// services bundles the clients one command invocation needs.
type services struct {
	backend  cache.Cache
	store    mapdata.Store
	geocoder *nominatim.Client
	overpass *overpass.Client
	themes   *theme.Catalog
}

// Close releases the cache backend.
func (s *services) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

// newServices connects the configured cache backend and creates the OSM
// clients. With the file backend, map bundles and geocoder responses live
// in separate subdirectories of the cache directory.
func (c *CLI) newServices(ctx context.Context) (*services, error) {
	cfg, err := c.Config.cacheConfig()
	if err != nil {
		return nil, err
	}

	s := &services{}
	switch cfg.Backend {
	case "", cache.BackendFile:
		store, err := mapdata.NewFileStore(filepath.Join(cfg.Dir, mapsSubdir), c.Logger)
		if err != nil {
			return nil, err
		}
		s.store = store
		cfg.Dir = filepath.Join(cfg.Dir, httpSubdir)
		if s.backend, err = cache.New(ctx, cfg); err != nil {
			return nil, err
		}
	default:
		if s.backend, err = cache.New(ctx, cfg); err != nil {
			return nil, err
		}
		s.store = mapdata.NewKVStore(s.backend, c.Logger)
	}

	fc := c.Config.Fetch
	headers := integrations.DefaultHeaders()
	if fc.UserAgent != "" {
		headers["User-Agent"] = fc.UserAgent
	}
	s.geocoder = nominatim.NewClient(s.backend, cache.TTLGeocode, fc.NominatimURL, headers)
	s.overpass = overpass.NewClient(fc.OverpassURL, fc.Timeout.Duration, headers)

	if s.themes, err = theme.Load(c.Config.themesDir(), c.Logger); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// runner creates a pipeline runner over the services.
func (c *CLI) runner(s *services) *pipeline.Runner {
	r := pipeline.NewRunner(s.overpass, s.store, s.geocoder, c.Logger)
	r.Themes = s.themes
	r.FontsDir = c.Config.fontsDir()
	r.Fetch = fetch.Options{
		Timeout:      c.Config.Fetch.Timeout.Duration,
		FeaturePause: c.Config.Fetch.Pace.Duration,
		Logger:       c.Logger,
	}
	return r
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/mapposter/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/mapposter/).
func configDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return appName
	}
	return filepath.Join(home, ".config", appName)
}

func defaultConfigPath() string {
	return filepath.Join(configDir(), "config.toml")
}

// =============================================================================
// Misc
// =============================================================================

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// since formats an elapsed duration for display.
func since(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
