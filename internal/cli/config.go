package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mapposter/pkg/cache"
	"github.com/matzehuels/mapposter/pkg/errors"
	"github.com/matzehuels/mapposter/pkg/pipeline"
)

// Config is the optional TOML configuration file. Flags override it; it
// overrides the built-in defaults.
type Config struct {
	Paths  PathsConfig  `toml:"paths"`
	Fetch  FetchConfig  `toml:"fetch"`
	Store  StoreConfig  `toml:"store"`
	Render RenderConfig `toml:"render"`
}

// PathsConfig locates user data. Empty values use the XDG directories.
type PathsConfig struct {
	Themes  string `toml:"themes"`
	Fonts   string `toml:"fonts"`
	Posters string `toml:"posters"`
	Cache   string `toml:"cache"`
}

// FetchConfig configures the OSM services.
type FetchConfig struct {
	OverpassURL  string   `toml:"overpass_url"`
	NominatimURL string   `toml:"nominatim_url"`
	UserAgent    string   `toml:"user_agent"`
	Timeout      duration `toml:"timeout"`
	Pace         duration `toml:"pace"`
}

// StoreConfig selects the map data and geocode cache backend.
type StoreConfig struct {
	Backend       string `toml:"backend"` // file, redis, mongo, memory or disabled
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// RenderConfig holds per-user render defaults.
type RenderConfig struct {
	Theme       string `toml:"theme"`
	Font        string `toml:"font"`
	DPI         int    `toml:"dpi"`
	Format      string `toml:"format"`
	AspectRatio string `toml:"aspect_ratio"`
	Distance    int    `toml:"distance"`
}

// duration decodes TOML strings such as "90s".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// loadConfig reads the config at path. A missing file at the default
// location is not an error; a missing explicit file is.
func loadConfig(path string, explicit bool) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	for key, u := range map[string]string{
		"fetch.overpass_url":  cfg.Fetch.OverpassURL,
		"fetch.nominatim_url": cfg.Fetch.NominatimURL,
	} {
		if u == "" {
			continue
		}
		if err := errors.ValidateURL(u); err != nil {
			return nil, fmt.Errorf("config %s: %s: %w", path, key, err)
		}
	}
	cfg.Paths.Themes = expandHome(cfg.Paths.Themes)
	cfg.Paths.Fonts = expandHome(cfg.Paths.Fonts)
	cfg.Paths.Posters = expandHome(cfg.Paths.Posters)
	cfg.Paths.Cache = expandHome(cfg.Paths.Cache)
	return cfg, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// cacheConfig builds the cache backend configuration.
func (c *Config) cacheConfig() (cache.Config, error) {
	dir := c.Paths.Cache
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.Config{}, err
		}
		dir = d
	}
	return cache.Config{
		Backend: c.Store.Backend,
		Dir:     dir,
		Redis: cache.RedisOptions{
			Addr:     c.Store.RedisAddr,
			Password: c.Store.RedisPassword,
			DB:       c.Store.RedisDB,
		},
		Mongo: cache.MongoOptions{
			URI:      c.Store.MongoURI,
			Database: c.Store.MongoDatabase,
		},
	}, nil
}

// applyDefaults fills zero fields of opts from the [render] section.
func (c *Config) applyDefaults(opts *pipeline.Options) {
	r := c.Render
	if opts.Theme == "" {
		opts.Theme = r.Theme
	}
	if opts.Font == "" {
		opts.Font = r.Font
	}
	if opts.DPI == 0 {
		opts.DPI = r.DPI
	}
	if opts.Format == "" {
		opts.Format = r.Format
	}
	if opts.AspectRatio == "" {
		opts.AspectRatio = r.AspectRatio
	}
	if opts.Distance == 0 {
		opts.Distance = r.Distance
	}
	if opts.OutputDir == "" {
		opts.OutputDir = c.postersDir()
	}
}

func (c *Config) themesDir() string {
	if c.Paths.Themes != "" {
		return c.Paths.Themes
	}
	return filepath.Join(configDir(), "themes")
}

func (c *Config) fontsDir() string {
	if c.Paths.Fonts != "" {
		return c.Paths.Fonts
	}
	return filepath.Join(configDir(), "fonts")
}

func (c *Config) postersDir() string {
	if c.Paths.Posters != "" {
		return c.Paths.Posters
	}
	return pipeline.DefaultOutputDir
}
