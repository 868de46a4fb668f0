package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/mapposter/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[paths]
themes = "/srv/themes"
posters = "~/posters"

[fetch]
overpass_url = "https://overpass.example/api/interpreter"
timeout = "90s"
pace = "1500ms"

[store]
backend = "redis"
redis_addr = "localhost:6379"
redis_db = 2

[render]
theme = "noir"
dpi = 150
aspect_ratio = "a4"
`)

	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.Paths.Themes != "/srv/themes" {
		t.Errorf("Paths.Themes = %q", cfg.Paths.Themes)
	}
	if strings.HasPrefix(cfg.Paths.Posters, "~") {
		t.Errorf("Paths.Posters = %q, want home expanded", cfg.Paths.Posters)
	}
	if cfg.Fetch.Timeout.Duration != 90*time.Second {
		t.Errorf("Fetch.Timeout = %v, want 90s", cfg.Fetch.Timeout.Duration)
	}
	if cfg.Fetch.Pace.Duration != 1500*time.Millisecond {
		t.Errorf("Fetch.Pace = %v, want 1.5s", cfg.Fetch.Pace.Duration)
	}
	if cfg.Store.Backend != "redis" || cfg.Store.RedisDB != 2 {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Render.Theme != "noir" || cfg.Render.DPI != 150 || cfg.Render.AspectRatio != "a4" {
		t.Errorf("Render = %+v", cfg.Render)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	cfg, err := loadConfig(path, false)
	if err != nil {
		t.Fatalf("loadConfig() default path error: %v", err)
	}
	if cfg == nil {
		t.Fatal("loadConfig() returned nil config")
	}

	if _, err := loadConfig(path, true); err == nil {
		t.Error("loadConfig() explicit missing path should fail")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "[render]\ncolour = \"red\"\n", "unknown keys"},
		{"bad duration", "[fetch]\ntimeout = \"soon\"\n", "config"},
		{"bad syntax", "[render\n", "config"},
		{"local endpoint file", "[fetch]\noverpass_url = \"file:///etc/passwd\"\n", "fetch.overpass_url"},
		{"endpoint without scheme", "[fetch]\nnominatim_url = \"nominatim.local\"\n", "fetch.nominatim_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.content), true)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/maps", filepath.Join(home, "maps")},
		{"/abs/path", "/abs/path"},
		{"rel/path", "rel/path"},
		{"~user/x", "~user/x"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := expandHome(tt.in); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{
		Paths:  PathsConfig{Posters: "/srv/posters"},
		Render: RenderConfig{Theme: "noir", DPI: 150, Format: "svg", Distance: 5000},
	}

	opts := pipeline.Options{Theme: "ocean", DPI: 0}
	cfg.applyDefaults(&opts)

	if opts.Theme != "ocean" {
		t.Errorf("Theme = %q, flag value should win", opts.Theme)
	}
	if opts.DPI != 150 {
		t.Errorf("DPI = %d, want config value 150", opts.DPI)
	}
	if opts.Format != "svg" {
		t.Errorf("Format = %q, want config value svg", opts.Format)
	}
	if opts.Distance != 5000 {
		t.Errorf("Distance = %d, want 5000", opts.Distance)
	}
	if opts.OutputDir != "/srv/posters" {
		t.Errorf("OutputDir = %q, want /srv/posters", opts.OutputDir)
	}
}

func TestConfigDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")

	var cfg Config
	if got, want := cfg.themesDir(), filepath.Join("/tmp/xdg-config", appName, "themes"); got != want {
		t.Errorf("themesDir() = %q, want %q", got, want)
	}
	if got, want := cfg.fontsDir(), filepath.Join("/tmp/xdg-config", appName, "fonts"); got != want {
		t.Errorf("fontsDir() = %q, want %q", got, want)
	}
	if got := cfg.postersDir(); got != pipeline.DefaultOutputDir {
		t.Errorf("postersDir() = %q, want %q", got, pipeline.DefaultOutputDir)
	}

	cfg.Paths.Themes = "/custom/themes"
	if got := cfg.themesDir(); got != "/custom/themes" {
		t.Errorf("themesDir() = %q, want configured path", got)
	}
}

func TestCacheConfig(t *testing.T) {
	cfg := Config{
		Paths: PathsConfig{Cache: "/var/cache/maps"},
		Store: StoreConfig{Backend: "mongo", MongoURI: "mongodb://db", MongoDatabase: "posters"},
	}
	cc, err := cfg.cacheConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cc.Dir != "/var/cache/maps" || cc.Backend != "mongo" {
		t.Errorf("cacheConfig() = %+v", cc)
	}
	if cc.Mongo.URI != "mongodb://db" || cc.Mongo.Database != "posters" {
		t.Errorf("Mongo = %+v", cc.Mongo)
	}
}
