package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/matzehuels/mapposter/pkg/cache"
	"github.com/matzehuels/mapposter/pkg/errors"
	"github.com/matzehuels/mapposter/pkg/render"
)

// Output naming.
const (
	timestampLayout = "20060102_150405"
	createdLayout   = "2006-01-02 15:04:05"
	thumbSuffix     = "_thumb.png"
	configSuffix    = "_config.json"
)

// PosterConfig is the JSON sidecar written next to each poster. It holds
// everything needed to render the poster again.
type PosterConfig struct {
	ID          string  `json:"id"`
	BatchID     string  `json:"batch_id,omitempty"`
	File        string  `json:"file"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Distance    int     `json:"distance"`
	Theme       string  `json:"theme"`
	Font        string  `json:"font"`
	DPI         int     `json:"dpi"`
	Format      string  `json:"format"`
	Tagline     string  `json:"tagline"`
	Pin         string  `json:"pin"`
	PinColor    string  `json:"pin_color"`
	AspectRatio string  `json:"aspect_ratio"`
	CreatedAt   string  `json:"created_at"`
}

// Options converts the config back into render options.
func (c PosterConfig) Options() Options {
	return Options{
		City:        c.City,
		Country:     c.Country,
		Coords:      &Coords{Lat: c.Lat, Lon: c.Lng},
		Distance:    c.Distance,
		Theme:       c.Theme,
		Font:        c.Font,
		DPI:         c.DPI,
		Format:      c.Format,
		Tagline:     c.Tagline,
		Pin:         c.Pin,
		PinColor:    c.PinColor,
		AspectRatio: c.AspectRatio,
	}
}

// Slug turns a city name into a filename component: lower case, spaces
// become underscores and anything but letters, digits, '-' and '_' is
// dropped. An empty result becomes "map".
func Slug(city string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(city)) {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('_')
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "map"
	}
	return b.String()
}

// save writes the artifact, thumbnail and config sidecar.
func (r *Runner) save(opts *Options, art *render.Artifact, batch string) (*Result, error) {
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", opts.OutputDir)
	}

	now := r.now()
	base := Slug(opts.City) + "_" + opts.Theme + "_" + now.Format(timestampLayout)
	res := &Result{
		Path:       filepath.Join(opts.OutputDir, base+"."+art.Format.Ext()),
		ThumbPath:  filepath.Join(opts.OutputDir, base+thumbSuffix),
		ConfigPath: filepath.Join(opts.OutputDir, base+configSuffix),
		Width:      art.Width,
		Height:     art.Height,
	}
	res.Config = PosterConfig{
		ID:          uuid.NewString(),
		BatchID:     batch,
		File:        filepath.Base(res.Path),
		City:        opts.City,
		Country:     opts.Country,
		Lat:         opts.Coords.Lat,
		Lng:         opts.Coords.Lon,
		Distance:    opts.Distance,
		Theme:       opts.Theme,
		Font:        opts.Font,
		DPI:         opts.DPI,
		Format:      opts.Format,
		Tagline:     opts.Tagline,
		Pin:         string(opts.pin),
		PinColor:    opts.PinColor,
		AspectRatio: opts.AspectRatio,
		CreatedAt:   now.Format(createdLayout),
	}

	if err := cache.WriteFileAtomic(res.Path, art.Data, 0644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", res.Path)
	}
	if len(art.Thumbnail) > 0 {
		if err := cache.WriteFileAtomic(res.ThumbPath, art.Thumbnail, 0644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", res.ThumbPath)
		}
	} else {
		res.ThumbPath = ""
	}
	data, err := json.MarshalIndent(res.Config, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode poster config")
	}
	if err := cache.WriteFileAtomic(res.ConfigPath, data, 0644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", res.ConfigPath)
	}
	return res, nil
}

// Poster is a rendered poster found on disk.
type Poster struct {
	Config     PosterConfig
	Path       string
	ThumbPath  string // empty when the thumbnail is missing
	ConfigPath string
}

// ListPosters reads every config sidecar in dir, newest first. Sidecars that
// cannot be decoded are skipped. A missing directory yields no posters.
func ListPosters(dir string) ([]Poster, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+configSuffix))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "list posters in %s", dir)
	}
	var posters []Poster
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg PosterConfig
		if json.Unmarshal(data, &cfg) != nil {
			continue
		}
		base := strings.TrimSuffix(path, configSuffix)
		p := Poster{Config: cfg, ConfigPath: path}
		if cfg.File != "" {
			p.Path = filepath.Join(dir, cfg.File)
		}
		if _, err := os.Stat(base + thumbSuffix); err == nil {
			p.ThumbPath = base + thumbSuffix
		}
		posters = append(posters, p)
	}
	sort.SliceStable(posters, func(i, j int) bool {
		return posters[i].Config.CreatedAt > posters[j].Config.CreatedAt
	})
	return posters, nil
}
