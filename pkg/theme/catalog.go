package theme

import (
	"bytes"
	"embed"
	"encoding/json"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/mapposter/pkg/errors"
)

//go:embed builtin/*.toml
var builtin embed.FS

// Catalog holds the available themes by ID.
type Catalog struct {
	themes map[string]*Theme
	origin map[string]string
}

// Builtin returns a catalog with only the embedded themes.
func Builtin() *Catalog {
	c := &Catalog{themes: map[string]*Theme{}, origin: map[string]string{}}
	entries, _ := fs.ReadDir(builtin, "builtin")
	for _, e := range entries {
		data, err := fs.ReadFile(builtin, path.Join("builtin", e.Name()))
		if err != nil {
			continue
		}
		if t, err := Decode(e.Name(), data); err == nil {
			c.add(t, "builtin")
		}
	}
	if _, ok := c.themes[DefaultID]; !ok {
		fb := Fallback
		c.add(&fb, "builtin")
	}
	return c
}

// Load returns the built-in catalog overlaid with the .toml and .json files
// in dir. A missing directory is not an error. Files that fail to parse or
// validate are skipped with a warning.
func Load(dir string, logger *log.Logger) (*Catalog, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := Builtin()
	if dir == "" {
		return c, nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read themes directory %s", dir)
	}
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".toml" && ext != ".json") {
			continue
		}
		p := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(p)
		if err != nil {
			logger.Warn("skipping theme", "file", p, "err", err)
			continue
		}
		t, err := Decode(e.Name(), data)
		if err != nil {
			logger.Warn("skipping theme", "file", p, "err", err)
			continue
		}
		c.add(t, p)
	}
	return c, nil
}

// Decode parses a theme file. The ID is the file name without extension;
// the format follows the extension.
func Decode(name string, data []byte) (*Theme, error) {
	ext := filepath.Ext(name)
	t := &Theme{ID: strings.TrimSuffix(filepath.Base(name), ext)}
	var err error
	switch ext {
	case ".toml":
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(t)
	case ".json":
		err = json.Unmarshal(data, t)
		t.ID = strings.TrimSuffix(filepath.Base(name), ext)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported theme format %q", ext)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTheme, err, "parse theme %s", name)
	}
	t.fill()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (c *Catalog) add(t *Theme, origin string) {
	c.themes[t.ID] = t
	c.origin[t.ID] = origin
}

// Get returns a copy of the theme with the given ID.
func (c *Catalog) Get(id string) (*Theme, error) {
	if id == "" {
		id = DefaultID
	}
	t, ok := c.themes[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidTheme, "theme %q not found (available: %s)", id, strings.Join(c.IDs(), ", "))
	}
	cp := *t
	return &cp, nil
}

// Origin reports where a theme was loaded from: "builtin" or a file path.
func (c *Catalog) Origin(id string) string { return c.origin[id] }

// IDs returns the theme IDs in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.themes))
	for id := range c.themes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns copies of all themes sorted by ID.
func (c *Catalog) List() []Theme {
	out := make([]Theme, 0, len(c.themes))
	for _, id := range c.IDs() {
		out = append(out, *c.themes[id])
	}
	return out
}
