// Package fonts resolves the typeface families used for poster text.
//
// A family is looked up in a fonts directory as <dir>/<name>/*-Bold.ttf,
// *-Regular.ttf and *-Light.ttf. When no name is given the Go fonts
// embedded in golang.org/x/image are used, so rendering never depends on
// system fonts.
package fonts

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/mapposter/pkg/errors"
)

// Weight selects a face within a family.
type Weight int

const (
	Light Weight = iota
	Regular
	Bold
)

var weightSuffix = map[Weight]string{
	Light:   "Light",
	Regular: "Regular",
	Bold:    "Bold",
}

func (w Weight) String() string { return weightSuffix[w] }

// CSSWeight returns the numeric CSS font-weight.
func (w Weight) CSSWeight() int {
	switch w {
	case Light:
		return 300
	case Bold:
		return 700
	default:
		return 400
	}
}

// EmbeddedName is the family name of the built-in Go fonts.
const EmbeddedName = "Go"

// FallbackFontFamily is appended to CSS font-family lists.
const FallbackFontFamily = `'Helvetica Neue', Helvetica, Arial, sans-serif`

type face struct {
	ttf    []byte
	parsed *opentype.Font

	b64     string
	b64Once sync.Once
}

// Family is a set of faces of one typeface.
type Family struct {
	Name   string
	Source string // "embedded" or the directory the files came from

	faces map[Weight]*face

	mu    sync.Mutex
	cache map[faceKey]font.Face
}

type faceKey struct {
	w         Weight
	size, dpi float64
}

var (
	embeddedOnce sync.Once
	embedded     *Family
	embeddedErr  error
)

// Default returns the embedded Go font family. Light maps to Go Regular.
func Default() *Family {
	embeddedOnce.Do(func() {
		embedded, embeddedErr = newFamily(EmbeddedName, "embedded", map[Weight][]byte{
			Regular: goregular.TTF,
			Bold:    gobold.TTF,
		})
	})
	if embeddedErr != nil {
		panic(fmt.Sprintf("fonts: embedded Go fonts: %v", embeddedErr))
	}
	return embedded
}

// Resolve returns the named family from dir, or the embedded family when
// name is empty. A family needs at least a Regular face; missing Bold or
// Light faces fall back to Regular.
func Resolve(dir, name string) (*Family, error) {
	if name == "" || strings.EqualFold(name, EmbeddedName) {
		return Default(), nil
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, errors.New(errors.ErrCodeInvalidFont, "invalid font name %q", name)
	}
	famDir := filepath.Join(dir, name)
	files := make(map[Weight][]byte)
	for w, suffix := range weightSuffix {
		path, ok := find(famDir, suffix)
		if !ok {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "read font %s", path)
		}
		files[w] = data
	}
	if _, ok := files[Regular]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidFont, "font %q not found: expected %s", name,
			filepath.Join(famDir, "*-Regular.ttf"))
	}
	f, err := newFamily(name, famDir, files)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "font %q", name)
	}
	return f, nil
}

func find(dir, suffix string) (string, bool) {
	for _, ext := range []string{".ttf", ".otf"} {
		matches, _ := filepath.Glob(filepath.Join(dir, "*-"+suffix+ext))
		if len(matches) > 0 {
			sort.Strings(matches)
			return matches[0], true
		}
	}
	return "", false
}

func newFamily(name, source string, files map[Weight][]byte) (*Family, error) {
	f := &Family{Name: name, Source: source, faces: map[Weight]*face{}, cache: map[faceKey]font.Face{}}
	for w, data := range files {
		parsed, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s face: %w", w, err)
		}
		f.faces[w] = &face{ttf: data, parsed: parsed}
	}
	for _, w := range []Weight{Light, Bold} {
		if _, ok := f.faces[w]; !ok {
			f.faces[w] = f.faces[Regular]
		}
	}
	return f, nil
}

// Face returns a font face of weight w at size points for the given DPI.
// Faces are cached per (weight, size, dpi).
func (f *Family) Face(w Weight, size, dpi float64) (font.Face, error) {
	k := faceKey{w, size, dpi}
	f.mu.Lock()
	defer f.mu.Unlock()
	if fc, ok := f.cache[k]; ok {
		return fc, nil
	}
	fc, err := opentype.NewFace(f.faces[w].parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	f.cache[k] = fc
	return fc, nil
}

// TTF returns the raw font file for weight w.
func (f *Family) TTF(w Weight) []byte { return f.faces[w].ttf }

// Base64 returns the font file for weight w as base64, for embedding in
// SVG @font-face rules. The result is cached after first computation.
func (f *Family) Base64(w Weight) string {
	fc := f.faces[w]
	fc.b64Once.Do(func() {
		fc.b64 = base64.StdEncoding.EncodeToString(fc.ttf)
	})
	return fc.b64
}

// CSSFamily returns a font-family value with fallbacks.
func (f *Family) CSSFamily() string {
	return fmt.Sprintf("'%s', %s", f.Name, FallbackFontFamily)
}

// Available lists the family names in dir that have a Regular face.
func Available(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, ok := find(filepath.Join(dir, e.Name()), "Regular"); ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
