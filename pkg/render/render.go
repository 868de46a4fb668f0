package render

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/matzehuels/mapposter/pkg/errors"
	"github.com/matzehuels/mapposter/pkg/fonts"
	"github.com/matzehuels/mapposter/pkg/observability"
)

// Format is an output file format.
type Format string

const (
	FormatPNG      Format = "png"
	FormatSVG      Format = "svg"
	FormatPDF      Format = "pdf"
	FormatSVGLaser Format = "svg-laser"
)

// Formats lists every supported format.
var Formats = []Format{FormatPNG, FormatSVG, FormatPDF, FormatSVGLaser}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "format must be png, svg, pdf or svg-laser, got %q", s)
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	if f == FormatSVGLaser {
		return "svg"
	}
	return string(f)
}

// Options controls Render.
type Options struct {
	Format Format
	DPI    int
	Fonts  *fonts.Family

	// EmbedFonts inlines font files into SVG and PDF output.
	EmbedFonts bool
}

// Artifact is a rendered poster.
type Artifact struct {
	Format    Format
	Data      []byte
	Thumbnail []byte

	// Width and Height are in pixels for PNG and in points otherwise.
	Width, Height int
}

// thumbDPI renders vector thumbnails at twice the thumbnail width before
// scaling down.
const thumbDPI = 2 * ThumbnailWidth * 72 / PosterWidth

// PosterSize returns the poster size in points for the scene's aspect.
func PosterSize(s *Scene) (w, h float64) {
	return PosterWidth, PosterWidth / s.Aspect()
}

// Render draws the scene in the requested format and produces a thumbnail.
func Render(ctx context.Context, s *Scene, opts Options) (a *Artifact, err error) {
	if opts.Format == "" {
		opts.Format = FormatPNG
	}
	if opts.Format == FormatSVGLaser {
		return nil, errors.New(errors.ErrCodeUnsupported, "svg-laser output is produced by the laser emitter")
	}
	if aspect := s.Aspect(); !(aspect > 0) || math.IsInf(aspect, 0) {
		return nil, errors.New(errors.ErrCodeRender, "crop box has no area")
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, string(opts.Format))
	defer func() {
		n := 0
		if a != nil {
			n = len(a.Data)
		}
		observability.Pipeline().OnRenderComplete(ctx, string(opts.Format), n, time.Since(start), err)
	}()

	w, h := PosterSize(s)
	switch opts.Format {
	case FormatPNG:
		if err := errors.ValidateDPI(opts.DPI); err != nil {
			return nil, err
		}
		r := NewRaster(w, h, float64(opts.DPI), opts.Fonts)
		if err := Draw(r, s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "draw poster")
		}
		data, err := r.Encode()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "encode png")
		}
		thumb, err := Thumbnail(r.Image(), ThumbnailWidth)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "encode thumbnail")
		}
		b := r.Image().Bounds()
		return &Artifact{Format: opts.Format, Data: data, Thumbnail: thumb, Width: b.Dx(), Height: b.Dy()}, nil

	case FormatSVG, FormatPDF:
		var svgOpts []SVGOption
		if opts.EmbedFonts {
			svgOpts = append(svgOpts, WithEmbeddedFonts())
		}
		v := NewSVG(w, h, opts.Fonts, svgOpts...)
		if err := Draw(v, s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "draw poster")
		}
		data, _ := v.Encode()
		if opts.Format == FormatPDF {
			if data, err = ToPDF(ctx, data); err != nil {
				return nil, errors.Wrap(errors.ErrCodeRender, err, "convert to pdf")
			}
		}
		thumb, err := sceneThumbnail(s, opts.Fonts)
		if err != nil {
			return nil, err
		}
		return &Artifact{Format: opts.Format, Data: data, Thumbnail: thumb,
			Width: int(math.Round(w)), Height: int(math.Round(h))}, nil

	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", opts.Format)
	}
}

// sceneThumbnail draws s at low resolution and returns a PNG thumbnail
// ThumbnailWidth pixels wide.
func sceneThumbnail(s *Scene, family *fonts.Family) ([]byte, error) {
	w, h := PosterSize(s)
	r := NewRaster(w, h, thumbDPI, family)
	if err := Draw(r, s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "draw thumbnail")
	}
	thumb, err := Thumbnail(r.Image(), ThumbnailWidth)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode thumbnail")
	}
	return thumb, nil
}
