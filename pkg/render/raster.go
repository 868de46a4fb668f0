package render

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"

	"github.com/matzehuels/mapposter/pkg/fonts"
)

// Raster is a Surface backed by a gg context. Coordinates are given in
// points and scaled to pixels by dpi/72; text faces are created at the
// target DPI so glyphs are rasterised at full resolution.
type Raster struct {
	dc     *gg.Context
	w, h   float64
	scale  float64
	dpi    float64
	family *fonts.Family
}

// NewRaster creates a w×h point raster at dpi.
func NewRaster(w, h, dpi float64, family *fonts.Family) *Raster {
	if family == nil {
		family = fonts.Default()
	}
	s := dpi / 72
	px := max(1, int(math.Round(w*s)))
	py := max(1, int(math.Round(h*s)))
	return &Raster{dc: gg.NewContext(px, py), w: w, h: h, scale: s, dpi: dpi, family: family}
}

func (r *Raster) Size() (w, h float64) { return r.w, r.h }

// Image returns the backing image.
func (r *Raster) Image() image.Image { return r.dc.Image() }

func (r *Raster) Clear(c color.NRGBA) {
	r.dc.SetColor(c)
	r.dc.Clear()
}

func (r *Raster) FillPolygons(_ string, mp orb.MultiPolygon, c color.NRGBA) {
	r.dc.SetColor(c)
	r.dc.SetFillRuleEvenOdd()
	for _, poly := range mp {
		r.dc.ClearPath()
		for _, ring := range poly {
			r.ring(ring)
		}
		r.dc.Fill()
	}
	r.dc.SetFillRuleWinding()
}

func (r *Raster) ring(ring orb.Ring) {
	if len(ring) < 3 {
		return
	}
	r.dc.NewSubPath()
	for i, p := range ring {
		x, y := p[0]*r.scale, p[1]*r.scale
		if i == 0 {
			r.dc.MoveTo(x, y)
		} else {
			r.dc.LineTo(x, y)
		}
	}
	r.dc.ClosePath()
}

func (r *Raster) StrokeLines(_ string, lines []orb.LineString, c color.NRGBA, width float64) {
	r.dc.ClearPath()
	for _, ls := range lines {
		if len(ls) < 2 {
			continue
		}
		r.dc.NewSubPath()
		for i, p := range ls {
			x, y := p[0]*r.scale, p[1]*r.scale
			if i == 0 {
				r.dc.MoveTo(x, y)
			} else {
				r.dc.LineTo(x, y)
			}
		}
	}
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width * r.scale)
	r.dc.SetLineCapRound()
	r.dc.SetLineJoinRound()
	r.dc.Stroke()
}

func (r *Raster) Fade(_ string, y0, y1 float64, c color.NRGBA) {
	g := gg.NewLinearGradient(0, y0*r.scale, 0, y1*r.scale)
	g.AddColorStop(0, c)
	g.AddColorStop(1, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0})
	top, bottom := math.Min(y0, y1), math.Max(y0, y1)
	r.dc.ClearPath()
	r.dc.DrawRectangle(0, top*r.scale, r.w*r.scale, (bottom-top)*r.scale)
	r.dc.SetFillStyle(g)
	r.dc.Fill()
}

func (r *Raster) Line(a, b orb.Point, c color.NRGBA, width float64) {
	r.dc.ClearPath()
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width * r.scale)
	r.dc.SetLineCapButt()
	r.dc.DrawLine(a[0]*r.scale, a[1]*r.scale, b[0]*r.scale, b[1]*r.scale)
	r.dc.Stroke()
}

func (r *Raster) Text(s string, at orb.Point, anchor Anchor, st TextStyle) error {
	face, err := r.family.Face(st.Weight, st.Size, r.dpi)
	if err != nil {
		return err
	}
	r.dc.SetFontFace(face)
	r.dc.SetColor(st.Color)
	ax := 0.0
	switch anchor {
	case AnchorMiddle:
		ax = 0.5
	case AnchorEnd:
		ax = 1
	}
	r.dc.DrawStringAnchored(s, at[0]*r.scale, at[1]*r.scale, ax, 0)
	return nil
}

func (r *Raster) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ Surface = (*Raster)(nil)
