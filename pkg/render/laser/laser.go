// Package laser emits layered SVG files for laser cutters.
//
// Every layer is a single filled path in its own Inkscape layer, so a
// cutter workflow can assign one operation per layer. Roads arrive as
// merged polygons per class; water, parks and ocean are clipped to the
// crop and simplified to the cutter's resolution. Each layer is unioned
// after simplification, so its parts never overlap and the even-odd fill
// cannot punch holes where two features touch.
package laser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/simplify"

	"github.com/matzehuels/mapposter/pkg/fonts"
	"github.com/matzehuels/mapposter/pkg/geo"
	"github.com/matzehuels/mapposter/pkg/geom"
	"github.com/matzehuels/mapposter/pkg/render"
	"github.com/matzehuels/mapposter/pkg/roads"
	"github.com/matzehuels/mapposter/pkg/theme"
)

// Defaults, in millimetres.
const (
	DefaultWidthMM   = 300.0
	DefaultHeightMM  = 450.0
	DefaultTolerance = 0.05
)

// Layers are the polygon inputs, in projected metres.
type Layers struct {
	Roads roads.PolygonSet
	Ocean orb.MultiPolygon
	Water orb.MultiPolygon
	Parks orb.MultiPolygon
}

// Options sets the physical canvas. Zero values select the defaults.
type Options struct {
	WidthMM, HeightMM float64
	// Tolerance is the simplification distance in millimetres. Negative
	// disables simplification.
	Tolerance float64
}

func (o *Options) defaults() {
	if o.WidthMM <= 0 {
		o.WidthMM = DefaultWidthMM
	}
	if o.HeightMM <= 0 {
		o.HeightMM = DefaultHeightMM
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
}

// Emit writes the layered SVG. Groups appear in cutting order: frame,
// ocean, water, parks, the road classes from minor to motorway, and text.
// Layers with no geometry are left out.
func Emit(l Layers, crop orb.Bound, th *theme.Theme, labels render.Labels, opts Options) []byte {
	opts.defaults()
	if th == nil {
		th = &theme.Fallback
	}
	w, h := opts.WidthMM, opts.HeightMM
	t := geo.Fit([2]float64{crop.Min[0], crop.Max[0]}, [2]float64{crop.Min[1], crop.Max[1]}, w, h)
	prep := func(mp orb.MultiPolygon) orb.MultiPolygon {
		return prepare(mp, crop, t, opts.Tolerance)
	}

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape" width="%smm" height="%smm" viewBox="0 0 %s %s">`+"\n",
		num(w), num(h), num(w), num(h))

	frame := orb.MultiPolygon{{{{0, 0}, {w, 0}, {w, h}, {0, h}, {0, 0}}}}
	writeLayer(&buf, "frame", frame, th.Background)
	writeLayer(&buf, "ocean", prep(l.Ocean), th.Water)
	writeLayer(&buf, "water", prep(l.Water), th.Water)
	writeLayer(&buf, "parks", prep(l.Parks), th.Parks)
	for _, c := range roads.Classes {
		writeLayer(&buf, "road-"+string(c), prep(l.Roads[c]), th.Road(c))
	}
	writeText(&buf, labels, th, w, h)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeLayer(buf *bytes.Buffer, id string, mp orb.MultiPolygon, fill string) {
	d := render.PathData(mp)
	if d == "" {
		return
	}
	fmt.Fprintf(buf, `  <g id="%s" inkscape:groupmode="layer" inkscape:label="%s">`+"\n", id, id)
	fmt.Fprintf(buf, `    <path d="%s" fill="%s" fill-rule="evenodd" stroke="none"/>`+"\n", d, fill)
	buf.WriteString("  </g>\n")
}

// writeText engraves the labels with the poster's typography scaled from
// points to the canvas width.
func writeText(buf *bytes.Buffer, l render.Labels, th *theme.Theme, w, h float64) {
	if l.City == "" && l.Country == "" && l.Tagline == "" {
		return
	}
	k := w / render.PosterWidth
	family := fonts.Default().CSSFamily()
	line := func(s string, fy, size float64, weight fonts.Weight) {
		fmt.Fprintf(buf, `    <text x="%s" y="%s" text-anchor="middle" font-family="%s" font-weight="%d" font-size="%s" fill="%s" xml:space="preserve">%s</text>`+"\n",
			num(w/2), num(h*(1-fy)), render.EscapeXML(family), weight.CSSWeight(), num(size*k), th.Text, render.EscapeXML(s))
	}

	buf.WriteString(`  <g id="text" inkscape:groupmode="layer" inkscape:label="text">` + "\n")
	if l.City != "" {
		line(render.SpacedTitle(l.City), render.TitleY, render.TitleSize(l.City), fonts.Bold)
	}
	if l.Country != "" {
		line(strings.ToUpper(l.Country), render.CountryY, render.CountrySize, fonts.Light)
	}
	line(l.Subtitle(), render.SubtitleY, render.SubtitleSize, fonts.Regular)
	buf.WriteString("  </g>\n")
}

// prepare clips mp to the crop, maps it to the canvas, simplifies it and
// unions the result. Rings that collapse are dropped; a polygon whose
// exterior collapses is dropped with its holes.
func prepare(mp orb.MultiPolygon, crop orb.Bound, t geo.Transform, tol float64) orb.MultiPolygon {
	if len(mp) == 0 {
		return nil
	}
	var out orb.MultiPolygon
	for _, poly := range mp {
		if len(poly) == 0 || !crop.Intersects(poly.Bound()) {
			continue
		}
		c := clip.Polygon(crop, poly.Clone())
		if len(c) == 0 {
			continue
		}
		mapped := t.MultiPolygon(orb.MultiPolygon{c})[0]
		if tol > 0 {
			mapped = simplify.DouglasPeucker(tol).Polygon(mapped)
		}
		if p := validRings(mapped); p != nil {
			out = append(out, p)
		}
	}
	return geom.Union(out)
}

func validRings(p orb.Polygon) orb.Polygon {
	if len(p) == 0 || len(p[0]) < 4 {
		return nil
	}
	out := orb.Polygon{p[0]}
	for _, r := range p[1:] {
		if len(r) >= 4 {
			out = append(out, r)
		}
	}
	return out
}

func num(v float64) string {
	s := strings.TrimRight(fmt.Sprintf("%.3f", v), "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
