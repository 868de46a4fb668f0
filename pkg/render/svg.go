package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/paulmach/orb"

	"github.com/matzehuels/mapposter/pkg/fonts"
)

// SVGOption configures an SVG surface.
type SVGOption func(*SVG)

// WithEmbeddedFonts inlines the font files as base64 @font-face rules so
// the document renders identically without the fonts installed.
func WithEmbeddedFonts() SVGOption { return func(s *SVG) { s.embed = true } }

// SVG is a Surface that writes an SVG document.
type SVG struct {
	w, h   float64
	family *fonts.Family
	embed  bool

	defs    bytes.Buffer
	body    bytes.Buffer
	grads   int
	weights map[fonts.Weight]bool
}

// NewSVG creates an SVG surface of w×h points.
func NewSVG(w, h float64, family *fonts.Family, opts ...SVGOption) *SVG {
	if family == nil {
		family = fonts.Default()
	}
	s := &SVG{w: w, h: h, family: family, weights: map[fonts.Weight]bool{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SVG) Size() (w, h float64) { return s.w, s.h }

func (s *SVG) Clear(c color.NRGBA) {
	fmt.Fprintf(&s.body, `  <rect id="background" width="100%%" height="100%%" fill="%s"%s/>`+"\n", Hex(c), opacity("fill", c))
}

func (s *SVG) FillPolygons(id string, mp orb.MultiPolygon, c color.NRGBA) {
	if len(mp) == 0 {
		return
	}
	fmt.Fprintf(&s.body, `  <g id="%s" fill="%s"%s fill-rule="evenodd" stroke="none">`+"\n", id, Hex(c), opacity("fill", c))
	for _, poly := range mp {
		d := PathData(orb.MultiPolygon{poly})
		if d == "" {
			continue
		}
		fmt.Fprintf(&s.body, `    <path d="%s"/>`+"\n", d)
	}
	s.body.WriteString("  </g>\n")
}

func (s *SVG) StrokeLines(id string, lines []orb.LineString, c color.NRGBA, width float64) {
	d := lineData(lines)
	if d == "" {
		return
	}
	fmt.Fprintf(&s.body, `  <path id="%s" d="%s" fill="none" stroke="%s"%s stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
		id, d, Hex(c), opacity("stroke", c), num(width))
}

func (s *SVG) Fade(id string, y0, y1 float64, c color.NRGBA) {
	top, bottom := y0, y1
	from, to := 1.0, 0.0
	if y1 < y0 {
		top, bottom = y1, y0
		from, to = 0, 1
	}
	s.grads++
	gid := fmt.Sprintf("fade-%d", s.grads)
	fmt.Fprintf(&s.defs, `    <linearGradient id="%s" x1="0" y1="0" x2="0" y2="1">`+"\n", gid)
	fmt.Fprintf(&s.defs, `      <stop offset="0" stop-color="%s" stop-opacity="%.3g"/>`+"\n", Hex(c), from*float64(c.A)/255)
	fmt.Fprintf(&s.defs, `      <stop offset="1" stop-color="%s" stop-opacity="%.3g"/>`+"\n", Hex(c), to*float64(c.A)/255)
	s.defs.WriteString("    </linearGradient>\n")
	fmt.Fprintf(&s.body, `  <rect id="%s" x="0" y="%s" width="%s" height="%s" fill="url(#%s)"/>`+"\n",
		id, num(top), num(s.w), num(bottom-top), gid)
}

func (s *SVG) Line(a, b orb.Point, c color.NRGBA, width float64) {
	fmt.Fprintf(&s.body, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"%s stroke-width="%s"/>`+"\n",
		num(a[0]), num(a[1]), num(b[0]), num(b[1]), Hex(c), opacity("stroke", c), num(width))
}

func (s *SVG) Text(str string, at orb.Point, anchor Anchor, st TextStyle) error {
	s.weights[st.Weight] = true
	fmt.Fprintf(&s.body, `  <text x="%s" y="%s" text-anchor="%s" font-family="%s" font-weight="%d" font-size="%s" fill="%s"%s xml:space="preserve">%s</text>`+"\n",
		num(at[0]), num(at[1]), textAnchor(anchor), EscapeXML(s.family.CSSFamily()), st.Weight.CSSWeight(),
		num(st.Size), Hex(st.Color), opacity("fill", st.Color), EscapeXML(str))
	return nil
}

// Encode assembles the document. The poster size is written in points so
// the file prints at its intended physical size.
func (s *SVG) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%spt" height="%spt">`+"\n",
		num(s.w), num(s.h), num(s.w), num(s.h))
	if s.embed && len(s.weights) > 0 {
		buf.WriteString("  <style>\n")
		for _, w := range []fonts.Weight{fonts.Light, fonts.Regular, fonts.Bold} {
			if !s.weights[w] {
				continue
			}
			fmt.Fprintf(&buf, "    @font-face { font-family: '%s'; font-weight: %d; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
				s.family.Name, w.CSSWeight(), s.family.Base64(w))
		}
		buf.WriteString("  </style>\n")
	}
	if s.defs.Len() > 0 {
		buf.WriteString("  <defs>\n")
		buf.Write(s.defs.Bytes())
		buf.WriteString("  </defs>\n")
	}
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func opacity(attr string, c color.NRGBA) string {
	if c.A == 0xff {
		return ""
	}
	return fmt.Sprintf(` %s-opacity="%.3g"`, attr, float64(c.A)/255)
}

func textAnchor(a Anchor) string {
	switch a {
	case AnchorMiddle:
		return "middle"
	case AnchorEnd:
		return "end"
	default:
		return "start"
	}
}

var _ Surface = (*SVG)(nil)
