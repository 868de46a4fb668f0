package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
	"strings"

	"github.com/paulmach/orb"

	"github.com/matzehuels/mapposter/pkg/fonts"
)

// Anchor is the horizontal text alignment relative to the given point.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// TextStyle describes one run of text. Size is in points.
type TextStyle struct {
	Weight fonts.Weight
	Size   float64
	Color  color.NRGBA
}

// Surface is a drawing target in poster points with the origin at the top
// left. Text is positioned by its baseline.
type Surface interface {
	Size() (w, h float64)
	Clear(c color.NRGBA)

	// FillPolygons fills each polygon separately with the even-odd rule.
	// id names the layer for surfaces that group output.
	FillPolygons(id string, mp orb.MultiPolygon, c color.NRGBA)

	// StrokeLines draws open polylines with round caps and joins.
	StrokeLines(id string, lines []orb.LineString, c color.NRGBA, width float64)

	// Fade fills the full-width band between y0 and y1 with c, opaque at y0
	// and transparent at y1.
	Fade(id string, y0, y1 float64, c color.NRGBA)

	Line(a, b orb.Point, c color.NRGBA, width float64)
	Text(s string, at orb.Point, anchor Anchor, st TextStyle) error

	Encode() ([]byte, error)
}

// WithAlpha returns c with its alpha multiplied by a.
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(float64(c.A)*a + 0.5)
	return c
}

// Hex formats c as #rrggbb, ignoring alpha.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// PathData writes an SVG path with one closed subpath per ring, exterior
// rings first and holes after them for each polygon.
func PathData(mp orb.MultiPolygon) string {
	var sb strings.Builder
	for _, poly := range mp {
		for _, r := range poly {
			writeRing(&sb, r)
		}
	}
	return sb.String()
}

func writeRing(sb *strings.Builder, r orb.Ring) {
	n := len(r)
	if n > 1 && r[0] == r[n-1] {
		n--
	}
	if n < 3 {
		return
	}
	for i := 0; i < n; i++ {
		cmd := 'L'
		if i == 0 {
			cmd = 'M'
		}
		fmt.Fprintf(sb, "%c%s %s", cmd, num(r[i][0]), num(r[i][1]))
	}
	sb.WriteByte('Z')
}

func lineData(lines []orb.LineString) string {
	var sb strings.Builder
	for _, ls := range lines {
		if len(ls) < 2 {
			continue
		}
		for i, p := range ls {
			cmd := 'L'
			if i == 0 {
				cmd = 'M'
			}
			fmt.Fprintf(&sb, "%c%s %s", cmd, num(p[0]), num(p[1]))
		}
	}
	return sb.String()
}

// num formats a coordinate with two decimals and no trailing zeros.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
