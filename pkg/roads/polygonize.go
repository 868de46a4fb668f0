// Package roads turns street centrelines into merged, cuttable polygons.
//
// Every street is stroked by the width of its class with flat caps and
// mitre joins, clipped to the crop box, and unioned with the other streets
// of its class. Polygons within a class never overlap; different
// classes may, since they end up on separate laser layers.
package roads

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"

	"github.com/matzehuels/mapposter/pkg/geo"
	"github.com/matzehuels/mapposter/pkg/geom"
)

// PolygonSet holds the merged road area of each class. Classes without any
// road inside the box are missing.
type PolygonSet map[Class]orb.MultiPolygon

// Report counts what happened to the input streets.
type Report struct {
	Buffered int // streets that contributed at least one polygon
	Skipped  int // degenerate streets that could not be buffered
	Clipped  int // streets entirely outside the box
}

// Polygonize buffers and merges the streets of p inside clipBox.
func Polygonize(p *geo.Projected, clipBox orb.Bound) (PolygonSet, Report) {
	var rep Report
	pieces := make(map[Class][]orb.Polygon)

	for _, s := range p.Streets {
		class := Classify(s.Highway)
		hw := class.HalfWidth()
		if len(s.Line) == 0 || !s.Line.Bound().Pad(hw).Intersects(clipBox) {
			rep.Clipped++
			continue
		}
		buf, err := geom.BufferLine(s.Line, hw)
		if err != nil {
			rep.Skipped++
			continue
		}
		kept := 0
		for _, poly := range clip.MultiPolygon(clipBox, buf) {
			if len(poly) == 0 || len(poly[0]) < 4 {
				continue
			}
			pieces[class] = append(pieces[class], poly)
			kept++
		}
		if kept == 0 {
			rep.Clipped++
			continue
		}
		rep.Buffered++
	}

	set := make(PolygonSet, len(pieces))
	for class, polys := range pieces {
		if mp := geom.Union(polys); len(mp) > 0 {
			set[class] = mp
		}
	}
	return set, rep
}
