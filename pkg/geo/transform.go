package geo

import "github.com/paulmach/orb"

// Transform maps projected metres onto a canvas whose y axis points down.
// The crop box is scaled uniformly to fit the canvas and any slack is split
// evenly on both sides.
type Transform struct {
	Scale      float64 // canvas units per metre
	OffX, OffY float64
	x0, y1     float64
}

// Fit returns the transform placing the crop box (xlim, ylim) on a w×h
// canvas.
func Fit(xlim, ylim [2]float64, w, h float64) Transform {
	dx, dy := xlim[1]-xlim[0], ylim[1]-ylim[0]
	s := min(w/dx, h/dy)
	return Transform{
		Scale: s,
		OffX:  (w - s*dx) / 2,
		OffY:  (h - s*dy) / 2,
		x0:    xlim[0],
		y1:    ylim[1],
	}
}

// Point maps one point.
func (t Transform) Point(p orb.Point) orb.Point {
	return orb.Point{t.OffX + (p[0]-t.x0)*t.Scale, t.OffY + (t.y1-p[1])*t.Scale}
}

// Ring maps every point of r into a new ring.
func (t Transform) Ring(r orb.Ring) orb.Ring {
	out := make(orb.Ring, len(r))
	for i, p := range r {
		out[i] = t.Point(p)
	}
	return out
}

// LineString maps every point of ls into a new line.
func (t Transform) LineString(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i, p := range ls {
		out[i] = t.Point(p)
	}
	return out
}

// MultiPolygon maps every ring of mp.
func (t Transform) MultiPolygon(mp orb.MultiPolygon) orb.MultiPolygon {
	out := make(orb.MultiPolygon, len(mp))
	for i, poly := range mp {
		out[i] = make(orb.Polygon, len(poly))
		for j, r := range poly {
			out[i][j] = t.Ring(r)
		}
	}
	return out
}
