package geom

import (
	"errors"
	"math"
	"sort"

	"github.com/Seanld/canvas"
	"github.com/paulmach/orb"
)

// Tolerance is the flattening tolerance passed to canvas, in input units.
const Tolerance = 1e-3

// ErrDegenerate is returned for lines without two distinct points or a
// non-positive width.
var ErrDegenerate = errors.New("geom: degenerate geometry")

// BufferLine widens ls by halfWidth on both sides with flat end caps and
// mitre joins. Sharp turns past the mitre limit are bevelled. The outline
// is settled, so it never overlaps itself.
func BufferLine(ls orb.LineString, halfWidth float64) (orb.MultiPolygon, error) {
	if halfWidth <= 0 || math.IsNaN(halfWidth) {
		return nil, ErrDegenerate
	}
	pts := dedupe(ls)
	if len(pts) < 2 {
		return nil, ErrDegenerate
	}
	p := &canvas.Path{}
	p.MoveTo(pts[0][0], pts[0][1])
	for _, pt := range pts[1:] {
		p.LineTo(pt[0], pt[1])
	}
	out := fromPath(settle(p.Stroke(2*halfWidth, canvas.ButtCap, canvas.MiterJoin, Tolerance)))
	if len(out) == 0 {
		return nil, ErrDegenerate
	}
	return out, nil
}

// Union merges polygons into non-overlapping polygons. Polygons that share
// an edge or overlap become one. Exterior rings come out counter-clockwise,
// holes clockwise.
func Union(polys []orb.Polygon) orb.MultiPolygon {
	acc := multiPath(polys)
	if acc.Empty() {
		return nil
	}
	return fromPath(settle(acc))
}

// multiPath appends the polygons into one path for a single settle.
func multiPath(polys []orb.Polygon) *canvas.Path {
	p := &canvas.Path{}
	for _, poly := range polys {
		if q := polygonPath(poly); !q.Empty() {
			p = p.Append(q)
		}
	}
	return p
}

// polygonPath converts poly with the exterior counter-clockwise and the
// holes clockwise, the orientation non-zero filling expects.
func polygonPath(poly orb.Polygon) *canvas.Path {
	p := &canvas.Path{}
	for i, r := range poly {
		pts := dedupe(orb.LineString(r))
		if n := len(pts); n > 1 && pts[0] == pts[n-1] {
			pts = pts[:n-1]
		}
		if len(pts) < 3 {
			if i == 0 {
				return p
			}
			continue
		}
		if a := signedArea(pts); (i == 0) != (a > 0) {
			reverse(pts)
		}
		p.MoveTo(pts[0][0], pts[0][1])
		for _, pt := range pts[1:] {
			p.LineTo(pt[0], pt[1])
		}
		p.Close()
	}
	return p
}

func settle(p *canvas.Path) *canvas.Path {
	return p.Settle(canvas.NonZero)
}

// fromPath reads a settled path back into polygons. Counter-clockwise
// subpaths are exteriors and clockwise ones holes.
func fromPath(p *canvas.Path) orb.MultiPolygon {
	if p == nil || p.Empty() {
		return nil
	}
	var rings [][]orb.Point
	var total float64
	for _, sub := range p.Split() {
		var pts []orb.Point
		for _, c := range sub.Coords() {
			pt := orb.Point{c.X, c.Y}
			if len(pts) == 0 || pts[len(pts)-1] != pt {
				pts = append(pts, pt)
			}
		}
		if n := len(pts); n > 1 && pts[0] == pts[n-1] {
			pts = pts[:n-1]
		}
		a := signedArea(pts)
		if len(pts) < 3 || math.Abs(a) <= Tolerance*Tolerance {
			continue
		}
		rings = append(rings, pts)
		total += a
	}
	if total < 0 {
		// Exteriors came out clockwise; flip everything.
		for _, r := range rings {
			reverse(r)
		}
	}
	return assemble(rings)
}

// assemble groups counter-clockwise rings with the clockwise rings they
// enclose.
func assemble(rings [][]orb.Point) orb.MultiPolygon {
	type shell struct {
		ring  orb.Ring
		bound orb.Bound
		area  float64
		holes []orb.Ring
	}
	var shells []*shell
	var holes [][]orb.Point
	var extent orb.Bound
	for i, r := range rings {
		cr := closeRing(r)
		if i == 0 {
			extent = cr.Bound()
		} else {
			extent = extent.Union(cr.Bound())
		}
		if a := signedArea(r); a > 0 {
			shells = append(shells, &shell{ring: cr, bound: cr.Bound(), area: a})
		} else {
			holes = append(holes, r)
		}
	}
	sort.Slice(shells, func(i, j int) bool { return shells[i].area < shells[j].area })
	diag := norm(sub(extent.Max, extent.Min))

	for _, h := range holes {
		// Sample just outside the hole, inside the region around it.
		best, bestLen := 0, -1.0
		for i := range h {
			if l := norm(sub(h[(i+1)%len(h)], h[i])); l > bestLen {
				best, bestLen = i, l
			}
		}
		p := offsetLeft(h[best], sub(h[(best+1)%len(h)], h[best]), diag)
		for _, s := range shells {
			if s.bound.Contains(p) && ringContains(s.ring, p) {
				s.holes = append(s.holes, closeRing(h))
				break
			}
		}
	}

	mp := make(orb.MultiPolygon, 0, len(shells))
	for _, s := range shells {
		poly := orb.Polygon{s.ring}
		mp = append(mp, append(poly, s.holes...))
	}
	return mp
}

func dedupe(ls orb.LineString) []orb.Point {
	out := make([]orb.Point, 0, len(ls))
	for _, p := range ls {
		if math.IsNaN(p[0]) || math.IsNaN(p[1]) {
			continue
		}
		if len(out) == 0 || out[len(out)-1] != p {
			out = append(out, p)
		}
	}
	return out
}

func reverse(pts []orb.Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}
