package geom

import (
	"math"

	"github.com/paulmach/orb"
)

func sub(a, b orb.Point) orb.Point { return orb.Point{a[0] - b[0], a[1] - b[1]} }
func add(a, b orb.Point) orb.Point { return orb.Point{a[0] + b[0], a[1] + b[1]} }
func scale(a orb.Point, s float64) orb.Point { return orb.Point{a[0] * s, a[1] * s} }
func cross(a, b orb.Point) float64 { return a[0]*b[1] - a[1]*b[0] }
func dot(a, b orb.Point) float64 { return a[0]*b[0] + a[1]*b[1] }
func norm(a orb.Point) float64 { return math.Hypot(a[0], a[1]) }

// leftNormal is the unit vector 90 degrees counter-clockwise of d.
func leftNormal(d orb.Point) orb.Point {
	l := norm(d)
	if l == 0 {
		return orb.Point{}
	}
	return orb.Point{-d[1] / l, d[0] / l}
}

// signedArea is positive for counter-clockwise rings. The ring may be open
// or closed.
func signedArea(pts []orb.Point) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var s float64
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		s += a[0]*b[1] - b[0]*a[1]
	}
	return s / 2
}

// closeRing returns pts as a closed orb.Ring.
func closeRing(pts []orb.Point) orb.Ring {
	r := make(orb.Ring, 0, len(pts)+1)
	r = append(r, pts...)
	if len(r) > 0 && r[0] != r[len(r)-1] {
		r = append(r, r[0])
	}
	return r
}

// ringContains is an even-odd test against a single ring.
func ringContains(r []orb.Point, p orb.Point) bool {
	in := false
	n := len(r)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := r[i], r[j]
		if (a[1] > p[1]) != (b[1] > p[1]) {
			x := (b[0]-a[0])*(p[1]-a[1])/(b[1]-a[1]) + a[0]
			if p[0] < x {
				in = !in
			}
		}
	}
	return in
}

// segmentsCross reports whether segments ab and cd share a point.
func segmentsCross(a, b, c, d orb.Point) bool {
	r, s := sub(b, a), sub(d, c)
	den := cross(r, s)
	qp := sub(c, a)
	if den == 0 {
		if cross(qp, r) != 0 {
			return false
		}
		rr := dot(r, r)
		if rr == 0 {
			return a == c || a == d
		}
		t0 := dot(qp, r) / rr
		t1 := dot(sub(d, a), r) / rr
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		return t1 >= 0 && t0 <= 1
	}
	t := cross(qp, s) / den
	u := cross(qp, r) / den
	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}

// CrossesAny reports whether the segment from a to b touches any segment of
// lines.
func CrossesAny(a, b orb.Point, lines orb.MultiLineString) bool {
	sb := orb.Bound{Min: a, Max: a}.Extend(b)
	for _, ls := range lines {
		if len(ls) < 2 || !ls.Bound().Intersects(sb) {
			continue
		}
		for i := 1; i < len(ls); i++ {
			if segmentsCross(a, b, ls[i-1], ls[i]) {
				return true
			}
		}
	}
	return false
}

// Area is the total unsigned area of a multipolygon, holes subtracted.
func Area(mp orb.MultiPolygon) float64 {
	var s float64
	for _, p := range mp {
		for i, r := range p {
			a := math.Abs(signedArea(r))
			if i == 0 {
				s += a
			} else {
				s -= a
			}
		}
	}
	return s
}
