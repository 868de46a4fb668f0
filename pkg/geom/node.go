package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// maxCellsPerSegment bounds how many grid cells a segment is registered in.
// Longer segments are tested against everything instead.
const maxCellsPerSegment = 64

// nodeSegments finds every intersection and collinear overlap between segs
// and returns, per segment, the interior points where it must be split.
func nodeSegments(segs []segment, tol float64) [][]split {
	splits := make([][]split, len(segs))
	if len(segs) < 2 {
		return splits
	}

	bound := segmentsBound(segs)
	var total float64
	for _, s := range segs {
		total += norm(sub(s.b, s.a))
	}
	diag := norm(sub(bound.Max, bound.Min))
	cell := math.Max(2*total/float64(len(segs)), diag/2048)
	if cell <= 0 {
		cell = 1
	}

	cellOf := func(p orb.Point) (int, int) {
		return int((p[0] - bound.Min[0]) / cell), int((p[1] - bound.Min[1]) / cell)
	}

	grid := make(map[[2]int][]int)
	var big []int
	isBig := make([]bool, len(segs))
	for i, s := range segs {
		b := orb.Bound{Min: s.a, Max: s.a}.Extend(s.b)
		x0, y0 := cellOf(b.Min)
		x1, y1 := cellOf(b.Max)
		if (x1-x0+1)*(y1-y0+1) > maxCellsPerSegment {
			big = append(big, i)
			isBig[i] = true
			continue
		}
		for x := x0; x <= x1; x++ {
			for y := y0; y <= y1; y++ {
				grid[[2]int{x, y}] = append(grid[[2]int{x, y}], i)
			}
		}
	}

	nd := &noder{segs: segs, splits: splits, tol: tol}

	for c, members := range grid {
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				a, b := members[i], members[j]
				ba := orb.Bound{Min: segs[a].a, Max: segs[a].a}.Extend(segs[a].b)
				bb := orb.Bound{Min: segs[b].a, Max: segs[b].a}.Extend(segs[b].b)
				if !ba.Intersects(bb) {
					continue
				}
				// Test each pair once, in the cell holding the lower-left
				// corner of the bounds overlap.
				ox, oy := cellOf(orb.Point{math.Max(ba.Min[0], bb.Min[0]), math.Max(ba.Min[1], bb.Min[1])})
				if ox != c[0] || oy != c[1] {
					continue
				}
				nd.intersect(a, b)
			}
		}
	}

	for bi, a := range big {
		ba := orb.Bound{Min: segs[a].a, Max: segs[a].a}.Extend(segs[a].b)
		for _, b := range big[bi+1:] {
			bb := orb.Bound{Min: segs[b].a, Max: segs[b].a}.Extend(segs[b].b)
			if ba.Intersects(bb) {
				nd.intersect(a, b)
			}
		}
		for b := range segs {
			if isBig[b] {
				continue
			}
			bb := orb.Bound{Min: segs[b].a, Max: segs[b].a}.Extend(segs[b].b)
			if ba.Intersects(bb) {
				nd.intersect(a, b)
			}
		}
	}
	return splits
}

type noder struct {
	segs   []segment
	splits [][]split
	tol    float64
}

func (nd *noder) intersect(i, j int) {
	p, p2 := nd.segs[i].a, nd.segs[i].b
	q, q2 := nd.segs[j].a, nd.segs[j].b
	r, s := sub(p2, p), sub(q2, q)
	rr, ss := dot(r, r), dot(s, s)
	if rr == 0 || ss == 0 {
		return
	}
	den := cross(r, s)
	qp := sub(q, p)

	if math.Abs(den) <= 1e-12*math.Sqrt(rr*ss) {
		if math.Abs(cross(qp, r)) > nd.tol*math.Sqrt(rr) {
			return
		}
		for _, pt := range []orb.Point{q, q2} {
			if t := dot(sub(pt, p), r) / rr; t > paramEps && t < 1-paramEps {
				nd.splits[i] = append(nd.splits[i], split{t, pt})
			}
		}
		for _, pt := range []orb.Point{p, p2} {
			if u := dot(sub(pt, q), s) / ss; u > paramEps && u < 1-paramEps {
				nd.splits[j] = append(nd.splits[j], split{u, pt})
			}
		}
		return
	}

	t := cross(qp, s) / den
	u := cross(qp, r) / den
	if t < -paramEps || t > 1+paramEps || u < -paramEps || u > 1+paramEps {
		return
	}
	var pt orb.Point
	switch {
	case t <= paramEps:
		pt = p
	case t >= 1-paramEps:
		pt = p2
	case u <= paramEps:
		pt = q
	case u >= 1-paramEps:
		pt = q2
	default:
		pt = add(p, scale(r, t))
	}
	if t > paramEps && t < 1-paramEps {
		nd.splits[i] = append(nd.splits[i], split{t, pt})
	}
	if u > paramEps && u < 1-paramEps {
		nd.splits[j] = append(nd.splits[j], split{u, pt})
	}
}
