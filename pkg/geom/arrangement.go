package geom

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

const paramEps = 1e-9

// segment is one input segment. tags records which input layers it came
// from; overlapping segments merge their tags.
type segment struct {
	a, b orb.Point
	tags uint32
}

type edge struct {
	a, b  int
	tags  uint32
	alive bool
}

// arrangement is the planar subdivision induced by a set of segments.
// Edge e owns half-edges 2e (a to b) and 2e+1 (b to a); the face of a
// half-edge lies to its left.
type arrangement struct {
	verts []orb.Point
	edges []edge
	out   [][]int // outgoing half-edges per vertex, counter-clockwise
	pos   []int   // index of a half-edge within out[orig]
	next  []int
	cycle []int

	cycles [][]int
	area   []float64

	bound orb.Bound
	diag  float64
	tol   float64
}

func segmentsBound(segs []segment) orb.Bound {
	b := orb.Bound{Min: segs[0].a, Max: segs[0].a}
	for _, s := range segs {
		b = b.Extend(s.a).Extend(s.b)
	}
	return b
}

// build nodes segs, removes dangling edges repeatedly and traces the
// cycles of the resulting subdivision.
func build(segs []segment) *arrangement {
	ar := &arrangement{}
	if len(segs) == 0 {
		return ar
	}
	ar.bound = segmentsBound(segs)
	ar.diag = norm(sub(ar.bound.Max, ar.bound.Min))
	ar.tol = ar.diag * 1e-10
	if ar.tol == 0 {
		ar.tol = 1e-12
	}

	splits := nodeSegments(segs, ar.tol)

	snap := newSnapper(ar.tol)
	index := make(map[[2]int]int)
	for i, s := range segs {
		sp := splits[i]
		sp = append(sp, split{0, s.a}, split{1, s.b})
		sort.Slice(sp, func(x, y int) bool { return sp[x].t < sp[y].t })

		prev := -1
		for _, p := range sp {
			v := snap.vertex(p.p)
			if prev >= 0 && v != prev {
				k := [2]int{min(prev, v), max(prev, v)}
				if e, ok := index[k]; ok {
					ar.edges[e].tags |= s.tags
				} else {
					index[k] = len(ar.edges)
					ar.edges = append(ar.edges, edge{a: prev, b: v, tags: s.tags, alive: true})
				}
			}
			prev = v
		}
	}
	ar.verts = snap.verts

	ar.prune()
	ar.link()
	ar.trace()
	return ar
}

func (ar *arrangement) orig(h int) int {
	e := ar.edges[h>>1]
	if h&1 == 0 {
		return e.a
	}
	return e.b
}

func (ar *arrangement) dest(h int) int { return ar.orig(h ^ 1) }

func (ar *arrangement) vec(h int) orb.Point {
	return sub(ar.verts[ar.dest(h)], ar.verts[ar.orig(h)])
}

func (ar *arrangement) prune() {
	deg := make([]int, len(ar.verts))
	inc := make([][]int, len(ar.verts))
	for i, e := range ar.edges {
		deg[e.a]++
		deg[e.b]++
		inc[e.a] = append(inc[e.a], i)
		inc[e.b] = append(inc[e.b], i)
	}
	var queue []int
	for v, d := range deg {
		if d == 1 {
			queue = append(queue, v)
		}
	}
	for len(queue) > 0 {
		v := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for _, ei := range inc[v] {
			e := &ar.edges[ei]
			if !e.alive {
				continue
			}
			e.alive = false
			other := e.a
			if other == v {
				other = e.b
			}
			deg[v]--
			deg[other]--
			if deg[other] == 1 {
				queue = append(queue, other)
			}
		}
	}
}

// link sorts outgoing half-edges by angle and sets next so that following
// next walks a face counter-clockwise.
func (ar *arrangement) link() {
	n := 2 * len(ar.edges)
	ar.out = make([][]int, len(ar.verts))
	ar.pos = make([]int, n)
	ar.next = make([]int, n)
	for i := range ar.next {
		ar.next[i] = -1
	}

	angle := make([]float64, n)
	for i, e := range ar.edges {
		if !e.alive {
			continue
		}
		for _, h := range []int{2 * i, 2*i + 1} {
			d := ar.vec(h)
			angle[h] = math.Atan2(d[1], d[0])
			o := ar.orig(h)
			ar.out[o] = append(ar.out[o], h)
		}
	}
	for v := range ar.out {
		hs := ar.out[v]
		sort.Slice(hs, func(i, j int) bool { return angle[hs[i]] < angle[hs[j]] })
		for i, h := range hs {
			ar.pos[h] = i
		}
	}
	for i, e := range ar.edges {
		if !e.alive {
			continue
		}
		for _, h := range []int{2 * i, 2*i + 1} {
			t := h ^ 1
			around := ar.out[ar.orig(t)]
			k := ar.pos[t] - 1
			if k < 0 {
				k = len(around) - 1
			}
			ar.next[h] = around[k]
		}
	}
}

func (ar *arrangement) trace() {
	n := 2 * len(ar.edges)
	ar.cycle = make([]int, n)
	for i := range ar.cycle {
		ar.cycle[i] = -1
	}
	for h := 0; h < n; h++ {
		if ar.next[h] < 0 || ar.cycle[h] >= 0 {
			continue
		}
		c := len(ar.cycles)
		var hs []int
		pts := make([]orb.Point, 0, 8)
		for cur := h; ar.cycle[cur] < 0; cur = ar.next[cur] {
			ar.cycle[cur] = c
			hs = append(hs, cur)
			pts = append(pts, ar.verts[ar.orig(cur)])
		}
		ar.cycles = append(ar.cycles, hs)
		ar.area = append(ar.area, signedArea(pts))
	}
}

// ring returns the vertices of cycle c in traversal order.
func (ar *arrangement) ring(c int) []orb.Point {
	hs := ar.cycles[c]
	pts := make([]orb.Point, len(hs))
	for i, h := range hs {
		pts[i] = ar.verts[ar.orig(h)]
	}
	return pts
}

// sample returns a point just left of the longest half-edge of cycle c,
// which lies inside the face the cycle bounds.
func (ar *arrangement) sample(c int) orb.Point {
	best, bestLen := -1, -1.0
	for _, h := range ar.cycles[c] {
		if l := norm(ar.vec(h)); l > bestLen {
			best, bestLen = h, l
		}
	}
	a := ar.verts[ar.orig(best)]
	d := ar.vec(best)
	return offsetLeft(a, d, ar.diag)
}

func offsetLeft(a, d orb.Point, diag float64) orb.Point {
	l := norm(d)
	off := math.Min(l*1e-3, diag*1e-7)
	mid := add(a, scale(d, 0.5))
	return add(mid, scale(leftNormal(d), off))
}

// negligible reports whether a cycle area is numerical noise.
func (ar *arrangement) negligible(area float64) bool {
	return math.Abs(area) <= ar.tol*ar.diag
}

type split struct {
	t float64
	p orb.Point
}

// snapper merges points within about tol of each other into one vertex.
type snapper struct {
	tol   float64
	cells map[[2]int64]int
	verts []orb.Point
}

func newSnapper(tol float64) *snapper {
	return &snapper{tol: tol, cells: make(map[[2]int64]int)}
}

func (s *snapper) key(p orb.Point) [2]int64 {
	return [2]int64{int64(math.Floor(p[0] / s.tol)), int64(math.Floor(p[1] / s.tol))}
}

func (s *snapper) vertex(p orb.Point) int {
	k := s.key(p)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			if v, ok := s.cells[[2]int64{k[0] + dx, k[1] + dy}]; ok {
				if norm(sub(s.verts[v], p)) <= 1.5*s.tol {
					return v
				}
			}
		}
	}
	v := len(s.verts)
	s.verts = append(s.verts, p)
	s.cells[k] = v
	return v
}
