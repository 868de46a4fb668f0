package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// Face is one bounded region of a polygonized linework.
type Face struct {
	Polygon orb.Polygon

	// Shared[i] is the length of the face boundary contributed by the
	// i-th layer passed to Polygonize.
	Shared []float64
}

// Polygonize returns the bounded faces enclosed by the union of all layers.
// Dangling lines do not contribute. Faces that contain other faces get
// them as holes. At most 32 layers are supported.
func Polygonize(layers ...orb.MultiLineString) []Face {
	var segs []segment
	for i, layer := range layers {
		if i >= 32 {
			break
		}
		tag := uint32(1) << uint(i)
		for _, ls := range layer {
			for j := 1; j < len(ls); j++ {
				if ls[j-1] != ls[j] {
					segs = append(segs, segment{a: ls[j-1], b: ls[j], tags: tag})
				}
			}
		}
	}
	if len(segs) == 0 {
		return nil
	}

	ar := build(segs)

	var (
		faces  []Face
		rings  []orb.Ring
		bounds []orb.Bound
	)
	for c, a := range ar.area {
		if a <= 0 || ar.negligible(a) {
			continue
		}
		r := closeRing(ar.ring(c))
		faces = append(faces, Face{
			Polygon: orb.Polygon{r},
			Shared:  ar.sharedLengths(c, len(layers)),
		})
		rings = append(rings, r)
		bounds = append(bounds, r.Bound())
	}

	for c, a := range ar.area {
		if a >= 0 || ar.negligible(a) {
			continue
		}
		f := smallestContaining(rings, bounds, ar.sample(c))
		if f < 0 {
			continue // outer boundary of a connected component
		}
		faces[f].Polygon = append(faces[f].Polygon, closeRing(ar.ring(c)))
		for i, l := range ar.sharedLengths(c, len(layers)) {
			faces[f].Shared[i] += l
		}
	}
	return faces
}

func (ar *arrangement) sharedLengths(c, layers int) []float64 {
	out := make([]float64, layers)
	for _, h := range ar.cycles[c] {
		tags := ar.edges[h>>1].tags
		l := norm(ar.vec(h))
		for i := 0; i < layers && i < 32; i++ {
			if tags&(1<<uint(i)) != 0 {
				out[i] += l
			}
		}
	}
	return out
}

// smallestContaining returns the index of the smallest ring containing p,
// or -1.
func smallestContaining(rings []orb.Ring, bounds []orb.Bound, p orb.Point) int {
	best, bestArea := -1, math.Inf(1)
	for i, r := range rings {
		if !bounds[i].Contains(p) || !ringContains(r, p) {
			continue
		}
		if a := math.Abs(signedArea(r)); a < bestArea {
			best, bestArea = i, a
		}
	}
	return best
}
