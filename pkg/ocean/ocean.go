// Package ocean derives the sea polygon of a map from coastline linework.
//
// OSM coastlines are open lines. Adding the edges of the crop box as extra
// cutting lines turns them into closed faces; a face is taken as sea when
// it touches the box edge and the coastline lies between it and the centre
// of the map. The rule is a heuristic and can pick the wrong side when the
// box holds several disconnected coastline pieces or islands.
package ocean

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/mapposter/pkg/geom"
)

// Reasons reported for an absent result.
const (
	ReasonNoCoastline     = "no-coastline"
	ReasonPolygonizeEmpty = "polygonize-empty"
	ReasonNoOceanFace     = "no-ocean-face"
)

// padFraction of the box diagonal is added around the box before clipping
// the coastline, so that it is guaranteed to cross the box edges.
const padFraction = 0.01

// Result is the reconstructed sea, or the reason there is none.
type Result struct {
	Polygon orb.MultiPolygon
	Present bool
	Reason  string
}

func absent(reason string) Result { return Result{Reason: reason} }

// Reconstruct builds the sea polygon inside clipBox. It never fails: any
// error, including a panic in the geometry code, yields an absent result.
func Reconstruct(coastline orb.MultiLineString, clipBox orb.Bound) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = absent(fmt.Sprintf("error: %v", r))
		}
	}()

	if len(coastline) == 0 {
		return absent(ReasonNoCoastline)
	}
	diag := planar.Distance(clipBox.Min, clipBox.Max)
	if diag == 0 {
		return absent("error: empty clip box")
	}
	lines := clip.MultiLineString(clipBox.Pad(diag*padFraction), coastline)
	if len(lines) == 0 {
		return absent(ReasonNoCoastline)
	}

	edges := orb.MultiLineString{orb.LineString(clipBox.ToRing())}
	faces := geom.Polygonize(lines, edges)
	if len(faces) == 0 {
		return absent(ReasonPolygonizeEmpty)
	}

	center := clipBox.Center()
	minShared := diag * 1e-9
	var sea []orb.Polygon
	for _, f := range faces {
		if f.Shared[1] <= minShared {
			continue
		}
		c, _ := planar.CentroidArea(f.Polygon)
		if geom.CrossesAny(c, center, lines) {
			sea = append(sea, f.Polygon)
		}
	}
	if len(sea) == 0 {
		return absent(ReasonNoOceanFace)
	}

	mp := clip.MultiPolygon(clipBox, geom.Union(sea))
	if len(mp) == 0 {
		return absent(ReasonNoOceanFace)
	}
	return Result{Polygon: mp, Present: true}
}
