package geo

import (
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"

	"github.com/matzehuels/mapposter/pkg/mapdata"
)

// Projector maps lon/lat points into the local metric frame around a centre.
type Projector struct {
	center orb.Point
	origin orb.Point
	k      float64
}

// NewProjector creates a projector centred on (lat, lon).
func NewProjector(lat, lon float64) *Projector {
	c := orb.Point{lon, lat}
	return &Projector{
		center: c,
		origin: project.WGS84.ToMercator(c),
		k:      math.Cos(lat * math.Pi / 180),
	}
}

// Center returns the projection centre as (lon, lat).
func (p *Projector) Center() orb.Point { return p.center }

// Point projects a single lon/lat point.
func (p *Projector) Point(pt orb.Point) orb.Point {
	m := project.WGS84.ToMercator(pt)
	return orb.Point{(m[0] - p.origin[0]) * p.k, (m[1] - p.origin[1]) * p.k}
}

// Inverse maps a local point back to lon/lat.
func (p *Projector) Inverse(pt orb.Point) orb.Point {
	m := orb.Point{pt[0]/p.k + p.origin[0], pt[1]/p.k + p.origin[1]}
	return project.Mercator.ToWGS84(m)
}

// Geometry projects any orb geometry.
func (p *Projector) Geometry(g orb.Geometry) orb.Geometry {
	if g == nil {
		return nil
	}
	return project.Geometry(orb.Clone(g), p.Point)
}

// Street is a projected street-graph edge.
type Street struct {
	Line    orb.LineString
	Highway string // first highway tag, empty if untagged
}

// Projected is a bundle in the local frame. Bounds covers the street-graph
// nodes and is what crops are computed from.
type Projected struct {
	Center    orb.Point
	Nodes     []orb.Point
	Streets   []Street
	Water     orb.MultiPolygon
	Parks     orb.MultiPolygon
	Coastline orb.MultiLineString
	Bounds    orb.Bound
}

// Project moves every layer of b into the frame centred on center (lon, lat).
func Project(b *mapdata.Bundle, center orb.Point) *Projected {
	p := NewProjector(center[1], center[0])
	out := &Projected{Center: center}

	if g := b.Streets; g != nil {
		out.Nodes = make([]orb.Point, len(g.Nodes))
		for i, n := range g.Nodes {
			out.Nodes[i] = p.Point(n.Point())
		}
		for _, e := range g.Edges {
			ls, ok := g.EdgeGeometry(e)
			if !ok {
				continue
			}
			proj := make(orb.LineString, len(ls))
			for i, pt := range ls {
				proj[i] = p.Point(pt)
			}
			out.Streets = append(out.Streets, Street{Line: proj, Highway: firstTag(e.Highway)})
		}
		if len(out.Nodes) > 0 {
			out.Bounds = orb.MultiPoint(out.Nodes).Bound()
		}
	}

	out.Water = polygons(b.Water, p)
	out.Parks = polygons(b.Parks, p)
	out.Coastline = lines(b.Coastline, p)
	return out
}

func firstTag(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return strings.TrimSpace(tags[0])
}

func polygons(fc *geojson.FeatureCollection, p *Projector) orb.MultiPolygon {
	if fc == nil {
		return nil
	}
	var mp orb.MultiPolygon
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			mp = append(mp, p.Geometry(g).(orb.Polygon))
		case orb.MultiPolygon:
			mp = append(mp, p.Geometry(g).(orb.MultiPolygon)...)
		}
	}
	return mp
}

func lines(fc *geojson.FeatureCollection, p *Projector) orb.MultiLineString {
	if fc == nil {
		return nil
	}
	var mls orb.MultiLineString
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.LineString:
			mls = append(mls, p.Geometry(g).(orb.LineString))
		case orb.MultiLineString:
			mls = append(mls, p.Geometry(g).(orb.MultiLineString)...)
		}
	}
	return mls
}

// NormalizeLon wraps a longitude into [-180, 180].
func NormalizeLon(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
