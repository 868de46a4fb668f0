package fetch

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmgeojson"

	"github.com/matzehuels/mapposter/pkg/mapdata"
)

// StreetGraph builds the simplified street network from highway ways.
// Ways are split at nodes shared with other ways, so every edge runs
// between two intersections or dead ends and keeps the full geometry in
// between.
func StreetGraph(o *osm.OSM) *mapdata.StreetGraph {
	coords := make(map[osm.NodeID]orb.Point, len(o.Nodes))
	for _, n := range o.Nodes {
		coords[n.ID] = orb.Point{n.Lon, n.Lat}
	}

	type way struct {
		refs    []osm.NodeID
		highway []string
		name    string
	}
	var ways []way
	uses := make(map[osm.NodeID]int)
	for _, w := range o.Ways {
		hw := w.Tags.Find("highway")
		if hw == "" {
			continue
		}
		var refs []osm.NodeID
		for _, wn := range w.Nodes {
			if _, ok := coords[wn.ID]; !ok {
				if wn.Lat == 0 && wn.Lon == 0 {
					continue
				}
				coords[wn.ID] = orb.Point{wn.Lon, wn.Lat}
			}
			if len(refs) > 0 && refs[len(refs)-1] == wn.ID {
				continue
			}
			refs = append(refs, wn.ID)
		}
		if len(refs) < 2 {
			continue
		}
		for i, id := range refs {
			uses[id]++
			if i == 0 || i == len(refs)-1 {
				uses[id]++ // endpoints always split
			}
		}
		ways = append(ways, way{refs: refs, highway: splitTag(hw), name: w.Tags.Find("name")})
	}

	g := &mapdata.StreetGraph{}
	seen := make(map[osm.NodeID]bool)
	addNode := func(id osm.NodeID) {
		if seen[id] {
			return
		}
		seen[id] = true
		p := coords[id]
		g.Nodes = append(g.Nodes, mapdata.Node{ID: int64(id), Lon: p[0], Lat: p[1]})
	}

	for _, w := range ways {
		start := 0
		for i := 1; i < len(w.refs); i++ {
			if uses[w.refs[i]] < 2 && i != len(w.refs)-1 {
				continue
			}
			u, v := w.refs[start], w.refs[i]
			line := make(orb.LineString, 0, i-start+1)
			for _, id := range w.refs[start : i+1] {
				line = append(line, coords[id])
			}
			addNode(u)
			addNode(v)
			e := mapdata.Edge{U: int64(u), V: int64(v), Highway: w.highway, Name: w.name}
			if len(line) > 2 {
				e.Geometry = line
			}
			g.Edges = append(g.Edges, e)
			start = i
		}
	}
	return g
}

func splitTag(v string) []string {
	parts := strings.Split(v, ";")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Kind selects which geometries a feature layer keeps.
type Kind int

const (
	Areas Kind = iota // Polygon and MultiPolygon
	Lines             // LineString and MultiLineString
)

// Features converts OSM data to GeoJSON and keeps the geometries of kind.
// It returns nil when nothing remains.
func Features(o *osm.OSM, kind Kind) (*geojson.FeatureCollection, error) {
	fc, err := osmgeojson.Convert(o,
		osmgeojson.NoID(true),
		osmgeojson.NoMeta(true),
		osmgeojson.NoRelationMembership(true))
	if err != nil {
		return nil, err
	}

	out := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
			if kind == Areas {
				out.Append(f)
			}
		case orb.LineString, orb.MultiLineString:
			if kind == Lines {
				out.Append(f)
			}
		}
	}
	if len(out.Features) == 0 {
		return nil, nil
	}
	return out, nil
}
